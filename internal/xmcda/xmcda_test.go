package xmcda

import (
	"bytes"
	"errors"
	"io/fs"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/shaiso/xws/internal/xws"
)

const alternativesXML = `<?xml version="1.0" encoding="UTF-8"?>
<xmcda:XMCDA xmlns:xmcda="http://www.decision-deck.org/2012/XMCDA-2.2.0">
  <alternatives>
    <alternative id="a1" name="First"/>
    <alternative id="a2"><active>false</active></alternative>
    <alternative id="a3"/>
  </alternatives>
  <criteria>
    <criterion id="g1"/>
  </criteria>
  <alternatives>
    <alternative id="b1"/>
  </alternatives>
</xmcda:XMCDA>
`

const performanceXML = `<xmcda:XMCDA xmlns:xmcda="http://www.decision-deck.org/2012/XMCDA-2.2.0">
  <performanceTable>
    <alternativePerformances>
      <alternativeID>a1</alternativeID>
      <performance><criterionID>g1</criterionID><value><real>0.5</real></value></performance>
      <performance><criterionID>g2</criterionID><value><integer>3</integer></value></performance>
    </alternativePerformances>
  </performanceTable>
</xmcda:XMCDA>
`

func newTestInput(files fstest.MapFS) *InputTransformer {
	return &InputTransformer{
		Source: func(string) fs.FS { return files },
	}
}

func TestDecode_Element(t *testing.T) {
	v, err := Decode([]byte(alternativesXML), reflect.TypeFor[*Alternatives]())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	alts := v.(*Alternatives)

	// первый элемент, только активные
	if diff := cmp.Diff([]string{"a1", "a3"}, alts.IDs()); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if alts.Alternatives[0].Name != "First" {
		t.Errorf("name = %q", alts.Alternatives[0].Name)
	}
}

func TestDecode_ValueAndSlice(t *testing.T) {
	v, err := Decode([]byte(alternativesXML), reflect.TypeFor[Criteria]())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	crit := v.(Criteria)
	if diff := cmp.Diff([]string{"g1"}, crit.IDs()); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	v, err = Decode([]byte(alternativesXML), reflect.TypeFor[[]*Alternatives]())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := len(v.([]*Alternatives)); got != 2 {
		t.Errorf("expected 2 alternatives elements, got %d", got)
	}
}

func TestDecode_Performance(t *testing.T) {
	v, err := Decode([]byte(performanceXML), reflect.TypeFor[*PerformanceTable]())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	table := v.(*PerformanceTable)

	if got, ok := table.Get("a1", "g1"); !ok || got != 0.5 {
		t.Errorf("a1/g1 = %v, %v", got, ok)
	}
	if got, ok := table.Get("a1", "g2"); !ok || got != 3 {
		t.Errorf("a1/g2 = %v, %v", got, ok)
	}
	if _, ok := table.Get("a2", "g1"); ok {
		t.Error("a2/g1 should be missing")
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		target  reflect.Type
		wantErr error
	}{
		{"missing element", performanceXML, reflect.TypeFor[*Alternatives](), ErrElementNotFound},
		{"wrong root", `<root><alternatives/></root>`, reflect.TypeFor[*Alternatives](), ErrMalformedDocument},
		{"broken xml", `<xmcda:XMCDA><alternatives>`, reflect.TypeFor[*Alternatives](), ErrMalformedDocument},
		{"empty", ``, reflect.TypeFor[*Alternatives](), ErrMalformedDocument},
		{"unsupported", alternativesXML, reflect.TypeFor[int](), ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.target)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestInputTransformer(t *testing.T) {
	in := newTestInput(fstest.MapFS{
		"alternatives.xml": {Data: []byte(alternativesXML)},
	})

	// строка
	v, err := in.Transform(xws.InputRequest{Field: "raw", Type: reflect.TypeFor[string](), FileName: "alternatives.xml"})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if v.(string) != alternativesXML {
		t.Error("string should be file content")
	}

	// необязательный файл отсутствует
	v, err = in.Transform(xws.InputRequest{Type: reflect.TypeFor[*Criteria](), FileName: "criteria.xml", Optional: true})
	if err != nil || v != nil {
		t.Errorf("expected (nil, nil), got (%v, %v)", v, err)
	}

	// обязательный файл отсутствует
	_, err = in.Transform(xws.InputRequest{Type: reflect.TypeFor[*Criteria](), FileName: "criteria.xml"})
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestInputTransformer_CustomTransformer(t *testing.T) {
	in := newTestInput(fstest.MapFS{
		"alternatives.xml": {Data: []byte(alternativesXML)},
	})
	count := xws.Func(func(a *Alternatives) (int, error) { return len(a.IDs()), nil })

	v, err := in.Transform(xws.InputRequest{
		Type:        reflect.TypeFor[int](),
		Transformer: count,
		FileName:    "alternatives.xml",
	})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if v.(int) != 2 {
		t.Errorf("count = %v, want 2", v)
	}
}

func TestOutputTransformer_As(t *testing.T) {
	out := NewOutputTransformer(false)
	failures := []*xws.InvalidInputError{
		xws.NewInvalidInput("criteria", "criteria.xml", errors.New("missing")),
	}

	v, err := out.As(failures, reflect.TypeFor[[]string]())
	if err != nil {
		t.Fatalf("As: %v", err)
	}
	if diff := cmp.Diff([]string{"field criteria (criteria.xml): missing"}, v); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	v, err = out.As(failures, reflect.TypeFor[*MethodMessages]())
	if err != nil {
		t.Fatalf("As: %v", err)
	}
	if m := v.(*MethodMessages); len(m.Errors) != 1 || m.Errors[0].Name != "criteria" {
		t.Errorf("messages = %+v", m)
	}

	// пустой список даёт не-nil значение
	v, err = out.As([]*xws.InvalidInputError{}, reflect.TypeFor[[]error]())
	if err != nil {
		t.Fatalf("As: %v", err)
	}
	if v.([]error) == nil {
		t.Error("expected non-nil slice")
	}

	if _, err := out.As(failures, reflect.TypeFor[int]()); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestOutputTransformer_Document(t *testing.T) {
	out := NewOutputTransformer(true)

	alts := &Alternatives{Alternatives: []Alternative{{ID: "a1"}}}
	doc, err := out.Document(alts, reflect.TypeFor[*Alternatives]())
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if doc.Kind() != "alternatives" {
		t.Errorf("kind = %q", doc.Kind())
	}

	doc, err = out.Document([]AlternativesValues{{}, {}}, reflect.TypeFor[[]AlternativesValues]())
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if doc.Kind() != "alternativesValues,alternativesValues" {
		t.Errorf("kind = %q", doc.Kind())
	}

	doc, err = out.Document("<x/>", reflect.TypeFor[string]())
	if err != nil || doc.Kind() != "raw" {
		t.Errorf("string should become raw document, got %v, %v", doc, err)
	}

	if _, err := out.Document(42, reflect.TypeFor[int]()); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	values := &AlternativesValues{
		MCDAConcept: "ranks",
		Values: []AlternativeValue{
			{AlternativeID: "a1", Value: Integer(1)},
			{AlternativeID: "a2", Value: Real(0.25)},
		},
	}

	var buf bytes.Buffer
	if err := NewWriter().Write(NewDocument(values), &buf, true); err != nil {
		t.Fatalf("Write: %v", err)
	}

	text := buf.String()
	for _, s := range []string{`<?xml version="1.0"`, `<xmcda:XMCDA xmlns:xmcda="` + Namespace + `">`, `<integer>1</integer>`} {
		if !strings.Contains(text, s) {
			t.Errorf("output should contain %q:\n%s", s, text)
		}
	}

	parsed, err := ParseDocument(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(parsed.Content) != 1 {
		t.Fatalf("expected 1 element, got %d", len(parsed.Content))
	}
	got := parsed.Content[0].(*AlternativesValues)
	if got.MCDAConcept != "ranks" || len(got.Values) != 2 {
		t.Errorf("parsed = %+v", got)
	}
	if f, _ := got.Values[1].Value.Float(); f != 0.25 {
		t.Errorf("a2 = %v", f)
	}
}

func TestWriter_Validate(t *testing.T) {
	bad := NewDocument(&Alternatives{Alternatives: []Alternative{{ID: "a1"}, {ID: "a1"}}})

	var buf bytes.Buffer
	if err := NewWriter().Write(bad, &buf, true); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written on validation error")
	}

	// без проверки записывается
	if err := NewWriter().Write(bad, &buf, false); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := NewWriter().Write(RawDocument("<a><b></a>"), &buf, true); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for raw, got %v", err)
	}
}

func TestParseDocument_UnknownElement(t *testing.T) {
	doc, err := ParseDocument([]byte(`<xmcda:XMCDA xmlns:xmcda="x"><projectReference id="p"/><criteria/></xmcda:XMCDA>`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Kind() != "projectReference,criteria" {
		t.Errorf("kind = %q", doc.Kind())
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

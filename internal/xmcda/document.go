package xmcda

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// Document — документ XMCDA с корнем <xmcda:XMCDA>.
type Document struct {
	XMLName xml.Name `xml:"xmcda:XMCDA"`
	NS      string   `xml:"xmlns:xmcda,attr"`
	Content []any
}

// NewDocument создаёт документ из элементов.
func NewDocument(content ...any) *Document {
	return &Document{
		NS:      Namespace,
		Content: content,
	}
}

// Kind возвращает имена элементов документа через запятую.
func (d *Document) Kind() string {
	names := make([]string, 0, len(d.Content))
	for _, c := range d.Content {
		names = append(names, elementNameOf(c))
	}
	return strings.Join(names, ",")
}

// Validate проверяет все элементы документа.
func (d *Document) Validate() error {
	if len(d.Content) == 0 {
		return fmt.Errorf("%w: empty document", ErrValidation)
	}
	for _, c := range d.Content {
		el, ok := asElement(c)
		if !ok {
			if _, raw := c.(*RawElement); raw {
				continue
			}
			return fmt.Errorf("%w: unknown element %T", ErrValidation, c)
		}
		if err := el.validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrValidation, el.elementName(), err)
		}
	}
	return nil
}

// RawDocument — готовый XML, записывается как есть.
type RawDocument []byte

// Kind возвращает "raw".
func (d RawDocument) Kind() string { return "raw" }

// Validate проверяет, что XML корректно сформирован.
func (d RawDocument) Validate() error {
	dec := xml.NewDecoder(bytes.NewReader(d))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
}

// RawElement — элемент неизвестного типа, сохранённый без разбора.
type RawElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   string     `xml:",innerxml"`
}

// knownElements — элементы, которые ParseDocument декодирует в типы модели.
var knownElements = map[string]reflect.Type{
	"alternatives":       reflect.TypeFor[Alternatives](),
	"criteria":           reflect.TypeFor[Criteria](),
	"criteriaValues":     reflect.TypeFor[CriteriaValues](),
	"performanceTable":   reflect.TypeFor[PerformanceTable](),
	"alternativesValues": reflect.TypeFor[AlternativesValues](),
	"methodMessages":     reflect.TypeFor[MethodMessages](),
}

// ParseDocument разбирает документ целиком.
// Известные элементы декодируются в типы модели, остальные в *RawElement.
func ParseDocument(data []byte) (*Document, error) {
	doc := NewDocument()
	err := walkChildren(data, func(dec *xml.Decoder, se xml.StartElement) (bool, error) {
		var target any
		if t, ok := knownElements[se.Name.Local]; ok {
			target = reflect.New(t).Interface()
		} else {
			target = &RawElement{}
		}
		if err := dec.DecodeElement(target, &se); err != nil {
			return false, err
		}
		doc.Content = append(doc.Content, target)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// walkChildren вызывает fn для каждого дочернего элемента корня.
// fn должен поглотить элемент целиком (DecodeElement или Skip);
// false прекращает обход.
func walkChildren(data []byte, fn func(dec *xml.Decoder, se xml.StartElement) (bool, error)) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	rootSeen := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if !rootSeen {
				if t.Name.Local != "XMCDA" {
					return fmt.Errorf("%w: root element is <%s>, want <XMCDA>", ErrMalformedDocument, t.Name.Local)
				}
				rootSeen = true
				continue
			}
			more, err := fn(dec, t)
			if err != nil {
				return fmt.Errorf("%w: <%s>: %v", ErrMalformedDocument, t.Name.Local, err)
			}
			if !more {
				return nil
			}
		case xml.EndElement:
			// закрытие корня
			return nil
		}
	}

	if !rootSeen {
		return fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}
	return nil
}

// elementNameOf возвращает имя XML-элемента значения.
func elementNameOf(v any) string {
	if raw, ok := v.(*RawElement); ok {
		return raw.XMLName.Local
	}
	if el, ok := asElement(v); ok {
		return el.elementName()
	}
	if name, ok := xmlElementName(reflect.TypeOf(v)); ok {
		return name
	}
	return fmt.Sprintf("%T", v)
}

// xmlElementName возвращает имя из тега поля XMLName структуры (или указателя на неё).
func xmlElementName(t reflect.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return "", false
	}
	f, ok := t.FieldByName("XMLName")
	if !ok || f.Type != reflect.TypeFor[xml.Name]() {
		return "", false
	}
	name, _, _ := strings.Cut(f.Tag.Get("xml"), ",")
	// "ns local" — берём local
	if i := strings.LastIndexByte(name, ' '); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "", false
	}
	return name, true
}

// asElement приводит элемент модели (значение или указатель) к element.
func asElement(v any) (element, bool) {
	if el, ok := v.(element); ok {
		return el, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)
	el, ok := p.Interface().(element)
	return el, ok
}

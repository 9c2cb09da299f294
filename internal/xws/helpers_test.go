package xws

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

// Тестовые сервисы

type criteriaService struct {
	Errors   []*InvalidInputError
	Criteria string
	executed bool
}

func (s *criteriaService) Execute(context.Context) error {
	s.executed = true
	return nil
}

var criteriaType = Define("criteria", func() *criteriaService { return &criteriaService{} },
	ErrorsField("errors", func(s *criteriaService) *[]*InvalidInputError { return &s.Errors }),
	Input("criteria", func(s *criteriaService) *string { return &s.Criteria }),
)

type countingService struct {
	Errors []*InvalidInputError
	calls  int
}

func (s *countingService) Execute(context.Context) error {
	s.calls++
	return nil
}

var countingType = Define("counting", func() *countingService { return &countingService{} },
	ErrorsField("errors", func(s *countingService) *[]*InvalidInputError { return &s.Errors }),
)

type notService struct {
	Errors []*InvalidInputError
}

var notServiceType = Define("not-a-service", func() *notService { return &notService{} },
	ErrorsField("errors", func(s *notService) *[]*InvalidInputError { return &s.Errors }),
)

// Тестовые трансформеры

type fakeInput struct {
	values  map[string]any
	errs    map[string]error
	fixed   any
	failAll error
	calls   []InputRequest
}

func (f *fakeInput) Transform(req InputRequest) (any, error) {
	f.calls = append(f.calls, req)

	if f.failAll != nil {
		return nil, f.failAll
	}
	if err, ok := f.errs[req.FileName]; ok {
		return nil, err
	}
	if f.fixed != nil {
		return f.fixed, nil
	}

	v, ok := f.values[req.FileName]
	if !ok {
		if req.Optional {
			return nil, nil
		}
		return nil, fmt.Errorf("file %s not found", req.FileName)
	}
	if req.Transformer != nil {
		return req.Transformer.Apply(v)
	}
	return v, nil
}

type fakeDoc struct {
	kind  string
	value any
}

func (d fakeDoc) Kind() string { return d.kind }

type fakeOutput struct {
	validates bool
	documents []any
}

func (f *fakeOutput) As(value any, target reflect.Type) (any, error) {
	errs, ok := value.([]*InvalidInputError)
	if !ok {
		return nil, fmt.Errorf("unexpected value %T", value)
	}

	switch target {
	case reflect.TypeFor[[]*InvalidInputError]():
		return errs, nil
	case reflect.TypeFor[[]string]():
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return msgs, nil
	}
	return nil, fmt.Errorf("unsupported target %s", target)
}

func (f *fakeOutput) Document(value any, declared reflect.Type) (Document, error) {
	f.documents = append(f.documents, value)
	return fakeDoc{kind: declared.String(), value: value}, nil
}

func (f *fakeOutput) Validates() bool { return f.validates }

type fakeWriter struct {
	validated []bool
}

func (w *fakeWriter) Write(doc Document, out io.Writer, validate bool) error {
	w.validated = append(w.validated, validate)
	_, err := fmt.Fprint(out, doc.(fakeDoc).value)
	return err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestExecutor создаёт executor с фейковыми трансформерами.
func newTestExecutor(t *testing.T, reg *Registry, in InputTransform) (*Executor, *fakeOutput, *fakeWriter) {
	t.Helper()

	if reg == nil {
		reg = NewRegistry()
	}
	out := &fakeOutput{}
	w := &fakeWriter{}

	exec, err := New(Options{
		Registry: reg,
		Input:    in,
		Output:   out,
		Writer:   w,
		Logger:   discardLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return exec, out, w
}

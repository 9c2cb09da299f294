package xws

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	// Пустой реестр
	if r.Count() != 0 {
		t.Errorf("expected empty registry")
	}

	r.Register(criteriaType)
	r.Register(countingType)
	if r.Count() != 2 {
		t.Errorf("expected 2 types, got %d", r.Count())
	}

	typ, err := r.Lookup("criteria")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typ != criteriaType {
		t.Errorf("expected criteria type")
	}

	// Несуществующий тип
	if _, err := r.Lookup("unknown"); !errors.Is(err, ErrUnresolvableWorkerType) {
		t.Errorf("expected ErrUnresolvableWorkerType, got %v", err)
	}

	// По экземпляру
	typ, err = r.TypeOf(&countingService{})
	if err != nil || typ != countingType {
		t.Errorf("TypeOf = %v, %v", typ, err)
	}

	if diff := cmp.Diff([]string{"counting", "criteria"}, r.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	r.Unregister("counting")
	if r.Has("counting") {
		t.Error("should not have counting after unregister")
	}
	if _, err := r.TypeOf(&countingService{}); !errors.Is(err, ErrUnresolvableWorkerType) {
		t.Errorf("expected ErrUnresolvableWorkerType, got %v", err)
	}
}

func TestRegistry_Replace(t *testing.T) {
	r := NewRegistry()
	r.Register(countingType)

	// тот же Go-тип под тем же именем, другое описание
	replacement := Define("counting", func() *criteriaService { return &criteriaService{} },
		ErrorsField("errors", func(s *criteriaService) *[]*InvalidInputError { return &s.Errors }),
	)
	r.Register(replacement)

	if _, err := r.TypeOf(&countingService{}); err == nil {
		t.Error("old Go type should be removed")
	}
	typ, _ := r.Lookup("counting")
	if typ != replacement {
		t.Error("expected replacement")
	}
}

func TestRegistry_SharedGoType(t *testing.T) {
	r := NewRegistry()

	alias := Define("criteria-alias", func() *criteriaService { return &criteriaService{} },
		ErrorsField("errors", func(s *criteriaService) *[]*InvalidInputError { return &s.Errors }),
	)
	r.Register(criteriaType)
	r.Register(alias)

	// последний зарегистрированный
	if typ, err := r.TypeOf(&criteriaService{}); err != nil || typ != alias {
		t.Fatalf("TypeOf = %v, %v; want alias", typ, err)
	}

	// удаление одного имени не ломает экземпляры другого
	r.Unregister("criteria-alias")
	typ, err := r.TypeOf(&criteriaService{})
	if err != nil || typ != criteriaType {
		t.Fatalf("TypeOf after unregister = %v, %v; want criteria", typ, err)
	}

	r.Register(alias)
	r.Unregister("criteria")
	if typ, err := r.TypeOf(&criteriaService{}); err != nil || typ != alias {
		t.Fatalf("TypeOf = %v, %v; want alias", typ, err)
	}

	r.Unregister("criteria-alias")
	if _, err := r.TypeOf(&criteriaService{}); !errors.Is(err, ErrUnresolvableWorkerType) {
		t.Errorf("expected ErrUnresolvableWorkerType, got %v", err)
	}
}

func TestType_Fields(t *testing.T) {
	if !criteriaType.IsService() {
		t.Error("criteria should be a service")
	}
	if notServiceType.IsService() {
		t.Error("notService should not be a service")
	}

	fields := multiInputType.Fields()
	var got []string
	for _, f := range fields {
		got = append(got, f.Role.String()+":"+f.File())
	}
	want := []string{"errors:errors.xml", "input:a.xml", "input:bee.xml", "input:c.xml"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	// Fields возвращает копию
	fields[0].Name = "changed"
	if multiInputType.Fields()[0].Name != "errors" {
		t.Error("Fields should return a copy")
	}
}

func TestOutput_NeverOptional(t *testing.T) {
	f := Output("x", func(s *criteriaService) *string { return &s.Criteria }, Optional())
	if f.Optional {
		t.Error("output field should not be optional")
	}
}

func TestField_SetWrongType(t *testing.T) {
	f := Input("criteria", func(s *criteriaService) *string { return &s.Criteria })

	if err := f.set(&criteriaService{}, 42); !errors.Is(err, ErrFieldAccessDenied) {
		t.Errorf("expected ErrFieldAccessDenied, got %v", err)
	}
	if err := f.set(&countingService{}, "x"); !errors.Is(err, ErrFieldAccessDenied) {
		t.Errorf("expected ErrFieldAccessDenied for wrong instance, got %v", err)
	}

	svc := &criteriaService{Criteria: "x"}
	if err := f.set(svc, nil); err != nil || svc.Criteria != "" {
		t.Errorf("nil should reset to zero, got %q, %v", svc.Criteria, err)
	}
}

package xws

import (
	"context"
	"fmt"
	"reflect"
)

// Service — исполняемый сервис.
//
// Executor заполняет поля сервиса согласно его описанию (Type),
// вызывает Execute и записывает выходные поля.
// Execute может вернуть *InvalidInputError: такая ошибка
// добавляется к ошибкам входных данных и не считается фатальной.
type Service interface {
	Execute(ctx context.Context) error
}

var serviceType = reflect.TypeFor[Service]()

// Role — роль поля сервиса.
type Role int

const (
	// RoleErrors — поле получает накопленные ошибки входных данных.
	RoleErrors Role = iota + 1

	// RoleInputDirectory — поле получает путь входной директории.
	RoleInputDirectory

	// RoleOutputDirectory — поле получает путь выходной директории.
	RoleOutputDirectory

	// RoleInput — поле заполняется из файла.
	RoleInput

	// RoleOutput — поле записывается в файл.
	RoleOutput
)

// String возвращает строковое представление Role.
func (r Role) String() string {
	switch r {
	case RoleErrors:
		return "errors"
	case RoleInputDirectory:
		return "input-directory"
	case RoleOutputDirectory:
		return "output-directory"
	case RoleInput:
		return "input"
	case RoleOutput:
		return "output"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// HasFile возвращает true для ролей, связанных с файлом.
func (r Role) HasFile() bool {
	return r == RoleInput || r == RoleOutput
}

// Field — описание одного поля сервиса.
//
// Создаётся конструкторами ErrorsField, InputDirectory, OutputDirectory,
// Input и Output; чтение и запись идут через типизированные замыкания.
type Field struct {
	Role        Role
	Name        string
	FileName    string // явное имя файла, "" — <Name>.xml
	Optional    bool
	Transformer TransformerFactory
	Type        reflect.Type

	get func(inst any) (any, error)
	set func(inst any, v any) error
}

// File возвращает имя файла поля: явное или <Name>.xml.
func (f Field) File() string {
	if f.FileName != "" {
		return f.FileName
	}
	return f.Name + ".xml"
}

// FieldOption настраивает входное или выходное поле.
type FieldOption func(*Field)

// Named задаёт явное имя файла.
func Named(fileName string) FieldOption {
	return func(f *Field) { f.FileName = fileName }
}

// Optional помечает входное поле как необязательное.
func Optional() FieldOption {
	return func(f *Field) { f.Optional = true }
}

// WithTransformer задаёт пользовательский трансформер поля.
func WithTransformer(factory TransformerFactory) FieldOption {
	return func(f *Field) { f.Transformer = factory }
}

// ErrorsField описывает поле, получающее ошибки входных данных.
func ErrorsField[W any, T any](name string, ref func(W) *T) Field {
	return newField(RoleErrors, name, ref)
}

// InputDirectory описывает поле входной директории.
func InputDirectory[W any](name string, ref func(W) *string) Field {
	return newField(RoleInputDirectory, name, ref)
}

// OutputDirectory описывает поле выходной директории.
func OutputDirectory[W any](name string, ref func(W) *string) Field {
	return newField(RoleOutputDirectory, name, ref)
}

// Input описывает поле, заполняемое из файла.
func Input[W any, T any](name string, ref func(W) *T, opts ...FieldOption) Field {
	f := newField(RoleInput, name, ref)
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Output описывает поле, записываемое в файл.
func Output[W any, T any](name string, ref func(W) *T, opts ...FieldOption) Field {
	f := newField(RoleOutput, name, ref)
	for _, opt := range opts {
		opt(&f)
	}
	// необязательность не имеет смысла для выходов
	f.Optional = false
	return f
}

func newField[W any, T any](role Role, name string, ref func(W) *T) Field {
	return Field{
		Role: role,
		Name: name,
		Type: reflect.TypeFor[T](),
		get: func(inst any) (any, error) {
			p, err := fieldPtr(name, inst, ref)
			if err != nil {
				return nil, err
			}
			return *p, nil
		},
		set: func(inst any, v any) error {
			p, err := fieldPtr(name, inst, ref)
			if err != nil {
				return err
			}
			if v == nil {
				var zero T
				*p = zero
				return nil
			}
			tv, ok := v.(T)
			if !ok {
				return fmt.Errorf("%w: field %s: value of type %T is not assignable to %s",
					ErrFieldAccessDenied, name, v, reflect.TypeFor[T]())
			}
			*p = tv
			return nil
		},
	}
}

func fieldPtr[W any, T any](name string, inst any, ref func(W) *T) (*T, error) {
	w, ok := inst.(W)
	if !ok {
		return nil, fmt.Errorf("%w: field %s: instance %T is not %s",
			ErrFieldAccessDenied, name, inst, reflect.TypeFor[W]())
	}
	p := ref(w)
	if p == nil {
		return nil, fmt.Errorf("%w: field %s: nil reference", ErrFieldAccessDenied, name)
	}
	return p, nil
}

// isMissing сообщает, отсутствует ли значение (nil указатель, срез, map, интерфейс).
func isMissing(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Type — зарегистрированный тип сервиса.
type Type struct {
	name   string
	goType reflect.Type
	newFn  func() any
	fields []Field
	err    error // ошибка описания, возвращается при разрешении
}

// Define описывает тип сервиса: имя, конструктор и поля.
//
//	var CriteriaType = xws.Define("criteria", NewCriteria,
//	    xws.ErrorsField("errors", func(s *Criteria) *[]*xws.InvalidInputError { return &s.Errors }),
//	    xws.Input("criteria", func(s *Criteria) *string { return &s.Criteria }),
//	)
//
// W может не реализовывать Service: это проверяется при разрешении.
// W должен быть указателем: иначе поля записывались бы в копию
// экземпляра, и разрешение такого типа возвращает ErrFieldAccessDenied.
func Define[W any](name string, newFn func() W, fields ...Field) *Type {
	t := &Type{
		name:   name,
		goType: reflect.TypeFor[W](),
		newFn:  func() any { return newFn() },
		fields: append([]Field(nil), fields...),
	}
	if t.goType.Kind() != reflect.Pointer {
		t.err = fmt.Errorf("%w: %s: worker type %v is not a pointer, field writes would be lost",
			ErrFieldAccessDenied, name, t.goType)
	}
	return t
}

// Name возвращает имя типа.
func (t *Type) Name() string {
	return t.name
}

// GoType возвращает Go-тип экземпляров.
func (t *Type) GoType() reflect.Type {
	return t.goType
}

// Fields возвращает копию описаний полей в порядке объявления.
func (t *Type) Fields() []Field {
	return append([]Field(nil), t.fields...)
}

// IsService сообщает, реализует ли тип Service.
func (t *Type) IsService() bool {
	return t.goType.Implements(serviceType)
}

// New создаёт новый экземпляр.
func (t *Type) New() any {
	return t.newFn()
}

// fieldsWithRole возвращает поля с указанной ролью в порядке объявления.
func (t *Type) fieldsWithRole(role Role) []Field {
	var out []Field
	for _, f := range t.fields {
		if f.Role == role {
			out = append(out, f)
		}
	}
	return out
}

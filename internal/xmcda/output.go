package xmcda

import (
	"fmt"
	"reflect"

	"github.com/shaiso/xws/internal/xws"
)

// OutputTransformer строит документы XMCDA из выходных полей
// и приводит ошибки входных данных к типу поля ошибок.
type OutputTransformer struct {
	// Validate включает проверку документов при записи.
	Validate bool
}

// NewOutputTransformer создаёт трансформер.
func NewOutputTransformer(validate bool) *OutputTransformer {
	return &OutputTransformer{Validate: validate}
}

// Validates реализует xws.OutputTransform.
func (t *OutputTransformer) Validates() bool {
	return t.Validate
}

// As приводит список ошибок к типу поля ошибок.
//
// Поддерживаются []*xws.InvalidInputError, []error, []string,
// *MethodMessages и MethodMessages. Результат никогда не nil.
func (t *OutputTransformer) As(value any, target reflect.Type) (any, error) {
	failures, ok := value.([]*xws.InvalidInputError)
	if !ok {
		if value != nil && reflect.TypeOf(value).AssignableTo(target) {
			return value, nil
		}
		return nil, fmt.Errorf("%w: cannot convert %T to %s", ErrUnsupportedType, value, target)
	}

	switch target {
	case reflect.TypeFor[[]*xws.InvalidInputError]():
		return append(make([]*xws.InvalidInputError, 0, len(failures)), failures...), nil
	case reflect.TypeFor[[]error]():
		out := make([]error, 0, len(failures))
		for _, f := range failures {
			out = append(out, f)
		}
		return out, nil
	case reflect.TypeFor[[]string]():
		out := make([]string, 0, len(failures))
		for _, f := range failures {
			out = append(out, f.Error())
		}
		return out, nil
	case reflect.TypeFor[*MethodMessages]():
		return ErrorMessages(failures), nil
	case reflect.TypeFor[MethodMessages]():
		return *ErrorMessages(failures), nil
	}
	return nil, fmt.Errorf("%w: errors field of type %s", ErrUnsupportedType, target)
}

// Document реализует xws.OutputTransform.
func (t *OutputTransformer) Document(value any, declared reflect.Type) (xws.Document, error) {
	switch v := value.(type) {
	case *Document:
		return v, nil
	case RawDocument:
		return v, nil
	case []byte:
		return RawDocument(v), nil
	case string:
		return RawDocument(v), nil
	case []*xws.InvalidInputError:
		return NewDocument(ErrorMessages(v)), nil
	case []string:
		m := &MethodMessages{}
		for _, s := range v {
			m.AddError(s)
		}
		return NewDocument(m), nil
	case []error:
		m := &MethodMessages{}
		for _, err := range v {
			m.AddError(err.Error())
		}
		return NewDocument(m), nil
	}

	rv := reflect.ValueOf(value)
	if _, ok := xmlElementName(rv.Type()); ok {
		return NewDocument(value), nil
	}
	if rv.Kind() == reflect.Slice {
		if _, ok := xmlElementName(rv.Type().Elem()); ok {
			content := make([]any, 0, rv.Len())
			for i := range rv.Len() {
				item := rv.Index(i)
				if item.Kind() == reflect.Pointer && item.IsNil() {
					continue
				}
				content = append(content, item.Interface())
			}
			return NewDocument(content...), nil
		}
	}
	return nil, fmt.Errorf("%w: output of type %s (declared %s)", ErrUnsupportedType, rv.Type(), declared)
}

// ErrorMessages превращает ошибки входных данных в <methodMessages>.
func ErrorMessages(failures []*xws.InvalidInputError) *MethodMessages {
	m := &MethodMessages{}
	for _, f := range failures {
		m.Errors = append(m.Errors, Message{Name: f.Field, Text: f.Error()})
	}
	return m
}

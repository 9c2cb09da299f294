package xws

import (
	"fmt"
	"io"
	"reflect"
)

// InputRequest — запрос на получение значения входного поля.
type InputRequest struct {
	// Field — имя поля (для сообщений об ошибках).
	Field string

	// Type — объявленный тип поля.
	Type reflect.Type

	// Transformer — пользовательский трансформер поля, nil если не задан.
	Transformer Transformer

	// FileName — имя файла во входной директории.
	FileName string

	// Directory — входная директория, "" если не задана.
	Directory string

	// Optional — отсутствие файла не является ошибкой.
	Optional bool
}

// InputTransform превращает файл во входной директории в значение поля.
//
// Возвращает (nil, nil), если значения нет (необязательное поле без файла).
// Ошибка означает невалидные входные данные и накапливается executor'ом.
type InputTransform interface {
	Transform(req InputRequest) (any, error)
}

// Document — сериализуемая единица, которую записывает DocumentWriter.
type Document interface {
	// Kind возвращает имя основного элемента документа (для логов).
	Kind() string
}

// OutputTransform превращает значения полей в документы.
type OutputTransform interface {
	// As приводит значение к типу target. Используется для поля ошибок.
	As(value any, target reflect.Type) (any, error)

	// Document строит документ из значения объявленного типа declared.
	Document(value any, declared reflect.Type) (Document, error)

	// Validates сообщает, нужно ли валидировать документы при записи.
	Validates() bool
}

// DocumentWriter записывает документ в поток байт.
type DocumentWriter interface {
	Write(doc Document, w io.Writer, validate bool) error
}

// Transformer — пользовательское преобразование значения поля.
//
// Для входного поля: In — тип, читаемый из файла, Out — тип поля.
// Для выходного поля: In — тип поля, Out — тип, передаваемый в OutputTransform.
type Transformer interface {
	In() reflect.Type
	Out() reflect.Type
	Apply(v any) (any, error)
}

// TransformerFactory создаёт трансформер на время одного выполнения.
type TransformerFactory func() (Transformer, error)

// Func создаёт типизированный трансформер из функции.
func Func[In, Out any](fn func(In) (Out, error)) Transformer {
	return funcTransformer[In, Out]{fn: fn}
}

// Use возвращает фабрику, всегда отдающую один и тот же трансформер.
func Use(t Transformer) TransformerFactory {
	return func() (Transformer, error) {
		return t, nil
	}
}

type funcTransformer[In, Out any] struct {
	fn func(In) (Out, error)
}

func (f funcTransformer[In, Out]) In() reflect.Type  { return reflect.TypeFor[In]() }
func (f funcTransformer[In, Out]) Out() reflect.Type { return reflect.TypeFor[Out]() }

func (f funcTransformer[In, Out]) Apply(v any) (any, error) {
	in, ok := v.(In)
	if !ok {
		// nil допустим для интерфейсных и ссылочных типов
		if v != nil {
			return nil, fmt.Errorf("%w: got %T, want %s", ErrTransformerFieldMismatch, v, f.In())
		}
	}
	return f.fn(in)
}

// instantiate вызывает фабрику трансформера поля.
func instantiate(f Field) (Transformer, error) {
	if f.Transformer == nil {
		return nil, nil
	}
	t, err := f.Transformer()
	if err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", ErrTransformerInstantiationFailed, f.Name, err)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: field %s: factory returned nil", ErrTransformerInstantiationFailed, f.Name)
	}
	return t, nil
}

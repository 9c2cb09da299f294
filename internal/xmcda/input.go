package xmcda

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"

	"github.com/shaiso/xws/internal/xws"
)

var (
	bytesType    = reflect.TypeFor[[]byte]()
	documentType = reflect.TypeFor[*Document]()
)

// InputTransformer читает входные поля из файлов XMCDA.
type InputTransformer struct {
	// Source открывает входную директорию. По умолчанию os.DirFS.
	// "" означает текущую директорию.
	Source func(dir string) fs.FS
}

// NewInputTransformer создаёт трансформер, читающий с диска.
func NewInputTransformer() *InputTransformer {
	return &InputTransformer{
		Source: func(dir string) fs.FS { return os.DirFS(dir) },
	}
}

// Transform реализует xws.InputTransform.
//
// Если задан пользовательский трансформер, файл декодируется в его
// входной тип, и результат передаётся в Apply.
func (t *InputTransformer) Transform(req xws.InputRequest) (any, error) {
	data, err := t.read(req)
	if errors.Is(err, fs.ErrNotExist) {
		if req.Optional {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, req.FileName)
	}
	if err != nil {
		return nil, err
	}

	target := req.Type
	if req.Transformer != nil {
		target = req.Transformer.In()
	}

	v, err := Decode(data, target)
	if err != nil {
		return nil, err
	}
	if req.Transformer != nil {
		return req.Transformer.Apply(v)
	}
	return v, nil
}

func (t *InputTransformer) read(req xws.InputRequest) ([]byte, error) {
	dir := req.Directory
	if dir == "" {
		dir = "."
	}
	source := t.Source
	if source == nil {
		source = func(dir string) fs.FS { return os.DirFS(dir) }
	}
	return fs.ReadFile(source(dir), req.FileName)
}

// Decode декодирует содержимое файла в значение типа target.
//
// Поддерживаемые типы:
//   - []byte, string — содержимое без разбора
//   - *Document — документ целиком
//   - T или *T, где T — структура с XMLName, — первый элемент с этим именем
//   - []T или []*T — все элементы с этим именем
func Decode(data []byte, target reflect.Type) (any, error) {
	switch {
	case target == bytesType:
		return data, nil
	case target.Kind() == reflect.String:
		return reflect.ValueOf(string(data)).Convert(target).Interface(), nil
	case target == documentType:
		return ParseDocument(data)
	}

	isSlice := target.Kind() == reflect.Slice
	item := target
	if isSlice {
		item = target.Elem()
	}
	isPtr := item.Kind() == reflect.Pointer
	structType := item
	if isPtr {
		structType = item.Elem()
	}

	name, ok := xmlElementName(structType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, target)
	}

	var found []reflect.Value
	err := walkChildren(data, func(dec *xml.Decoder, se xml.StartElement) (bool, error) {
		if se.Name.Local != name {
			return true, dec.Skip()
		}
		p := reflect.New(structType)
		if err := dec.DecodeElement(p.Interface(), &se); err != nil {
			return false, err
		}
		found = append(found, p)
		return isSlice, nil
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: <%s>", ErrElementNotFound, name)
	}

	pick := func(p reflect.Value) reflect.Value {
		if isPtr {
			return p
		}
		return p.Elem()
	}

	if !isSlice {
		return pick(found[0]).Interface(), nil
	}
	out := reflect.MakeSlice(target, 0, len(found))
	for _, p := range found {
		out = reflect.Append(out, pick(p))
	}
	return out.Interface(), nil
}

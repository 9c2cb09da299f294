package xws

import (
	"errors"
	"fmt"
)

// Ошибки разрешения сервиса и конфигурации.
var (
	// ErrUnresolvableWorkerType — тип сервиса не найден в реестре.
	ErrUnresolvableWorkerType = errors.New("unresolvable worker type")

	// ErrNotAService — тип найден, но не реализует Service.
	ErrNotAService = errors.New("worker type does not implement xws.Service")

	// ErrMissingErrorSink — у сервиса нет поля для ошибок.
	ErrMissingErrorSink = errors.New("errors field not found")

	// ErrDuplicateDirectorySink — несколько полей одной директории.
	ErrDuplicateDirectorySink = errors.New("more than one directory field of the same kind")

	// ErrIncoherentConfiguration — заданы и аргументы, и сервис (или ничего).
	ErrIncoherentConfiguration = errors.New("parameters set are not coherent")

	// ErrInvalidArguments — аргументы командной строки не разобраны.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrIncompleteOptions — executor создан без обязательных зависимостей.
	ErrIncompleteOptions = errors.New("incomplete executor options")
)

// Ошибки подготовки директорий.
var (
	// ErrMissingInputDirectory — поле входной директории есть, директория не задана.
	ErrMissingInputDirectory = errors.New("input directory required but not set")

	// ErrMissingOutputDirectory — поле выходной директории есть, директория не задана.
	ErrMissingOutputDirectory = errors.New("output directory required but not set")

	// ErrDirectoryCreationFailed — не удалось создать выходную директорию.
	ErrDirectoryCreationFailed = errors.New("could not create directory")

	// ErrNotADirectory — выходной путь существует, но это не директория.
	ErrNotADirectory = errors.New("not a directory")

	// ErrInputDirectoryInvalid — входная директория не существует или не директория.
	ErrInputDirectoryInvalid = errors.New("invalid input directory")
)

// Ошибки полей и трансформеров.
var (
	// ErrFieldAccessDenied — поле нельзя прочитать или записать.
	ErrFieldAccessDenied = errors.New("field access denied")

	// ErrTransformerInstantiationFailed — фабрика трансформера вернула ошибку.
	ErrTransformerInstantiationFailed = errors.New("transformer instantiation failed")

	// ErrTransformerFieldMismatch — типы трансформера и поля несовместимы.
	ErrTransformerFieldMismatch = errors.New("transformer does not match field type")

	// ErrOutputTransform — значение не удалось преобразовать в документ.
	ErrOutputTransform = errors.New("output transform failed")

	// ErrOutputWrite — документ не удалось записать.
	ErrOutputWrite = errors.New("output write failed")

	// ErrServiceFailed — тело сервиса вернуло ошибку, не связанную с входными данными.
	ErrServiceFailed = errors.New("service execution failed")
)

// ErrInvalidInput — базовая ошибка для InvalidInputError.
//
//	errors.Is(err, xws.ErrInvalidInput)
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError — ошибка входных данных одного поля.
//
// Такие ошибки не прерывают выполнение: они накапливаются и
// передаются сервису через поле ошибок.
type InvalidInputError struct {
	Field    string // имя поля, "" если ошибку вернул сам сервис
	FileName string // файл, из которого читалось поле
	Err      error  // причина
}

// Error реализует интерфейс error.
func (e *InvalidInputError) Error() string {
	msg := "invalid input"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Field != "" && e.FileName != "":
		return fmt.Sprintf("field %s (%s): %s", e.Field, e.FileName, msg)
	case e.FileName != "":
		return fmt.Sprintf("%s: %s", e.FileName, msg)
	case e.Field != "":
		return fmt.Sprintf("field %s: %s", e.Field, msg)
	}
	return msg
}

// Unwrap возвращает причину.
func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// Is сопоставляет ошибку с ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInvalidInput создаёт ошибку входных данных поля.
func NewInvalidInput(field, fileName string, err error) *InvalidInputError {
	return &InvalidInputError{
		Field:    field,
		FileName: fileName,
		Err:      err,
	}
}

// Invalid создаёт ошибку входных данных для возврата из Service.Execute.
func Invalid(format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Err: fmt.Errorf(format, args...)}
}

// asInvalidInput приводит ошибку трансформера к InvalidInputError поля.
// Если трансформер уже вернул InvalidInputError, пустые поля дополняются.
func asInvalidInput(field, fileName string, err error) *InvalidInputError {
	var inv *InvalidInputError
	if errors.As(err, &inv) {
		out := *inv
		if out.Field == "" {
			out.Field = field
		}
		if out.FileName == "" {
			out.FileName = fileName
		}
		return &out
	}
	return NewInvalidInput(field, fileName, err)
}

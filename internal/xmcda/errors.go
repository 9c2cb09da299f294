package xmcda

import "errors"

var (
	// ErrFileNotFound — файл обязательного входного поля не найден.
	ErrFileNotFound = errors.New("input file not found")

	// ErrMalformedDocument — файл не является документом XMCDA.
	ErrMalformedDocument = errors.New("malformed XMCDA document")

	// ErrElementNotFound — в документе нет нужного элемента.
	ErrElementNotFound = errors.New("element not found")

	// ErrUnsupportedType — тип поля не поддерживается трансформером.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrValidation — документ не прошёл проверку.
	ErrValidation = errors.New("document validation failed")
)

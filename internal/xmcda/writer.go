package xmcda

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/shaiso/xws/internal/xws"
)

// Writer записывает документы XMCDA.
type Writer struct {
	// Indent — отступ вложенных элементов.
	Indent string
}

// NewWriter создаёт Writer с отступом в два пробела.
func NewWriter() *Writer {
	return &Writer{Indent: "  "}
}

// Write реализует xws.DocumentWriter.
func (w *Writer) Write(doc xws.Document, out io.Writer, validate bool) error {
	switch d := doc.(type) {
	case *Document:
		if validate {
			if err := d.Validate(); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(out, xml.Header); err != nil {
			return err
		}
		enc := xml.NewEncoder(out)
		enc.Indent("", w.Indent)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encode %s: %w", d.Kind(), err)
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := io.WriteString(out, "\n")
		return err
	case RawDocument:
		if validate {
			if err := d.Validate(); err != nil {
				return err
			}
		}
		_, err := out.Write(d)
		return err
	}
	return fmt.Errorf("%w: document %T", ErrUnsupportedType, doc)
}

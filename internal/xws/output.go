package xws

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputRecord — результат обработки одного выходного поля.
type OutputRecord struct {
	Field    string   `json:"field"`
	FileName string   `json:"file_name"`
	Path     string   `json:"path,omitempty"` // "" если запись выключена
	Document Document `json:"-"`
	Written  bool     `json:"written"`
}

// writeOutputs преобразует и записывает выходные поля в порядке объявления.
//
// Поле с отсутствующим значением пропускается: трансформер не вызывается,
// файл не создаётся. Преобразование выполняется и при выключенной записи.
func (e *Executor) writeOutputs(ex *execution) ([]OutputRecord, error) {
	var records []OutputRecord

	for _, f := range ex.res.Type.fieldsWithRole(RoleOutput) {
		value, err := f.get(ex.res.instance)
		if err != nil {
			return records, err
		}
		if isMissing(value) {
			ex.logger.Debug("output skipped, no value", "field", f.Name)
			continue
		}

		fileName := f.File()
		doc, err := e.transformOutput(f, value)
		if err != nil {
			return records, err
		}

		rec := OutputRecord{
			Field:    f.Name,
			FileName: fileName,
			Document: doc,
		}

		if ex.cfg.WriteEnabled() {
			if ex.cfg.outputDir == "" {
				return records, fmt.Errorf("%w: output field %s", ErrMissingOutputDirectory, f.Name)
			}
			rec.Path = filepath.Join(ex.cfg.outputDir, fileName)
			if err := e.writeDocument(doc, rec.Path); err != nil {
				return records, err
			}
			rec.Written = true
			ex.logger.Info("output written", "field", f.Name, "path", rec.Path, "kind", doc.Kind())
		}

		records = append(records, rec)
	}

	return records, nil
}

// transformOutput применяет пользовательский трансформер (если есть)
// и OutputTransform.Document.
func (e *Executor) transformOutput(f Field, value any) (Document, error) {
	tr, err := instantiate(f)
	if err != nil {
		return nil, err
	}

	transformed := value
	declared := f.Type
	if tr != nil {
		if !f.Type.AssignableTo(tr.In()) {
			return nil, fmt.Errorf("%w: field %s has type %s, transformer accepts %s",
				ErrTransformerFieldMismatch, f.Name, f.Type, tr.In())
		}
		transformed, err = tr.Apply(value)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", ErrOutputTransform, f.Name, err)
		}
		declared = tr.Out()
	}

	doc, err := e.output.Document(transformed, declared)
	if err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", ErrOutputTransform, f.Name, err)
	}
	return doc, nil
}

// writeDocument записывает документ в файл.
func (e *Executor) writeDocument(doc Document, path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputWrite, path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %s: %v", ErrOutputWrite, path, cerr)
		}
	}()

	if err := e.writer.Write(doc, file, e.output.Validates()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputWrite, path, err)
	}
	return nil
}

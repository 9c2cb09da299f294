package xws

import (
	"errors"
	"fmt"
	"os"
)

// prepareDirectories проверяет и подготавливает директории.
//
// Выходная директория создаётся, если запись включена и директория задана.
// Входная директория, если задана, должна существовать.
func prepareDirectories(cfg Config) error {
	if cfg.WriteEnabled() && cfg.outputDir != "" {
		if err := os.MkdirAll(cfg.outputDir, 0o755); err != nil {
			// MkdirAll возвращает ENOTDIR, если путь занят файлом
			if info, statErr := os.Stat(cfg.outputDir); statErr == nil && !info.IsDir() {
				return fmt.Errorf("%w: output directory %s", ErrNotADirectory, cfg.outputDir)
			}
			return fmt.Errorf("%w: %s: %v", ErrDirectoryCreationFailed, cfg.outputDir, err)
		}
		info, err := os.Stat(cfg.outputDir)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDirectoryCreationFailed, cfg.outputDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: output directory %s", ErrNotADirectory, cfg.outputDir)
		}
	}

	if cfg.inputDir != "" {
		info, err := os.Stat(cfg.inputDir)
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s does not exist", ErrInputDirectoryInvalid, cfg.inputDir)
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInputDirectoryInvalid, cfg.inputDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", ErrInputDirectoryInvalid, cfg.inputDir)
		}
	}

	return nil
}

// injectDirectories записывает пути директорий в поля сервиса.
func injectDirectories(res *Resolved, cfg Config) error {
	if f, ok := directoryField(res.Type, RoleInputDirectory); ok {
		if cfg.inputDir == "" {
			return fmt.Errorf("%w: field %s", ErrMissingInputDirectory, f.Name)
		}
		if err := f.set(res.instance, cfg.inputDir); err != nil {
			return err
		}
	}

	if f, ok := directoryField(res.Type, RoleOutputDirectory); ok {
		if cfg.outputDir == "" {
			return fmt.Errorf("%w: field %s", ErrMissingOutputDirectory, f.Name)
		}
		if err := f.set(res.instance, cfg.outputDir); err != nil {
			return err
		}
	}

	return nil
}

// injectInputs заполняет входные поля в порядке объявления.
//
// Ошибки входных данных накапливаются в ex.failures, поле при этом
// сохраняет прежнее значение. Фатальны только ошибки доступа к полю
// и ошибки трансформеров.
func (e *Executor) injectInputs(ex *execution) error {
	for _, f := range ex.res.Type.fieldsWithRole(RoleInput) {
		fileName := f.File()

		tr, err := instantiate(f)
		if err != nil {
			return err
		}
		if tr != nil && !tr.Out().AssignableTo(f.Type) {
			return fmt.Errorf("%w: field %s has type %s, transformer produces %s",
				ErrTransformerFieldMismatch, f.Name, f.Type, tr.Out())
		}

		value, err := e.input.Transform(InputRequest{
			Field:       f.Name,
			Type:        f.Type,
			Transformer: tr,
			FileName:    fileName,
			Directory:   ex.cfg.inputDir,
			Optional:    f.Optional,
		})
		if err == nil && value == nil && !f.Optional {
			err = errors.New("no value for required input")
		}
		if err != nil {
			inv := asInvalidInput(f.Name, fileName, err)
			ex.failures = append(ex.failures, inv)
			ex.logger.Warn("invalid input",
				"field", f.Name,
				"file", fileName,
				"error", inv.Err,
			)
			continue
		}

		if value == nil {
			// необязательное поле без файла сохраняет значение по умолчанию
			ex.logger.Debug("optional input absent", "field", f.Name, "file", fileName)
			continue
		}

		if err := f.set(ex.res.instance, value); err != nil {
			return err
		}
		ex.logger.Debug("input injected", "field", f.Name, "file", fileName)
	}

	return nil
}

package scheduler

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"
)

// Ошибки шаблонов директорий.
var (
	// ErrTemplateParse — ошибка парсинга шаблона.
	ErrTemplateParse = errors.New("template parse failed")

	// ErrTemplateRender — ошибка рендеринга шаблона.
	ErrTemplateRender = errors.New("template render failed")
)

// PathContext — контекст для рендеринга директорий job.
//
// Используется в Go templates:
//   - {{ .Job }}, {{ .Worker }}
//   - {{ date "2006-01-02" .Due }}
//   - {{ env "DATA_ROOT" }}
type PathContext struct {
	// Job — имя job.
	Job string

	// Worker — имя сервиса.
	Worker string

	// Due — запланированное время запуска (UTC).
	Due time.Time
}

// templateFuncs — дополнительные функции для шаблонов.
var templateFuncs = template.FuncMap{
	// date — форматирует время по layout
	"date": func(layout string, t time.Time) string {
		return t.Format(layout)
	},

	// env — значение переменной окружения
	"env": os.Getenv,

	// default — возвращает значение по умолчанию, если второй аргумент пустой
	"default": func(def, val string) string {
		if val == "" {
			return def
		}
		return val
	},

	"lower":   strings.ToLower,
	"upper":   strings.ToUpper,
	"replace": strings.ReplaceAll,
}

// parsePath разбирает шаблон директории.
// Строка без "{{" возвращается как nil-шаблон.
func parsePath(tmpl string) (*template.Template, error) {
	if !strings.Contains(tmpl, "{{") {
		return nil, nil
	}
	t, err := template.New("").Funcs(templateFuncs).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	return t, nil
}

// RenderPath рендерит шаблон директории для запуска job.
func RenderPath(tmpl string, ctx PathContext) (string, error) {
	t, err := parsePath(tmpl)
	if err != nil || t == nil {
		return tmpl, err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}

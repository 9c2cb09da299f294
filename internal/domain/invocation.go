package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidInvocation — запрос на выполнение заполнен некорректно.
var ErrInvalidInvocation = errors.New("invalid invocation")

// Invocation — запрос на выполнение сервиса.
//
// Invocation создаётся:
// - CLI (xws run)
// - Scheduler по расписанию job
//
// и передаётся worker'у через RabbitMQ.
type Invocation struct {
	// ID — уникальный идентификатор запроса. Повторная доставка
	// запроса с тем же ID не создаёт второй run.
	ID uuid.UUID `json:"id"`

	// Worker — имя сервиса в реестре.
	Worker string `json:"worker"`

	// InputDir — входная директория.
	InputDir string `json:"input_dir"`

	// OutputDir — выходная директория.
	OutputDir string `json:"output_dir"`

	// DryRun — выходы преобразуются, но не записываются.
	DryRun bool `json:"dry_run,omitempty"`

	// Validate — проверять документы при записи.
	Validate bool `json:"validate,omitempty"`

	// Source — кто создал запрос: "cli", "job:<name>".
	Source string `json:"source,omitempty"`

	// RequestedAt — время создания запроса.
	RequestedAt time.Time `json:"requested_at"`
}

// Check проверяет обязательные поля.
func (i *Invocation) Check() error {
	switch {
	case i.ID == uuid.Nil:
		return errors.Join(ErrInvalidInvocation, errors.New("id is required"))
	case i.Worker == "":
		return errors.Join(ErrInvalidInvocation, errors.New("worker is required"))
	case i.InputDir == "":
		return errors.Join(ErrInvalidInvocation, errors.New("input_dir is required"))
	case i.OutputDir == "":
		return errors.Join(ErrInvalidInvocation, errors.New("output_dir is required"))
	}
	return nil
}

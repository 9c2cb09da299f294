package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run — запись об одном выполнении сервиса.
//
// Run создаётся worker'ом при получении Invocation и обновляется
// после выполнения. Журнал runs доступен через xws runs.
type Run struct {
	// ID — уникальный идентификатор run (совпадает с run_id в логах).
	ID uuid.UUID `json:"id"`

	// InvocationID — запрос, по которому создан run. Уникален.
	InvocationID uuid.UUID `json:"invocation_id"`

	// Worker — имя сервиса.
	Worker string `json:"worker"`

	// InputDir, OutputDir — директории выполнения.
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`

	// DryRun — выходы не записывались.
	DryRun bool `json:"dry_run,omitempty"`

	// Status — текущий статус выполнения.
	Status RunStatus `json:"status"`

	// Failures — ошибки входных данных.
	Failures []string `json:"failures,omitempty"`

	// Outputs — записанные (или преобразованные при DryRun) файлы.
	Outputs []string `json:"outputs,omitempty"`

	// Error — текст фатальной ошибки, если run завершился с FAILED.
	Error string `json:"error,omitempty"`

	// StartedAt — время начала выполнения.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения. Nil, если run ещё выполняется.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// CreatedAt — время создания run.
	CreatedAt time.Time `json:"created_at"`
}

// NewRun создаёт run для запроса.
func NewRun(inv *Invocation) *Run {
	return &Run{
		ID:           uuid.New(),
		InvocationID: inv.ID,
		Worker:       inv.Worker,
		InputDir:     inv.InputDir,
		OutputDir:    inv.OutputDir,
		DryRun:       inv.DryRun,
		CreatedAt:    time.Now(),
	}
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если run ещё не завершён.
func (r *Run) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// IsFinished возвращает true, если run завершён (в любом статусе).
func (r *Run) IsFinished() bool {
	return r.Status.IsTerminal()
}

// MarkRunning переводит run в статус RUNNING.
func (r *Run) MarkRunning() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
}

// MarkSucceeded переводит run в статус SUCCEEDED.
func (r *Run) MarkSucceeded(outputs []string) {
	now := time.Now()
	r.Status = RunStatusSucceeded
	r.Outputs = outputs
	r.FinishedAt = &now
}

// MarkInvalidInput переводит run в статус INVALID_INPUT.
func (r *Run) MarkInvalidInput(failures, outputs []string) {
	now := time.Now()
	r.Status = RunStatusInvalidInput
	r.Failures = failures
	r.Outputs = outputs
	r.FinishedAt = &now
}

// MarkFailed переводит run в статус FAILED с ошибкой.
func (r *Run) MarkFailed(err string) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.FinishedAt = &now
	r.Error = err
}

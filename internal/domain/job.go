package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job — периодический запуск сервиса.
//
// Job позволяет запускать сервис:
// - По cron-выражению: "0 9 * * *" (каждый день в 9:00)
// - По интервалу: каждые N секунд
//
// Scheduler проверяет NextDueAt и публикует Invocation, когда время подошло.
type Job struct {
	// Name — уникальное имя job.
	Name string `json:"name"`

	// Worker — имя сервиса.
	Worker string `json:"worker"`

	// InputDir, OutputDir — директории выполнения.
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`

	// CronExpr — cron-выражение ("минуты часы дни месяцы дни_недели").
	// Если задан, IntervalSec игнорируется.
	CronExpr string `json:"cron,omitempty"`

	// IntervalSec — интервал в секундах между запусками.
	IntervalSec int `json:"interval_sec,omitempty"`

	// Timezone — часовой пояс для cron. По умолчанию UTC.
	Timezone string `json:"timezone,omitempty"`

	// DryRun, Validate передаются в Invocation.
	DryRun   bool `json:"dry_run,omitempty"`
	Validate bool `json:"validate,omitempty"`

	// Enabled — если false, scheduler игнорирует job.
	Enabled bool `json:"enabled"`

	// NextDueAt — время следующего запуска.
	NextDueAt *time.Time `json:"next_due_at,omitempty"`

	// LastRunAt — время последнего запуска.
	LastRunAt *time.Time `json:"last_run_at,omitempty"`

	// LastInvocationID — ID последнего опубликованного запроса.
	LastInvocationID *uuid.UUID `json:"last_invocation_id,omitempty"`
}

// IsCron возвращает true, если job использует cron-выражение.
func (j *Job) IsCron() bool {
	return j.CronExpr != ""
}

// IsInterval возвращает true, если job использует интервал.
func (j *Job) IsInterval() bool {
	return j.CronExpr == "" && j.IntervalSec > 0
}

// IsDue проверяет, пора ли запускать.
func (j *Job) IsDue(now time.Time) bool {
	if !j.Enabled || j.NextDueAt == nil {
		return false
	}
	return !now.Before(*j.NextDueAt)
}

// RecordRun записывает информацию о запуске.
func (j *Job) RecordRun(invocationID uuid.UUID, at, nextDue time.Time) {
	j.LastRunAt = &at
	j.LastInvocationID = &invocationID
	j.NextDueAt = &nextDue
}

package scheduler

import "errors"

// Ошибки планировщика.
var (
	// ErrInvalidJob — job в файле описан некорректно.
	ErrInvalidJob = errors.New("invalid job")

	// ErrNoSchedule — у job нет ни cron, ни interval_sec.
	ErrNoSchedule = errors.New("job has neither cron nor interval_sec")

	// ErrNoPublisher — планировщик создан без publisher'а.
	ErrNoPublisher = errors.New("no publisher")
)

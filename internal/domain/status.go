package domain

// RunStatus — статус выполнения сервиса.
//
// Жизненный цикл:
//
//	RUNNING → SUCCEEDED
//	        ↘ INVALID_INPUT (ошибки входных данных, выходы записаны)
//	        ↘ FAILED (структурная ошибка, выполнение прервано)
type RunStatus string

const (
	// RunStatusRunning — сервис выполняется.
	RunStatusRunning RunStatus = "RUNNING"

	// RunStatusSucceeded — сервис выполнен без ошибок входных данных.
	RunStatusSucceeded RunStatus = "SUCCEEDED"

	// RunStatusInvalidInput — выполнение завершено с ошибками входных данных.
	RunStatusInvalidInput RunStatus = "INVALID_INPUT"

	// RunStatusFailed — выполнение прервано фатальной ошибкой.
	RunStatusFailed RunStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный (run завершён).
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusSucceeded, RunStatusInvalidInput, RunStatusFailed:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление RunStatus.
func (s RunStatus) String() string {
	return string(s)
}

// ParseRunStatus парсит строку в RunStatus. false — статус неизвестен.
func ParseRunStatus(s string) (RunStatus, bool) {
	switch RunStatus(s) {
	case RunStatusRunning, RunStatusSucceeded, RunStatusInvalidInput, RunStatusFailed:
		return RunStatus(s), true
	default:
		return "", false
	}
}

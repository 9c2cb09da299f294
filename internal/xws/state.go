package xws

// State — состояние executor'а.
//
// Жизненный цикл:
//
//	UNCONFIGURED → RESOLVING → CONFIGURED → INVOKING → DONE
//	                        ↘ FAILED (из любого состояния)
//
// Configure возвращает executor в UNCONFIGURED.
type State string

const (
	// StateUnconfigured — сервис ещё не разрешён.
	StateUnconfigured State = "UNCONFIGURED"

	// StateResolving — сервис разрешается или разрешён, директории ещё не внедрены.
	StateResolving State = "RESOLVING"

	// StateConfigured — сервис разрешён, директории подготовлены и внедрены.
	StateConfigured State = "CONFIGURED"

	// StateInvoking — выполняется тело сервиса.
	StateInvoking State = "INVOKING"

	// StateDone — выполнение завершено (возможно, с ошибками входных данных).
	StateDone State = "DONE"

	// StateFailed — выполнение прервано фатальной ошибкой.
	StateFailed State = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s State) IsTerminal() bool {
	switch s {
	case StateDone, StateFailed:
		return true
	default:
		return false
	}
}

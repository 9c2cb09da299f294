package worker

import (
	"context"
	"log/slog"

	"github.com/shaiso/xws/internal/domain"
	"github.com/shaiso/xws/internal/mq"
	"github.com/shaiso/xws/internal/telemetry"
	"github.com/shaiso/xws/internal/xws"
)

// ExecutorFactory создаёт новый executor для одного запроса.
//
// Executor не потокобезопасен, поэтому каждый запрос получает свой.
// validate — проверять документы перед записью.
type ExecutorFactory func(validate bool) (*xws.Executor, error)

// RunStore — журнал выполнений.
//
// Реализация: repo.RunRepo. Create возвращает repo.ErrAlreadyExists,
// если run для invocation_id уже создан.
type RunStore interface {
	Create(ctx context.Context, run *domain.Run) error
	Update(ctx context.Context, run *domain.Run) error
}

// CompletionPublisher публикует результат выполнения.
//
// Реализация: mq.Publisher.
type CompletionPublisher interface {
	PublishInvocationCompleted(ctx context.Context, payload mq.InvocationCompletedPayload) error
}

// NewExecutorFactory возвращает фабрику поверх конструктора
// с фиксированными реестром, логгером и метриками.
func NewExecutorFactory(
	newFn func(reg *xws.Registry, logger *slog.Logger, metrics *telemetry.Metrics, validate bool) (*xws.Executor, error),
	reg *xws.Registry,
	logger *slog.Logger,
	metrics *telemetry.Metrics,
) ExecutorFactory {
	return func(validate bool) (*xws.Executor, error) {
		return newFn(reg, logger, metrics, validate)
	}
}

// configFor строит конфигурацию executor'а для запроса.
func configFor(inv *domain.Invocation) xws.Config {
	return xws.NewConfig().
		WithWorker(xws.ByName(inv.Worker)).
		WithInputDirectory(inv.InputDir).
		WithOutputDirectory(inv.OutputDir).
		WithWriteEnabled(!inv.DryRun)
}

// outputNames возвращает имена файлов выходов в порядке записи.
func outputNames(records []xws.OutputRecord) []string {
	if len(records) == 0 {
		return nil
	}
	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.FileName
	}
	return names
}

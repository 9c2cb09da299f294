package cli

import (
	"context"

	"github.com/google/uuid"

	"github.com/shaiso/xws/internal/domain"
	"github.com/shaiso/xws/internal/repo"
	"github.com/shaiso/xws/internal/xws"
)

// RunSource — чтение журнала выполнений.
//
// Реализация: repo.RunRepo.
type RunSource interface {
	List(ctx context.Context, filter repo.RunFilter) ([]domain.Run, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error)
	GetByInvocationID(ctx context.Context, invocationID uuid.UUID) (*domain.Run, error)
}

// InvocationPublisher публикует запросы для worker'ов.
//
// Реализация: mq.Publisher.
type InvocationPublisher interface {
	PublishInvocationRequested(ctx context.Context, inv domain.Invocation) error
}

// Deps — зависимости команд.
//
// Все зависимости заданы замыканиями, они вызываются после разбора
// PersistentFlags, а подключения к БД и RabbitMQ открываются
// только командами, которым они нужны. Возвращаемая функция
// закрывает подключение.
type Deps struct {
	Output      func() *Output
	Registry    func() *xws.Registry
	NewExecutor func(validate bool) (*xws.Executor, error)
	Runs        func(ctx context.Context) (RunSource, func(), error)
	Publisher   func(ctx context.Context) (InvocationPublisher, func(), error)
}

package api

import (
	"context"
	"log/slog"

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

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	registry  *xws.Registry
	runs      RunSource
	publisher InvocationPublisher
	logger    *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	// Registry — реестр сервисов (обязателен).
	Registry *xws.Registry

	// Runs — журнал (опционально; без него /runs отвечает 503).
	Runs RunSource

	// Publisher (опционально; без него POST /invocations отвечает 503).
	Publisher InvocationPublisher

	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registry:  cfg.Registry,
		runs:      cfg.Runs,
		publisher: cfg.Publisher,
		logger:    logger,
	}
}

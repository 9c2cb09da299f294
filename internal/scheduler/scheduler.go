package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/xws/internal/domain"
	"github.com/shaiso/xws/internal/telemetry"
)

// invocationNamespace — пространство имён для детерминированных ID запросов.
var invocationNamespace = uuid.MustParse("6f1c2a9e-4b7d-5e38-9a0c-2d5e8f41b7c3")

// Publisher публикует запросы на выполнение.
//
// Реализация: mq.Publisher.
type Publisher interface {
	PublishInvocationRequested(ctx context.Context, inv domain.Invocation) error
}

// Scheduler — планировщик, публикующий запросы для due jobs.
type Scheduler struct {
	mu        sync.Mutex
	jobs      []*domain.Job
	publisher Publisher
	logger    *slog.Logger
}

// Config — конфигурация Scheduler.
type Config struct {
	Jobs      []*domain.Job
	Publisher Publisher
	Logger    *slog.Logger

	// Now — время старта для вычисления первого запуска (default: time.Now()).
	Now time.Time
}

// New создаёт новый Scheduler и вычисляет первое время запуска jobs,
// у которых оно не задано.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Publisher == nil {
		return nil, ErrNoPublisher
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}

	for _, job := range cfg.Jobs {
		if job.NextDueAt != nil {
			continue
		}
		next, err := CalculateNextDue(job, now)
		if err != nil {
			return nil, fmt.Errorf("job %s: %w", job.Name, err)
		}
		job.NextDueAt = &next
	}

	return &Scheduler{
		jobs:      cfg.Jobs,
		publisher: cfg.Publisher,
		logger:    logger,
	}, nil
}

// InvocationID возвращает ID запроса для job и времени запуска.
// Один и тот же запуск всегда получает один и тот же ID: повторная
// публикация после сбоя не создаёт второй run.
func InvocationID(jobName string, due time.Time) uuid.UUID {
	return uuid.NewSHA1(invocationNamespace, fmt.Appendf(nil, "%s_%d", jobName, due.Unix()))
}

// Tick выполняет один тик планировщика.
//
// 1. Находит due jobs (enabled, next_due_at <= now)
// 2. Для каждой job публикует invocation.requested
// 3. Сдвигает next_due_at
//
// Ошибки одной job не блокируют обработку остальных. Если публикация
// не удалась, next_due_at не сдвигается и запуск повторится на следующем тике.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due, published int
	for _, job := range s.jobs {
		if !job.IsDue(now) {
			continue
		}
		due++

		if err := s.processJob(ctx, job, now); err != nil {
			s.logger.Error("failed to process job",
				"job", job.Name,
				"error", err,
			)
			continue
		}
		published++
	}

	if due > 0 {
		s.logger.Info("scheduler tick completed",
			"due", due,
			"published", published,
		)
	}

	return published
}

// processJob публикует запрос для одной job и сдвигает её расписание.
func (s *Scheduler) processJob(ctx context.Context, job *domain.Job, now time.Time) error {
	logger := telemetry.WithJob(s.logger, job.Name)

	due := *job.NextDueAt
	pathCtx := PathContext{Job: job.Name, Worker: job.Worker, Due: due.UTC()}
	inputDir, err := RenderPath(job.InputDir, pathCtx)
	if err != nil {
		return fmt.Errorf("input_dir: %w", err)
	}
	outputDir, err := RenderPath(job.OutputDir, pathCtx)
	if err != nil {
		return fmt.Errorf("output_dir: %w", err)
	}

	inv := domain.Invocation{
		ID:          InvocationID(job.Name, due),
		Worker:      job.Worker,
		InputDir:    inputDir,
		OutputDir:   outputDir,
		DryRun:      job.DryRun,
		Validate:    job.Validate,
		Source:      "job:" + job.Name,
		RequestedAt: now,
	}

	if err := s.publisher.PublishInvocationRequested(ctx, inv); err != nil {
		return fmt.Errorf("publish invocation.requested: %w", err)
	}

	nextDue, err := CalculateNextDue(job, now)
	if err != nil {
		// job некорректна: выключаем, чтобы не публиковать на каждом тике
		job.Enabled = false
		return fmt.Errorf("calculate next due, job disabled: %w", err)
	}

	job.RecordRun(inv.ID, now, nextDue)

	logger.Info("invocation published",
		"invocation_id", inv.ID,
		"worker", job.Worker,
		"next_due_at", nextDue,
	)
	return nil
}

// Jobs возвращает копии jobs в порядке файла.
func (s *Scheduler) Jobs() []domain.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Job, len(s.jobs))
	for i, job := range s.jobs {
		out[i] = *job
	}
	return out
}

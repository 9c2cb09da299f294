package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/shaiso/xws/internal/domain"
	"github.com/shaiso/xws/internal/mq"
	"github.com/shaiso/xws/internal/repo"
	"github.com/shaiso/xws/internal/telemetry"
	"github.com/shaiso/xws/internal/xws"
)

// handleInvocation обрабатывает запрос из очереди invocations.requested.
//
// Ошибка возвращается только для некорректных запросов и сбоев журнала:
// такие сообщения уходят в DLQ. Повторный запрос пропускается через
// mq.ErrSkip. Фатальная ошибка выполнения сервиса записывается в run
// и подтверждается.
func (w *Worker) handleInvocation(ctx context.Context, inv domain.Invocation) error {
	w.logger.Debug("received invocation.requested event",
		"invocation_id", inv.ID,
		"worker", inv.Worker,
	)

	if _, err := w.Process(ctx, inv); err != nil {
		if errors.Is(err, ErrDuplicateInvocation) {
			return fmt.Errorf("%w: %w", mq.ErrSkip, err)
		}
		return err
	}

	return nil
}

// Process выполняет один запрос и возвращает итоговый run.
//
// Порядок:
//  1. Проверка запроса
//  2. Создание run в журнале (повторный запрос — ErrDuplicateInvocation)
//  3. Выполнение сервиса новым executor'ом
//  4. Обновление run и публикация результата
func (w *Worker) Process(ctx context.Context, inv domain.Invocation) (*domain.Run, error) {
	if err := inv.Check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInvocation, err)
	}
	if w.newExecutor == nil {
		return nil, ErrNoExecutorFactory
	}

	logger := telemetry.WithInvocationID(w.logger, inv.ID.String())

	run := domain.NewRun(&inv)
	run.MarkRunning()

	if w.runs != nil {
		if err := w.runs.Create(ctx, run); err != nil {
			if errors.Is(err, repo.ErrAlreadyExists) {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateInvocation, inv.ID)
			}
			return nil, fmt.Errorf("create run: %w", err)
		}
	}

	logger.Info("invocation started",
		"run_id", run.ID,
		"worker", inv.Worker,
		"source", inv.Source,
		"dry_run", inv.DryRun,
	)

	w.execute(ctx, &inv, run)

	if w.runs != nil {
		if err := w.runs.Update(ctx, run); err != nil {
			return run, fmt.Errorf("update run: %w", err)
		}
	}

	logger.Info("invocation finished",
		"run_id", run.ID,
		"status", run.Status,
		"failures", len(run.Failures),
		"duration", run.Duration(),
	)

	w.publishCompletion(ctx, run)
	return run, nil
}

// execute выполняет сервис и переводит run в финальный статус.
func (w *Worker) execute(ctx context.Context, inv *domain.Invocation, run *domain.Run) {
	executor, err := w.newExecutor(inv.Validate)
	if err != nil {
		run.MarkFailed(err.Error())
		return
	}
	executor.Configure(configFor(inv))

	result, err := executor.Execute(xws.ContextWithRunID(ctx, run.ID))
	switch {
	case err != nil:
		run.MarkFailed(err.Error())
	case result.Succeeded():
		run.MarkSucceeded(outputNames(result.Outputs))
	default:
		run.MarkInvalidInput(result.FailureMessages(), outputNames(result.Outputs))
	}
}

// publishCompletion публикует событие invocation.completed.
func (w *Worker) publishCompletion(ctx context.Context, run *domain.Run) {
	if w.publisher == nil {
		w.logger.Debug("publisher not available, skipping invocation.completed publish",
			"invocation_id", run.InvocationID,
		)
		return
	}

	payload := mq.InvocationCompletedPayload{
		InvocationID: run.InvocationID,
		RunID:        run.ID,
		Worker:       run.Worker,
		Status:       run.Status.String(),
		Failures:     run.Failures,
		Outputs:      run.Outputs,
		Error:        run.Error,
	}

	if err := w.publisher.PublishInvocationCompleted(ctx, payload); err != nil {
		// run уже сохранён в журнале
		w.logger.Warn("failed to publish invocation.completed",
			"invocation_id", run.InvocationID,
			"error", err,
		)
	}
}

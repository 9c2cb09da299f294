package xws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/xws/internal/telemetry"
)

// Options — зависимости Executor.
type Options struct {
	// Registry — реестр типов для ByName и ByInstance (обязателен).
	Registry *Registry

	// Input — трансформер входных файлов (обязателен).
	Input InputTransform

	// Output — трансформер значений в документы (обязателен).
	Output OutputTransform

	// Writer — запись документов (обязателен).
	Writer DocumentWriter

	// Logger (опционально; если nil — slog.Default()).
	Logger *slog.Logger

	// Metrics (опционально).
	Metrics *telemetry.Metrics
}

// Executor выполняет сервис: разрешает его, внедряет директории и входы,
// публикует ошибки, вызывает тело и записывает выходы.
//
// Executor не потокобезопасен: вызовы Execute одного executor'а
// должны быть последовательными.
type Executor struct {
	registry *Registry
	input    InputTransform
	output   OutputTransform
	writer   DocumentWriter
	logger   *slog.Logger
	metrics  *telemetry.Metrics

	cfg      Config
	resolved *Resolved
	state    State
}

// New создаёт новый Executor с пустой конфигурацией.
func New(opts Options) (*Executor, error) {
	switch {
	case opts.Registry == nil:
		return nil, fmt.Errorf("%w: registry", ErrIncompleteOptions)
	case opts.Input == nil:
		return nil, fmt.Errorf("%w: input transform", ErrIncompleteOptions)
	case opts.Output == nil:
		return nil, fmt.Errorf("%w: output transform", ErrIncompleteOptions)
	case opts.Writer == nil:
		return nil, fmt.Errorf("%w: document writer", ErrIncompleteOptions)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		registry: opts.Registry,
		input:    opts.Input,
		output:   opts.Output,
		writer:   opts.Writer,
		logger:   logger,
		metrics:  opts.Metrics,
		cfg:      NewConfig(),
		state:    StateUnconfigured,
	}, nil
}

// Configure заменяет конфигурацию. Следующий Resolve или Execute
// разрешит сервис заново.
func (e *Executor) Configure(cfg Config) {
	e.cfg = cfg
	e.resolved = nil
	e.state = StateUnconfigured
}

// Config возвращает текущую конфигурацию.
func (e *Executor) Config() Config {
	return e.cfg
}

// State возвращает текущее состояние.
func (e *Executor) State() State {
	return e.state
}

// Worker возвращает экземпляр сервиса, nil если сервис не разрешён.
func (e *Executor) Worker() Service {
	if e.resolved == nil {
		return nil
	}
	return e.resolved.Service
}

// Resolve разрешает сервис. Повторный вызов без Configure
// возвращает тот же экземпляр.
func (e *Executor) Resolve() (*Resolved, error) {
	if e.resolved != nil {
		return e.resolved, nil
	}

	e.state = StateResolving
	res, err := resolve(e.registry, e.cfg)
	if err != nil {
		e.state = StateFailed
		return nil, err
	}

	e.resolved = res
	return res, nil
}

// Prepare разрешает сервис, подготавливает директории и внедряет их в поля.
// После успешного вызова executor в состоянии CONFIGURED.
func (e *Executor) Prepare() (*Resolved, error) {
	res, err := e.Resolve()
	if err != nil {
		return nil, err
	}
	if err := prepareDirectories(res.config); err != nil {
		e.state = StateFailed
		return nil, err
	}
	if err := injectDirectories(res, res.config); err != nil {
		e.state = StateFailed
		return nil, err
	}
	e.state = StateConfigured
	return res, nil
}

// Result — итог одного выполнения.
type Result struct {
	RunID      uuid.UUID            `json:"run_id"`
	Worker     string               `json:"worker"`
	Service    Service              `json:"-"`
	Failures   []*InvalidInputError `json:"-"`
	Invoked    bool                 `json:"invoked"`
	Outputs    []OutputRecord       `json:"outputs"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
}

// Succeeded возвращает true, если ошибок входных данных нет.
func (r *Result) Succeeded() bool {
	return len(r.Failures) == 0
}

// FailureMessages возвращает тексты ошибок входных данных.
func (r *Result) FailureMessages() []string {
	msgs := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		msgs[i] = f.Error()
	}
	return msgs
}

// execution — состояние одного вызова Execute.
type execution struct {
	id       uuid.UUID
	cfg      Config
	res      *Resolved
	failures []*InvalidInputError
	logger   *slog.Logger
}

// Execute выполняет сервис.
//
// Порядок:
//  1. Разрешение сервиса
//  2. Подготовка и внедрение директорий
//  3. Внедрение входов (ошибки накапливаются)
//  4. Публикация ошибок в поле ошибок
//  5. Вызов тела, только если ошибок нет
//  6. Запись выходов в любом случае
//
// Фатальные ошибки возвращаются через error; ошибки входных данных
// доступны в Result.Failures и в поле ошибок сервиса.
func (e *Executor) Execute(ctx context.Context) (*Result, error) {
	started := time.Now()

	runID, ok := RunIDFromContext(ctx)
	if !ok {
		runID = uuid.New()
	}
	logger := telemetry.WithRunID(e.logger, runID.String())

	res, err := e.Prepare()
	if err != nil {
		return nil, e.fail(logger, e.cfg.worker.Name(), started, err)
	}

	ex := &execution{
		id:       runID,
		cfg:      res.config,
		res:      res,
		failures: nil,
		logger:   telemetry.WithWorker(logger, res.Type.name),
	}
	ex.logger.Info("run started",
		"input_dir", ex.cfg.inputDir,
		"output_dir", ex.cfg.outputDir,
		"write", ex.cfg.WriteEnabled(),
	)

	if err := e.injectInputs(ex); err != nil {
		return nil, e.fail(ex.logger, res.Type.name, started, err)
	}
	if err := e.publishErrors(ex); err != nil {
		return nil, e.fail(ex.logger, res.Type.name, started, err)
	}

	invoked := false
	if len(ex.failures) == 0 {
		e.state = StateInvoking
		invoked = true

		if err := res.Service.Execute(telemetry.WithLogger(ctx, ex.logger)); err != nil {
			var inv *InvalidInputError
			if !errors.As(err, &inv) {
				return nil, e.fail(ex.logger, res.Type.name, started,
					fmt.Errorf("%w: %s: %w", ErrServiceFailed, res.Type.name, err))
			}
			ex.failures = append(ex.failures, inv)
			ex.logger.Warn("service rejected input", "error", inv)
			if err := e.publishErrors(ex); err != nil {
				return nil, e.fail(ex.logger, res.Type.name, started, err)
			}
		}
	} else {
		ex.logger.Warn("service not invoked, invalid inputs", "failures", len(ex.failures))
	}

	outputs, err := e.writeOutputs(ex)
	if err != nil {
		return nil, e.fail(ex.logger, res.Type.name, started, err)
	}

	e.state = StateDone
	result := &Result{
		RunID:      runID,
		Worker:     res.Type.name,
		Service:    res.Service,
		Failures:   append([]*InvalidInputError(nil), ex.failures...),
		Invoked:    invoked,
		Outputs:    outputs,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}

	status := "succeeded"
	if !result.Succeeded() {
		status = "invalid_input"
	}
	e.metrics.AddInputFailures(res.Type.name, len(result.Failures))
	for _, o := range outputs {
		if o.Written {
			e.metrics.IncOutputs(res.Type.name)
		}
	}
	e.metrics.ObserveRun(res.Type.name, status, result.FinishedAt.Sub(started))

	ex.logger.Info("run finished",
		"status", status,
		"invoked", invoked,
		"failures", len(result.Failures),
		"outputs", len(outputs),
		"duration", result.FinishedAt.Sub(started),
	)

	return result, nil
}

// fail переводит executor в FAILED и возвращает err.
func (e *Executor) fail(logger *slog.Logger, worker string, started time.Time, err error) error {
	e.state = StateFailed
	e.metrics.ObserveRun(worker, "failed", time.Since(started))
	logger.Error("run failed", "error", err)
	return err
}

type ctxKey string

const ctxRunID ctxKey = "run_id"

// ContextWithRunID задаёт идентификатор выполнения для Execute.
func ContextWithRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxRunID, id)
}

// RunIDFromContext извлекает идентификатор выполнения из контекста.
func RunIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxRunID).(uuid.UUID)
	return id, ok
}

package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/shaiso/xws/internal/mq"
)

// Default configuration values.
const (
	defaultConcurrency = 1
	defaultPrefetch    = 1
)

// Worker выполняет запросы на запуск сервисов.
//
// Worker — stateless компонент системы, который:
//   - Получает запросы из очереди invocations.requested
//   - Записывает run в журнал (если журнал настроен)
//   - Выполняет сервис новым executor'ом
//   - Публикует результат в очередь invocations.completed
//
// Workers масштабируются горизонтально: несколько экземпляров
// могут потреблять из одной очереди.
type Worker struct {
	// Journal
	runs RunStore

	// MQ
	publisher CompletionPublisher
	conn      *mq.Connection

	// Executors
	newExecutor ExecutorFactory

	// Consumers
	consumers   []*mq.Consumer
	concurrency int

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	stoppedMu  sync.RWMutex
}

// Config — конфигурация Worker.
type Config struct {
	// Runs — журнал выполнений (опционально; если nil — runs не сохраняются).
	Runs RunStore

	// MQ
	Publisher CompletionPublisher // опционально; если nil — результат не публикуется
	Conn      *mq.Connection

	// NewExecutor — фабрика executor'ов (обязательна).
	NewExecutor ExecutorFactory

	// Concurrency — количество параллельных consumer'ов (default: 1).
	Concurrency int

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		runs:        cfg.Runs,
		publisher:   cfg.Publisher,
		conn:        cfg.Conn,
		newExecutor: cfg.NewExecutor,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Start запускает consumer'ов очереди invocations.requested.
func (w *Worker) Start(ctx context.Context) error {
	if w.conn == nil {
		return ErrNoConnection
	}
	if w.newExecutor == nil {
		return ErrNoExecutorFactory
	}
	if w.IsStopped() {
		return ErrWorkerStopped
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.logger.Info("starting worker", "concurrency", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		consumer := mq.NewInvocationConsumer(w.conn, w.logger, w.handleInvocation, defaultPrefetch)
		w.consumers = append(w.consumers, consumer)

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Error("invocation consumer error", "error", err)
			}
		}()
	}

	w.logger.Info("worker started")
	return nil
}

// Stop останавливает Worker и ждёт завершения текущих выполнений.
func (w *Worker) Stop() {
	w.stoppedMu.Lock()
	w.stopped = true
	w.stoppedMu.Unlock()

	w.logger.Info("stopping worker...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}

	for _, c := range w.consumers {
		c.Stop()
	}

	// Ждём завершения горутин
	w.wg.Wait()

	w.logger.Info("worker stopped")
}

// IsStopped проверяет, остановлен ли Worker.
func (w *Worker) IsStopped() bool {
	w.stoppedMu.RLock()
	defer w.stoppedMu.RUnlock()
	return w.stopped
}

// xws Worker — выполняет запросы на запуск сервисов.
//
// Worker:
//   - Получает запросы из RabbitMQ (invocations.requested)
//   - Выполняет сервис из services.DefaultRegistry()
//   - Записывает run в Postgres, если БД доступна
//   - Отправляет результат в invocations.completed
//
// Workers масштабируются горизонтально.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/xws/internal/mq"
	"github.com/shaiso/xws/internal/repo"
	"github.com/shaiso/xws/internal/services"
	"github.com/shaiso/xws/internal/telemetry"
	"github.com/shaiso/xws/internal/worker"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting xws-worker")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool (опционально)
	var runs worker.RunStore
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Warn("database not available, run journal disabled", "error", err)
	} else {
		defer pool.Close()
		if err := repo.EnsureSchema(ctx, pool); err != nil {
			logger.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		runs = repo.NewRunRepo(pool)
		logger.Info("database connected")
	}

	// RabbitMQ
	mqConn, err := mq.Dial(ctx, mq.URLFromEnv(), logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer mqConn.Close()
	logger.Info("RabbitMQ connected")

	if err := mq.SetupTopology(ctx, mqConn); err != nil {
		logger.Error("failed to setup topology", "error", err)
		os.Exit(1)
	}

	metrics := telemetry.NewMetrics(nil)

	concurrency := 1
	if v := os.Getenv("WORKER_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			concurrency = n
		}
	}

	// Создаём worker
	w := worker.New(worker.Config{
		Runs:        runs,
		Publisher:   mq.NewPublisher(mqConn, logger),
		Conn:        mqConn,
		NewExecutor: worker.NewExecutorFactory(services.NewExecutor, services.DefaultRegistry(), logger, metrics),
		Concurrency: concurrency,
		Logger:      logger,
	})

	// Запускаем worker
	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		if !mqConn.IsConnected() {
			rw.WriteHeader(http.StatusServiceUnavailable)
			rw.Write([]byte("mq disconnected"))
			return
		}
		rw.WriteHeader(http.StatusOK)
		rw.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if v := os.Getenv("WORKER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	// Останавливаем worker
	w.Stop()
	logger.Info("xws-worker stopped")
}

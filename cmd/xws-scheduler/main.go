// xws Scheduler — публикует запросы по расписанию jobs.
//
// Jobs читаются из YAML-файла (JOBS_FILE, по умолчанию jobs.yaml).
// Если БД доступна, тики выполняет только лидер (pg_try_advisory_lock).
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/xws/internal/mq"
	"github.com/shaiso/xws/internal/repo"
	"github.com/shaiso/xws/internal/scheduler"
	"github.com/shaiso/xws/internal/services"
	"github.com/shaiso/xws/internal/telemetry"
)

const schedLockKey int64 = 424242

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting xws-scheduler")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Jobs
	jobsFile := os.Getenv("JOBS_FILE")
	if jobsFile == "" {
		jobsFile = "jobs.yaml"
	}
	jobs, err := scheduler.LoadJobs(jobsFile)
	if err != nil {
		logger.Error("failed to load jobs", "file", jobsFile, "error", err)
		os.Exit(1)
	}
	if err := scheduler.CheckWorkers(jobs, services.DefaultRegistry().Has); err != nil {
		logger.Error("jobs reference unknown workers", "error", err)
		os.Exit(1)
	}
	logger.Info("jobs loaded", "file", jobsFile, "count", len(jobs))

	// DB pool (опционально, только для leader election)
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Warn("database not available, running without leader election", "error", err)
	} else {
		defer pool.Close()
		logger.Info("database connected")
	}

	// RabbitMQ
	mqConn, err := mq.Dial(ctx, mq.URLFromEnv(), logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer mqConn.Close()

	if err := mq.SetupTopology(ctx, mqConn); err != nil {
		logger.Error("failed to setup topology", "error", err)
		os.Exit(1)
	}

	sched, err := scheduler.New(scheduler.Config{
		Jobs:      jobs,
		Publisher: mq.NewPublisher(mqConn, logger),
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// scheduler loop
	go runLoop(ctx, pool, sched, logger)

	// serve
	port := ":8081"
	if v := os.Getenv("SCHED_PORT"); v != "" {
		port = ":" + v
	}
	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("xws-scheduler stopped")
}

// runLoop вызывает Tick раз в секунду, пока процесс лидер.
// Без БД процесс считается единственным экземпляром.
//
// Advisory lock сессионный, поэтому удерживается на одном
// выделенном соединении пула.
func runLoop(ctx context.Context, pool *pgxpool.Pool, sched *scheduler.Scheduler, logger *slog.Logger) {
	tk := time.NewTicker(1 * time.Second)
	defer tk.Stop()

	var conn *pgxpool.Conn
	if pool != nil {
		c, err := pool.Acquire(ctx)
		if err != nil {
			logger.Error("failed to acquire lock connection", "error", err)
			return
		}
		conn = c
		defer conn.Release()
	}

	hasLock := conn == nil
	defer func() {
		if conn != nil && hasLock {
			_, _ = conn.Exec(context.Background(), "select pg_advisory_unlock($1)", schedLockKey)
		}
	}()

	for {
		select {
		case t := <-tk.C:
			// пытаемся стать лидером (или подтвердить лидерство)
			if !hasLock {
				var ok bool
				if err := conn.QueryRow(ctx, "select pg_try_advisory_lock($1)", schedLockKey).Scan(&ok); err != nil {
					logger.Warn("advisory lock failed", "error", err)
					continue
				}
				if ok {
					logger.Info("acquired scheduler leadership")
				}
				hasLock = ok
			}

			if !hasLock {
				// не лидер — пропускаем тик
				continue
			}

			sched.Tick(ctx, t)

		case <-ctx.Done():
			return
		}
	}
}

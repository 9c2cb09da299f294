// xws CLI — выполнение сервисов и просмотр журнала выполнений.
//
// Использование:
//
//	xws [--json] <command> [flags]
//
// Команды:
//
//	run      Выполнить сервис локально или через очередь (--remote)
//	workers  Зарегистрированные сервисы и их поля
//	runs     Журнал выполнений (list, show)
//	jobs     Проверка файла jobs планировщика
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shaiso/xws/internal/cli"
	"github.com/shaiso/xws/internal/mq"
	"github.com/shaiso/xws/internal/repo"
	"github.com/shaiso/xws/internal/services"
	"github.com/shaiso/xws/internal/telemetry"
	"github.com/shaiso/xws/internal/xws"
)

// version задаётся через ldflags при сборке.
var version = "dev"

// Коды выхода.
const (
	exitError        = 1
	exitInvalidInput = 2
)

func main() {
	var jsonOutput bool

	// логи в stderr, чтобы не смешивать с выводом данных
	logger := telemetry.SetupLoggerTo(os.Stderr)

	deps := cli.Deps{
		Output:   func() *cli.Output { return cli.NewOutput(jsonOutput) },
		Registry: services.DefaultRegistry,
		NewExecutor: func(validate bool) (*xws.Executor, error) {
			return services.NewExecutor(nil, logger, nil, validate)
		},
		Runs: func(ctx context.Context) (cli.RunSource, func(), error) {
			pool, err := repo.NewPool(ctx)
			if err != nil {
				return nil, nil, fmt.Errorf("connect to database: %w", err)
			}
			return repo.NewRunRepo(pool), pool.Close, nil
		},
		Publisher: func(ctx context.Context) (cli.InvocationPublisher, func(), error) {
			conn, err := mq.NewConnection(mq.URLFromEnv(), logger)
			if err != nil {
				return nil, nil, fmt.Errorf("connect to RabbitMQ: %w", err)
			}
			if err := mq.SetupTopology(ctx, conn); err != nil {
				conn.Close()
				return nil, nil, fmt.Errorf("setup topology: %w", err)
			}
			return mq.NewPublisher(conn, logger), func() { conn.Close() }, nil
		},
	}

	rootCmd := cli.NewRootCmd(version, &jsonOutput, deps)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, xws.ErrInvalidInput) {
			os.Exit(exitInvalidInput)
		}
		os.Exit(exitError)
	}
}

// xws-exec — однократное выполнение сервиса.
//
// Использование:
//
//	xws-exec -i <inputDir> -o <outputDir> -w <worker>
//
// Аргументы разбираются executor'ом. При ошибке разбора или
// разрешения сервиса печатается ошибка и краткая справка.
//
// XWS_VALIDATE=true включает проверку документов перед записью,
// XWS_DRY_RUN=true отключает запись выходов. Значения разбираются
// strconv.ParseBool, пустое значение означает false.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/shaiso/xws/internal/services"
	"github.com/shaiso/xws/internal/telemetry"
	"github.com/shaiso/xws/internal/xws"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := telemetry.SetupLoggerTo(os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	validate, err := envBool("XWS_VALIDATE")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	dryRun, err := envBool("XWS_DRY_RUN")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	executor, err := services.NewExecutor(nil, logger, nil, validate)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	executor.Configure(xws.NewConfig().
		WithArguments(args).
		WithWriteEnabled(!dryRun))

	result, err := executor.Execute(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, xws.ErrInvalidArguments) ||
			errors.Is(err, xws.ErrUnresolvableWorkerType) ||
			errors.Is(err, xws.ErrIncoherentConfiguration) {
			fmt.Fprintln(os.Stderr, xws.SyntaxHelp(true))
		}
		return 1
	}

	for _, msg := range result.FailureMessages() {
		fmt.Fprintln(os.Stderr, "Warning:", msg)
	}
	if !result.Succeeded() {
		return 2
	}
	return 0
}

// envBool читает булеву переменную окружения.
func envBool(name string) (bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", name, v)
	}
	return b, nil
}

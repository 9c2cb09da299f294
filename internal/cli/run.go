package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shaiso/xws/internal/domain"
	"github.com/shaiso/xws/internal/xws"
)

// runReport — результат локального выполнения для --json.
type runReport struct {
	*xws.Result
	Failures []string `json:"failures"`
}

// NewRunCmd создаёт команду выполнения сервиса.
//
// По умолчанию сервис выполняется локально. С --remote запрос
// публикуется в очередь и выполняется worker'ом.
func NewRunCmd(d Deps) *cobra.Command {
	var inputDir, outputDir, worker string
	var dryRun, validate, remote bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a worker on an input directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := d.Output()

			if remote {
				return publishInvocation(cmd, d, out, domain.Invocation{
					ID:          uuid.New(),
					Worker:      worker,
					InputDir:    inputDir,
					OutputDir:   outputDir,
					DryRun:      dryRun,
					Validate:    validate,
					Source:      "cli",
					RequestedAt: time.Now(),
				})
			}

			executor, err := d.NewExecutor(validate)
			if err != nil {
				return err
			}
			executor.Configure(xws.NewConfig().
				WithWorker(xws.ByName(worker)).
				WithInputDirectory(inputDir).
				WithOutputDirectory(outputDir).
				WithWriteEnabled(!dryRun))

			result, err := executor.Execute(cmd.Context())
			if err != nil {
				return err
			}

			printResult(out, result)

			if !result.Succeeded() {
				return fmt.Errorf("%w: %d failure(s)", xws.ErrInvalidInput, len(result.Failures))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input-dir", "i", "", "Input directory")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory")
	cmd.Flags().StringVarP(&worker, "worker", "w", "", "Worker name")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Transform outputs without writing them")
	cmd.Flags().BoolVar(&validate, "validate", false, "Validate documents before writing")
	cmd.Flags().BoolVar(&remote, "remote", false, "Publish the invocation to the worker queue")
	_ = cmd.MarkFlagRequired("input-dir")
	_ = cmd.MarkFlagRequired("output-dir")
	_ = cmd.MarkFlagRequired("worker")

	return cmd
}

// printResult выводит выходы выполнения и ошибки входных данных.
func printResult(out *Output, result *xws.Result) {
	if out.JSONMode() {
		out.JSON(runReport{Result: result, Failures: result.FailureMessages()})
		return
	}

	headers := []string{"FIELD", "FILE", "WRITTEN", "PATH"}
	rows := make([][]string, len(result.Outputs))
	for i, o := range result.Outputs {
		rows[i] = []string{o.Field, o.FileName, strconv.FormatBool(o.Written), o.Path}
	}
	out.Table(headers, rows)

	for _, msg := range result.FailureMessages() {
		out.Warn(msg)
	}
	out.Success(fmt.Sprintf("Run %s finished: %s", result.RunID, resultStatus(result)))
}

func resultStatus(result *xws.Result) domain.RunStatus {
	if result.Succeeded() {
		return domain.RunStatusSucceeded
	}
	return domain.RunStatusInvalidInput
}

// publishInvocation публикует запрос в очередь invocations.requested.
//
// Пути директорий приводятся к абсолютным: worker работает
// в другом рабочем каталоге.
func publishInvocation(cmd *cobra.Command, d Deps, out *Output, inv domain.Invocation) error {
	var err error
	if inv.InputDir, err = filepath.Abs(inv.InputDir); err != nil {
		return fmt.Errorf("input dir: %w", err)
	}
	if inv.OutputDir, err = filepath.Abs(inv.OutputDir); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}
	if err := inv.Check(); err != nil {
		return err
	}

	pub, closeFn, err := d.Publisher(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	if err := pub.PublishInvocationRequested(cmd.Context(), inv); err != nil {
		return err
	}

	out.Success(fmt.Sprintf("Invocation published: %s", inv.ID))
	out.Print(
		[]string{"ID", "WORKER", "INPUT_DIR", "OUTPUT_DIR", "DRY_RUN"},
		[][]string{{inv.ID.String(), inv.Worker, inv.InputDir, inv.OutputDir, strconv.FormatBool(inv.DryRun)}},
		inv,
	)
	return nil
}

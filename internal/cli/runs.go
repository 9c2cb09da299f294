package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shaiso/xws/internal/domain"
	"github.com/shaiso/xws/internal/repo"
)

// NewRunsCmd создаёт группу команд для просмотра журнала выполнений.
func NewRunsCmd(d Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the run journal",
	}

	cmd.AddCommand(
		newRunsListCmd(d),
		newRunsShowCmd(d),
	)

	return cmd
}

func newRunsListCmd(d Deps) *cobra.Command {
	var worker string
	var status string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := repo.RunFilter{Worker: worker, Limit: limit, Offset: offset}
			if status != "" {
				s, ok := domain.ParseRunStatus(strings.ToUpper(status))
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				filter.Status = s
			}

			runs, closeFn, err := d.Runs(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			list, err := runs.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			headers := []string{"ID", "WORKER", "STATUS", "FAILURES", "DURATION", "CREATED"}
			rows := make([][]string, len(list))
			for i, r := range list {
				rows[i] = []string{
					r.ID.String(), r.Worker, r.Status.String(),
					strconv.Itoa(len(r.Failures)), r.Duration().String(),
					formatTime(&r.CreatedAt),
				}
			}

			d.Output().Print(headers, rows, list)
			return nil
		},
	}

	cmd.Flags().StringVar(&worker, "worker", "", "Filter by worker")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (RUNNING, SUCCEEDED, INVALID_INPUT, FAILED)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of results to skip")

	return cmd
}

func newRunsShowCmd(d Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show run details (by run or invocation ID)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}

			runs, closeFn, err := d.Runs(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			run, err := runs.GetByID(cmd.Context(), id)
			if errors.Is(err, repo.ErrNotFound) {
				run, err = runs.GetByInvocationID(cmd.Context(), id)
			}
			if err != nil {
				return err
			}

			out := d.Output()
			out.Print(
				[]string{"ID", "INVOCATION_ID", "WORKER", "STATUS", "STARTED", "FINISHED", "ERROR"},
				[][]string{{
					run.ID.String(), run.InvocationID.String(), run.Worker, run.Status.String(),
					formatTime(run.StartedAt), formatTime(run.FinishedAt), run.Error,
				}},
				run,
			)

			if !out.JSONMode() {
				for _, name := range run.Outputs {
					out.Success("output: " + name)
				}
				for _, msg := range run.Failures {
					out.Warn(msg)
				}
			}
			return nil
		},
	}
}

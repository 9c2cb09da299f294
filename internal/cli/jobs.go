package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/xws/internal/scheduler"
)

// NewJobsCmd создаёт команду проверки файла jobs.
//
// Файл проверяется так же, как при старте планировщика, включая
// наличие сервисов в реестре. Для каждой job выводится время
// следующего запуска.
func NewJobsCmd(d Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs FILE",
		Short: "Validate a jobs file and show next due times",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := scheduler.LoadJobs(args[0])
			if err != nil {
				return err
			}
			if err := scheduler.CheckWorkers(jobs, d.Registry().Has); err != nil {
				return err
			}

			now := time.Now()
			headers := []string{"NAME", "WORKER", "CRON", "INTERVAL", "ENABLED", "NEXT_DUE"}
			rows := make([][]string, len(jobs))
			for i, j := range jobs {
				next, err := scheduler.CalculateNextDue(j, now)
				if err != nil {
					return err
				}
				j.NextDueAt = &next

				interval := ""
				if j.IntervalSec > 0 {
					interval = strconv.Itoa(j.IntervalSec) + "s"
				}
				rows[i] = []string{
					j.Name, j.Worker, j.CronExpr, interval,
					strconv.FormatBool(j.Enabled), formatTime(j.NextDueAt),
				}
			}

			d.Output().Print(headers, rows, jobs)
			return nil
		},
	}
}

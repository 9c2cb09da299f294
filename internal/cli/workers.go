package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// workerInfo — описание поля сервиса для --json.
type workerInfo struct {
	Worker   string `json:"worker"`
	Field    string `json:"field"`
	Role     string `json:"role"`
	File     string `json:"file,omitempty"`
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
}

// NewWorkersCmd создаёт команду списка зарегистрированных сервисов.
func NewWorkersCmd(d Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "workers [NAME...]",
		Short: "List registered workers and their fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := d.Registry()

			names := args
			if len(names) == 0 {
				names = reg.Names()
			}

			var infos []workerInfo
			for _, name := range names {
				t, err := reg.Lookup(name)
				if err != nil {
					return err
				}
				for _, f := range t.Fields() {
					info := workerInfo{
						Worker:   t.Name(),
						Field:    f.Name,
						Role:     f.Role.String(),
						Type:     f.Type.String(),
						Optional: f.Optional,
					}
					if f.Role.HasFile() {
						info.File = f.File()
					}
					infos = append(infos, info)
				}
			}

			headers := []string{"WORKER", "FIELD", "ROLE", "FILE", "TYPE", "OPTIONAL"}
			rows := make([][]string, len(infos))
			for i, w := range infos {
				rows[i] = []string{w.Worker, w.Field, w.Role, w.File, w.Type, strconv.FormatBool(w.Optional)}
			}

			d.Output().Print(headers, rows, infos)
			return nil
		},
	}
}

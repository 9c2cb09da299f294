package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd создаёт корневую команду xws со всеми подкомандами.
//
// jsonOutput заполняется флагом --json и читается замыканием
// Output в d после разбора флагов.
func NewRootCmd(version string, jsonOutput *bool, d Deps) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "xws",
		Short:         "xws: declarative service execution engine",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(
		NewRunCmd(d),
		NewWorkersCmd(d),
		NewRunsCmd(d),
		NewJobsCmd(d),
	)

	return rootCmd
}

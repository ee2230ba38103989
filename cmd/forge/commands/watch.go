package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [input]",
		Short: "Rebuild assets as they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			preset, _ := cmd.Flags().GetString("preset")
			debounce, _ := cmd.Flags().GetDuration("debounce")
			jsonLogs, _ := cmd.Flags().GetBool("json")

			return c.app.Watch(cmd.Context(), app.WatchOptions{
				Input:      firstArg(args),
				Output:     output,
				Preset:     preset,
				ConfigPath: configFlag(cmd),
				Debounce:   debounce,
				JSON:       jsonLogs,
			})
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output directory (default: project.output)")
	cmd.Flags().StringP("preset", "p", "", "Platform preset: mobile, desktop, web or a configured one")
	cmd.Flags().Duration("debounce", 0, "Ignore repeated changes to a file within this window (default: watch.debounce)")
	cmd.Flags().Bool("json", false, "Write log records as JSON")
	return cmd
}

package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [input]",
		Short: "Process every asset that changed since the last build",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			preset, _ := cmd.Flags().GetString("preset")
			jobs, _ := cmd.Flags().GetInt("jobs")
			force, _ := cmd.Flags().GetBool("force")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			outputMode, _ := cmd.Flags().GetString("output-mode")
			ci, _ := cmd.Flags().GetBool("ci")
			jsonLogs, _ := cmd.Flags().GetBool("json")

			// If --ci is set, override output-mode to "linear"
			if ci {
				outputMode = "linear"
			}

			return c.app.Build(cmd.Context(), app.BuildOptions{
				Input:      firstArg(args),
				Output:     output,
				Preset:     preset,
				ConfigPath: configFlag(cmd),
				Jobs:       jobs,
				Force:      force,
				DryRun:     dryRun,
				NoCache:    noCache,
				OutputMode: outputMode,
				JSON:       jsonLogs,
			})
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output directory (default: project.output)")
	cmd.Flags().StringP("preset", "p", "", "Platform preset: mobile, desktop, web or a configured one")
	cmd.Flags().IntP("jobs", "j", 0, "Number of parallel transforms (default: one per CPU)")
	cmd.Flags().BoolP("force", "f", false, "Rebuild every file regardless of the cache")
	cmd.Flags().Bool("dry-run", false, "List what would be processed without processing it")
	cmd.Flags().BoolP("no-cache", "n", false, "Neither read nor write the build cache")
	cmd.Flags().String("output-mode", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	cmd.Flags().Bool("json", false, "Write log records as JSON")
	return cmd
}

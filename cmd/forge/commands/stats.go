package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
)

func (c *CLI) newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show build cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cacheDir, _ := cmd.Flags().GetString("cache-dir")
			output, _ := cmd.Flags().GetString("output")

			return c.app.Stats(cmd.Context(), app.StatsOptions{
				CacheDir:   cacheDir,
				Output:     output,
				ConfigPath: configFlag(cmd),
			})
		},
	}
	cmd.Flags().String("cache-dir", "", "Cache directory, relative to the output directory (default: cache.directory)")
	cmd.Flags().StringP("output", "o", "", "Output directory (default: project.output)")
	return cmd
}

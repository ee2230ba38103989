package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build cache and, with --all, the build outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			cacheDir, _ := cmd.Flags().GetString("cache-dir")
			output, _ := cmd.Flags().GetString("output")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				All:        all,
				CacheDir:   cacheDir,
				Output:     output,
				ConfigPath: configFlag(cmd),
			})
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Also remove the output directory")
	cmd.Flags().String("cache-dir", "", "Cache directory, relative to the output directory (default: cache.directory)")
	cmd.Flags().StringP("output", "o", "", "Output directory (default: project.output)")

	return cmd
}

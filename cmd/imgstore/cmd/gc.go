package cmd

import (
	units "github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/oneconcern/imgstore/pkg/imgstore"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var gcCmd = &cobra.Command{
	Use:   "gc <store> <tmp store>",
	Short: "Reclaim the space of deleted images",
	Long: `Compact a store: its valid images are copied into a new store, built at the temporary path,
which then replaces the original.

Thumbnails and small images present in the original are generated again in the new store.

NOTES:
* the store must not be in use (e.g. served) during the compaction
* on failure, the original store is left untouched and the temporary store is left on disk
* the original store is removed before the temporary store is renamed: an interruption at this point loses the store
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		report, err := imgstore.GarbageCollect(appFs, args[0], args[1],
			imgstore.WithGCLogger(logger.With(zap.String("command", "gc"))),
			imgstore.WithGCStoreOptions(storeOptions()...),
		)
		if err != nil {
			wrapFatalln("compact store", err)
			return
		}

		out := cmd.OutOrStdout()
		title := color.New(color.FgGreen, color.Bold)
		_, _ = title.Fprintf(out, "compacted %s\n", args[0])
		_, _ = color.New(color.FgCyan).Fprintf(out, "  images:        %d\n  regenerated:   %d\n",
			report.Images, report.Materialized)
		_, _ = color.New(color.FgCyan).Fprintf(out, "  size:          %s -> %s\n",
			units.HumanSize(float64(report.SizeBefore)), units.HumanSize(float64(report.SizeAfter)))
		_, _ = color.New(color.FgYellow).Fprintf(out, "  reclaimed:     %s\n",
			units.HumanSize(float64(report.Reclaimed())))
	},
}

func init() {
	rootCmd.AddCommand(gcCmd)
}

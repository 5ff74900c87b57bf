package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/takato23/cocina/internal/daemon"
	"github.com/takato23/cocina/internal/domain"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <user>",
	Short: "Show a user's lifetime statistics and streaks",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	stats, err := d.Engine.Stats(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STAT\tVALUE")

	keys := make([]domain.StatKind, 0, len(stats.Counters))
	for k := range stats.Counters {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%d\n", k, stats.Counters[k])
	}

	activities := make([]string, 0, len(stats.Streaks))
	for a := range stats.Streaks {
		activities = append(activities, a)
	}
	sort.Strings(activities)
	for _, a := range activities {
		fmt.Fprintf(w, "streak:%s\t%d days\n", a, stats.Streaks[a])
	}
	return w.Flush()
}

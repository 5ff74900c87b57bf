package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/takato23/cocina/internal/daemon"
	"github.com/takato23/cocina/internal/domain"
)

func init() {
	rootCmd.AddCommand(achievementsCmd)
}

var achievementsCmd = &cobra.Command{
	Use:     "achievements <user>",
	Aliases: []string{"ach"},
	Short:   "Show a user's achievement progress",
	Args:    cobra.ExactArgs(1),
	RunE:    runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	userID := args[0]
	rows, err := d.Achievement.Progress(userID)
	if err != nil {
		return err
	}
	byID := make(map[string]domain.AchievementProgress, len(rows))
	for _, p := range rows {
		byID[p.AchievementID] = p
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACHIEVEMENT\tSTATE\tPROGRESS")
	completed := 0
	for _, def := range d.Achievement.Definitions() {
		state := domain.ProgressNotStarted
		progress := "0%"
		if p, ok := byID[def.ID]; ok {
			state = p.State()
			progress = fmt.Sprintf("%.0f%%", p.Pct())
			if p.Completed {
				completed++
			}
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\n", def.Icon, def.Name, state, progress)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d of %d completed\n", completed, d.Achievement.TotalCount())
	return nil
}

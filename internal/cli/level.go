package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/takato23/cocina/internal/daemon"
)

func init() {
	rootCmd.AddCommand(levelCmd)
}

var levelCmd = &cobra.Command{
	Use:   "level <user>",
	Short: "Show a user's level and XP",
	Args:  cobra.ExactArgs(1),
	RunE:  runLevel,
}

func runLevel(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	userID := args[0]
	current, err := d.Level.CurrentLevel(userID)
	if err != nil {
		return err
	}
	toNext, err := d.Level.XPToNext(userID)
	if err != nil {
		return err
	}
	pct, err := d.Level.Progress(userID)
	if err != nil {
		return err
	}

	fmt.Printf("Level %d  (%d XP total)\n", current.Level, current.TotalXP)
	if toNext > 0 {
		fmt.Printf("Next level: %d XP to go (%.0f%%)\n", toNext, pct)
	} else {
		fmt.Println("Max level reached")
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/takato23/cocina/internal/daemon"
)

func init() {
	pointsCmd.Flags().Int64Var(&pointsSpend, "spend", 0, "Spend this many points")
	pointsCmd.Flags().StringVar(&pointsReason, "reason", "", "Reason for spending")
	rootCmd.AddCommand(pointsCmd)
}

var (
	pointsSpend  int64
	pointsReason string
)

var pointsCmd = &cobra.Command{
	Use:   "points <user>",
	Short: "Show or spend a user's reward points",
	Args:  cobra.ExactArgs(1),
	RunE:  runPoints,
}

func runPoints(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	userID := args[0]

	if pointsSpend > 0 {
		if err := d.Points.Spend(userID, pointsSpend, pointsReason); err != nil {
			return err
		}
		fmt.Printf("Spent %d points\n", pointsSpend)
	}

	balance, err := d.Points.Balance(userID)
	if err != nil {
		return err
	}
	fmt.Printf("Balance: %d points\n", balance)
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/takato23/cocina/internal/daemon"
	"github.com/takato23/cocina/internal/domain"
)

func init() {
	awardCmd.Flags().StringVar(&awardDifficulty, "difficulty", "", "Recipe difficulty: easy, medium, hard, expert")
	awardCmd.Flags().IntVar(&awardStreakDays, "streak-days", 0, "Override streak days for the bonus")
	awardCmd.Flags().BoolVar(&awardFirstTime, "first-time", false, "First time performing this action")
	awardCmd.Flags().IntVar(&awardRating, "rating", 0, "Recipe rating 1-5 (creation events)")
	awardCmd.Flags().BoolVar(&awardFaster, "faster", false, "Completed faster than the estimate")
	rootCmd.AddCommand(awardCmd)
}

var (
	awardDifficulty string
	awardStreakDays int
	awardFirstTime  bool
	awardRating     int
	awardFaster     bool
)

var awardCmd = &cobra.Command{
	Use:   "award <user> <event-type>",
	Short: "Record an XP event for a user",
	Long: `Record an XP event and print the award breakdown.

Event types: recipe_cooked, recipe_created, meal_planned,
pantry_item_added, shopping_list_completed, daily_check_in.`,
	Args: cobra.ExactArgs(2),
	RunE: runAward,
}

func runAward(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	meta := domain.EventMeta{
		Difficulty:         domain.Difficulty(awardDifficulty),
		StreakDays:         awardStreakDays,
		FirstTime:          awardFirstTime,
		Rating:             awardRating,
		FasterThanEstimate: awardFaster,
	}

	result, err := d.Engine.RecordEvent(args[0], domain.EventType(args[1]), meta)
	if err != nil {
		return err
	}

	fmt.Printf("+%d XP  (+%d points)\n", result.XPAwarded, result.PointsAwarded)
	if result.LeveledUp {
		fmt.Printf("Level up! Now level %d\n", result.NewLevel)
	}
	for _, def := range result.Unlocked {
		fmt.Printf("Unlocked: %s %s — %s\n", def.Icon, def.Name, def.Description)
	}
	if result.RewardXP > 0 || result.RewardPoints > 0 {
		fmt.Printf("Rewards: +%d XP, +%d points\n", result.RewardXP, result.RewardPoints)
	}
	fmt.Printf("Total: %d XP, level %d\n", result.TotalXP, result.NewLevel)
	return nil
}

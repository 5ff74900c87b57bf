// Package cli implements the cocina command-line interface using Cobra.
// Each subcommand maps to one engagement operation (award, level, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cocina",
	Short: "cocina — XP, levels, and achievements for the cooking app",
	Long: `cocina is the gamification engine behind the recipe and meal-planning app.
It tracks XP events, the level curve, achievement progress, streaks, and
reward points, and serves them over a local HTTP API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

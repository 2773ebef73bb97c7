package cmd

import (
	"fmt"

	"alcyxob/gym-coach/internal/tui"

	"github.com/spf13/cobra"
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Run today's plan with a guided timer",
	Long: `Loads your effective plan and walks through it one exercise at a time,
alternating exercise and rest phases. Progress is not saved when you leave.`,
	Args: cobra.NoArgs,
	RunE: runWorkout,
}

func init() {
	rootCmd.AddCommand(workoutCmd)
}

func runWorkout(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	p, err := c.MyPlan(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}
	return runProgram(tui.NewWorkout(p))
}

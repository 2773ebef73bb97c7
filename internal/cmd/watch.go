package cmd

import (
	"fmt"
	"strconv"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/tui"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <body-part-id> <index>",
	Short: "Show an exercise and follow changes live",
	Long: `Opens one catalog exercise and keeps it current while others edit it.
Trainers can press "e" to edit; incoming changes wait until the edit is
saved or cancelled.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func parseExerciseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid exercise index %q", s)
	}
	return index, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	index, err := parseExerciseIndex(args[1])
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	c, err := newClient()
	if err != nil {
		return err
	}
	me, err := c.Me(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	return runProgram(tui.NewExercise(ctx, c, args[0], index, me.Role == domain.RoleAdmin))
}

package cmd

import (
	"fmt"

	"alcyxob/gym-coach/internal/tui"

	"github.com/spf13/cobra"
)

var assignCmd = &cobra.Command{
	Use:   "assign <student-id>",
	Short: "Choose which catalog exercises a student gets",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssign,
}

var orderCmd = &cobra.Command{
	Use:   "order <student-id>",
	Short: "Reorder a student's plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrder,
}

func init() {
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(orderCmd)
}

func runAssign(cmd *cobra.Command, args []string) error {
	ctx, id := cmd.Context(), args[0]
	c, err := newClient()
	if err != nil {
		return err
	}
	catalog, err := c.BodyParts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	loaded, err := c.Assignments(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load assignments: %w", err)
	}
	return runProgram(tui.NewAssign(ctx, c, id, studentName(ctx, c, id), catalog, loaded))
}

func runOrder(cmd *cobra.Command, args []string) error {
	ctx, id := cmd.Context(), args[0]
	c, err := newClient()
	if err != nil {
		return err
	}
	p, err := c.StudentPlan(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}
	return runProgram(tui.NewOrder(ctx, c, id, studentName(ctx, c, id), p))
}

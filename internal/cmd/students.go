package cmd

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/gym-coach/internal/client"
	"alcyxob/gym-coach/internal/tui/styles"

	"github.com/spf13/cobra"
)

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "List students (trainers only)",
	Args:  cobra.NoArgs,
	RunE:  runStudents,
}

func init() {
	rootCmd.AddCommand(studentsCmd)
}

func runStudents(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	students, err := c.Students(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list students: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(students) == 0 {
		fmt.Fprintln(out, "No students yet.")
		return nil
	}
	fmt.Fprintln(out, styles.Title.Render("STUDENTS"))
	fmt.Fprintln(out, strings.Repeat("─", 60))
	for _, s := range students {
		last := "never"
		if s.LastLogin != nil {
			last = s.LastLogin.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(out, "%-24s  %-20s  %s\n", s.ID, s.Name, styles.Muted.Render("last login "+last))
	}
	return nil
}

// studentName looks up a display name; the id is used when it cannot be found.
func studentName(ctx context.Context, c *client.Client, id string) string {
	students, err := c.Students(ctx)
	if err != nil {
		return id
	}
	for _, s := range students {
		if s.ID == id {
			return s.Name
		}
	}
	return id
}

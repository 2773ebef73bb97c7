package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and print a bearer token",
	Long: `Sign in with email and password. The token is printed so it can be put
in the config file (client.token) or exported as CLIENT_TOKEN.

When --password is omitted it is read from the first line of stdin.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var (
	loginEmail    string
	loginPassword string
	loginQuiet    bool // Print the bare token only
)

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
	loginCmd.Flags().BoolVarP(&loginQuiet, "quiet", "q", false, "print only the token")
	_ = loginCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	password := loginPassword
	if password == "" {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("password is required")
		}
		password = strings.TrimRight(line, "\r\n")
	}

	c, err := newClient()
	if err != nil {
		return err
	}
	token, user, err := c.Login(cmd.Context(), loginEmail, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if loginQuiet {
		fmt.Fprintln(out, token)
		return nil
	}
	fmt.Fprintf(out, "Signed in as %s (%s)\n\n", user.Name, user.Role)
	fmt.Fprintf(out, "export CLIENT_TOKEN=%s\n", token)
	return nil
}

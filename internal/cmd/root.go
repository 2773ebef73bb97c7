// Package cmd wires the gymcoach CLI commands.
package cmd

import (
	"fmt"
	"os"

	"alcyxob/gym-coach/internal/client"
	"alcyxob/gym-coach/internal/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cfg is filled by initConfig before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "gymcoach",
	Short: "Terminal client for the gym coaching service",
	Long: `gymcoach talks to a gym-coach server. Students run their workout plan
with a guided timer; trainers assign exercises, order plans and edit the
exercise catalog while watching it update live.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "API base URL, overrides client.base_url")
	rootCmd.PersistentFlags().String("token", "", "bearer token, overrides client.token")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
}

func initConfig() {
	var err error
	if file := viper.GetString("config"); file != "" {
		cfg, err = config.LoadFile(file)
	} else {
		cfg, err = config.LoadConfig(".")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "gymcoach: failed to read config: %v\n", err)
		os.Exit(1)
	}

	if v := viper.GetString("base_url"); v != "" {
		cfg.Client.BaseURL = v
	}
	if v := viper.GetString("token"); v != "" {
		cfg.Client.Token = v
	}
}

func newClient() (*client.Client, error) {
	return client.New(client.Options{BaseURL: cfg.Client.BaseURL, Token: cfg.Client.Token})
}

func runProgram(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

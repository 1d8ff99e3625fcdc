package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/followme/attendance-cli/pkg/config"
	"github.com/followme/attendance-cli/pkg/logger"
	"github.com/followme/attendance-cli/pkg/output"
	"github.com/followme/attendance-cli/pkg/service"
)

var (
	verbose    bool
	configPath string
	outputFmt  string

	// The composition root's product, built once in PersistentPreRun and
	// shared by every command.
	app *service.App
)

var rootCmd = &cobra.Command{
	Use:   "followme",
	Short: "FollowMe - offline-first attendance tracking",
	Long: `FollowMe queues attendance records locally and synchronizes them
to a configurable remote API whenever connectivity and authentication
allow. Entries survive restarts and are retried until they go through.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.Init(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
			os.Exit(1)
		}

		logger.Init(verbose)

		if !output.ValidateFormat(outputFmt) {
			fmt.Fprintf(os.Stderr, "Error: invalid output format %q\n", outputFmt)
			os.Exit(1)
		}
		config.SetString("output.format", outputFmt)

		var err error
		app, err = service.NewApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing application: %v\n", err)
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/followme/config.toml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "output", "text", "Output format: text, json")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"brickshot/internal/client"
	"brickshot/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	serverURL  string
	configPath string
	verbose    bool
	timeout    time.Duration

	logger   *zap.Logger
	settings *Settings
)

var rootCmd = &cobra.Command{
	Use:   "brickshot",
	Short: "Command line client for BrickShot shot lists",
	Long: `brickshot reads and edits shot lists on a BrickShot server.

Log in once with "brickshot login"; the token is saved next to the
server address in the config file and reused by every other command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		var err error
		if logger, err = logging.New(level, true); err != nil {
			return err
		}

		if configPath == "" {
			if configPath, err = defaultConfigPath(); err != nil {
				return err
			}
		}
		if settings, err = loadSettings(configPath); err != nil {
			return err
		}
		if serverURL != "" {
			settings.Server = serverURL
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func newClient() (*client.Client, error) {
	return client.New(settings.Server, client.WithToken(settings.Token), client.WithLogger(logger))
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Server base URL (overrides the config file)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: user config dir/brickshot/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(shotsCmd)
	rootCmd.AddCommand(cycleCmd)
	rootCmd.AddCommand(pinCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

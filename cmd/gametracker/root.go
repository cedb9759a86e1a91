package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gametracker",
	Short: "Track a game's followers against its forum mentions",
	Long: `Game Tracker collects the follower count of a game from its tracking page
and the number of forum posts mentioning it per day, aligns both series by
date and writes the result as CSV together with a short analysis report.

Features:
  - Concurrent collection from both sources
  - Automatic retry with exponential backoff
  - Fixed delay between requests and optional requests-per-minute cap
  - Follower history that accumulates across runs
  - Daily change, 7-day rolling averages and correlation
  - Optional text chart of both series`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionString() string {
	return fmt.Sprintf(`Game Tracker %s
Go Version: %s
OS/Arch: %s/%s
`, rootCmd.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), versionString())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`{{printf "%s" .Version}}` + "\n")
	rootCmd.AddCommand(versionCmd)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"gametracker/pkg/config"
	"gametracker/pkg/logger"
	"gametracker/pkg/pipeline"
	"gametracker/pkg/ui"
)

var (
	// Track command flags
	gameName  string
	appID     int
	days      int
	output    string
	visualize bool
)

// trackCmd represents the track command
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Collect, align and save followers and mentions for one game",
	Long: `Collect the current follower count and one mentions count per day of the
tracking window, align them by date and write the CSV and report files.

A failing follower page falls back to a default baseline and a failing
mentions query counts as zero for that day, so a run always produces output
unless it is interrupted.`,
	Example: `  # Track the default game for 30 days
  gametracker track

  # Track a specific game for two weeks and draw a chart
  gametracker track --game "Hades" --app-id 1145360 --days 14 --visualize

  # Write the CSV somewhere else
  gametracker track --output ./out/hades.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrack(cmd.Flags())
	},
}

func init() {
	rootCmd.AddCommand(trackCmd)
	addTrackFlags(trackCmd.Flags())

	// The root command tracks directly when given flags
	addTrackFlags(rootCmd.Flags())
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().NFlag() == 0 {
			return cmd.Help()
		}
		return runTrack(cmd.Flags())
	}
}

func addTrackFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&gameName, "game", "g", "", "game name as used in forum titles")
	fs.IntVarP(&appID, "app-id", "a", 0, "game app id on the tracking site")
	fs.IntVarP(&days, "days", "d", 0, "number of days to track")
	fs.StringVarP(&output, "output", "o", "", "output CSV file")
	fs.BoolVarP(&visualize, "visualize", "v", false, "render a chart of the results")
}

// trackFlags returns the flags the user actually set, keyed the way
// config.MergeCommandLineFlags expects
func trackFlags(fs *pflag.FlagSet) map[string]interface{} {
	flags := make(map[string]interface{})
	if fs.Changed("game") {
		flags["game"] = gameName
	}
	if fs.Changed("app-id") {
		flags["app-id"] = appID
	}
	if fs.Changed("days") {
		flags["days"] = days
	}
	if fs.Changed("output") {
		flags["output"] = output
	}
	if fs.Changed("visualize") {
		flags["visualize"] = visualize
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}

func runTrack(fs *pflag.FlagSet) error {
	cfg, err := config.Load(configFile, trackFlags(fs))
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("Game Tracker starting")

	if cfg.ExceedsRecommendedWindow() {
		log.WithField("window_days", cfg.Tracking.WindowDays).
			Warn(fmt.Sprintf("Tracking more than %d days may be slow and hit rate limits", config.MaxRecommendedWindow))
	}

	ui.PrintBanner()
	ui.PrintInfo("Game", cfg.Target.Name)
	ui.PrintInfo("App ID", fmt.Sprint(cfg.Target.AppID))
	ui.PrintInfo("Window", fmt.Sprintf("%d days", cfg.Tracking.WindowDays))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := ui.NewDayProgress("mentions", cfg.Tracking.WindowDays+1)
	result, err := pipeline.New(cfg,
		pipeline.WithLogger(log),
		pipeline.WithProgress(progress.Update),
	).Run(ctx)
	if err != nil {
		return runError(ctx, err, log)
	}

	ui.PrintSummary(ui.Out, result.Table, cfg.Snapshot())
	if cfg.Output.Visualize && result.Table.Len() > 0 {
		chart := ui.ChartRenderer{Title: "Game Analytics: " + cfg.Target.Name}
		if err := chart.Render(ui.Out, result.Table); err != nil {
			log.WithError(err).Warn("Could not render chart")
		}
	}

	ui.PrintInfo("CSV", result.CSVPath)
	ui.PrintInfo("Report", result.ReportPath)
	if result.ChartPath != "" {
		ui.PrintInfo("Chart", result.ChartPath)
	}
	if result.TrendPath != "" {
		ui.PrintInfo("Trends", result.TrendPath)
	}
	if result.Game.Error != "" {
		ui.PrintWarning("Game info unavailable", result.Game.Error)
	}
	ui.PrintSuccess("Tracking completed")
	log.Info("Tracking completed successfully")
	return nil
}

// runError reports a failed run. A user-requested stop is not a failure;
// the follower ledger may already be updated but no output file has been.
func runError(ctx context.Context, err error, log logger.Logger) error {
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		fmt.Fprintln(ui.Out)
		ui.PrintWarning("Interrupted, no output files were written")
		log.Info("Run interrupted by user")
		return nil
	}
	log.WithError(err).Error("Tracking run failed")
	ui.PrintError("Tracking failed", err.Error())
	return err
}

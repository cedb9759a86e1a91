package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gametracker/pkg/config"
	"gametracker/pkg/logger"
	"gametracker/pkg/ui"
)

func newTrackFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("track", pflag.ContinueOnError)
	addTrackFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestTrackFlagsOnlyChanged(t *testing.T) {
	fs := newTrackFlagSet(t, "--game", "Hades", "--days", "14")

	flags := trackFlags(fs)
	assert.Equal(t, "Hades", flags["game"])
	assert.Equal(t, 14, flags["days"])
	assert.NotContains(t, flags, "app-id")
	assert.NotContains(t, flags, "visualize")
}

func TestTrackFlagsMergeIntoConfig(t *testing.T) {
	fs := newTrackFlagSet(t, "-g", "Hades", "-a", "1145360", "-o", "out/hades.csv", "-v")

	cfg := config.DefaultConfig()
	cfg.MergeCommandLineFlags(trackFlags(fs))

	assert.Equal(t, "Hades", cfg.Target.Name)
	assert.Equal(t, 1145360, cfg.Target.AppID)
	assert.Equal(t, "out", cfg.Output.Directory)
	assert.Equal(t, "hades.csv", cfg.Output.CSVFile)
	assert.True(t, cfg.Output.Visualize)
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, buf.String(), "Game Tracker "+version)
	assert.Contains(t, buf.String(), "Go Version:")
}

func TestConfigInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gametracker.yaml")
	prev := configFile
	configFile = path
	t.Cleanup(func() { configFile = prev })

	require.NoError(t, configInitCmd.RunE(configInitCmd, nil))

	loaded := config.DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, config.DefaultConfig(), loaded)

	// A second init refuses to overwrite
	assert.Error(t, configInitCmd.RunE(configInitCmd, nil))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestRunErrorInterrupted(t *testing.T) {
	var buf bytes.Buffer
	prev := ui.Out
	ui.Out = &buf
	t.Cleanup(func() { ui.Out = prev })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tl := logger.NewTestLogger()
	assert.NoError(t, runError(ctx, context.Canceled, tl))
	assert.Contains(t, buf.String(), "Interrupted, no output files were written")
	assert.False(t, tl.HasError())

	buf.Reset()
	failure := errors.New("disk full")
	assert.ErrorIs(t, runError(context.Background(), failure, tl), failure)
	assert.Contains(t, buf.String(), "Tracking failed")
	assert.True(t, tl.HasError())
}

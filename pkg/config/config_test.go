package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Target.Name != "Cyberpunk 2077" {
		t.Errorf("Expected default game to be Cyberpunk 2077, got %s", config.Target.Name)
	}

	if config.Target.AppID != 1091500 {
		t.Errorf("Expected default app ID to be 1091500, got %d", config.Target.AppID)
	}

	if config.Tracking.WindowDays != 30 {
		t.Errorf("Expected default window to be 30 days, got %d", config.Tracking.WindowDays)
	}

	if config.Output.Directory != "data" {
		t.Errorf("Expected default output directory to be data, got %s", config.Output.Directory)
	}

	if config.RateLimit.Delay != time.Second {
		t.Errorf("Expected default rate limit delay to be 1s, got %v", config.RateLimit.Delay)
	}

	assert.NoError(t, config.Validate())
}

func TestTrackingSnapshot(t *testing.T) {
	config := DefaultConfig()
	snapshot := config.Snapshot()

	config.Target.Name = "Changed"
	config.RateLimit.MaxRetries = 9

	assert.Equal(t, "Cyberpunk 2077", snapshot.TargetName)
	assert.Equal(t, 1091500, snapshot.TargetID)
	assert.Equal(t, 30, snapshot.WindowDays)
	assert.Equal(t, time.Second, snapshot.RateLimitDelay)
	assert.Equal(t, 3, snapshot.MaxRetries)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GAMETRACKER_GAME_NAME", "Hades")
	t.Setenv("GAMETRACKER_APP_ID", "1145360")
	t.Setenv("GAMETRACKER_DAYS", "14")
	t.Setenv("GAMETRACKER_RATE_LIMIT_DELAY", "1.5")
	t.Setenv("GAMETRACKER_MAX_RETRIES", "5")
	t.Setenv("GAMETRACKER_OUTPUT_DIR", "/tmp/tracker-out")
	t.Setenv("GAMETRACKER_LOG_LEVEL", "debug")
	t.Setenv("REDDIT_USER_AGENT", "test-agent/2.0")

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, "Hades", config.Target.Name)
	assert.Equal(t, 1145360, config.Target.AppID)
	assert.Equal(t, 14, config.Tracking.WindowDays)
	assert.Equal(t, 1500*time.Millisecond, config.RateLimit.Delay)
	assert.Equal(t, 5, config.RateLimit.MaxRetries)
	assert.Equal(t, "/tmp/tracker-out", config.Output.Directory)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "test-agent/2.0", config.Sources.MentionsUserAgent)
}

func TestLoadFromEnvInvalidNumbers(t *testing.T) {
	t.Setenv("GAMETRACKER_APP_ID", "not-a-number")
	t.Setenv("GAMETRACKER_DAYS", "thirty")

	config := DefaultConfig()
	err := config.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GAMETRACKER_APP_ID")
	assert.Contains(t, err.Error(), "GAMETRACKER_DAYS")
	assert.Equal(t, 1091500, config.Target.AppID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"empty game name", func(c *Config) { c.Target.Name = "  " }, true},
		{"zero app ID", func(c *Config) { c.Target.AppID = 0 }, true},
		{"negative window", func(c *Config) { c.Tracking.WindowDays = -1 }, true},
		{"negative retries", func(c *Config) { c.RateLimit.MaxRetries = -1 }, true},
		{"zero retries allowed", func(c *Config) { c.RateLimit.MaxRetries = 0 }, false},
		{"negative delay", func(c *Config) { c.RateLimit.Delay = -time.Second }, true},
		{"zero base delay", func(c *Config) { c.Sources.MentionsBaseDelay = 0 }, true},
		{"invalid log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"long window accepted", func(c *Config) { c.Tracking.WindowDays = 400 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestExceedsRecommendedWindow(t *testing.T) {
	config := DefaultConfig()
	assert.False(t, config.ExceedsRecommendedWindow())

	config.Tracking.WindowDays = 366
	assert.True(t, config.ExceedsRecommendedWindow())
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	flags := map[string]interface{}{
		"game":      "Stardew Valley",
		"app-id":    413150,
		"days":      7,
		"output":    "/flag/output/run.csv",
		"visualize": true,
		"log-level": "error",
	}

	config.MergeCommandLineFlags(flags)

	assert.Equal(t, "Stardew Valley", config.Target.Name)
	assert.Equal(t, 413150, config.Target.AppID)
	assert.Equal(t, 7, config.Tracking.WindowDays)
	assert.Equal(t, "/flag/output", config.Output.Directory)
	assert.Equal(t, "run.csv", config.Output.CSVFile)
	assert.Equal(t, filepath.Join("/flag/output", "run.csv"), config.CSVPath())
	assert.True(t, config.Output.Visualize)
	assert.Equal(t, "error", config.Logging.Level)
}

func TestOutputPaths(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, filepath.Join("data", "results.csv"), config.CSVPath())
	assert.Equal(t, filepath.Join("data", "report.txt"), config.ReportPath())
	assert.Equal(t, filepath.Join("data", "graph.html"), config.ChartPath())
	assert.Equal(t, filepath.Join("data", "trend_analysis.html"), config.TrendPath())
	assert.Equal(t, filepath.Join("data", "follower_history.json"), config.HistoryPath())

	config.Output.ReportFile = "/abs/report.txt"
	assert.Equal(t, "/abs/report.txt", config.ReportPath())
}

func TestSaveAndLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	config := DefaultConfig()
	config.Target.Name = "Save Test"
	config.Target.AppID = 42
	config.RateLimit.Delay = 250 * time.Millisecond

	require.NoError(t, config.Save(configPath))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(configPath))

	assert.Equal(t, "Save Test", loaded.Target.Name)
	assert.Equal(t, 42, loaded.Target.AppID)
	assert.Equal(t, 250*time.Millisecond, loaded.RateLimit.Delay)
}

func TestLoadLegacyJSONFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	legacy := `{
  "game_name": "The Witcher 3",
  "steam_app_id": 292030,
  "tracking_days": 14,
  "output_dir": "out",
  "log_level": "DEBUG",
  "enable_caching": false,
  "cache_duration": 120,
  "rate_limit_delay": 0.5,
  "max_retries": 2
}`
	require.NoError(t, os.WriteFile(configPath, []byte(legacy), 0644))

	config := DefaultConfig()
	require.NoError(t, config.LoadFromFile(configPath))

	assert.Equal(t, "The Witcher 3", config.Target.Name)
	assert.Equal(t, 292030, config.Target.AppID)
	assert.Equal(t, 14, config.Tracking.WindowDays)
	assert.Equal(t, "out", config.Output.Directory)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.False(t, config.Cache.Enabled)
	assert.Equal(t, 2*time.Minute, config.Cache.TTL)
	assert.Equal(t, 500*time.Millisecond, config.RateLimit.Delay)
	assert.Equal(t, 2, config.RateLimit.MaxRetries)
}

func TestLoadFromFileErrors(t *testing.T) {
	config := DefaultConfig()

	err := config.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	badPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("target: [unclosed"), 0644))
	err = config.LoadFromFile(badPath)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load("", map[string]interface{}{"days": -3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestLoadRejectsExplicitZeroFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load("", map[string]interface{}{"days": 0, "app-id": 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app ID must be a positive integer")
	assert.Contains(t, err.Error(), "tracking days must be a positive integer")

	config := DefaultConfig()
	config.Output.Visualize = true
	config.MergeCommandLineFlags(map[string]interface{}{"game": "", "visualize": false})
	assert.Empty(t, config.Target.Name)
	assert.False(t, config.Output.Visualize)
	assert.Error(t, config.Validate())
}

func TestLoadFromFileRejectsBareDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "rate_limit:\n  delay: 1\n  max_retries: 3\ncache:\n  ttl: 3600\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	config := DefaultConfig()
	err := config.LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `rate_limit.delay: 1 has no unit, write a duration such as "1s" or "1ms"`)
	assert.Contains(t, err.Error(), "cache.ttl: 3600 has no unit")

	data = "rate_limit:\n  delay: 1s\ncache:\n  ttl: 500ms\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	config = DefaultConfig()
	require.NoError(t, config.LoadFromFile(path))
	assert.Equal(t, time.Second, config.RateLimit.Delay)
	assert.Equal(t, 500*time.Millisecond, config.Cache.TTL)
}

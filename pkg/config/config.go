package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MaxRecommendedWindow is the tracking window above which a run is accepted
// but flagged as slow (one mentions query per day)
const MaxRecommendedWindow = 365

// Config holds all configuration options for the game tracker
type Config struct {
	// Game being tracked
	Target TargetConfig `yaml:"target" json:"target"`

	// Tracking window
	Tracking TrackingWindowConfig `yaml:"tracking" json:"tracking"`

	// Rate limiting and retry configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// External sources
	Sources SourcesConfig `yaml:"sources" json:"sources"`

	// Response caching
	Cache CacheConfig `yaml:"cache" json:"cache"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TargetConfig identifies the game on the tracking site and the forum
type TargetConfig struct {
	Name  string `yaml:"name" json:"name"`
	AppID int    `yaml:"app_id" json:"app_id"`
}

// TrackingWindowConfig holds the size of the collection window
type TrackingWindowConfig struct {
	WindowDays int `yaml:"window_days" json:"window_days"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Delay is the pause after every successful request
	Delay             time.Duration `yaml:"delay" json:"delay"`
	MaxRetries        int           `yaml:"max_retries" json:"max_retries"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// SourcesConfig holds endpoints and per-source tuning
type SourcesConfig struct {
	FollowerBaseURL   string        `yaml:"follower_base_url" json:"follower_base_url"`
	MentionsURL       string        `yaml:"mentions_url" json:"mentions_url"`
	UserAgent         string        `yaml:"user_agent" json:"user_agent"`
	MentionsUserAgent string        `yaml:"mentions_user_agent" json:"mentions_user_agent"`
	DefaultFollowers  int           `yaml:"default_followers" json:"default_followers"`
	FollowerBaseDelay time.Duration `yaml:"follower_base_delay" json:"follower_base_delay"`
	MentionsBaseDelay time.Duration `yaml:"mentions_base_delay" json:"mentions_base_delay"`
	RequestTimeout    time.Duration `yaml:"request_timeout" json:"request_timeout"`
	HistoryFile       string        `yaml:"history_file" json:"history_file"`
}

// CacheConfig holds fetch response cache settings
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// OutputConfig holds output file configuration
type OutputConfig struct {
	Directory  string `yaml:"directory" json:"directory"`
	CSVFile    string `yaml:"csv_file" json:"csv_file"`
	ReportFile string `yaml:"report_file" json:"report_file"`
	ChartFile  string `yaml:"chart_file" json:"chart_file"`
	TrendFile  string `yaml:"trend_file" json:"trend_file"`
	Visualize  bool   `yaml:"visualize" json:"visualize"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// TrackingConfig is the read-only snapshot handed to collectors
type TrackingConfig struct {
	TargetName     string
	TargetID       int
	WindowDays     int
	RateLimitDelay time.Duration
	MaxRetries     int
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{
			Name:  "Cyberpunk 2077",
			AppID: 1091500,
		},
		Tracking: TrackingWindowConfig{
			WindowDays: 30,
		},
		RateLimit: RateLimitConfig{
			Delay:             time.Second,
			MaxRetries:        3,
			RequestsPerMinute: 0,
		},
		Sources: SourcesConfig{
			FollowerBaseURL:   "https://steamdb.info",
			MentionsURL:       "https://www.reddit.com/search.json",
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			MentionsUserAgent: "SteamGameTracker/1.0",
			DefaultFollowers:  50000,
			FollowerBaseDelay: 2 * time.Second,
			MentionsBaseDelay: time.Second,
			RequestTimeout:    30 * time.Second,
			HistoryFile:       "follower_history.json",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Output: OutputConfig{
			Directory:  "data",
			CSVFile:    "results.csv",
			ReportFile: "report.txt",
			ChartFile:  "graph.html",
			TrendFile:  "trend_analysis.html",
			Visualize:  false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// Snapshot returns the immutable snapshot of the tracking parameters
func (c *Config) Snapshot() TrackingConfig {
	return TrackingConfig{
		TargetName:     c.Target.Name,
		TargetID:       c.Target.AppID,
		WindowDays:     c.Tracking.WindowDays,
		RateLimitDelay: c.RateLimit.Delay,
		MaxRetries:     c.RateLimit.MaxRetries,
	}
}

// CSVPath returns the full path of the CSV output
func (c *Config) CSVPath() string {
	return c.outputPath(c.Output.CSVFile)
}

// ReportPath returns the full path of the summary report
func (c *Config) ReportPath() string {
	return c.outputPath(c.Output.ReportFile)
}

// ChartPath returns the full path of the chart page
func (c *Config) ChartPath() string {
	return c.outputPath(c.Output.ChartFile)
}

// TrendPath returns the full path of the trend analysis page
func (c *Config) TrendPath() string {
	return c.outputPath(c.Output.TrendFile)
}

// HistoryPath returns the full path of the follower observation ledger
func (c *Config) HistoryPath() string {
	return c.outputPath(c.Sources.HistoryFile)
}

func (c *Config) outputPath(name string) string {
	if name == "" || filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	return filepath.Join(c.Output.Directory, name)
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if name := os.Getenv("GAMETRACKER_GAME_NAME"); name != "" {
		c.Target.Name = name
	}
	if appID := os.Getenv("GAMETRACKER_APP_ID"); appID != "" {
		val, err := strconv.Atoi(appID)
		if err != nil {
			errs = append(errs, fmt.Errorf("GAMETRACKER_APP_ID: %w", err))
		} else {
			c.Target.AppID = val
		}
	}
	if days := os.Getenv("GAMETRACKER_DAYS"); days != "" {
		val, err := strconv.Atoi(days)
		if err != nil {
			errs = append(errs, fmt.Errorf("GAMETRACKER_DAYS: %w", err))
		} else {
			c.Tracking.WindowDays = val
		}
	}
	if delay := os.Getenv("GAMETRACKER_RATE_LIMIT_DELAY"); delay != "" {
		val, err := parseSeconds(delay)
		if err != nil {
			errs = append(errs, fmt.Errorf("GAMETRACKER_RATE_LIMIT_DELAY: %w", err))
		} else {
			c.RateLimit.Delay = val
		}
	}
	if retries := os.Getenv("GAMETRACKER_MAX_RETRIES"); retries != "" {
		val, err := strconv.Atoi(retries)
		if err != nil {
			errs = append(errs, fmt.Errorf("GAMETRACKER_MAX_RETRIES: %w", err))
		} else {
			c.RateLimit.MaxRetries = val
		}
	}
	if outputDir := os.Getenv("GAMETRACKER_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}
	if logLevel := os.Getenv("GAMETRACKER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if userAgent := os.Getenv("REDDIT_USER_AGENT"); userAgent != "" {
		c.Sources.MentionsUserAgent = userAgent
	}

	return errors.Join(errs...)
}

// parseSeconds accepts either a Go duration ("1500ms") or a bare number of seconds ("1.5")
func parseSeconds(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// LoadFromFile loads configuration from a YAML (or JSON) file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := checkDurations(data); err != nil {
		return fmt.Errorf("invalid config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// Flat keys written by older versions of the tool
	var legacy legacyConfig
	if err := yaml.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	legacy.apply(c)

	return nil
}

// durationKeys are the nested keys decoded into time.Duration
var durationKeys = [][2]string{
	{"rate_limit", "delay"},
	{"sources", "follower_base_delay"},
	{"sources", "mentions_base_delay"},
	{"sources", "request_timeout"},
	{"cache", "ttl"},
}

// checkDurations rejects bare numbers for duration keys with a message
// naming the key and the expected form, e.g. "delay: 1s" rather than "delay: 1"
func checkDurations(data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		// Reported by the full decode
		return nil
	}
	if len(doc.Content) == 0 {
		return nil
	}

	var errs []error
	for _, key := range durationKeys {
		node := mappingValue(mappingValue(doc.Content[0], key[0]), key[1])
		if node == nil || node.Kind != yaml.ScalarNode {
			continue
		}
		if tag := node.ShortTag(); tag == "!!int" || tag == "!!float" {
			errs = append(errs, fmt.Errorf("%s.%s: %s has no unit, write a duration such as \"%ss\" or \"%sms\"",
				key[0], key[1], node.Value, node.Value, node.Value))
		}
	}
	return errors.Join(errs...)
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// legacyConfig is the flat JSON layout used by earlier config files
type legacyConfig struct {
	GameName       *string  `yaml:"game_name"`
	SteamAppID     *int     `yaml:"steam_app_id"`
	TrackingDays   *int     `yaml:"tracking_days"`
	RateLimitDelay *float64 `yaml:"rate_limit_delay"`
	MaxRetries     *int     `yaml:"max_retries"`
	OutputDir      *string  `yaml:"output_dir"`
	LogLevel       *string  `yaml:"log_level"`
	EnableCaching  *bool    `yaml:"enable_caching"`
	CacheDuration  *int     `yaml:"cache_duration"`
}

func (l *legacyConfig) apply(c *Config) {
	if l.GameName != nil {
		c.Target.Name = *l.GameName
	}
	if l.SteamAppID != nil {
		c.Target.AppID = *l.SteamAppID
	}
	if l.TrackingDays != nil {
		c.Tracking.WindowDays = *l.TrackingDays
	}
	if l.RateLimitDelay != nil {
		c.RateLimit.Delay = time.Duration(*l.RateLimitDelay * float64(time.Second))
	}
	if l.MaxRetries != nil {
		c.RateLimit.MaxRetries = *l.MaxRetries
	}
	if l.OutputDir != nil {
		c.Output.Directory = *l.OutputDir
	}
	if l.LogLevel != nil {
		c.Logging.Level = strings.ToLower(*l.LogLevel)
	}
	if l.EnableCaching != nil {
		c.Cache.Enabled = *l.EnableCaching
	}
	if l.CacheDuration != nil {
		c.Cache.TTL = time.Duration(*l.CacheDuration) * time.Second
	}
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".gametracker.yaml",
		".gametracker.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "gametracker", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".gametracker.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Target.Name) == "" {
		errs = append(errs, errors.New("game name must be a non-empty string"))
	}
	if c.Target.AppID <= 0 {
		errs = append(errs, errors.New("app ID must be a positive integer"))
	}
	if c.Tracking.WindowDays <= 0 {
		errs = append(errs, errors.New("tracking days must be a positive integer"))
	}
	if c.RateLimit.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}
	if c.RateLimit.Delay < 0 {
		errs = append(errs, errors.New("rate limit delay cannot be negative"))
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}
	if c.Sources.FollowerBaseDelay <= 0 || c.Sources.MentionsBaseDelay <= 0 {
		errs = append(errs, errors.New("retry base delays must be positive"))
	}
	if c.Sources.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	return errors.Join(errs...)
}

// ExceedsRecommendedWindow reports whether the window is accepted but unusually long
func (c *Config) ExceedsRecommendedWindow() bool {
	return c.Tracking.WindowDays > MaxRecommendedWindow
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in flags are applied, so an explicit zero overrides
// the file and is left for Validate to reject.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if name, ok := flags["game"].(string); ok {
		c.Target.Name = name
	}
	if appID, ok := flags["app-id"].(int); ok {
		c.Target.AppID = appID
	}
	if days, ok := flags["days"].(int); ok {
		c.Tracking.WindowDays = days
	}
	if output, ok := flags["output"].(string); ok && output != "" {
		c.Output.Directory = filepath.Dir(output)
		c.Output.CSVFile = filepath.Base(output)
	}
	if visualize, ok := flags["visualize"].(bool); ok {
		c.Output.Visualize = visualize
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".gametracker.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

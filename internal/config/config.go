// Package config handles configuration loading for marketsnap.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Quotes    QuotesConfig    `mapstructure:"quotes"    yaml:"quotes"`
	News      NewsConfig      `mapstructure:"news"      yaml:"news"`
	Watchlist WatchlistConfig `mapstructure:"watchlist" yaml:"watchlist"`
	Fetch     FetchConfig     `mapstructure:"fetch"     yaml:"fetch"`
	Output    OutputConfig    `mapstructure:"output"    yaml:"output"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"  yaml:"schedule"`
	GitHub    GitHubConfig    `mapstructure:"github"    yaml:"github"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// QuotesConfig holds the quote provider settings.
type QuotesConfig struct {
	URLTemplate string `mapstructure:"url_template" yaml:"url_template" validate:"required,contains={symbol}"`
	Suffix      string `mapstructure:"suffix"       yaml:"suffix"       validate:"required,startswith=."` // appended to bare tickers on retry
}

// NewsConfig holds the feed provider settings.
type NewsConfig struct {
	URLTemplate string   `mapstructure:"url_template" yaml:"url_template" validate:"required,contains={query}"`
	Queries     []string `mapstructure:"queries"      yaml:"queries"`
	Limit       int      `mapstructure:"limit"        yaml:"limit"        validate:"min=1,max=100"`
	Parser      string   `mapstructure:"parser"       yaml:"parser"       validate:"oneof=markup gofeed"`
}

// WatchlistConfig locates the persisted symbol lists.
type WatchlistConfig struct {
	File           string   `mapstructure:"file"            yaml:"file"            validate:"required"`
	AllowedFile    string   `mapstructure:"allowed_file"    yaml:"allowed_file"    validate:"required"`
	DefaultSymbols []string `mapstructure:"default_symbols" yaml:"default_symbols"`
}

// FetchConfig holds outbound HTTP settings.
type FetchConfig struct {
	TimeoutSec  int     `mapstructure:"timeout_sec"  yaml:"timeout_sec"  validate:"min=1"`
	UserAgent   string  `mapstructure:"user_agent"   yaml:"user_agent"`
	RatePerSec  float64 `mapstructure:"rate_per_sec" yaml:"rate_per_sec" validate:"min=0"` // 0 disables limiting
	Burst       int     `mapstructure:"burst"        yaml:"burst"        validate:"min=1"`
	Concurrency int     `mapstructure:"concurrency"  yaml:"concurrency"  validate:"min=1,max=64"`
}

// OutputConfig locates the snapshot document.
type OutputConfig struct {
	File string `mapstructure:"file" yaml:"file" validate:"required"`
}

// ScheduleConfig holds the periodic run settings.
type ScheduleConfig struct {
	Cron string `mapstructure:"cron" yaml:"cron"`
}

// GitHubConfig identifies the issue carrying a watchlist command.
type GitHubConfig struct {
	Token      string `mapstructure:"token"      yaml:"token"`
	Repository string `mapstructure:"repository" yaml:"repository"` // "owner/repo"
	Issue      int    `mapstructure:"issue"      yaml:"issue"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=console json"`
	Output string `mapstructure:"output" yaml:"output"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.marketsnap/config.yaml (home directory)
//  3. /etc/marketsnap/config.yaml (system)
//
// Environment variables override config file values.
// Format: MARKETSNAP_<SECTION>_<KEY>, e.g., MARKETSNAP_FETCH_CONCURRENCY
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".marketsnap"))
	v.AddConfigPath("/etc/marketsnap")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("MARKETSNAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrideFromEnv(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints on cfg.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Quotes (Stooq CSV)
	v.SetDefault("quotes.url_template", "https://stooq.com/q/l/?s={symbol}&f=sd2t2ohlcvn&h&e=csv")
	v.SetDefault("quotes.suffix", ".US")

	// News (Google News RSS)
	v.SetDefault("news.url_template", "https://news.google.com/rss/search?q={query}&hl=ko&gl=KR&ceid=KR:ko")
	v.SetDefault("news.queries", []string{"S&P 500", "Dow Jones", "Nasdaq", "KOSPI", "KOSDAQ"})
	v.SetDefault("news.limit", 8)
	v.SetDefault("news.parser", "markup")

	// Watchlist
	v.SetDefault("watchlist.file", "watchlist.json")
	v.SetDefault("watchlist.allowed_file", "allowed_symbols.json")
	v.SetDefault("watchlist.default_symbols", []string{"^SPX", "^DJI"})

	// Fetch
	v.SetDefault("fetch.timeout_sec", 20)
	v.SetDefault("fetch.user_agent", "github-actions")
	v.SetDefault("fetch.rate_per_sec", 5.0)
	v.SetDefault("fetch.burst", 5)
	v.SetDefault("fetch.concurrency", 4)

	v.SetDefault("output.file", "data.json")
	v.SetDefault("schedule.cron", "*/30 * * * *")

	// GitHub issue; registered so MARKETSNAP_GITHUB_* reaches Unmarshal
	v.SetDefault("github.token", "")
	v.SetDefault("github.repository", "")
	v.SetDefault("github.issue", 0)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
}

// overrideFromEnv reads the variables set by CI issue workflows.
func overrideFromEnv(cfg *Config) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if repo := os.Getenv("GITHUB_REPOSITORY"); repo != "" {
		cfg.GitHub.Repository = repo
	}
	if n, err := strconv.Atoi(os.Getenv("ISSUE_NUMBER")); err == nil && n > 0 {
		cfg.GitHub.Issue = n
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full project configuration. It is loaded once and passed by
// value into every constructor; nothing reads it from ambient state.
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Log         LogConfig         `yaml:"log"`
	DB          DBConfig          `yaml:"db"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Sources     SourcesConfig     `yaml:"sources"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	History     HistoryConfig     `yaml:"history"`
}

// LLMConfig configures the OpenAI-compatible chat model.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// LogConfig configures level and optional log file.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DBConfig configures the optional Postgres run archive. An empty host
// disables archiving.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// ConcurrencyConfig bounds LLM request throughput.
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// FeedConfig is one named RSS feed.
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// SourcesConfig holds per-provider credentials and endpoints. A provider with
// incomplete credentials is treated as absent, not failed.
type SourcesConfig struct {
	Analytics     AnalyticsConfig     `yaml:"analytics"`
	SearchConsole SearchConsoleConfig `yaml:"search_console"`
	Feeds         []FeedConfig        `yaml:"feeds"`
	FeedMaxItems  int                 `yaml:"feed_max_items"`
	Trends        TrendsConfig        `yaml:"trends"`
	CrawlTopPages int                 `yaml:"crawl_top_pages"`
}

// AnalyticsConfig configures the GA4 Data API client.
type AnalyticsConfig struct {
	PropertyID string `yaml:"property_id"`
	Token      string `yaml:"token"`
	BaseURL    string `yaml:"base_url"`
	DaysBack   int    `yaml:"days_back"`
	DaysLong   int    `yaml:"days_long"`
}

// SearchConsoleConfig configures the GSC search-analytics client.
type SearchConsoleConfig struct {
	SiteURL string `yaml:"site_url"`
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"`
}

// TrendsConfig configures the Google Trends client. Keywords is the curated
// watchlist whose search interest gets sampled.
type TrendsConfig struct {
	Geo      string   `yaml:"geo"`
	Limit    int      `yaml:"limit"`
	BaseURL  string   `yaml:"base_url"`
	Timeout  int      `yaml:"timeout"` // seconds
	Keywords []string `yaml:"keywords"`
}

// Duration decodes human-readable YAML durations like "45s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped standard duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// PipelineConfig holds the orchestration knobs: deadlines, budgets and
// editorial defaults.
type PipelineConfig struct {
	FetchDeadline    Duration `yaml:"fetch_deadline"`
	IdeasCount       int      `yaml:"ideas_count"`
	TargetWords      int      `yaml:"target_words"`
	MaxRevisions     int      `yaml:"max_revisions"`
	MinScore         int      `yaml:"min_score"`
	BrandVoice       string   `yaml:"brand_voice"`
	ForbiddenPhrases []string `yaml:"forbidden_phrases"`
}

// HistoryConfig configures the bounded local run history.
type HistoryConfig struct {
	Path  string `yaml:"path"`
	Limit int    `yaml:"limit"`
}

// LoadConfig reads and validates the YAML config at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("config error: llm.api_key is not set")
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Concurrency.RPM == 0 {
		c.Concurrency.RPM = 60
	}
	if c.Concurrency.QPS == 0 {
		c.Concurrency.QPS = 2
	}
	if c.Sources.Analytics.BaseURL == "" {
		c.Sources.Analytics.BaseURL = "https://analyticsdata.googleapis.com/v1beta"
	}
	if c.Sources.Analytics.DaysBack == 0 {
		c.Sources.Analytics.DaysBack = 7
	}
	if c.Sources.Analytics.DaysLong == 0 {
		c.Sources.Analytics.DaysLong = 90
	}
	if c.Sources.SearchConsole.BaseURL == "" {
		c.Sources.SearchConsole.BaseURL = "https://www.googleapis.com/webmasters/v3"
	}
	if c.Sources.FeedMaxItems == 0 {
		c.Sources.FeedMaxItems = 15
	}
	if c.Sources.Trends.Geo == "" {
		c.Sources.Trends.Geo = "CH"
	}
	if c.Sources.Trends.Limit == 0 {
		c.Sources.Trends.Limit = 20
	}
	if c.Sources.Trends.BaseURL == "" {
		c.Sources.Trends.BaseURL = "https://trends.google.com"
	}
	if c.Sources.Trends.Timeout == 0 {
		c.Sources.Trends.Timeout = 25
	}
	if len(c.Sources.Trends.Keywords) == 0 {
		c.Sources.Trends.Keywords = []string{
			"SNB", "Inflation Schweiz", "Zinsen Schweiz", "Franken", "Hypothek",
			"Arbeitslosigkeit Schweiz", "Mindestlohn", "Fachkräftemangel", "Lohnentwicklung",
			"Konjunktur Schweiz", "BIP Schweiz", "KMU Schweiz", "Firmengründung",
			"AHV Reform", "Krankenkasse Prämien", "Rentenalter",
			"Strompreise Schweiz", "Energiewende Schweiz",
			"Bilaterale Abkommen", "Freihandel Schweiz",
			"Steuern Schweiz", "OECD Mindeststeuer",
			"KI Schweiz", "Digitalisierung Wirtschaft",
		}
	}
	if c.Sources.CrawlTopPages == 0 {
		c.Sources.CrawlTopPages = 10
	}
	if c.Pipeline.FetchDeadline == 0 {
		c.Pipeline.FetchDeadline = Duration(45 * time.Second)
	}
	if c.Pipeline.IdeasCount == 0 {
		c.Pipeline.IdeasCount = 5
	}
	if c.Pipeline.TargetWords == 0 {
		c.Pipeline.TargetWords = 1200
	}
	if c.Pipeline.MaxRevisions == 0 {
		c.Pipeline.MaxRevisions = 2
	}
	if c.Pipeline.MinScore == 0 {
		c.Pipeline.MinScore = 80
	}
	if c.History.Path == "" {
		c.History.Path = "data/ideas_history.json"
	}
	if c.History.Limit == 0 {
		c.History.Limit = 30
	}
}

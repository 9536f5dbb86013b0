package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		RateLimit       struct {
			Enabled   bool    `yaml:"enabled"`
			Burst     float64 `yaml:"burst"`
			PerSecond float64 `yaml:"per_second"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		Table            string        `yaml:"table"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		FilingsTopic string   `yaml:"filings_topic"`
		Consumer     struct {
			GroupID      string        `yaml:"group_id"`
			Workers      int           `yaml:"workers"`
			BufferSize   int           `yaml:"buffer_size"`
			RetryMax     int           `yaml:"retry_max"`
			BackoffMin   time.Duration `yaml:"backoff_min"`
			BackoffMax   time.Duration `yaml:"backoff_max"`
			DLQTopic     string        `yaml:"dlq_topic"`
			MinBytes     int           `yaml:"min_bytes"`
			MaxBytes     int           `yaml:"max_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			BatchTimeout time.Duration `yaml:"batch_timeout"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Cache struct {
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		TTL struct {
			Sentiment time.Duration `yaml:"sentiment"`
			Breadth   time.Duration `yaml:"breadth"`
			Ticker    time.Duration `yaml:"ticker"`
			Dashboard time.Duration `yaml:"dashboard"`
			Quick     time.Duration `yaml:"quick"`
		} `yaml:"ttl"`
	} `yaml:"cache"`
	Analytics Analytics `yaml:"analytics"`
}

// Analytics holds the parameters of the sentiment computation engine.
// Window sizes and thresholds live here rather than as package literals
// so tests can run with alternate parameters.
type Analytics struct {
	IndicatorWindowDays  int     `yaml:"indicator_window_days"`
	ReferencePeriodDays  int     `yaml:"reference_period_days"`
	MaxHistoryDays       int     `yaml:"max_history_days"`
	ShortTermWindow      int     `yaml:"short_term_window"`
	HighVolumeThreshold  float64 `yaml:"high_volume_threshold"`
	BreadthCompanyLimit  int     `yaml:"breadth_company_limit"`
	DashboardTopTickers  int     `yaml:"dashboard_top_tickers"`
	DashboardTopInsiders int     `yaml:"dashboard_top_insiders"`
}

// DefaultAnalytics returns the production analytics parameters.
func DefaultAnalytics() Analytics {
	return Analytics{
		IndicatorWindowDays:  28,
		ReferencePeriodDays:  365,
		MaxHistoryDays:       730,
		ShortTermWindow:      7,
		HighVolumeThreshold:  100000,
		BreadthCompanyLimit:  100,
		DashboardTopTickers:  20,
		DashboardTopInsiders: 10,
	}
}

func (a *Analytics) applyDefaults() {
	def := DefaultAnalytics()
	if a.IndicatorWindowDays <= 0 {
		a.IndicatorWindowDays = def.IndicatorWindowDays
	}
	if a.ReferencePeriodDays <= 0 {
		a.ReferencePeriodDays = def.ReferencePeriodDays
	}
	if a.MaxHistoryDays <= 0 {
		a.MaxHistoryDays = def.MaxHistoryDays
	}
	if a.ShortTermWindow <= 0 {
		a.ShortTermWindow = def.ShortTermWindow
	}
	if a.HighVolumeThreshold <= 0 {
		a.HighVolumeThreshold = def.HighVolumeThreshold
	}
	if a.BreadthCompanyLimit <= 0 {
		a.BreadthCompanyLimit = def.BreadthCompanyLimit
	}
	if a.DashboardTopTickers <= 0 {
		a.DashboardTopTickers = def.DashboardTopTickers
	}
	if a.DashboardTopInsiders <= 0 {
		a.DashboardTopInsiders = def.DashboardTopInsiders
	}
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.Analytics.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_FILINGS_TOPIC"); v != "" {
		c.Kafka.FilingsTopic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required")
	}
	if c.ClickHouse.Database == "" {
		return fmt.Errorf("clickhouse.database is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Kafka.Enabled && c.Kafka.FilingsTopic == "" {
		return fmt.Errorf("kafka.filings_topic is required when kafka is enabled")
	}
	if c.Analytics.ReferencePeriodDays < c.Analytics.IndicatorWindowDays {
		return fmt.Errorf("analytics.reference_period_days must be >= indicator window")
	}
	return nil
}

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
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Provider struct {
		Type         string        `yaml:"type"` // coingecko or clickhouse
		BaseURL      string        `yaml:"base_url"`
		Timeout      time.Duration `yaml:"timeout"`
		LookbackDays int           `yaml:"lookback_days"`
		PerPage      int           `yaml:"per_page"`
		MinMarketCap float64       `yaml:"min_market_cap"`
		RateLimitRPS float64       `yaml:"rate_limit_rps"`
	} `yaml:"provider"`
	Ranking struct {
		Interval      time.Duration `yaml:"interval"`
		Workers       int           `yaml:"workers"`
		MinConfidence int           `yaml:"min_confidence"`
		MinGainPct    float64       `yaml:"min_gain_pct"`
		MaxSignals    int           `yaml:"max_signals"`
	} `yaml:"ranking"`
	Cache struct {
		SignalsTTL   time.Duration `yaml:"signals_ttl"`
		ChartTTL     time.Duration `yaml:"chart_ttl"`
		ChartEntries int           `yaml:"chart_entries"`
		Redis        struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		LogsTopic    string        `yaml:"logs_topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Stream struct {
		Enabled        bool          `yaml:"enabled"`
		WebSocketURL   string        `yaml:"websocket_url"`
		Symbols        []string      `yaml:"symbols"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
		MaxRPS         int           `yaml:"max_rps"`
	} `yaml:"stream"`
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

	c.applyDefaults()

	// Validate required fields
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

	// Override with environment variables
	if v := os.Getenv("PROVIDER"); v != "" {
		c.Provider.Type = v
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("STREAM_SYMBOLS"); v != "" {
		c.Stream.Symbols = strings.Split(v, ",")
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Provider.LookbackDays == 0 {
		c.Provider.LookbackDays = 30
	}
	if c.Provider.PerPage == 0 {
		c.Provider.PerPage = 250
	}
	if c.Provider.MinMarketCap == 0 {
		c.Provider.MinMarketCap = 5_000_000
	}
	if c.Ranking.Workers == 0 {
		c.Ranking.Workers = 8
	}
	if c.Ranking.MinConfidence == 0 {
		c.Ranking.MinConfidence = 70
	}
	if c.Ranking.MinGainPct == 0 {
		c.Ranking.MinGainPct = 3
	}
	if c.Ranking.MaxSignals == 0 {
		c.Ranking.MaxSignals = 20
	}
	if c.Ranking.Interval == 0 {
		c.Ranking.Interval = time.Minute
	}
	if c.Cache.ChartEntries == 0 {
		c.Cache.ChartEntries = 50
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Provider.Type == "" {
		return fmt.Errorf("provider.type is required")
	}
	if c.Provider.Type != "coingecko" && c.Provider.Type != "clickhouse" {
		return fmt.Errorf("provider.type must be 'coingecko' or 'clickhouse', got '%s'", c.Provider.Type)
	}
	if c.Provider.Type == "coingecko" && c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required for coingecko")
	}
	if c.Provider.Type == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required for clickhouse provider")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}

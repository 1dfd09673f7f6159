package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env       string          `yaml:"env"`
	Feed      FeedConfig      `yaml:"feed"`
	Backend   BackendConfig   `yaml:"backend"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Backtest  BacktestConfig  `yaml:"backtest"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type FeedConfig struct {
	Endpoint          string   `yaml:"endpoint"`          // wss 入口，例如 wss://stream.binance.com:9443
	Symbols           []string `yaml:"symbols"`           // 订阅交易对，大写
	ReconnectDelaySec int      `yaml:"reconnectDelaySec"` // 固定重连间隔（秒），默认 5
}

func (f FeedConfig) ReconnectDelay() time.Duration {
	if f.ReconnectDelaySec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(f.ReconnectDelaySec) * time.Second
}

type BackendConfig struct {
	BaseURL         string  `yaml:"baseURL"`
	Token           string  `yaml:"token"`
	PollIntervalSec int     `yaml:"pollIntervalSec"` // 权威快照轮询间隔（秒），默认 30
	TradeLimit      int     `yaml:"tradeLimit"`      // 最近成交拉取条数
	RestRate        float64 `yaml:"restRate"`        // REST 限流：每秒令牌数
	RestBurst       int     `yaml:"restBurst"`       // REST 限流：最大突发令牌数
}

func (b BackendConfig) PollInterval() time.Duration {
	if b.PollIntervalSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(b.PollIntervalSec) * time.Second
}

type PortfolioConfig struct {
	QuoteSymbol string `yaml:"quoteSymbol"` // 计价货币，例如 USDT
}

type BacktestConfig struct {
	EntryThreshold float64 `yaml:"entryThreshold"` // 入场散度阈值（归一化权益单位）
	ExitThreshold  float64 `yaml:"exitThreshold"`  // 出场散度阈值
	HighRiskRegime int     `yaml:"highRiskRegime"` // 强制出场的状态标签
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json 或 console
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // Prometheus 监听地址，留空则关闭
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides sensitive fields from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("PT_BACKEND_TOKEN"); v != "" {
		cfg.Backend.Token = v
	}
	if v := os.Getenv("PT_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	return cfg, Validate(cfg)
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Portfolio.QuoteSymbol == "" {
		cfg.Portfolio.QuoteSymbol = "USDT"
	}
	if cfg.Backtest.EntryThreshold == 0 {
		cfg.Backtest.EntryThreshold = 0.001
	}
	if cfg.Backtest.ExitThreshold == 0 {
		cfg.Backtest.ExitThreshold = 0.002
	}
	if cfg.Backtest.HighRiskRegime == 0 {
		cfg.Backtest.HighRiskRegime = 2
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// Validate ensures required fields are present.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.Feed.Endpoint == "" {
		return errors.New("feed.endpoint is required")
	}
	if len(cfg.Feed.Symbols) == 0 {
		return errors.New("feed.symbols is required")
	}
	if cfg.Feed.ReconnectDelaySec < 0 {
		return errors.New("feed.reconnectDelaySec must be >= 0")
	}
	if cfg.Backend.BaseURL == "" {
		return errors.New("backend.baseURL is required")
	}
	if cfg.Backend.PollIntervalSec < 0 {
		return errors.New("backend.pollIntervalSec must be >= 0")
	}
	if cfg.Backend.TradeLimit < 0 {
		return errors.New("backend.tradeLimit must be >= 0")
	}
	if cfg.Backtest.EntryThreshold <= 0 {
		return errors.New("backtest.entryThreshold must be > 0")
	}
	if cfg.Backtest.ExitThreshold <= 0 {
		return errors.New("backtest.exitThreshold must be > 0")
	}
	if cfg.Backtest.HighRiskRegime < 0 {
		return errors.New("backtest.highRiskRegime must be >= 0")
	}
	return nil
}

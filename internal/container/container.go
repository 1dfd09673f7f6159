package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"paper-trader-go/config"
	"paper-trader-go/feed"
	"paper-trader-go/gateway"
	"paper-trader-go/infrastructure/alert"
	"paper-trader-go/infrastructure/logger"
	"paper-trader-go/market"
	"paper-trader-go/portfolio"
	"paper-trader-go/posttrade"
)

// Container 依赖注入容器，管理所有组件的生命周期
type Container struct {
	// 配置
	cfg *config.AppConfig

	// 会话标识，贯穿本次进程的所有日志
	sessionID string

	// 基础设施
	logger *logger.Logger
	alerts *alert.Manager

	// 后端网关
	backend *gateway.Client

	// 核心服务
	tickStore *market.TickStore
	feed      *feed.Manager
	poller    *portfolio.Poller
	trades    *posttrade.Analyzer

	// HTTP服务器
	metricsServer *http.Server

	// 生命周期管理
	lifecycle *LifecycleManager
}

// New 创建新的Container实例
func New(configPath string) (*Container, error) {
	cfg, err := config.LoadWithEnvOverrides(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	return &Container{
		cfg:       &cfg,
		sessionID: uuid.NewString(),
		lifecycle: NewLifecycleManager(),
	}, nil
}

// Config 返回已加载的配置。
func (c *Container) Config() *config.AppConfig {
	return c.cfg
}

// Logger 返回容器持有的日志器。
func (c *Container) Logger() *logger.Logger {
	return c.logger
}

// Backend 返回后端REST客户端。
func (c *Container) Backend() *gateway.Client {
	return c.backend
}

// TickStore 返回内存行情存储。
func (c *Container) TickStore() *market.TickStore {
	return c.tickStore
}

// Poller 返回权威快照轮询器。
func (c *Container) Poller() *portfolio.Poller {
	return c.poller
}

// TradeStats 返回最近成交窗口的统计。
func (c *Container) TradeStats() posttrade.Stats {
	return c.trades.Stats()
}

// Build 构建所有组件
func (c *Container) Build() error {
	if err := c.buildInfrastructure(); err != nil {
		return fmt.Errorf("build infrastructure failed: %w", err)
	}

	if err := c.buildGateway(); err != nil {
		return fmt.Errorf("build gateway failed: %w", err)
	}

	if err := c.buildCoreServices(); err != nil {
		return fmt.Errorf("build core services failed: %w", err)
	}

	c.registerLifecycleComponents()
	c.logger.Info("container built successfully")
	return nil
}

func (c *Container) buildInfrastructure() error {
	logCfg := logger.DefaultConfig()
	if c.cfg.Log.Level != "" {
		logCfg.Level = c.cfg.Log.Level
	}
	if c.cfg.Log.Format != "" {
		logCfg.Format = c.cfg.Log.Format
	}

	base, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("create logger failed: %w", err)
	}
	c.logger = base.WithFields(map[string]interface{}{
		"session": c.sessionID,
		"env":     c.cfg.Env,
	})

	// 同一条降级告警一分钟内只出现一次
	channels := []alert.Channel{
		alert.NewLoggerChannel("structured_log", c.logger),
	}
	if logCfg.Format == "console" {
		// 本地调试时告警直接彩色打到控制台
		channels = append(channels, alert.NewConsoleChannel("console"))
	}
	c.alerts = alert.NewManager(channels, time.Minute)

	c.logger.Info("infrastructure built")
	return nil
}

func (c *Container) buildGateway() error {
	c.backend = &gateway.Client{
		BaseURL:    c.cfg.Backend.BaseURL,
		Token:      c.cfg.Backend.Token,
		HTTPClient: gateway.NewDefaultHTTPClient(),
		Limiter:    gateway.NewTokenBucketLimiter(c.cfg.Backend.RestRate, c.cfg.Backend.RestBurst),
	}

	c.logger.Info("gateway built")
	return nil
}

func (c *Container) buildCoreServices() error {
	c.tickStore = market.NewTickStore(market.NewPublisher())

	c.feed = feed.NewManager(feed.Config{
		Endpoint:       c.cfg.Feed.Endpoint,
		Symbols:        c.cfg.Feed.Symbols,
		ReconnectDelay: c.cfg.Feed.ReconnectDelay(),
	}, c.tickStore, func(event string, fields map[string]interface{}) {
		c.logger.LogFeed(event, fields)
		c.alerts.Observe(event, fields)
	})

	c.poller = portfolio.NewPoller(c.backend, portfolio.PollerConfig{
		Interval:   c.cfg.Backend.PollInterval(),
		TradeLimit: c.cfg.Backend.TradeLimit,
	}, func(event string, fields map[string]interface{}) {
		c.logger.LogPoll(event, fields)
		c.alerts.Observe(event, fields)
	})

	c.trades = posttrade.NewAnalyzer()
	c.poller.OnTrades = func(trades []gateway.TradeRecord) {
		c.trades.OnTrades(trades)
		s := c.trades.Stats()
		c.logger.LogPoll("trades_summary", map[string]interface{}{
			"total":       s.TotalTrades,
			"closed":      s.ClosedTrades,
			"winRatePct":  s.WinRatePct,
			"realizedPnl": s.TotalPnL,
		})
	}

	c.logger.Info("core services built")
	return nil
}

func (c *Container) registerLifecycleComponents() {
	c.lifecycle.Register(&feedComponent{manager: c.feed})
	c.lifecycle.Register(&pollerComponent{poller: c.poller})
	c.lifecycle.Register(newValuationComponent(
		c.cfg.Portfolio.QuoteSymbol,
		c.tickStore,
		c.poller,
		c.logger,
	))

	if c.cfg.Metrics.Addr != "" {
		c.lifecycle.Register(&httpServerComponent{
			name:    "metrics_server",
			handler: promhttp.Handler(),
			addr:    c.cfg.Metrics.Addr,
			logger:  c.logger,
			server:  &c.metricsServer,
		})
	}
}

// Reload 把新配置里可热生效的参数下发给运行中的组件。目前覆盖轮询
// 间隔与成交窗口大小；行情端点、日志等仍需重启。
func (c *Container) Reload(cfg config.AppConfig) {
	c.poller.Apply(portfolio.PollerConfig{
		Interval:   cfg.Backend.PollInterval(),
		TradeLimit: cfg.Backend.TradeLimit,
	})
	c.logger.LogPoll("config_reloaded", map[string]interface{}{
		"pollIntervalSec": int(cfg.Backend.PollInterval().Seconds()),
		"tradeLimit":      cfg.Backend.TradeLimit,
	})
}

func (c *Container) Start(ctx context.Context) error {
	c.logger.Info("starting container...")

	if err := c.lifecycle.StartAll(ctx); err != nil {
		return fmt.Errorf("start failed: %w", err)
	}

	c.logger.Info("container started")
	return nil
}

func (c *Container) Stop() error {
	c.logger.Info("stopping container...")

	if err := c.lifecycle.StopAll(); err != nil {
		c.logger.LogError(err, map[string]interface{}{"action": "stop"})
		return err
	}

	if c.logger != nil {
		c.logger.Close()
	}

	return nil
}

func (c *Container) HealthCheck() error {
	return c.lifecycle.CheckHealth()
}

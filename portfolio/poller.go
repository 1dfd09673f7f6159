package portfolio

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"paper-trader-go/gateway"
	"paper-trader-go/metrics"
)

// BackendSource 轮询的三个权威面：持仓、成交、会话。
type BackendSource interface {
	Portfolio(ctx context.Context) (gateway.PortfolioSnapshot, error)
	Trades(ctx context.Context, limit int) ([]gateway.TradeRecord, error)
	Sessions(ctx context.Context) ([]gateway.SessionRecord, error)
}

// EventSink 轮询事件回调。
type EventSink func(event string, fields map[string]interface{})

// PollerConfig 轮询配置。
type PollerConfig struct {
	Interval   time.Duration // 固定间隔，默认 30s
	TradeLimit int           // 最近成交拉取条数
}

// Poller 按固定间隔刷新权威快照，外加显式 Refresh。每类快照只有本轮询
// 协程一个写者；重叠轮询彼此幂等，但有一轮在途时跳过本轮以免请求堆积。
// 瞬时失败降级到最近一次已知值，401 单独标记为需要重新认证。
type Poller struct {
	src  BackendSource
	sink EventSink

	// OnHoldings 持仓快照替换后的回调（触发估值重算），可为 nil。
	OnHoldings func([]Holding, float64)

	// OnTrades 成交窗口替换后的回调（触发成交统计重算），可为 nil。
	OnTrades func([]gateway.TradeRecord)

	inFlight atomic.Bool

	mu           sync.RWMutex
	cfg          PollerConfig
	holdings     []Holding
	total        float64
	trades       []gateway.TradeRecord
	sessions     []gateway.SessionRecord
	lastPoll     time.Time
	authRequired bool
}

func NewPoller(src BackendSource, cfg PollerConfig, sink EventSink) *Poller {
	return &Poller{
		src:  src,
		cfg:  normalizeConfig(cfg),
		sink: sink,
	}
}

func normalizeConfig(cfg PollerConfig) PollerConfig {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.TradeLimit <= 0 {
		cfg.TradeLimit = 20
	}
	return cfg
}

// Apply 热更新轮询参数，缺省规则与 NewPoller 一致。新间隔在下一次
// 定时触发后生效，新的成交窗口在下一轮拉取生效。
func (p *Poller) Apply(cfg PollerConfig) {
	cfg = normalizeConfig(cfg)
	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()
}

func (p *Poller) interval() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg.Interval
}

func (p *Poller) tradeLimit() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg.TradeLimit
}

// Start 启动轮询协程，首轮立即执行；ctx 取消即停止。
func (p *Poller) Start(ctx context.Context) {
	go func() {
		p.Refresh(ctx)
		interval := p.interval()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Refresh(ctx)
				if next := p.interval(); next != interval {
					interval = next
					ticker.Reset(interval)
				}
			}
		}
	}()
}

// Refresh 立即刷新一轮；若已有一轮在途则跳过并返回 false。
func (p *Poller) Refresh(ctx context.Context) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		return false
	}
	defer p.inFlight.Store(false)

	p.pollHoldings(ctx)
	p.pollTrades(ctx)
	p.pollSessions(ctx)

	p.mu.Lock()
	p.lastPoll = time.Now()
	p.mu.Unlock()
	return true
}

func (p *Poller) pollHoldings(ctx context.Context) {
	snap, err := p.src.Portfolio(ctx)
	if err != nil {
		p.noteError("holdings", err)
		return
	}

	holdings := make([]Holding, 0, len(snap.Holdings))
	for _, h := range snap.Holdings {
		holdings = append(holdings, Holding{
			Symbol:             h.Symbol,
			Quantity:           h.Balance,
			AuthoritativeValue: h.Value,
		})
	}

	p.mu.Lock()
	p.holdings = holdings
	p.total = snap.TotalValue
	p.authRequired = false
	p.mu.Unlock()

	if p.OnHoldings != nil {
		p.OnHoldings(holdings, snap.TotalValue)
	}
}

func (p *Poller) pollTrades(ctx context.Context) {
	trades, err := p.src.Trades(ctx, p.tradeLimit())
	if err != nil {
		p.noteError("trades", err)
		return
	}
	p.mu.Lock()
	p.trades = trades
	p.mu.Unlock()

	if p.OnTrades != nil {
		p.OnTrades(trades)
	}
}

func (p *Poller) pollSessions(ctx context.Context) {
	sessions, err := p.src.Sessions(ctx)
	if err != nil {
		p.noteError("sessions", err)
		return
	}
	p.mu.Lock()
	p.sessions = sessions
	p.mu.Unlock()
}

// noteError 失败只记录并保留旧值，绝不清空快照。
func (p *Poller) noteError(surface string, err error) {
	kind := "transient"
	if errors.Is(err, gateway.ErrUnauthenticated) {
		kind = "unauthenticated"
		p.mu.Lock()
		p.authRequired = true
		p.mu.Unlock()
	} else if !gateway.IsTransient(err) {
		kind = "bad_request"
	}
	metrics.PollFailures.WithLabelValues(kind).Inc()
	if p.sink != nil {
		p.sink("poll_failed", map[string]interface{}{
			"surface": surface,
			"kind":    kind,
			"error":   err.Error(),
		})
	}
}

// Holdings 最近一次成功轮询到的持仓与总值。
func (p *Poller) Holdings() ([]Holding, float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Holding, len(p.holdings))
	copy(out, p.holdings)
	return out, p.total
}

// RecentTrades 最近成交快照。
func (p *Poller) RecentTrades() []gateway.TradeRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]gateway.TradeRecord, len(p.trades))
	copy(out, p.trades)
	return out
}

// Sessions 会话快照。
func (p *Poller) Sessions() []gateway.SessionRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]gateway.SessionRecord, len(p.sessions))
	copy(out, p.sessions)
	return out
}

// ErrAuthRequired 凭证已失效，需要重新登录。
var ErrAuthRequired = errors.New("portfolio: re-authentication required")

// Health 凭证失效视为不健康。
func (p *Poller) Health() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.authRequired {
		return ErrAuthRequired
	}
	return nil
}

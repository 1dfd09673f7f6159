package container

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"paper-trader-go/feed"
	"paper-trader-go/infrastructure/logger"
	"paper-trader-go/market"
	"paper-trader-go/metrics"
	"paper-trader-go/portfolio"
)

// Lifecycle 生命周期接口
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop() error
	Health() error
}

// LifecycleManager 生命周期管理器
type LifecycleManager struct {
	components []Lifecycle
	mu         sync.RWMutex
}

// NewLifecycleManager 创建新的生命周期管理器
func NewLifecycleManager() *LifecycleManager {
	return &LifecycleManager{
		components: make([]Lifecycle, 0),
	}
}

// Register 注册组件
func (m *LifecycleManager) Register(component Lifecycle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, component)
}

// StartAll 按顺序启动所有组件
func (m *LifecycleManager) StartAll(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i, component := range m.components {
		if err := component.Start(ctx); err != nil {
			// 启动失败，回滚已启动的组件
			for j := i - 1; j >= 0; j-- {
				m.components[j].Stop()
			}
			return fmt.Errorf("start component %d failed: %w", i, err)
		}
	}
	return nil
}

// StopAll 逆序停止所有组件
func (m *LifecycleManager) StopAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var lastErr error
	// 逆序停止
	for i := len(m.components) - 1; i >= 0; i-- {
		if err := m.components[i].Stop(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// CheckHealth 检查所有组件健康状态
func (m *LifecycleManager) CheckHealth() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i, component := range m.components {
		if err := component.Health(); err != nil {
			return fmt.Errorf("component %d unhealthy: %w", i, err)
		}
	}
	return nil
}

// feedComponent 把行情流管理器接入生命周期
type feedComponent struct {
	manager *feed.Manager
}

func (f *feedComponent) Start(ctx context.Context) error {
	f.manager.Connect()
	return nil
}

func (f *feedComponent) Stop() error {
	f.manager.Teardown()
	return nil
}

func (f *feedComponent) Health() error {
	return f.manager.Health()
}

// pollerComponent 把权威快照轮询器接入生命周期。
// 轮询协程的存活期由组件自己的context控制，与StartAll的ctx解耦。
type pollerComponent struct {
	poller *portfolio.Poller
	cancel context.CancelFunc
	mu     sync.Mutex
}

func (p *pollerComponent) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return nil
	}
	runCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.poller.Start(runCtx)
	return nil
}

func (p *pollerComponent) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	return nil
}

func (p *pollerComponent) Health() error {
	return p.poller.Health()
}

// valuationComponent 行情或持仓任一侧更新时重算组合估值并上报
type valuationComponent struct {
	quote  string
	store  *market.TickStore
	poller *portfolio.Poller
	logger *logger.Logger

	done chan struct{}
	once sync.Once
	mu   sync.Mutex
	on   bool
}

func newValuationComponent(quote string, store *market.TickStore, poller *portfolio.Poller, log *logger.Logger) *valuationComponent {
	v := &valuationComponent{
		quote:  quote,
		store:  store,
		poller: poller,
		logger: log,
		done:   make(chan struct{}),
	}
	// 回调须在轮询器启动前挂好，持仓快照替换后立即重算，不等下一笔行情
	poller.OnHoldings = func(holdings []portfolio.Holding, _ float64) {
		v.revalue(holdings)
	}
	return v
}

func (v *valuationComponent) Start(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.on {
		return nil
	}

	ticks := v.store.Subscribe()

	go func() {
		for {
			select {
			case <-v.done:
				return
			case <-ticks:
				holdings, _ := v.poller.Holdings()
				v.revalue(holdings)
			}
		}
	}()

	v.on = true
	return nil
}

func (v *valuationComponent) revalue(holdings []portfolio.Holding) {
	if len(holdings) == 0 {
		return
	}
	value := portfolio.Valuate(v.quote, holdings, v.store)

	perHolding := make(map[string]float64, len(value.Assets))
	liveCount := 0
	for _, a := range value.Assets {
		perHolding[a.Symbol] = a.LiveValue
		if a.Live {
			liveCount++
		}
	}
	metrics.UpdatePortfolio(value.Total, perHolding)
	v.logger.LogValuation(value.Total, map[string]interface{}{
		"assets": len(value.Assets),
		"live":   liveCount,
	})
}

func (v *valuationComponent) Stop() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.on {
		return nil
	}
	v.once.Do(func() { close(v.done) })
	v.on = false
	return nil
}

func (v *valuationComponent) Health() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.on {
		return fmt.Errorf("valuation loop not started")
	}
	return nil
}

// httpServerComponent HTTP服务器组件
type httpServerComponent struct {
	name    string
	handler http.Handler
	addr    string
	logger  *logger.Logger
	server  **http.Server
	started bool
	mu      sync.Mutex
}

func (h *httpServerComponent) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return nil
	}

	srv := &http.Server{
		Addr:    h.addr,
		Handler: h.handler,
	}
	*h.server = srv

	// 在后台启动服务器
	go func() {
		h.logger.Logger.Info(fmt.Sprintf("%s listening on %s", h.name, h.addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.LogError(err, map[string]interface{}{
				"component": h.name,
				"action":    "listen",
			})
		}
	}()

	h.started = true
	return nil
}

func (h *httpServerComponent) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started || *h.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := (*h.server).Shutdown(ctx); err != nil {
		return fmt.Errorf("%s shutdown failed: %w", h.name, err)
	}

	h.logger.Logger.Info(fmt.Sprintf("%s stopped", h.name))
	h.started = false
	return nil
}

func (h *httpServerComponent) Health() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started {
		return fmt.Errorf("%s not started", h.name)
	}
	return nil
}

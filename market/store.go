package market

import (
	"sync"

	"paper-trader-go/metrics"
)

// TickStore 维护每个符号的最新报价（单写者：feed 管理器；多读者：估值与 UI）。
// 只保留当前值与紧邻前值，last write wins，不做乱序调和。
type TickStore struct {
	mu    sync.RWMutex
	ticks map[string]FeedTick
	pub   *Publisher
}

func NewTickStore(pub *Publisher) *TickStore {
	if pub == nil {
		pub = NewPublisher()
	}
	return &TickStore{
		ticks: make(map[string]FeedTick),
		pub:   pub,
	}
}

// Set 覆盖该符号的报价，并把旧价写入 PrevPrice 供方向指示使用。
func (s *TickStore) Set(tick FeedTick) {
	s.mu.Lock()
	if old, ok := s.ticks[tick.Symbol]; ok {
		tick.PrevPrice = old.Price
	}
	s.ticks[tick.Symbol] = tick
	s.mu.Unlock()

	metrics.UpdateTick(tick.Symbol, tick.Price)
	s.pub.PublishTick(tick)
}

// Get 返回该符号的最新报价；无数据时 ok 为 false。
func (s *TickStore) Get(symbol string) (FeedTick, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.ticks[symbol]
	return t, ok
}

// Snapshot 返回当前全部报价的拷贝。
func (s *TickStore) Snapshot() map[string]FeedTick {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]FeedTick, len(s.ticks))
	for sym, t := range s.ticks {
		out[sym] = t
	}
	return out
}

// Len 当前持有报价的符号数。
func (s *TickStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ticks)
}

// Clear 清空全部状态（视图销毁时调用，不做持久化）。
func (s *TickStore) Clear() {
	s.mu.Lock()
	s.ticks = make(map[string]FeedTick)
	s.mu.Unlock()
}

// Subscribe 订阅报价广播。
func (s *TickStore) Subscribe() <-chan FeedTick {
	return s.pub.SubscribeTick()
}

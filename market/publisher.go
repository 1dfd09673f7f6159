package market

import "sync"

// Publisher 一个轻量报价分发器，慢订阅者直接丢弃不阻塞写路径。
type Publisher struct {
	mu   sync.RWMutex
	subs []chan FeedTick
}

func NewPublisher() *Publisher {
	return &Publisher{
		subs: make([]chan FeedTick, 0),
	}
}

func (p *Publisher) SubscribeTick() <-chan FeedTick {
	ch := make(chan FeedTick, 16)
	p.mu.Lock()
	p.subs = append(p.subs, ch)
	p.mu.Unlock()
	return ch
}

func (p *Publisher) PublishTick(t FeedTick) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, ch := range p.subs {
		select {
		case ch <- t:
		default:
		}
	}
}

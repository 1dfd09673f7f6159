// Package metrics provides Prometheus metrics for the paper trader.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedConnected 行情流连接状态（1=已连接）
	FeedConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "pt",
		Subsystem: "feed",
		Name:      "connected",
		Help:      "行情流连接状态（1=已连接）",
	})

	// FeedReconnects 行情流重连次数
	FeedReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pt",
		Subsystem: "feed",
		Name:      "reconnects_total",
		Help:      "行情流重连次数",
	})

	// TicksTotal 按符号统计的有效报价数
	TicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pt",
		Subsystem: "feed",
		Name:      "ticks_total",
		Help:      "按符号统计的有效报价数",
	}, []string{"symbol"})

	// MalformedMessages 丢弃的畸形消息数
	MalformedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pt",
		Subsystem: "feed",
		Name:      "malformed_messages_total",
		Help:      "丢弃的畸形消息数",
	})

	// LastPrice 按符号的最新价
	LastPrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pt",
		Subsystem: "market",
		Name:      "last_price",
		Help:      "按符号的最新价",
	}, []string{"symbol"})

	// PortfolioValue 组合总估值（计价货币）
	PortfolioValue = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "pt",
		Subsystem: "portfolio",
		Name:      "total_value",
		Help:      "组合总估值（计价货币）",
	})

	// HoldingValue 按资产的实时市值
	HoldingValue = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pt",
		Subsystem: "portfolio",
		Name:      "holding_value",
		Help:      "按资产的实时市值",
	}, []string{"symbol"})

	// PollFailures 按类型统计的后端轮询失败数
	PollFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pt",
		Subsystem: "gateway",
		Name:      "poll_failures_total",
		Help:      "按类型统计的后端轮询失败数",
	}, []string{"kind"})
)

// UpdateTick 记录一次有效报价。
func UpdateTick(symbol string, price float64) {
	TicksTotal.WithLabelValues(symbol).Inc()
	LastPrice.WithLabelValues(symbol).Set(price)
}

// UpdatePortfolio 记录最新组合估值。
func UpdatePortfolio(total float64, perHolding map[string]float64) {
	PortfolioValue.Set(total)
	for sym, v := range perHolding {
		HoldingValue.WithLabelValues(sym).Set(v)
	}
}

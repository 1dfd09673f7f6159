package posttrade

import (
	"sync"

	"paper-trader-go/gateway"
)

// Stats contains aggregate statistics over a window of settled trades.
// Realized PnL only exists on the sell side, so win/loss counting is
// restricted to trades that actually carry it.
type Stats struct {
	TotalTrades  int
	ClosedTrades int
	Wins         int
	Losses       int
	WinRatePct   float64
	TotalPnL     float64
	AvgPnL       float64
	BestPnL      float64
	WorstPnL     float64
}

// Analyzer keeps the latest trade window and its derived statistics.
type Analyzer struct {
	mu    sync.RWMutex
	stats Stats
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// OnTrades replaces the current window and recomputes statistics.
func (a *Analyzer) OnTrades(trades []gateway.TradeRecord) {
	s := Summarize(trades)
	a.mu.Lock()
	a.stats = s
	a.mu.Unlock()
}

// Stats returns the statistics for the most recent window.
func (a *Analyzer) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}

// Summarize computes aggregate statistics for a trade window.
func Summarize(trades []gateway.TradeRecord) Stats {
	stats := Stats{TotalTrades: len(trades)}

	for _, t := range trades {
		if t.PnL == nil {
			continue
		}
		pnl := *t.PnL

		if stats.ClosedTrades == 0 {
			stats.BestPnL = pnl
			stats.WorstPnL = pnl
		} else {
			if pnl > stats.BestPnL {
				stats.BestPnL = pnl
			}
			if pnl < stats.WorstPnL {
				stats.WorstPnL = pnl
			}
		}

		stats.ClosedTrades++
		stats.TotalPnL += pnl
		if pnl > 0 {
			stats.Wins++
		} else {
			stats.Losses++
		}
	}

	if stats.ClosedTrades > 0 {
		stats.AvgPnL = stats.TotalPnL / float64(stats.ClosedTrades)
		stats.WinRatePct = float64(stats.Wins) / float64(stats.ClosedTrades) * 100
	}
	return stats
}

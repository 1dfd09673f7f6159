package backtest

import "math"

// Thresholds configure the divergence heuristic. The defaults have no
// documented derivation and do not necessarily generalize across
// instruments or time scales, hence they are parameters rather than
// constants.
type Thresholds struct {
	Entry          float64 // divergence above this while flat records a BUY
	Exit           float64 // divergence above this while holding records a SELL
	HighRiskRegime int     // regime label that forces an exit while holding
}

// DefaultThresholds returns the values the original display logic used.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Entry:          0.001,
		Exit:           0.002,
		HighRiskRegime: 2,
	}
}

// DerivedTrade is a heuristically inferred discrete trading event. It is
// not authoritative: an approximation for display purposes only.
type DerivedTrade struct {
	EntryDate         string
	Action            string  // "BUY" or "SELL"
	ReferencePrice    float64 // benchmark equity used as a price proxy
	ReferenceValue    float64 // strategy equity at the event
	RealizedProfit    *float64
	RealizedProfitPct *float64
	Regime            int
}

// ReconstructTrades synthesizes a plausible trade log from a continuous,
// already-net-of-costs equity curve, because the backend exposes aggregate
// equity and per-period regime labels but not raw fills.
//
// The heuristic keys on the divergence between strategy and benchmark
// per-period deltas as a proxy for "a trade occurred". It can both miss
// real trades (divergence below threshold) and fabricate spurious ones
// (strategy and benchmark diverging for unrelated reasons). That
// imprecision is inherent to the input, not fixable here.
//
// A curve shorter than 2 points yields an empty log, not an error.
func ReconstructTrades(points []EquityPoint, th Thresholds) []DerivedTrade {
	if len(points) < 2 {
		return nil
	}

	var trades []DerivedTrade
	holding := false
	enteredAt := 0.0

	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]
		strategyDelta := curr.Strategy - prev.Strategy
		benchmarkDelta := curr.Benchmark - prev.Benchmark
		divergence := math.Abs(strategyDelta - benchmarkDelta)

		if !holding {
			if divergence > th.Entry {
				holding = true
				enteredAt = curr.Strategy
				trades = append(trades, DerivedTrade{
					EntryDate:      curr.Date,
					Action:         "BUY",
					ReferencePrice: curr.Benchmark,
					ReferenceValue: curr.Strategy,
					Regime:         curr.Regime,
				})
			}
			continue
		}

		if curr.Regime == th.HighRiskRegime || divergence > th.Exit {
			holding = false
			profit := curr.Strategy - enteredAt
			pct := 0.0
			if enteredAt != 0 {
				pct = profit / enteredAt * 100
			}
			trades = append(trades, DerivedTrade{
				EntryDate:         curr.Date,
				Action:            "SELL",
				ReferencePrice:    curr.Benchmark,
				ReferenceValue:    curr.Strategy,
				RealizedProfit:    &profit,
				RealizedProfitPct: &pct,
				Regime:            curr.Regime,
			})
		}
	}
	return trades
}

package backtest

import "paper-trader-go/gateway"

// EquityPoint is one sample of a backtest's output series: strategy and
// benchmark equity normalized to a 1.0 start, plus the regime label the
// model assigned to that period. Immutable, backend-supplied.
type EquityPoint struct {
	Date      string
	Strategy  float64
	Benchmark float64
	Regime    int
}

// FromChartData converts the wire series into equity points.
func FromChartData(points []gateway.ChartPoint) []EquityPoint {
	out := make([]EquityPoint, 0, len(points))
	for _, p := range points {
		out = append(out, EquityPoint{
			Date:      p.Date,
			Strategy:  p.Strategy,
			Benchmark: p.BuyHold,
			Regime:    p.Regime,
		})
	}
	return out
}

package backtest

import "math"

// TradingDaysPerYear is the annualization factor for the Sharpe ratio;
// the series is sampled once per trading day.
const TradingDaysPerYear = 252

// Metrics contains summary statistics for one backtest run. Discarded when
// a new run starts.
type Metrics struct {
	SharpeRatio    float64 // NaN when undefined (zero return variance)
	MaxDrawdown    float64 // fraction of the running peak, 0 for a non-decreasing series
	WinRatePct     float64 // share of period returns strictly above zero
	TradeCount     int     // filled by Run from the reconstructed trade log
	Computable     bool    // false when the series is shorter than 2 points
}

// PeriodReturns computes simple per-period returns of the strategy equity.
func PeriodReturns(points []EquityPoint) []float64 {
	if len(points) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev := points[i-1].Strategy
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (points[i].Strategy-prev)/prev)
	}
	return returns
}

// ComputeMetrics derives max drawdown, Sharpe ratio and win rate from an
// ordered equity series. All three statistics are computed from the same
// period-return series so they stay mutually consistent. A series shorter
// than 2 points is "not computable": zero values, NaN Sharpe, no error.
func ComputeMetrics(points []EquityPoint) Metrics {
	if len(points) < 2 {
		return Metrics{SharpeRatio: math.NaN()}
	}

	returns := PeriodReturns(points)

	// Max drawdown against the running peak of strategy equity.
	peak := points[0].Strategy
	maxDD := 0.0
	for _, p := range points {
		if p.Strategy > peak {
			peak = p.Strategy
		}
		if peak > 0 {
			if dd := (peak - p.Strategy) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	// Population standard deviation, not sample.
	varSum := 0.0
	for _, r := range returns {
		d := r - mean
		varSum += d * d
	}
	stdev := math.Sqrt(varSum / float64(len(returns)))

	sharpe := math.NaN()
	if stdev > 0 {
		sharpe = mean / stdev * math.Sqrt(TradingDaysPerYear)
	}

	wins := 0
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}

	return Metrics{
		SharpeRatio: sharpe,
		MaxDrawdown: maxDD,
		WinRatePct:  float64(wins) / float64(len(returns)) * 100,
		Computable:  true,
	}
}

// Result bundles the statistics with the reconstructed trade log.
type Result struct {
	Metrics Metrics
	Trades  []DerivedTrade
}

// Run derives both halves of a backtest report from one series.
func Run(points []EquityPoint, th Thresholds) Result {
	m := ComputeMetrics(points)
	trades := ReconstructTrades(points, th)
	m.TradeCount = len(trades)
	return Result{Metrics: m, Trades: trades}
}

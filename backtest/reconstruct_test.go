package backtest

import (
	"math"
	"testing"
)

func TestShortCurveYieldsNoTrades(t *testing.T) {
	th := DefaultThresholds()
	if got := ReconstructTrades(nil, th); len(got) != 0 {
		t.Fatalf("empty curve must yield no trades")
	}
	one := []EquityPoint{{Date: "d0", Strategy: 1.0, Benchmark: 1.0}}
	if got := ReconstructTrades(one, th); len(got) != 0 {
		t.Fatalf("single-point curve must yield no trades")
	}
}

func TestNoDivergenceYieldsNoTrades(t *testing.T) {
	// Strategy and benchmark move in lockstep.
	points := []EquityPoint{
		{Date: "d0", Strategy: 1.00, Benchmark: 1.00},
		{Date: "d1", Strategy: 1.02, Benchmark: 1.02},
		{Date: "d2", Strategy: 0.97, Benchmark: 0.97},
		{Date: "d3", Strategy: 1.05, Benchmark: 1.05},
	}
	if got := ReconstructTrades(points, DefaultThresholds()); len(got) != 0 {
		t.Fatalf("lockstep curve must yield no trades, got %d", len(got))
	}
}

func TestSingleEntryExitCycle(t *testing.T) {
	points := []EquityPoint{
		{Date: "d0", Strategy: 1.000, Benchmark: 1.000},
		{Date: "d1", Strategy: 1.002, Benchmark: 1.000, Regime: 0}, // divergence 0.002 > entry
		{Date: "d2", Strategy: 1.003, Benchmark: 1.001, Regime: 0}, // divergence 0.000, stays holding
		{Date: "d3", Strategy: 1.010, Benchmark: 1.002, Regime: 0}, // divergence 0.006 > exit
	}
	trades := ReconstructTrades(points, DefaultThresholds())
	if len(trades) != 2 {
		t.Fatalf("expected exactly one BUY and one SELL, got %d trades", len(trades))
	}

	buy, sell := trades[0], trades[1]
	if buy.Action != "BUY" || sell.Action != "SELL" {
		t.Fatalf("expected BUY then SELL, got %s then %s", buy.Action, sell.Action)
	}
	if buy.EntryDate != "d1" || sell.EntryDate != "d3" {
		t.Fatalf("unexpected event dates %s / %s", buy.EntryDate, sell.EntryDate)
	}
	if buy.RealizedProfit != nil {
		t.Fatalf("BUY must carry no realized profit")
	}
	if sell.RealizedProfit == nil {
		t.Fatalf("SELL must carry realized profit")
	}
	// Exit strategy equity minus entry strategy equity.
	if math.Abs(*sell.RealizedProfit-(1.010-1.002)) > 1e-12 {
		t.Fatalf("unexpected realized profit %.6f", *sell.RealizedProfit)
	}
	wantPct := (1.010 - 1.002) / 1.002 * 100
	if math.Abs(*sell.RealizedProfitPct-wantPct) > 1e-9 {
		t.Fatalf("unexpected realized profit pct %.6f", *sell.RealizedProfitPct)
	}
}

func TestHighRiskRegimeForcesExit(t *testing.T) {
	points := []EquityPoint{
		{Date: "d0", Strategy: 1.000, Benchmark: 1.000},
		{Date: "d1", Strategy: 1.005, Benchmark: 1.000, Regime: 0}, // entry
		{Date: "d2", Strategy: 1.006, Benchmark: 1.001, Regime: 2}, // high risk, divergence tiny
	}
	trades := ReconstructTrades(points, DefaultThresholds())
	if len(trades) != 2 {
		t.Fatalf("expected forced exit on high-risk regime, got %d trades", len(trades))
	}
	if trades[1].Action != "SELL" || trades[1].Regime != 2 {
		t.Fatalf("unexpected exit trade %+v", trades[1])
	}
}

func TestBelowThresholdDivergenceIsIgnored(t *testing.T) {
	points := []EquityPoint{
		{Date: "d0", Strategy: 1.0000, Benchmark: 1.0000},
		{Date: "d1", Strategy: 1.0005, Benchmark: 1.0000}, // divergence 0.0005 < entry
		{Date: "d2", Strategy: 1.0010, Benchmark: 1.0006}, // divergence 0.0001
	}
	if got := ReconstructTrades(points, DefaultThresholds()); len(got) != 0 {
		t.Fatalf("sub-threshold divergence must not open a position")
	}
}

func TestBuyAndSellCannotShareAPoint(t *testing.T) {
	// A huge divergence opens a position; the same point must not also
	// close it, however large the move.
	points := []EquityPoint{
		{Date: "d0", Strategy: 1.00, Benchmark: 1.00},
		{Date: "d1", Strategy: 1.10, Benchmark: 1.00},
	}
	trades := ReconstructTrades(points, DefaultThresholds())
	if len(trades) != 1 || trades[0].Action != "BUY" {
		t.Fatalf("expected a single BUY, got %+v", trades)
	}
}

func TestConfigurableThresholds(t *testing.T) {
	points := []EquityPoint{
		{Date: "d0", Strategy: 1.000, Benchmark: 1.000},
		{Date: "d1", Strategy: 1.010, Benchmark: 1.000}, // divergence 0.010
	}
	strict := Thresholds{Entry: 0.05, Exit: 0.1, HighRiskRegime: 2}
	if got := ReconstructTrades(points, strict); len(got) != 0 {
		t.Fatalf("raised entry threshold must suppress the trade")
	}
}

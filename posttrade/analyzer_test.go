package posttrade

import (
	"testing"

	"paper-trader-go/gateway"
)

func pnl(v float64) *float64 { return &v }

func TestSummarizeEmptyWindow(t *testing.T) {
	s := Summarize(nil)
	if s.TotalTrades != 0 || s.ClosedTrades != 0 {
		t.Fatalf("empty window should produce zero stats: %+v", s)
	}
	if s.WinRatePct != 0 || s.AvgPnL != 0 {
		t.Fatalf("derived fields should stay zero: %+v", s)
	}
}

func TestSummarizeSkipsOpenTrades(t *testing.T) {
	trades := []gateway.TradeRecord{
		{Symbol: "BTC", Side: "buy"},
		{Symbol: "BTC", Side: "sell", PnL: pnl(10)},
		{Symbol: "ETH", Side: "buy"},
	}
	s := Summarize(trades)
	if s.TotalTrades != 3 {
		t.Errorf("TotalTrades = %d, want 3", s.TotalTrades)
	}
	if s.ClosedTrades != 1 {
		t.Errorf("ClosedTrades = %d, want 1", s.ClosedTrades)
	}
	if s.TotalPnL != 10 {
		t.Errorf("TotalPnL = %f, want 10", s.TotalPnL)
	}
}

func TestSummarizeWinLossSplit(t *testing.T) {
	trades := []gateway.TradeRecord{
		{Side: "sell", PnL: pnl(30)},
		{Side: "sell", PnL: pnl(-10)},
		{Side: "sell", PnL: pnl(5)},
		{Side: "sell", PnL: pnl(-5)},
	}
	s := Summarize(trades)
	if s.Wins != 2 || s.Losses != 2 {
		t.Fatalf("wins/losses = %d/%d, want 2/2", s.Wins, s.Losses)
	}
	if s.WinRatePct != 50 {
		t.Errorf("WinRatePct = %f, want 50", s.WinRatePct)
	}
	if s.TotalPnL != 20 {
		t.Errorf("TotalPnL = %f, want 20", s.TotalPnL)
	}
	if s.AvgPnL != 5 {
		t.Errorf("AvgPnL = %f, want 5", s.AvgPnL)
	}
	if s.BestPnL != 30 || s.WorstPnL != -10 {
		t.Errorf("best/worst = %f/%f, want 30/-10", s.BestPnL, s.WorstPnL)
	}
}

func TestSummarizeZeroPnLCountsAsLoss(t *testing.T) {
	s := Summarize([]gateway.TradeRecord{{Side: "sell", PnL: pnl(0)}})
	if s.Wins != 0 || s.Losses != 1 {
		t.Fatalf("flat trade should not count as win: %+v", s)
	}
}

func TestSummarizeAllLosses(t *testing.T) {
	trades := []gateway.TradeRecord{
		{Side: "sell", PnL: pnl(-1)},
		{Side: "sell", PnL: pnl(-2)},
	}
	s := Summarize(trades)
	if s.WinRatePct != 0 {
		t.Errorf("WinRatePct = %f, want 0", s.WinRatePct)
	}
	if s.BestPnL != -1 || s.WorstPnL != -2 {
		t.Errorf("best/worst = %f/%f, want -1/-2", s.BestPnL, s.WorstPnL)
	}
}

func TestAnalyzerReplacesWindow(t *testing.T) {
	a := NewAnalyzer()
	a.OnTrades([]gateway.TradeRecord{{Side: "sell", PnL: pnl(10)}})
	a.OnTrades([]gateway.TradeRecord{{Side: "sell", PnL: pnl(-3)}, {Side: "buy"}})

	s := a.Stats()
	if s.TotalTrades != 2 || s.TotalPnL != -3 {
		t.Fatalf("stats should reflect latest window only: %+v", s)
	}
}

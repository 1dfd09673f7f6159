package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestUpdateTick(t *testing.T) {
	before := testutil.ToFloat64(TicksTotal.WithLabelValues("BTCUSDT"))

	UpdateTick("BTCUSDT", 61000)

	if got := testutil.ToFloat64(TicksTotal.WithLabelValues("BTCUSDT")); got != before+1 {
		t.Errorf("Expected ticks counter to increment, got %f", got)
	}
	if got := testutil.ToFloat64(LastPrice.WithLabelValues("BTCUSDT")); got != 61000 {
		t.Errorf("Expected last price 61000, got %f", got)
	}
}

func TestUpdatePortfolio(t *testing.T) {
	PortfolioValue.Set(0)

	UpdatePortfolio(30500, map[string]float64{"BTC": 30500})

	if got := testutil.ToFloat64(PortfolioValue); got != 30500 {
		t.Errorf("Expected portfolio value 30500, got %f", got)
	}
	if got := testutil.ToFloat64(HoldingValue.WithLabelValues("BTC")); got != 30500 {
		t.Errorf("Expected holding value 30500, got %f", got)
	}
}

func TestFeedGauges(t *testing.T) {
	FeedConnected.Set(1)
	if got := testutil.ToFloat64(FeedConnected); got != 1 {
		t.Errorf("Expected feed connected 1, got %f", got)
	}
	FeedConnected.Set(0)
	if got := testutil.ToFloat64(FeedConnected); got != 0 {
		t.Errorf("Expected feed connected 0, got %f", got)
	}
}

package portfolio

import (
	"math"
	"testing"

	"paper-trader-go/market"
)

func TestQuoteHoldingKeepsAuthoritativeValue(t *testing.T) {
	store := market.NewTickStore(nil)
	store.Set(market.FeedTick{Symbol: "USDTUSDT", Price: 2}) // must never be consulted

	v := Valuate("USDT", []Holding{
		{Symbol: "USDT", Quantity: 10000, AuthoritativeValue: 10000},
	}, store)

	if v.Total != 10000 {
		t.Fatalf("quote holding must keep authoritative value, got %.2f", v.Total)
	}
	if v.Assets[0].Live {
		t.Fatalf("quote holding must not be marked live")
	}
}

func TestMissingLivePriceFallsBack(t *testing.T) {
	store := market.NewTickStore(nil)

	v := Valuate("USDT", []Holding{
		{Symbol: "ETH", Quantity: 2, AuthoritativeValue: 6000},
	}, store)

	if v.Total != 6000 {
		t.Fatalf("expected fallback to authoritative value, got %.2f", v.Total)
	}
	if v.Assets[0].Live {
		t.Fatalf("fallback valuation must not be marked live")
	}
}

func TestLivePriceOverridesAuthoritative(t *testing.T) {
	store := market.NewTickStore(nil)
	store.Set(market.FeedTick{Symbol: "BTCUSDT", Price: 61000})

	v := Valuate("USDT", []Holding{
		{Symbol: "BTC", Quantity: 0.5, AuthoritativeValue: 30000},
	}, store)

	if v.Total != 30500 {
		t.Fatalf("expected live value 30500, got %.2f", v.Total)
	}
	if !v.Assets[0].Live {
		t.Fatalf("expected live valuation flag")
	}
}

func TestTotalEqualsSumOfAssets(t *testing.T) {
	store := market.NewTickStore(nil)
	store.Set(market.FeedTick{Symbol: "BTCUSDT", Price: 61000})
	store.Set(market.FeedTick{Symbol: "ETHUSDT", Price: 3000})

	v := Valuate("USDT", []Holding{
		{Symbol: "USDT", Quantity: 5000, AuthoritativeValue: 5000},
		{Symbol: "BTC", Quantity: 0.5, AuthoritativeValue: 29000},
		{Symbol: "ETH", Quantity: 2, AuthoritativeValue: 5800},
		{Symbol: "SOL", Quantity: 10, AuthoritativeValue: 1500}, // no live price
	}, store)

	var sum float64
	for _, a := range v.Assets {
		sum += a.LiveValue
	}
	if math.Abs(v.Total-sum) > 1e-9 {
		t.Fatalf("total %.4f != sum of assets %.4f", v.Total, sum)
	}
	if v.Total != 5000+30500+6000+1500 {
		t.Fatalf("unexpected total %.2f", v.Total)
	}
}

func TestValuateDoesNotMutateInputs(t *testing.T) {
	store := market.NewTickStore(nil)
	store.Set(market.FeedTick{Symbol: "BTCUSDT", Price: 61000})
	holdings := []Holding{{Symbol: "BTC", Quantity: 0.5, AuthoritativeValue: 30000}}

	_ = Valuate("USDT", holdings, store)

	if holdings[0].AuthoritativeValue != 30000 || holdings[0].Quantity != 0.5 {
		t.Fatalf("input holdings mutated: %+v", holdings[0])
	}
}

func TestZeroPriceTickFallsBack(t *testing.T) {
	store := market.NewTickStore(nil)
	store.Set(market.FeedTick{Symbol: "DOGEUSDT", Price: 0})

	v := Valuate("USDT", []Holding{
		{Symbol: "DOGE", Quantity: 1000, AuthoritativeValue: 120},
	}, store)

	if v.Total != 120 {
		t.Fatalf("zero live price must not zero out the holding, got %.2f", v.Total)
	}
}

package market

import (
	"testing"
	"time"
)

func TestSetCapturesPreviousPrice(t *testing.T) {
	st := NewTickStore(nil)

	st.Set(FeedTick{Symbol: "BTCUSDT", Price: 61000, ObservedAt: time.Now()})
	tick, ok := st.Get("BTCUSDT")
	if !ok {
		t.Fatalf("expected tick present")
	}
	if tick.PrevPrice != 0 {
		t.Fatalf("first tick should have no previous price, got %.2f", tick.PrevPrice)
	}
	if tick.Direction() != 0 {
		t.Fatalf("first tick has no direction")
	}

	st.Set(FeedTick{Symbol: "BTCUSDT", Price: 61250, ObservedAt: time.Now()})
	tick, _ = st.Get("BTCUSDT")
	if tick.PrevPrice != 61000 {
		t.Fatalf("expected prev price 61000, got %.2f", tick.PrevPrice)
	}
	if tick.Direction() != 1 {
		t.Fatalf("expected upward direction")
	}

	st.Set(FeedTick{Symbol: "BTCUSDT", Price: 61100, ObservedAt: time.Now()})
	tick, _ = st.Get("BTCUSDT")
	if tick.PrevPrice != 61250 || tick.Direction() != -1 {
		t.Fatalf("expected prev 61250 and downward direction, got %.2f / %d", tick.PrevPrice, tick.Direction())
	}
}

func TestLastWriteWins(t *testing.T) {
	st := NewTickStore(nil)
	for i := 0; i < 10; i++ {
		st.Set(FeedTick{Symbol: "ETHUSDT", Price: 3000 + float64(i)})
	}
	tick, _ := st.Get("ETHUSDT")
	if tick.Price != 3009 {
		t.Fatalf("expected latest price 3009, got %.2f", tick.Price)
	}
	if tick.PrevPrice != 3008 {
		t.Fatalf("expected prev price 3008, got %.2f", tick.PrevPrice)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	st := NewTickStore(nil)
	st.Set(FeedTick{Symbol: "SOLUSDT", Price: 150})

	snap := st.Snapshot()
	snap["SOLUSDT"] = FeedTick{Symbol: "SOLUSDT", Price: 1}

	tick, _ := st.Get("SOLUSDT")
	if tick.Price != 150 {
		t.Fatalf("snapshot mutation leaked into store")
	}
}

func TestClearEmptiesStore(t *testing.T) {
	st := NewTickStore(nil)
	st.Set(FeedTick{Symbol: "BTCUSDT", Price: 61000})
	st.Set(FeedTick{Symbol: "ETHUSDT", Price: 3000})
	st.Clear()
	if st.Len() != 0 {
		t.Fatalf("expected empty store after Clear, got %d entries", st.Len())
	}
	if _, ok := st.Get("BTCUSDT"); ok {
		t.Fatalf("expected no tick after Clear")
	}
}

func TestSetPublishesToSubscribers(t *testing.T) {
	st := NewTickStore(nil)
	ch := st.Subscribe()
	st.Set(FeedTick{Symbol: "BNBUSDT", Price: 600})
	select {
	case tick := <-ch:
		if tick.Symbol != "BNBUSDT" || tick.Price != 600 {
			t.Fatalf("unexpected tick %+v", tick)
		}
	default:
		t.Fatalf("expected tick published")
	}
}

package feed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"paper-trader-go/market"
)

func TestGorillaDialerAgainstLiveServer(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stream" || r.URL.Query().Get("streams") != "btcusdt@ticker" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"stream":"btcusdt@ticker","data":{"s":"BTCUSDT","c":"61000"}}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	store := market.NewTickStore(nil)
	m := NewManager(Config{
		Endpoint: "ws" + strings.TrimPrefix(srv.URL, "http"),
		Symbols:  []string{"BTCUSDT"},
	}, store, nil)
	t.Cleanup(m.Teardown)

	m.Connect()
	waitFor(t, "tick over live websocket", func() bool {
		tick, ok := store.Get("BTCUSDT")
		return ok && tick.Price == 61000
	})
}

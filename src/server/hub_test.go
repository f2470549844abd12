package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"price-streamer/src/models"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

// -----------------------------------------------------------------------------

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("ws dial failed: %v", err)
	}
	return conn
}

// -----------------------------------------------------------------------------

func TestHubBroadcastsToAllClients(t *testing.T) {
	s, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.runHub(ctx)

	httpSrv := httptest.NewServer(s.Engine())
	defer httpSrv.Close()
	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws"

	first := dialWS(t, wsURL)
	defer first.Close()
	second := dialWS(t, wsURL)
	defer second.Close()

	waitFor(t, func() bool { return s.ClientCount() == 2 }, "clients never registered")

	s.PublishCandle(models.MCandle{
		Symbol: "BTCUSDT", Timestamp: 1000, Open: 10, High: 12, Low: 9, Close: 9,
	})

	for i, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, message, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("client %d read failed: %v", i, err)
		}

		var got broadcastCandle
		if err := json.Unmarshal(message, &got); err != nil {
			t.Fatalf("client %d: payload is not JSON: %v", i, err)
		}
		if got.Symbol != "BTCUSDT" || got.Open != 10 || got.Close != 9 {
			t.Errorf("client %d: candle mismatch: %+v", i, got)
		}
		if !strings.HasSuffix(got.Timestamp, "IST") {
			t.Errorf("client %d: bucket start must be presentation-formatted, got %q", i, got.Timestamp)
		}
	}
}

// -----------------------------------------------------------------------------

func TestHubPrunesFailedSubscriber(t *testing.T) {
	s, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.runHub(ctx)

	httpSrv := httptest.NewServer(s.Engine())
	defer httpSrv.Close()
	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws"

	healthy := dialWS(t, wsURL)
	defer healthy.Close()
	failing := dialWS(t, wsURL)

	waitFor(t, func() bool { return s.ClientCount() == 2 }, "clients never registered")

	// Kill one subscriber's connection out from under the hub.
	failing.Close()
	waitFor(t, func() bool { return s.ClientCount() == 1 }, "failed subscriber was not pruned")

	s.PublishCandle(models.MCandle{
		Symbol: "ETHUSDT", Timestamp: 2000, Open: 1, High: 2, Low: 1, Close: 2,
	})

	healthy.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, message, err := healthy.ReadMessage()
	if err != nil {
		t.Fatalf("surviving subscriber must still receive candles: %v", err)
	}
	if !strings.Contains(string(message), "ETHUSDT") {
		t.Errorf("unexpected payload: %s", message)
	}
}

// -----------------------------------------------------------------------------

func TestPublishWithNoSubscribersIsNoOp(t *testing.T) {
	s, _ := newTestServer(t)

	// No hub loop running: a publish with zero clients must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.PublishCandle(models.MCandle{Symbol: "BTCUSDT", Timestamp: 1000})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish with no subscribers must return immediately")
	}
}

package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nhooyr.io/websocket"
)

func TestBrokerPublishFanOut(t *testing.T) {
	b := NewBroker()

	a := b.Subscribe()
	c := b.Subscribe()
	defer b.Unsubscribe(a)
	defer b.Unsubscribe(c)

	b.Publish(LeaderboardEvent{Type: "entry_added", Name: "Maria", Score: 27_500, Rank: 1})

	for _, ch := range []chan []byte{a, c} {
		select {
		case data := <-ch:
			var ev LeaderboardEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				t.Fatalf("unmarshal event: %v", err)
			}
			if ev.Type != "entry_added" || ev.Name != "Maria" {
				t.Errorf("event = %+v", ev)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestBrokerDropsSlowSubscriber(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Overflow the buffer; Publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(LeaderboardEvent{Type: "entry_added", Rank: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestWSLeaderboardReceivesEntries(t *testing.T) {
	r, _ := newTestServer(t)

	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + srv.URL[len("http"):] + "/ws/leaderboard"

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	// The handler subscribes after the handshake completes; give it a
	// moment before publishing.
	time.Sleep(100 * time.Millisecond)

	// The recorder-based helpers hit the same mux (and broker) the live
	// server wraps.
	sessionID := finishSession(t, r)
	addEntry(t, r, sessionID, "Maria")

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var ev LeaderboardEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != "entry_added" || ev.Name != "Maria" || ev.Rank != 1 {
		t.Errorf("event = %+v, want entry_added/Maria/rank 1", ev)
	}

	conn.Close(websocket.StatusNormalClosure, "done")
}

func TestWSLeaderboardUnsubscribesOnClose(t *testing.T) {
	broker := NewBroker()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/leaderboard", handleWSLeaderboard(logger, broker))

	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + srv.URL[len("http"):] + "/ws/leaderboard"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	waitForSubscribers(t, broker, 1)

	// Closing the client must release the handler's broker subscription
	// even though no event is ever published.
	conn.Close(websocket.StatusNormalClosure, "done")
	waitForSubscribers(t, broker, 0)
}

func waitForSubscribers(t *testing.T, b *Broker, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		b.mu.RLock()
		n := len(b.subs)
		b.mu.RUnlock()
		if n == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("subscriber count never reached %d", want)
}

package server

import (
	"log/slog"
	"net/http"

	"nhooyr.io/websocket"
)

// handleWSLeaderboard mirrors the SSE leaderboard feed over a websocket
// for clients that keep one connection open for the whole game.
func handleWSLeaderboard(logger *slog.Logger, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ch := broker.Subscribe()
		defer broker.Unsubscribe(ch)

		// The feed is write-only; CloseRead pumps control frames and
		// cancels the context when the client goes away, which the
		// request context no longer does once the connection is hijacked.
		ctx := conn.CloseRead(r.Context())
		for {
			select {
			case <-ctx.Done():
				return
			case data := <-ch:
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			}
		}
	}
}

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/usecases"
	"github.com/samirrijal/routemap/internal/pkg/metrics"
)

const (
	wsPingInterval   = 30 * time.Second
	wsMessageTimeout = 10 * time.Second
)

// wsMessage is sent by the page on hover changes.
type wsMessage struct {
	Action  string `json:"action"`  // "enter" | "leave"
	Airline string `json:"airline"` // airline id, required for "enter"
}

// linesMessage carries a line diff back to the page.
type linesMessage struct {
	Type string `json:"type"`
	*domain.LineDiff
}

type wsError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// hoverSession is the part of a usecases.Session the socket loop needs.
type hoverSession interface {
	Enter(ctx context.Context, airlineID string) (*domain.LineDiff, error)
	Leave(ctx context.Context) *domain.LineDiff
}

// WebSocketHandler runs one hover session per connection. Clients send
// {"action":"enter","airline":"24"} or {"action":"leave"} and get back
// {"type":"lines","selected":..,"added":[..],"removed":[..],"highlights":[..]}.
func WebSocketHandler(viz *usecases.VisualizationService) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		session := viz.NewSession()
		log := slog.Default().With("session", session.ID, "remote", c.RemoteAddr().String())
		log.Info("ws client connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(wsPingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}
			ctx, cancel := context.WithTimeout(context.Background(), wsMessageTimeout)
			reply := handleHover(ctx, session, msg)
			cancel()
			if err := writeJSON(reply); err != nil {
				log.Warn("ws write failed", "error", err)
				break
			}
		}

		log.Info("ws client disconnected", "selected", session.Selected())
	}
}

// handleHover applies one client message to the session and returns the
// reply to send.
func handleHover(ctx context.Context, session hoverSession, raw []byte) interface{} {
	var m wsMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return wsError{Type: "error", Message: "invalid JSON"}
	}

	switch m.Action {
	case "enter":
		if m.Airline == "" {
			return wsError{Type: "error", Message: "airline is required"}
		}
		diff, err := session.Enter(ctx, m.Airline)
		if err != nil {
			return wsError{Type: "error", Message: err.Error()}
		}
		return linesMessage{Type: "lines", LineDiff: diff}
	case "leave":
		return linesMessage{Type: "lines", LineDiff: session.Leave(ctx)}
	default:
		return wsError{Type: "error", Message: "unknown action: " + m.Action}
	}
}

package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
)

// Subscriber implements ports.EventSubscriber using a plain NATS
// connection. Every instance receives every reload request.
type Subscriber struct {
	conn *nats.Conn
	subs []*nats.Subscription
}

// NewSubscriber connects to NATS.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Subscriber{conn: conn}, nil
}

// SubscribeReloads runs handler for reload requests until ctx is done.
// Requests that arrive while a reload is running are folded into a single
// follow-up reload.
func (s *Subscriber) SubscribeReloads(ctx context.Context, handler func(ctx context.Context, reason string) error) error {
	r := &coalescer{ctx: ctx, run: handler}
	sub, err := s.conn.Subscribe(SubjectDatasetReload, func(msg *nats.Msg) {
		var req ReloadRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			slog.Warn("malformed reload request", "error", err)
			return
		}
		r.trigger(req.Reason)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SubjectDatasetReload, err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}

// coalescer runs at most one reload at a time, with at most one queued
// behind it.
type coalescer struct {
	ctx context.Context
	run func(ctx context.Context, reason string) error

	mu      sync.Mutex
	running bool
	pending string
	queued  bool
}

func (c *coalescer) trigger(reason string) {
	if c.ctx.Err() != nil {
		return
	}
	c.mu.Lock()
	if c.running {
		c.pending, c.queued = reason, true
		c.mu.Unlock()
		slog.Debug("reload already running, queued", "reason", reason)
		return
	}
	c.running = true
	c.mu.Unlock()

	go c.loop(reason)
}

func (c *coalescer) loop(reason string) {
	for {
		if err := c.run(c.ctx, reason); err != nil {
			slog.Error("reload request failed", "reason", reason, "error", err)
		}

		c.mu.Lock()
		if !c.queued || c.ctx.Err() != nil {
			c.running, c.queued = false, false
			c.mu.Unlock()
			return
		}
		reason, c.queued = c.pending, false
		c.mu.Unlock()
	}
}

package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// Subjects used by routemap.
const (
	StreamName            = "ROUTEMAP_EVENTS"
	SubjectSelection      = "routemap.selection"
	SubjectDatasetLoaded  = "routemap.dataset.loaded"
	SubjectDatasetReload  = "routemap.dataset.reload"
	selectionNoneAirline  = "none"
	selectionSubjectMatch = SubjectSelection + ".>"
)

// SelectionEvent is published on every hover change.
type SelectionEvent struct {
	SessionID string           `json:"session_id"`
	Diff      *domain.LineDiff `json:"diff"`
	At        time.Time        `json:"at"`
}

// ReloadRequest asks every API instance to reload the dataset.
type ReloadRequest struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// SelectionSubject returns the subject a selection of airlineID is
// published on. An empty id means the selection was cleared.
func SelectionSubject(airlineID string) string {
	if airlineID == "" {
		airlineID = selectionNoneAirline
	}
	return SubjectSelection + "." + airlineID
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{selectionSubjectMatch, SubjectDatasetLoaded},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishSelection records a hover change.
func (p *Publisher) PublishSelection(ctx context.Context, sessionID string, diff *domain.LineDiff) error {
	data, err := json.Marshal(SelectionEvent{SessionID: sessionID, Diff: diff, At: time.Now().UTC()})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SelectionSubject(diff.Selected), data, nats.Context(ctx))
	return err
}

// PublishDatasetLoaded announces a newly active dataset.
func (p *Publisher) PublishDatasetLoaded(ctx context.Context, status *domain.DatasetStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectDatasetLoaded, data, nats.Context(ctx))
	return err
}

// RequestReload broadcasts a reload request to every subscriber.
func (p *Publisher) RequestReload(ctx context.Context, reason string) error {
	data, err := json.Marshal(ReloadRequest{Reason: reason, RequestedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return p.conn.Publish(SubjectDatasetReload, data)
}

// Conn exposes the underlying connection for health checks.
func (p *Publisher) Conn() *nats.Conn { return p.conn }

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection.
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("routemap"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.temporal.io/sdk/activity"

	"github.com/samirrijal/routemap/internal/adapters/dataset"
	"github.com/samirrijal/routemap/internal/core/ports"
	"github.com/samirrijal/routemap/internal/pkg/telemetry"
)

// RefreshActivities holds the activity implementations for RefreshWorkflow.
type RefreshActivities struct {
	Client    *http.Client
	Publisher ports.EventPublisher
	// Fingerprint defaults to dataset.Fingerprint.
	Fingerprint func(ctx context.Context, client *http.Client, location string) (string, error)
}

// FingerprintDatasets returns one digest covering both dataset sources.
func (a *RefreshActivities) FingerprintDatasets(ctx context.Context, input RefreshInput) (string, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanRefreshSource)
	defer span.End()

	fingerprint := a.Fingerprint
	if fingerprint == nil {
		fingerprint = dataset.Fingerprint
	}

	h := sha256.New()
	for _, location := range []string{input.RoutesURL, input.BoundariesURL} {
		fp, err := fingerprint(ctx, a.Client, location)
		if err != nil {
			return "", fmt.Errorf("fingerprint %s: %w", location, err)
		}
		fmt.Fprintf(h, "%s=%s\n", location, fp)
	}
	digest := hex.EncodeToString(h.Sum(nil))[:16]
	span.SetAttributes(attribute.String(telemetry.AttrDatasetVersion, digest))
	return digest, nil
}

// RequestReload asks the API instances to reload their dataset.
func (a *RefreshActivities) RequestReload(ctx context.Context, reason string) error {
	if a.Publisher == nil {
		activity.GetLogger(ctx).Warn("no publisher configured, reload not requested", "reason", reason)
		return nil
	}
	if err := a.Publisher.RequestReload(ctx, reason); err != nil {
		return fmt.Errorf("request reload: %w", err)
	}
	return nil
}

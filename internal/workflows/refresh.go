package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// RefreshWorkflowName is the registered name of RefreshWorkflow.
const RefreshWorkflowName = "RefreshWorkflow"

// RefreshInput names the dataset locations to watch.
type RefreshInput struct {
	RoutesURL     string
	BoundariesURL string
}

// RefreshResult is carried from one cron run to the next.
type RefreshResult struct {
	Fingerprint string
	Changed     bool
	CheckedAt   time.Time
}

// RefreshWorkflow fingerprints both dataset sources and, when the
// fingerprint differs from the previous cron run, asks every API instance to
// reload. The first run only records a baseline.
func RefreshWorkflow(ctx workflow.Context, input RefreshInput) (RefreshResult, error) {
	logger := workflow.GetLogger(ctx)

	var previous RefreshResult
	if workflow.HasLastCompletionResult(ctx) {
		if err := workflow.GetLastCompletionResult(ctx, &previous); err != nil {
			logger.Warn("last completion result unreadable, starting over", "error", err)
		}
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: 5 * time.Second,
			MaximumAttempts: 3,
		},
	})

	var acts *RefreshActivities

	var fingerprint string
	if err := workflow.ExecuteActivity(ctx, acts.FingerprintDatasets, input).Get(ctx, &fingerprint); err != nil {
		return previous, err
	}

	result := RefreshResult{
		Fingerprint: fingerprint,
		Changed:     previous.Fingerprint != "" && previous.Fingerprint != fingerprint,
		CheckedAt:   workflow.Now(ctx),
	}
	if !result.Changed {
		logger.Info("dataset unchanged", "fingerprint", fingerprint)
		return result, nil
	}

	logger.Info("dataset changed, requesting reload", "from", previous.Fingerprint, "to", fingerprint)
	if err := workflow.ExecuteActivity(ctx, acts.RequestReload, "source fingerprint changed").Get(ctx, nil); err != nil {
		// Keep the old fingerprint so the next run tries again.
		return previous, err
	}
	return result, nil
}

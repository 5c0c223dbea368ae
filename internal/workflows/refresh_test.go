package workflows

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/routemap/internal/core/domain"
)

type recordingPublisher struct {
	reloads []string
	err     error
}

func (p *recordingPublisher) PublishSelection(ctx context.Context, sessionID string, diff *domain.LineDiff) error {
	return nil
}

func (p *recordingPublisher) PublishDatasetLoaded(ctx context.Context, status *domain.DatasetStatus) error {
	return nil
}

func (p *recordingPublisher) RequestReload(ctx context.Context, reason string) error {
	if p.err != nil {
		return p.err
	}
	p.reloads = append(p.reloads, reason)
	return nil
}

func fixedFingerprints(values map[string]string) func(context.Context, *http.Client, string) (string, error) {
	return func(ctx context.Context, client *http.Client, location string) (string, error) {
		fp, ok := values[location]
		if !ok {
			return "", errors.New("HTTP 404 for " + location)
		}
		return fp, nil
	}
}

var refreshInput = RefreshInput{RoutesURL: "https://example.org/routes.csv", BoundariesURL: "https://example.org/countries.geojson"}

func runRefresh(t *testing.T, acts *RefreshActivities, previous *RefreshResult) (RefreshResult, error) {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterActivity(acts)
	if previous != nil {
		env.SetLastCompletionResult(*previous)
	}

	env.ExecuteWorkflow(RefreshWorkflow, refreshInput)
	require.True(t, env.IsWorkflowCompleted())
	if err := env.GetWorkflowError(); err != nil {
		return RefreshResult{}, err
	}
	var result RefreshResult
	require.NoError(t, env.GetWorkflowResult(&result))
	return result, nil
}

func TestRefreshWorkflow_FirstRunRecordsBaseline(t *testing.T) {
	pub := &recordingPublisher{}
	acts := &RefreshActivities{Publisher: pub, Fingerprint: fixedFingerprints(map[string]string{
		refreshInput.RoutesURL:     `"etag-1"`,
		refreshInput.BoundariesURL: `"etag-a"`,
	})}

	result, err := runRefresh(t, acts, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Fingerprint)
	assert.False(t, result.Changed)
	assert.Empty(t, pub.reloads)
}

func TestRefreshWorkflow_UnchangedDoesNotReload(t *testing.T) {
	pub := &recordingPublisher{}
	acts := &RefreshActivities{Publisher: pub, Fingerprint: fixedFingerprints(map[string]string{
		refreshInput.RoutesURL:     `"etag-1"`,
		refreshInput.BoundariesURL: `"etag-a"`,
	})}

	first, err := runRefresh(t, acts, nil)
	require.NoError(t, err)

	second, err := runRefresh(t, acts, &first)
	require.NoError(t, err)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.False(t, second.Changed)
	assert.Empty(t, pub.reloads)
}

func TestRefreshWorkflow_ChangeRequestsReload(t *testing.T) {
	pub := &recordingPublisher{}
	values := map[string]string{
		refreshInput.RoutesURL:     `"etag-1"`,
		refreshInput.BoundariesURL: `"etag-a"`,
	}
	acts := &RefreshActivities{Publisher: pub, Fingerprint: fixedFingerprints(values)}

	first, err := runRefresh(t, acts, nil)
	require.NoError(t, err)

	values[refreshInput.RoutesURL] = `"etag-2"`
	second, err := runRefresh(t, acts, &first)
	require.NoError(t, err)
	assert.True(t, second.Changed)
	assert.NotEqual(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, []string{"source fingerprint changed"}, pub.reloads)
}

func TestRefreshWorkflow_FingerprintFailure(t *testing.T) {
	acts := &RefreshActivities{Publisher: &recordingPublisher{}, Fingerprint: fixedFingerprints(map[string]string{
		refreshInput.RoutesURL: `"etag-1"`,
	})}

	_, err := runRefresh(t, acts, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "countries.geojson")
}

func TestFingerprintDatasets_Activity(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()
	acts := &RefreshActivities{Fingerprint: fixedFingerprints(map[string]string{
		refreshInput.RoutesURL:     "1024-1",
		refreshInput.BoundariesURL: "2048-1",
	})}
	env.RegisterActivity(acts)

	val, err := env.ExecuteActivity(acts.FingerprintDatasets, refreshInput)
	require.NoError(t, err)
	var fp string
	require.NoError(t, val.Get(&fp))
	assert.Len(t, fp, 16)
}

func TestRequestReload_NoPublisher(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()
	acts := &RefreshActivities{}
	env.RegisterActivity(acts)

	_, err := env.ExecuteActivity(acts.RequestReload, "manual")
	require.NoError(t, err)
}

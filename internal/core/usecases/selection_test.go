package usecases_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/usecases"
)

type fixedLines map[string][]domain.RouteLine

func (f fixedLines) RouteLines(ctx context.Context, airlineID string) ([]domain.RouteLine, error) {
	return f[airlineID], nil
}

func lines(airline string, ids ...string) []domain.RouteLine {
	out := make([]domain.RouteLine, len(ids))
	for i, id := range ids {
		out[i] = domain.RouteLine{RouteID: id, AirlineID: airline, X1: float64(i), Y1: 1, X2: 2, Y2: 3}
	}
	return out
}

func drawnIDs(s *usecases.Selection) []string {
	var ids []string
	for _, l := range s.Drawn() {
		ids = append(ids, l.RouteID)
	}
	return ids
}

func TestSelection_NothingDrawnInitially(t *testing.T) {
	s := usecases.NewSelection(fixedLines{}, "#2a5599", "#992a5b")
	assert.Empty(t, s.Drawn())
	assert.Equal(t, "", s.Selected())
}

func TestSelection_EnterDrawsAirlineLines(t *testing.T) {
	s := usecases.NewSelection(fixedLines{"X": lines("X", "1", "2")}, "#2a5599", "#992a5b")

	diff, err := s.Enter(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, "X", diff.Selected)
	assert.Len(t, diff.Added, 2)
	assert.Empty(t, diff.Removed)
	assert.Equal(t, []domain.Highlight{{AirlineID: "X", Fill: "#992a5b"}}, diff.Highlights)
	assert.Equal(t, []string{"1", "2"}, drawnIDs(s))
}

func TestSelection_SwitchLeavesNoResidue(t *testing.T) {
	s := usecases.NewSelection(fixedLines{
		"X": lines("X", "1", "2", "3"),
		"Y": lines("Y", "7", "8"),
	}, "#2a5599", "#992a5b")

	_, err := s.Enter(context.Background(), "X")
	require.NoError(t, err)
	diff, err := s.Enter(context.Background(), "Y")
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, diff.Removed)
	assert.Len(t, diff.Added, 2)
	assert.Equal(t, []string{"7", "8"}, drawnIDs(s))
	assert.Equal(t, []domain.Highlight{
		{AirlineID: "X", Fill: "#2a5599"},
		{AirlineID: "Y", Fill: "#992a5b"},
	}, diff.Highlights)
}

func TestSelection_UnknownAirlineDrawsNothing(t *testing.T) {
	s := usecases.NewSelection(fixedLines{"X": lines("X", "1")}, "#2a5599", "#992a5b")
	diff, err := s.Enter(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, diff.Added)
	assert.Empty(t, s.Drawn())
}

func TestSelection_ReenterKeepsUnchangedLines(t *testing.T) {
	s := usecases.NewSelection(fixedLines{"X": lines("X", "1", "2")}, "#2a5599", "#992a5b")
	_, err := s.Enter(context.Background(), "X")
	require.NoError(t, err)

	diff, err := s.Enter(context.Background(), "X")
	require.NoError(t, err)
	assert.Empty(t, diff.Added)
	assert.Empty(t, diff.Removed)
}

func TestSelection_Leave(t *testing.T) {
	s := usecases.NewSelection(fixedLines{"X": lines("X", "1", "2")}, "#2a5599", "#992a5b")
	_, err := s.Enter(context.Background(), "X")
	require.NoError(t, err)

	diff := s.Leave()
	assert.Equal(t, "", diff.Selected)
	assert.Equal(t, []string{"1", "2"}, diff.Removed)
	assert.Empty(t, diff.Added)
	assert.Equal(t, []domain.Highlight{{AirlineID: "X", Fill: "#2a5599"}}, diff.Highlights)
	assert.Empty(t, s.Drawn())
}

func TestSelection_DuplicateRouteIDsDrawOnce(t *testing.T) {
	dup := append(lines("X", "1"), lines("X", "1")...)
	s := usecases.NewSelection(fixedLines{"X": dup}, "#2a5599", "#992a5b")
	diff, err := s.Enter(context.Background(), "X")
	require.NoError(t, err)
	assert.Len(t, diff.Added, 1)
}

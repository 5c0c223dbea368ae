package usecases

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/pkg/metrics"
	"github.com/samirrijal/routemap/internal/pkg/telemetry"
)

// LineSource yields the projected route lines of one airline.
type LineSource interface {
	RouteLines(ctx context.Context, airlineID string) ([]domain.RouteLine, error)
}

// Selection tracks which airline is hovered and which route lines are on the
// map. It turns every hover change into an explicit diff. A Selection is
// not safe for concurrent use; each hover session owns one.
type Selection struct {
	lines     LineSource
	barFill   string
	hoverFill string

	selected string
	order    []string
	drawn    map[string]domain.RouteLine
}

// NewSelection creates a Selection with nothing selected and no lines drawn.
func NewSelection(lines LineSource, barFill, hoverFill string) *Selection {
	return &Selection{
		lines:     lines,
		barFill:   barFill,
		hoverFill: hoverFill,
		drawn:     make(map[string]domain.RouteLine),
	}
}

// Selected returns the hovered airline id, or "" when none is.
func (s *Selection) Selected() string { return s.selected }

// Drawn returns the lines currently on the map, in drawing order.
func (s *Selection) Drawn() []domain.RouteLine {
	out := make([]domain.RouteLine, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.drawn[id])
	}
	return out
}

// Enter selects airlineID. Lines of the previous airline disappear, lines
// of the new one appear, and lines present in both stay untouched.
func (s *Selection) Enter(ctx context.Context, airlineID string) (*domain.LineDiff, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanSelection)
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.AttrAirlineID, airlineID))

	next, err := s.lines.RouteLines(ctx, airlineID)
	if err != nil {
		return nil, err
	}
	metrics.SelectionEvents.WithLabelValues("enter").Inc()
	return s.apply(airlineID, next), nil
}

// Leave clears the selection and removes every drawn line.
func (s *Selection) Leave() *domain.LineDiff {
	metrics.SelectionEvents.WithLabelValues("leave").Inc()
	return s.apply("", nil)
}

func (s *Selection) apply(airlineID string, next []domain.RouteLine) *domain.LineDiff {
	diff := &domain.LineDiff{
		Selected: airlineID,
		Added:    []domain.RouteLine{},
		Removed:  []string{},
	}

	nextSet := make(map[string]domain.RouteLine, len(next))
	nextOrder := make([]string, 0, len(next))
	for _, l := range next {
		if _, dup := nextSet[l.RouteID]; dup {
			continue
		}
		nextSet[l.RouteID] = l
		nextOrder = append(nextOrder, l.RouteID)
	}

	for _, id := range s.order {
		if l, ok := nextSet[id]; !ok || l != s.drawn[id] {
			diff.Removed = append(diff.Removed, id)
		}
	}
	for _, id := range nextOrder {
		if l, ok := s.drawn[id]; !ok || l != nextSet[id] {
			diff.Added = append(diff.Added, nextSet[id])
		}
	}

	if s.selected != "" && s.selected != airlineID {
		diff.Highlights = append(diff.Highlights, domain.Highlight{AirlineID: s.selected, Fill: s.barFill})
	}
	if airlineID != "" {
		diff.Highlights = append(diff.Highlights, domain.Highlight{AirlineID: airlineID, Fill: s.hoverFill})
	}

	s.selected = airlineID
	s.drawn = nextSet
	s.order = nextOrder
	metrics.LinesDrawn.Add(float64(len(diff.Added)))
	return diff
}

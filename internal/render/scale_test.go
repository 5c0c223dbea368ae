package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearScale(t *testing.T) {
	s := NewLinearScale(0, 100, 0, 260)
	assert.InDelta(t, 0, s.Scale(0), 1e-9)
	assert.InDelta(t, 130, s.Scale(50), 1e-9)
	assert.InDelta(t, 260, s.Scale(100), 1e-9)
}

func TestLinearScaleDegenerateDomain(t *testing.T) {
	s := NewLinearScale(0, 0, 0, 260)
	assert.InDelta(t, 130, s.Scale(0), 1e-9)
}

func TestTicks(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		count      int
		want       []float64
	}{
		{"hundreds", 0, 100, 5, []float64{0, 20, 40, 60, 80, 100}},
		{"unit", 0, 1, 5, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
		{"uneven", 0, 1234, 5, []float64{0, 200, 400, 600, 800, 1000, 1200}},
		{"single", 3, 3, 5, []float64{3}},
		{"reversed", 10, 0, 5, []float64{10, 8, 6, 4, 2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ticks(tt.start, tt.end, tt.count)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestTickFormat(t *testing.T) {
	s := NewLinearScale(0, 5000, 0, 260)
	format := s.TickFormat(5)
	assert.Equal(t, "1,000", format(1000))
	assert.Equal(t, "0", format(0))

	small := NewLinearScale(0, 1, 0, 260).TickFormat(5)
	assert.Equal(t, "0.2", small(0.2))
}

func TestBandScale(t *testing.T) {
	b := NewBandScale([]string{"A", "B", "C"}, 0, 100, 0.2)

	// step = 100 / (3 - 0.2 + 0.4)
	step := 100 / 3.2
	assert.InDelta(t, step, b.Step(), 1e-9)
	assert.InDelta(t, step*0.8, b.Bandwidth(), 1e-9)

	a, ok := b.Position("A")
	require.True(t, ok)
	c, _ := b.Position("C")
	assert.InDelta(t, step*0.2, a, 1e-9)
	assert.InDelta(t, a+2*step, c, 1e-9)
	assert.InDelta(t, 100-step*0.2, c+b.Bandwidth(), 1e-9)

	_, ok = b.Position("missing")
	assert.False(t, ok)
}

func TestBandScaleDuplicates(t *testing.T) {
	b := NewBandScale([]string{"A", "B", "A"}, 0, 100, 0.2)
	assert.Equal(t, []string{"A", "B"}, b.Domain())
}

func TestBandScaleEmpty(t *testing.T) {
	b := NewBandScale(nil, 0, 100, 0.2)
	assert.Empty(t, b.Domain())
	assert.False(t, b.Bandwidth() < 0)
}

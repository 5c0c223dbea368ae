// Package render lays out the airline bar chart and the world map as SVG
// documents. Scales, ticks and the projection follow the d3 conventions the
// host page was designed against.
package render

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// LinearScale maps a continuous domain onto a continuous range.
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinearScale creates a scale mapping [d0,d1] onto [r0,r1].
func NewLinearScale(d0, d1, r0, r1 float64) *LinearScale {
	return &LinearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the input extent.
func (s *LinearScale) Domain() (float64, float64) { return s.d0, s.d1 }

// Scale maps v into the range. A degenerate domain maps everything to the
// middle of the range.
func (s *LinearScale) Scale(v float64) float64 {
	if s.d1 == s.d0 {
		return (s.r0 + s.r1) / 2
	}
	return s.r0 + (v-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// Ticks returns roughly count human-friendly values spanning the domain.
func (s *LinearScale) Ticks(count int) []float64 {
	return ticks(s.d0, s.d1, count)
}

// TickFormat returns a formatter whose precision matches the tick step,
// with thousands grouping.
func (s *LinearScale) TickFormat(count int) func(float64) string {
	step := tickStep(s.d0, s.d1, count)
	precision := 0
	if step != 0 && !math.IsNaN(step) {
		if exp := int(math.Floor(math.Log10(math.Abs(step)))); exp < 0 {
			precision = -exp
		}
	}
	p := message.NewPrinter(language.English)
	format := fmt.Sprintf("%%.%df", precision)
	return func(v float64) string {
		return p.Sprintf(format, v)
	}
}

func ticks(start, stop float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	var i1, i2, inc float64
	if reverse {
		i1, i2, inc = tickSpec(stop, start, float64(count))
	} else {
		i1, i2, inc = tickSpec(start, stop, float64(count))
	}
	if !(i2 >= i1) {
		return nil
	}
	n := int(i2-i1) + 1
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var v float64
		if inc < 0 {
			v = (i1 + float64(i)) / -inc
		} else {
			v = (i1 + float64(i)) * inc
		}
		if reverse {
			out[n-1-i] = v
		} else {
			out[i] = v
		}
	}
	return out
}

func tickSpec(start, stop, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

func tickStep(start, stop float64, count int) float64 {
	if start == stop || count <= 0 {
		return 0
	}
	lo, hi := start, stop
	if hi < lo {
		lo, hi = hi, lo
	}
	_, _, inc := tickSpec(lo, hi, float64(count))
	if inc < 0 {
		return 1 / -inc
	}
	return inc
}

// BandScale maps an ordered list of names onto equal-width bands.
// Duplicate names share the band of their first occurrence.
type BandScale struct {
	domain       []string
	index        map[string]int
	r0, r1       float64
	paddingInner float64
	paddingOuter float64
	align        float64
	step         float64
	bandwidth    float64
	start        float64
}

// NewBandScale creates a band scale over names spanning [r0,r1] with the
// same inner and outer padding.
func NewBandScale(names []string, r0, r1, padding float64) *BandScale {
	b := &BandScale{
		index:        make(map[string]int, len(names)),
		r0:           r0,
		r1:           r1,
		paddingInner: math.Min(1, padding),
		paddingOuter: padding,
		align:        0.5,
	}
	for _, n := range names {
		if _, ok := b.index[n]; ok {
			continue
		}
		b.index[n] = len(b.domain)
		b.domain = append(b.domain, n)
	}
	b.rescale()
	return b
}

func (b *BandScale) rescale() {
	n := float64(len(b.domain))
	start, stop := b.r0, b.r1
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	b.step = (stop - start) / math.Max(1, n-b.paddingInner+b.paddingOuter*2)
	start += (stop - start - b.step*(n-b.paddingInner)) * b.align
	b.bandwidth = b.step * (1 - b.paddingInner)
	b.start = start
	if reverse {
		// positions are mirrored when the range is inverted
		b.start = start + b.step*(n-1)
		b.step = -b.step
	}
}

// Position returns the start offset of name's band.
func (b *BandScale) Position(name string) (float64, bool) {
	i, ok := b.index[name]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(i), true
}

// Bandwidth returns the width of every band.
func (b *BandScale) Bandwidth() float64 { return b.bandwidth }

// Step returns the distance between the starts of adjacent bands.
func (b *BandScale) Step() float64 { return math.Abs(b.step) }

// Domain returns the distinct names in band order.
func (b *BandScale) Domain() []string { return b.domain }

package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateVisibleRange_TopOfList(t *testing.T) {
	r := CalculateVisibleRange(100, 60, 500, 0)
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 9, r.End)
	assert.Equal(t, 10, r.Count())
}

func TestCalculateVisibleRange_MidScroll(t *testing.T) {
	r := CalculateVisibleRange(100, 60, 600, 300)
	assert.Equal(t, 5, r.Start)
	assert.Equal(t, 16, r.End)
}

func TestCalculateVisibleRange_ScrolledPastEnd(t *testing.T) {
	r := CalculateVisibleRange(100, 60, 500, 60000)
	assert.Equal(t, 99, r.Start)
	assert.Equal(t, 99, r.End)
	assert.Equal(t, 1, r.Count())
}

func TestCalculateVisibleRange_NegativeScroll(t *testing.T) {
	r := CalculateVisibleRange(100, 60, 500, -120)
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 9, r.End)
}

func TestCalculateVisibleRange_NoRows(t *testing.T) {
	r := CalculateVisibleRange(0, 60, 500, 0)
	assert.True(t, r.Empty())
	assert.Equal(t, 0, r.Count())
}

func TestCalculateVisibleRange_FewerRowsThanViewport(t *testing.T) {
	r := CalculateVisibleRange(3, 60, 500, 0)
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 2, r.End)
	assert.Equal(t, 3, r.Count())
}

func TestCalculateVisibleRange_ZeroViewport(t *testing.T) {
	r := CalculateVisibleRange(100, 60, 0, 600)
	assert.Equal(t, 10, r.Start)
	assert.Equal(t, 11, r.End)
}

func TestCalculateVisibleRange_PanicsOnBadRowHeight(t *testing.T) {
	assert.Panics(t, func() { CalculateVisibleRange(100, 0, 500, 0) })
	assert.Panics(t, func() { CalculateVisibleRange(100, -60, 500, 0) })
}

func TestCalculateVisibleRange_BoundsInvariant(t *testing.T) {
	for _, scroll := range []int{0, 59, 60, 61, 2999, 3000, 5940, 5999, 100000} {
		r := CalculateVisibleRange(100, 60, 500, scroll)
		assert.GreaterOrEqual(t, r.Start, 0)
		assert.LessOrEqual(t, r.Start, r.End)
		assert.LessOrEqual(t, r.End, 99)
	}
}

func TestTotalHeight(t *testing.T) {
	assert.Equal(t, 6040, TotalHeight(100, 60, 40))
	assert.Equal(t, 40, TotalHeight(0, 60, 40))
	assert.Equal(t, 40, TotalHeight(-5, 60, 40))
}

func TestTotalHeight_PanicsOnBadRowHeight(t *testing.T) {
	assert.Panics(t, func() { TotalHeight(100, 0, 40) })
}

package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeTableBoundsSelectUpperValue(t *testing.T) {
	tbl := NewRangeTable([]float64{1, 10}, []string{"low", "mid", "high"})

	assert.Equal(t, "low", tbl.Lookup(0.5))
	assert.Equal(t, "mid", tbl.Lookup(1))
	assert.Equal(t, "mid", tbl.Lookup(9.99))
	assert.Equal(t, "high", tbl.Lookup(10))
	assert.Equal(t, "high", tbl.Lookup(1e9))
}

func TestRangeTableRejectsBadShape(t *testing.T) {
	assert.Panics(t, func() { NewRangeTable([]float64{1, 2}, []int{1, 2}) })
	assert.Panics(t, func() { NewRangeTable([]float64{2, 1}, []int{1, 2, 3}) })
}

func TestDiskIOPeriod(t *testing.T) {
	tests := []struct {
		io   uint64
		want int
	}{
		{0, 0},
		{1, 0},
		{2, 100},
		{15, 100},
		{16, 50},
		{1 << 12, 20},
		{1 << 20, 10},
		{1 << 40, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DiskIOPeriod(tt.io), "io=%d", tt.io)
	}
}

func TestBubbleInterval(t *testing.T) {
	tests := []struct {
		speed float64
		want  int
	}{
		{0, 0},
		{0.5, 0},
		{1, 100},
		{999, 100},
		{1000, 50},
		{5e4, 20},
		{1.5e5, 10},
		{3e5, 5},
		{5e5, 1},
		{1e9, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BubbleInterval(tt.speed), "speed=%v", tt.speed)
	}
}

func TestRippleFor(t *testing.T) {
	assert.Equal(t, SurfaceRipple{0, 0.01, 0}, RippleFor(0))
	assert.Equal(t, SurfaceRipple{2, 0.01, 1}, RippleFor(50))
	assert.Equal(t, SurfaceRipple{10, 0.1, 10}, RippleFor(2e6))
}

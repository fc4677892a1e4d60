package components

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestVecArithmetic(t *testing.T) {
	a := V(1, 2)
	b := V(3, 4)
	assert.Equal(t, V(4, 6), a.Add(b))
	assert.Equal(t, V(-2, -2), a.Sub(b))
	assert.Equal(t, V(3, 6), a.Scale(3))
	assert.InDelta(t, 5.0, b.Len(), eps)
	assert.InDelta(t, math.Sqrt(8), a.Dist(b), eps)
}

func TestVecNormalize(t *testing.T) {
	n := V(1, 1).Normalize()
	assert.InDelta(t, math.Sqrt2/2, n.X, eps)
	assert.InDelta(t, math.Sqrt2/2, n.Y, eps)

	assert.Equal(t, Vec2{}, Vec2{}.Normalize(), "zero vector stays zero")
}

func TestVecRotate(t *testing.T) {
	r := V(1, 2).RotateDeg(90)
	assert.InDelta(t, -2.0, r.X, eps)
	assert.InDelta(t, 1.0, r.Y, eps)

	r = V(1, 0).Rotate(math.Pi)
	assert.InDelta(t, -1.0, r.X, eps)
	assert.InDelta(t, 0.0, r.Y, eps)
}

func TestVecLimit(t *testing.T) {
	l := V(3, 4).Limit(2)
	assert.InDelta(t, 0.6*2, l.X, eps)
	assert.InDelta(t, 0.8*2, l.Y, eps)

	short := V(0.1, 0.1)
	assert.Equal(t, short, short.Limit(2))
}

func TestVecAngle(t *testing.T) {
	assert.InDelta(t, math.Pi/2, V(1, 0).Angle(V(0, 1)), eps)
	assert.InDelta(t, -math.Pi/2, V(1, 0).Angle(V(0, -1)), eps)
}

func TestRandomUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		assert.InDelta(t, 1.0, RandomUnit(rng).Len(), eps)
	}
}

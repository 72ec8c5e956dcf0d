package corrtrack

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

// testSurface returns a 27x27 surface with the given offsets from the center
// set to their values
func testSurface(values map[[2]int]float32) *plane[float32] {

	s := newPlane[float32](MinSurfaceSize, MinSurfaceSize)

	for off, v := range values {
		s.set(off[0]+s.width/2, off[1]+s.height/2, v)
	}

	return s
}

func TestAnalyzeSurfaceSinglePeak(t *testing.T) {

	s := testSurface(map[[2]int]float32{
		{2, -1}: 1.0,
		{1, -1}: 0.5,
		{3, -1}: 0.5,
		{2, -2}: 0.5,
		{2, 0}:  0.5,
	})

	p := analyzeSurface(s, 0, 0)

	assert.Equal(t, 2, p.dx)
	assert.Equal(t, -1, p.dy)
	assert.InDelta(t, 2, p.fdx, 1e-5)
	assert.InDelta(t, -1, p.fdy, 1e-5)
	assert.Equal(t, float32(1), p.value)
}

func TestAnalyzeSurfaceSubPixel(t *testing.T) {

	s := testSurface(map[[2]int]float32{
		{0, 0}: 1.0,
		{1, 0}: 0.5,
	})

	p := analyzeSurface(s, 0, 0)

	assert.Equal(t, 0, p.dx)
	assert.InDelta(t, 1.0/3, p.fdx, 1e-5)
	assert.InDelta(t, 0, p.fdy, 1e-5)
}

func TestAnalyzeSurfaceTieBreak(t *testing.T) {

	tests := []struct {
		name         string
		second       float32
		predX, predY float32
		dx, dy       int
	}{
		{"closer secondary wins", 0.97, -4, -5, -4, -5},
		{"closer primary kept", 0.97, 6, 5, 6, 5},
		{"secondary outside margin", 0.90, -4, -5, 6, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {

			s := testSurface(map[[2]int]float32{
				{6, 5}:   1.0,
				{-4, -5}: tc.second,
			})

			p := analyzeSurface(s, tc.predX, tc.predY)

			assert.Equal(t, tc.dx, p.dx)
			assert.Equal(t, tc.dy, p.dy)
		})
	}
}

func TestAnalyzeSurfaceNearPeakIgnored(t *testing.T) {

	// a secondary within minPeakDistance is part of the primary peak
	s := testSurface(map[[2]int]float32{
		{0, 0}: 1.0,
		{5, 0}: 0.99,
	})

	p := analyzeSurface(s, 5, 0)

	assert.Equal(t, 0, p.dx)
}

func TestAnalyzeSurfaceBorderPeak(t *testing.T) {

	s := testSurface(map[[2]int]float32{
		{-13, -13}: 0.7,
		{-12, -13}: 0.6,
	})

	p := analyzeSurface(s, 0, 0)

	assert.Equal(t, -13, p.dx)
	assert.Equal(t, -13, p.dy)
	assert.Equal(t, float32(-13), p.fdx)
	assert.Equal(t, float32(0.7), p.value)
}

func TestAnalyzeSurfaceEmpty(t *testing.T) {

	s := testSurface(nil)
	p := analyzeSurface(s, 0, 0)

	assert.Equal(t, float32(0), p.value)
}

package corrtrack

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestAxisFilterSeed(t *testing.T) {

	var f axisFilter

	// half the search range dominates a small rectangle
	f.seed(16, 49)
	assert.Equal(t, float32(32), f.floor)
	assert.Equal(t, float32(16), f.noise)
	assert.Equal(t, float32(24*24)/2, f.covariance)

	// the floor dominates a large rectangle
	f.seed(64, 49)
	assert.Equal(t, float32(512), f.covariance)
	assert.Equal(t, float32(0), f.predicted)
}

func TestAxisFilterUpdate(t *testing.T) {

	var f axisFilter
	f.seed(64, 49)

	// gain is cov/(cov+noise) = 512/768
	f.update(9)
	assert.InDelta(t, 6, f.predicted, 1e-4)
	assert.GreaterOrEqual(t, f.covariance, f.floor)

	// repeated measurements converge
	for i := 0; i < 20; i++ {
		f.update(9)
	}

	assert.InDelta(t, 9, f.predicted, 1e-2)
	assert.Equal(t, f.floor, f.covariance)
}

func TestAxisFilterInflate(t *testing.T) {

	var f axisFilter
	f.seed(64, 49)

	start := f.covariance
	f.inflate()
	assert.InDelta(t, start*lostCovarianceGrowth, f.covariance, 1e-3)

	for i := 0; i < 50; i++ {
		f.inflate()
	}

	assert.Equal(t, float32(49*49), f.covariance)
}

func TestPositionFilterGeometry(t *testing.T) {

	var p positionFilter
	p.seed(64, 32, 49, 27)

	p.y.covariance = 10000
	p.setGeometry(64, 32, 49, 27)

	assert.Equal(t, float32(27*27), p.y.covariance)
	assert.Equal(t, float32(512), p.x.floor)
	assert.Equal(t, float32(128), p.y.floor)

	p.update(3, -2)
	assert.Greater(t, p.x.predicted, float32(0))
	assert.Less(t, p.y.predicted, float32(0))

	p.reset()
	assert.Equal(t, positionFilter{}, p)
}

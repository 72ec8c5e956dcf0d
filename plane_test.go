package corrtrack

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestPlaneIndexing(t *testing.T) {

	p := newPlane[uint8](8, 6)
	p.setSize(4, 3)

	p.set(2, 1, 7)

	assert.Equal(t, 10, p.idx(2, 1))
	assert.Equal(t, uint8(7), p.at(2, 1))
	assert.Equal(t, uint8(7), p.data[10])

	// rows keep the capacity stride after a resize
	assert.Equal(t, []uint8{0, 0, 7, 0}, p.row(1))

	q := newPlane[uint8](8, 6)
	q.copyFrom(p)

	assert.Equal(t, 4, q.width)
	assert.Equal(t, 3, q.height)
	assert.Equal(t, uint8(7), q.at(2, 1))
}

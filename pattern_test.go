package corrtrack

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

// texturedFrame returns a test frame with a smooth two dimensional texture
func texturedFrame() []byte {

	frame := make([]byte, testWidth*testHeight)

	for y := 0; y < testHeight; y++ {
		for x := 0; x < testWidth; x++ {
			frame[y*testWidth+x] = byte((x*3 + y*5 + (x*y)%17) % 251)
		}
	}

	return frame
}

func TestPatternInitialize(t *testing.T) {

	frame := texturedFrame()
	rect := NewRect(100, 90, 40, 24)

	m := newPatternModel()
	m.initialize(frame, testWidth, testHeight, rect, nil)

	require.Equal(t, 40, m.width)
	require.Equal(t, 24, m.height)

	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			want := frame[(rect.TLY()+y)*testWidth+rect.TLX()+x]

			require.Equal(t, float32(want), m.pattern.at(x, y))
			require.Equal(t, want, m.current().at(x, y))
			require.Equal(t, want, m.previous().at(x, y))

			mv := m.mask.at(x, y)
			require.GreaterOrEqual(t, mv, uint8(32))
			require.Equal(t, mv/32, m.reduced.at(x, y))
		}
	}
}

func TestPatternMaskWeightsEdges(t *testing.T) {

	m := newPatternModel()
	m.initialize(squareFrame(100, 100, 20), testWidth, testHeight, NewRect(100, 100, 64, 64), nil)

	// flat background keeps the base weight, the square edge is boosted
	assert.Equal(t, uint8(64), m.mask.at(2, 2))
	assert.Greater(t, m.mask.at(22, 32), uint8(64))

	obj := m.objectRect(NewRect(100, 100, 64, 64))
	assert.InDelta(t, 100, obj.X, 1)
	assert.InDelta(t, 100, obj.Y, 1)
	assert.InDelta(t, 22, obj.Width, 2)
	assert.InDelta(t, 22, obj.Height, 2)
}

func TestPatternObjectRectFlat(t *testing.T) {

	m := newPatternModel()
	rect := NewRect(100, 100, 32, 32)
	m.initialize(flatFrame(100), testWidth, testHeight, rect, nil)

	assert.Equal(t, rect, m.objectRect(rect))
}

func TestPatternLearn(t *testing.T) {

	frame := flatFrame(100)
	rect := NewRect(100, 100, 32, 32)

	m := newPatternModel()
	m.initialize(frame, testWidth, testHeight, rect, nil)

	brighter := flatFrame(116)
	m.learn(brighter, testWidth, testHeight, rect, true, 0.5)

	assert.Equal(t, 1, m.snapshotIndex)
	assert.Equal(t, uint8(116), m.current().at(5, 5))
	assert.Equal(t, uint8(100), m.previous().at(5, 5))
	assert.InDelta(t, 16*deviationUpdateCoeff, m.deviation.at(5, 5), 1e-5)
	assert.InDelta(t, 108, m.pattern.at(5, 5), 1e-4)

	// without blending only the snapshots and the deviation move
	m.learn(brighter, testWidth, testHeight, rect, false, 0.5)

	assert.Equal(t, 0, m.snapshotIndex)
	assert.InDelta(t, 108, m.pattern.at(5, 5), 1e-4)
	assert.InDelta(t, 2*(1-deviationUpdateCoeff), m.deviation.at(5, 5), 1e-5)
}

func TestPatternShiftMatchesMovedRect(t *testing.T) {

	frame := texturedFrame()
	rect := NewRect(120, 110, 48, 32)

	shifts := [][2]int{{5, -3}, {-7, 4}, {0, 9}, {-12, 0}}

	for _, d := range shifts {

		moved := NewRect(rect.X+d[0], rect.Y+d[1], rect.Width, rect.Height)

		shifted := newPatternModel()
		shifted.initialize(frame, testWidth, testHeight, rect, nil)
		shifted.shift(d[0], d[1], frame, testWidth, testHeight, moved)

		fresh := newPatternModel()
		fresh.initialize(frame, testWidth, testHeight, moved, nil)

		for y := 0; y < rect.Height; y++ {
			require.Equal(t, fresh.pattern.row(y), shifted.pattern.row(y), "shift %v row %d", d, y)
			require.Equal(t, fresh.mask.row(y), shifted.mask.row(y), "shift %v row %d", d, y)
			require.Equal(t, fresh.current().row(y), shifted.current().row(y), "shift %v row %d", d, y)
		}
	}
}

func TestCutRectClampsToFrame(t *testing.T) {

	frame := texturedFrame()
	dst := newPlane[uint8](MaxRectWidth, MaxRectHeight)
	dst.setSize(16, 16)

	cutRect(dst, frame, testWidth, testHeight, NewRect(2, 2, 16, 16))

	// top-left is outside the frame and takes the corner pixel
	assert.Equal(t, frame[0], dst.at(0, 0))
	assert.Equal(t, frame[4*testWidth+4], dst.at(10, 10))
}

package adapter

import (
	"github.com/cyclopcam/logs"
	"github.com/skylens/go-corrtrack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
	"image"
	"image/color"
	"reflect"
	"testing"
)

// squareMat returns a 480x480 BGR frame with a bright 40 pixel square
// centered at (cx, cy)
func squareMat(cx, cy int) gocv.Mat {

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(64, 64, 64, 0), 480, 480, gocv.MatTypeCV8UC3)

	// gocv rectangles include their Max corner
	gocv.Rectangle(&img, image.Rect(cx-20, cy-20, cx+19, cy+19), color.RGBA{200, 200, 200, 255}, -1)

	return img
}

func newTestAdapter(t *testing.T) *Adapter {

	tr := corrtrack.New(corrtrack.WithLogger(logs.NewTestingLog(t)))
	a := New(logs.NewTestingLog(t), tr, Config{MaxWidth: 240})

	t.Cleanup(func() {
		a.Close()
	})

	return a
}

func TestLockNeedsFrame(t *testing.T) {

	a := newTestAdapter(t)

	assert.False(t, a.LockTarget(image.Pt(200, 200)))
	assert.Nil(t, a.Descriptor(image.Pt(200, 200)))
	assert.Empty(t, a.Session())
}

func TestDoProcessFrameRejectsEmpty(t *testing.T) {

	a := newTestAdapter(t)

	img := gocv.NewMat()
	defer img.Close()

	_, err := a.DoProcessFrame(img)
	assert.Error(t, err)
}

func TestLockAndTrack(t *testing.T) {

	a := newTestAdapter(t)

	img := squareMat(200, 200)
	defer img.Close()

	rect, err := a.DoProcessFrame(img)
	require.NoError(t, err)
	assert.True(t, rect.Empty())

	require.True(t, a.LockTarget(image.Pt(200, 200)))

	session := a.Session()
	assert.NotEmpty(t, session)

	rect, err = a.DoProcessFrame(img)
	require.NoError(t, err)

	// a 64 pixel rectangle at tracking resolution is 128 source pixels
	assert.Equal(t, 128, rect.Dx())
	assert.Equal(t, 128, rect.Dy())
	assert.InDelta(t, 200, (rect.Min.X+rect.Max.X)/2, 2)
	assert.InDelta(t, 200, (rect.Min.Y+rect.Max.Y)/2, 2)

	// a new lock opens a new session
	require.True(t, a.LockTarget(image.Pt(200, 200)))
	assert.NotEqual(t, session, a.Session())

	a.UnlockTarget()
	assert.Empty(t, a.Session())

	rect, err = a.DoProcessFrame(img)
	require.NoError(t, err)
	assert.True(t, rect.Empty())
}

func TestLockTargetSeen(t *testing.T) {

	a := newTestAdapter(t)

	var desc []byte

	for k := 0; k < 4; k++ {
		img := squareMat(160+20*k, 200)

		_, err := a.DoProcessFrame(img)
		img.Close()
		require.NoError(t, err)

		if k == 1 {
			desc = a.Descriptor(image.Pt(180, 200))
		}
	}

	require.Len(t, desc, corrtrack.DescriptorSize)
	require.True(t, a.LockTargetSeen(image.Pt(180, 200), desc))

	img := squareMat(240, 200)
	defer img.Close()

	rect, err := a.DoProcessFrame(img)
	require.NoError(t, err)
	require.False(t, rect.Empty())
	assert.InDelta(t, 240, (rect.Min.X+rect.Max.X)/2, 8)
}

func TestSetTargetSize(t *testing.T) {

	a := newTestAdapter(t)

	img := squareMat(200, 200)
	defer img.Close()

	_, err := a.DoProcessFrame(img)
	require.NoError(t, err)

	// source pixels are halved at tracking resolution
	assert.Equal(t, float32(2), a.Scale())
	require.True(t, a.SetTargetSize(64))
	require.True(t, a.LockTarget(image.Pt(200, 200)))

	rect, err := a.DoProcessFrame(img)
	require.NoError(t, err)
	assert.Equal(t, 64, rect.Dx())

	assert.False(t, a.SetTargetSize(1000))
}

func TestResolutionChange(t *testing.T) {

	a := newTestAdapter(t)

	img := squareMat(200, 200)
	defer img.Close()

	_, err := a.DoProcessFrame(img)
	require.NoError(t, err)
	assert.Equal(t, float32(2), a.Scale())

	// a narrower source replaces the conversion buffers
	small := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(64, 64, 64, 0), 120, 160, gocv.MatTypeCV8UC3)
	defer small.Close()

	_, err = a.DoProcessFrame(small)
	require.NoError(t, err)
	assert.Equal(t, float32(1), a.Scale())
	assert.Equal(t, 160, a.resizer.Width())
}

func TestLockingIsNotExported(t *testing.T) {

	typ := reflect.TypeOf(&Adapter{})

	_, ok := typ.MethodByName("Lock")
	assert.False(t, ok)

	_, ok = typ.MethodByName("Unlock")
	assert.False(t, ok)
}

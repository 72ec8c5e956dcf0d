package render

import (
	"github.com/skylens/go-corrtrack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
	"image"
	"testing"
)

func TestScaleRect(t *testing.T) {

	tests := []struct {
		rect   image.Rectangle
		scale  float32
		expect image.Rectangle
	}{
		{image.Rect(10, 20, 30, 40), 1, image.Rect(10, 20, 30, 40)},
		{image.Rect(10, 20, 30, 40), 2, image.Rect(20, 40, 60, 80)},
		{image.Rect(10, 20, 30, 41), 1.5, image.Rect(15, 30, 45, 62)},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expect, ScaleRect(tc.rect, tc.scale))
	}

	assert.Equal(t, image.Pt(150, 75), ScalePoint(image.Pt(100, 50), 1.5))
}

func TestTrailKeepsNewestPoints(t *testing.T) {

	trail := NewTrail(3)

	for i := 0; i < 10; i++ {
		trail.Add(image.Pt(i, i))
	}

	// capacity is rounded up to a power of two
	pts := trail.Points()
	require.Len(t, pts, 4)
	assert.Equal(t, image.Pt(6, 6), pts[0])
	assert.Equal(t, image.Pt(9, 9), pts[3])

	trail.Update(corrtrack.TrackerState{Mode: corrtrack.ModeFree}, 1)
	assert.Equal(t, 0, trail.Len())

	trail.Update(corrtrack.TrackerState{
		Mode:              corrtrack.ModeTracking,
		TrackingRectangle: corrtrack.NewRect(50, 60, 32, 32),
	}, 2)

	assert.Equal(t, []image.Point{image.Pt(100, 120)}, trail.Points())
}

func TestTrackerOverlay(t *testing.T) {

	style := DefaultOverlayStyle()
	style.ShowLabel = false
	style.ShowObject = false
	style.CrosshairSize = 0

	res := corrtrack.TrackerState{
		Mode:              corrtrack.ModeTracking,
		TrackingRectangle: corrtrack.NewRect(100, 100, 40, 40),
		ObjectRectangle:   corrtrack.NewRect(100, 100, 20, 20),
	}

	img := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer img.Close()

	TrackerOverlay(&img, res, 1, DefaultFont(), style)

	// gocv stores pixels as BGR
	v := img.GetVecbAt(80, 100)
	assert.Equal(t, Green.B, v[0])
	assert.Equal(t, Green.G, v[1])
	assert.Equal(t, Green.R, v[2])

	// nothing drawn while free
	free := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer free.Close()

	res.Mode = corrtrack.ModeFree
	TrackerOverlay(&free, res, 1, DefaultFont(), DefaultOverlayStyle())

	gray := gocv.NewMat()
	defer gray.Close()

	gocv.CvtColor(free, &gray, gocv.ColorBGRToGray)
	assert.Equal(t, 0, gocv.CountNonZero(gray))
}

func TestModeColor(t *testing.T) {
	assert.Equal(t, Green, ModeColor(corrtrack.ModeTracking))
	assert.Equal(t, Red, ModeColor(corrtrack.ModeLost))
	assert.Equal(t, White, ModeColor(corrtrack.Mode(42)))
}

func TestDiagnosticImage(t *testing.T) {

	tr := corrtrack.New()
	diag := NewDiagnostic(96)

	img, err := diag.Image(tr, corrtrack.ImagePattern)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 96, 96), img.Bounds())

	_, err = diag.Image(tr, corrtrack.ImageType(7))
	assert.Error(t, err)

	frame := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()

	// inset is clipped at the frame edge
	require.NoError(t, diag.Inset(&frame, tr, corrtrack.ImageMask, image.Pt(100, 60)))
	require.NoError(t, diag.Inset(&frame, tr, corrtrack.ImageMask, image.Pt(500, 500)))
}

// capturedTracker returns a tracker locked on a bright square so its
// pattern has structure
func capturedTracker(t *testing.T) *corrtrack.Tracker {

	const size = 240

	frame := make([]byte, size*size)

	for i := range frame {
		frame[i] = 64
	}

	for y := 90; y < 110; y++ {
		for x := 90; x < 110; x++ {
			frame[y*size+x] = 200
		}
	}

	tr := corrtrack.New()
	require.True(t, tr.ProcessFrame(frame, size, size, 0))
	require.True(t, tr.ExecuteCommand(corrtrack.CommandCapture, 100, 100, -1, nil, nil))

	return tr
}

func TestDiagnosticInsetClipped(t *testing.T) {

	tr := capturedTracker(t)
	diag := NewDiagnostic(96)

	want, err := diag.Image(tr, corrtrack.ImagePattern)
	require.NoError(t, err)

	tests := []struct {
		name     string
		pt       image.Point
		channels int
	}{
		{"clipped right and bottom", image.Pt(100, 60), 1},
		{"clipped left and top", image.Pt(-40, -20), 1},
		{"clipped right on color frame", image.Pt(120, 10), 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {

			matType := gocv.MatTypeCV8UC1

			if tc.channels == 3 {
				matType = gocv.MatTypeCV8UC3
			}

			frame := gocv.NewMatWithSize(120, 160, matType)
			defer frame.Close()

			require.NoError(t, diag.Inset(&frame, tr, corrtrack.ImagePattern, tc.pt))

			area := image.Rect(tc.pt.X, tc.pt.Y, tc.pt.X+96, tc.pt.Y+96).
				Intersect(image.Rect(0, 0, 160, 120))

			for y := area.Min.Y; y < area.Max.Y; y++ {
				for x := area.Min.X; x < area.Max.X; x++ {
					expect := want.GrayAt(x-tc.pt.X, y-tc.pt.Y).Y

					var got uint8

					if tc.channels == 1 {
						got = frame.GetUCharAt(y, x)
					} else {
						got = frame.GetVecbAt(y, x)[0]
					}

					require.Equal(t, expect, got, "pixel (%d, %d)", x, y)
				}
			}
		})
	}
}

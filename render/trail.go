package render

import (
	"github.com/bmharper/ringbuffer"
	"github.com/skylens/go-corrtrack"
	"gocv.io/x/gocv"
	"image"
	"image/color"
)

// TrailStyle defines the parameters used for rendering the trail style
type TrailStyle struct {
	// LineSame defines if the color of the trail line should be the
	// same color as that of the tracking rectangle.  If set to false then use
	// the color specified at LineColor
	LineSame      bool
	LineColor     color.RGBA
	LineThickness int
	// CircleSame defines if the color of the midpoint circle should be the
	// same color as that of the tracking rectangle.  If set to false then use
	// the color specified at CircleColor
	CircleSame   bool
	CircleColor  color.RGBA
	CircleRadius int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LineSame:      false,
		LineColor:     Yellow,
		LineThickness: 1,
		CircleSame:    true,
		CircleColor:   Pink,
		CircleRadius:  3,
	}
}

// Trail is the history of tracking rectangle centers, the oldest points are
// dropped once the history is full
type Trail struct {
	size   int
	points ringbuffer.RingP[image.Point]
}

// NewTrail returns a Trail holding at least size points
func NewTrail(size int) *Trail {

	size = nextPowerOf2(max(size, 2))

	return &Trail{
		size:   size,
		points: ringbuffer.NewRingP[image.Point](size),
	}
}

// nextPowerOf2 returns the smallest power of two not below n
func nextPowerOf2(n int) int {

	p := 1

	for p < n {
		p <<= 1
	}

	return p
}

// Add appends a point to the trail
func (t *Trail) Add(pt image.Point) {
	t.points.Add(pt)
}

// Update records the tracking rectangle center of res scaled to the source
// image, the trail is cleared when nothing is tracked
func (t *Trail) Update(res corrtrack.TrackerState, scale float32) {

	if res.Mode == corrtrack.ModeFree {
		t.Reset()
		return
	}

	t.Add(ScalePoint(image.Pt(res.TrackingRectangle.X, res.TrackingRectangle.Y), scale))
}

// Points returns the trail from the oldest to the newest point
func (t *Trail) Points() []image.Point {

	pts := make([]image.Point, 0, t.points.Len())

	for i := 0; i < t.points.Len(); i++ {
		pts = append(pts, t.points.Peek(i))
	}

	return pts
}

// Len returns the number of points held
func (t *Trail) Len() int {
	return t.points.Len()
}

// Reset clears the trail
func (t *Trail) Reset() {
	t.points = ringbuffer.NewRingP[image.Point](t.size)
}

// DrawTrail draws the trail line on the source image.  objClr is the color
// of the tracking rectangle the trail belongs to.
func DrawTrail(img *gocv.Mat, trail *Trail, objClr color.RGBA, style TrailStyle) {

	// determine style colors to use
	lineClr := objClr
	circleClr := objClr

	if !style.LineSame {
		lineClr = style.LineColor
	}

	if !style.CircleSame {
		circleClr = style.CircleColor
	}

	points := trail.Points()

	if len(points) < 2 {
		return
	}

	for i := 1; i < len(points); i++ {
		// draw line segment of trail
		gocv.Line(img, points[i-1], points[i], lineClr, style.LineThickness)
	}

	// draw center point circle on current rectangle
	gocv.Circle(img, points[len(points)-1], style.CircleRadius, circleClr, -1)
}

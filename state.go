package corrtrack

import (
	"image"
)

// Rect is a rectangle given by its center and size in frame coordinates
type Rect struct {
	// X and Y is the integer center
	X, Y int
	// FX and FY is the sub pixel center
	FX, FY float32
	Width  int
	Height int
}

// NewRect creates a Rect with the given integer center and size
func NewRect(x, y, width, height int) Rect {
	return Rect{
		X:      x,
		Y:      y,
		FX:     float32(x),
		FY:     float32(y),
		Width:  width,
		Height: height,
	}
}

// TLX returns the top-left x coordinate of the rectangle
func (r Rect) TLX() int {
	return r.X - r.Width/2
}

// TLY returns the top-left y coordinate of the rectangle
func (r Rect) TLY() int {
	return r.Y - r.Height/2
}

// BRX returns the bottom-right x coordinate of the rectangle, inclusive
func (r Rect) BRX() int {
	return r.TLX() + r.Width - 1
}

// BRY returns the bottom-right y coordinate of the rectangle, inclusive
func (r Rect) BRY() int {
	return r.TLY() + r.Height - 1
}

// Image returns the rectangle as an image.Rectangle
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.TLX(), r.TLY(), r.TLX()+r.Width, r.TLY()+r.Height)
}

// touchesBorder reports whether the rectangle reaches the edge of a frame of
// the given size
func (r Rect) touchesBorder(frameWidth, frameHeight int) bool {
	return r.TLX() <= 0 || r.TLY() <= 0 ||
		r.BRX() >= frameWidth-1 || r.BRY() >= frameHeight-1
}

// TrackerState is the complete state of a Tracker.  GetTrackerResultData
// returns a copy of it.
type TrackerState struct {
	Mode Mode

	// TrackingRectangle is the region believed to contain the object
	TrackingRectangle Rect
	// ObjectRectangle is the object estimated from the mask, it always lies
	// inside TrackingRectangle
	ObjectRectangle Rect
	// SearchWindowX and SearchWindowY is the center of the next correlation
	// surface
	SearchWindowX int
	SearchWindowY int

	// BufferFrameID is the frame buffer slot written last
	BufferFrameID int
	// TrackerFrameID is the frame buffer slot evaluated last
	TrackerFrameID int
	// FrameCounterInLostMode counts the frames since the object was lost
	FrameCounterInLostMode int

	ObjectLossThreshold          float32
	ObjectDetectionThreshold     float32
	ProbabilityAdaptiveThreshold float32
	PatternUpdateCoeff           float32
	VelocityUpdateCoeff          float32
	ProbabilityUpdateCoeff       float32
	PixelDeviationThreshold      int
	LostModeOption               LostModeOption
	MaximumNumFramesInLostMode   int

	CorrelationSurfaceWidth  int
	CorrelationSurfaceHeight int
	FrameBufferSize          int
	NumThreads               int
	FrameWidth               int
	FrameHeight              int

	// ObjectDetectionProbability is the last correlation peak value
	ObjectDetectionProbability float32

	// PredictedOffsetX/Y and CovarianceX/Y expose the position filter
	PredictedOffsetX float32
	PredictedOffsetY float32
	CovarianceX      float32
	CovarianceY      float32
}

package corrtrack

import (
	"math"
)

// SetProperty sets a Tracker property.  Returns false and leaves the state
// unchanged if the id is unknown or read only, or the value is out of range.
// Integer properties reject values with a fractional part.
func (t *Tracker) SetProperty(id PropertyID, value float64) bool {

	t.mu.Lock()
	defer t.mu.Unlock()

	s := &t.state

	switch id {
	case PropertyFrameBufferSize:
		v, ok := intInRange(value, MinFrameBufferSize, MaxFrameBufferSize)
		if !ok {
			return false
		}

		s.FrameBufferSize = v

		if t.frames != nil {
			t.log.Infof("Reallocating frame buffer of %d frames at %dx%d", v, s.FrameWidth, s.FrameHeight)
			t.frames = newFrameBuffer(v, s.FrameWidth, s.FrameHeight)
			t.reset()
		}

	case PropertyTrackingRectangleWidth:
		v, ok := intInRange(value, MinRectWidth, MaxRectWidth)
		if !ok {
			return false
		}

		if s.Mode != ModeFree {
			return t.resize(v, s.TrackingRectangle.Height)
		}

		s.TrackingRectangle.Width = v

	case PropertyTrackingRectangleHeight:
		v, ok := intInRange(value, MinRectHeight, MaxRectHeight)
		if !ok {
			return false
		}

		if s.Mode != ModeFree {
			return t.resize(s.TrackingRectangle.Width, v)
		}

		s.TrackingRectangle.Height = v

	case PropertyPixelDeviationThreshold:
		v, ok := intInRange(value, 0, 255)
		if !ok {
			return false
		}

		s.PixelDeviationThreshold = v

	case PropertyObjectLossThreshold:
		return setUnit(&s.ObjectLossThreshold, value)

	case PropertyObjectDetectionThreshold:
		return setUnit(&s.ObjectDetectionThreshold, value)

	case PropertyPatternUpdateCoeff:
		return setUnit(&s.PatternUpdateCoeff, value)

	case PropertyProbabilityUpdateCoeff:
		return setUnit(&s.ProbabilityUpdateCoeff, value)

	case PropertyVelocityUpdateCoeff:
		return setUnit(&s.VelocityUpdateCoeff, value)

	case PropertyCorrelationSurfaceWidth:
		v, ok := intInRange(value, MinSurfaceSize, MaxSurfaceSize)
		if !ok {
			return false
		}

		s.CorrelationSurfaceWidth = v
		t.surfaceChanged()

	case PropertyCorrelationSurfaceHeight:
		v, ok := intInRange(value, MinSurfaceSize, MaxSurfaceSize)
		if !ok {
			return false
		}

		s.CorrelationSurfaceHeight = v
		t.surfaceChanged()

	case PropertyLostModeOption:
		v, ok := intInRange(value, int(LostModeHold), int(LostModeDrift))
		if !ok {
			return false
		}

		s.LostModeOption = LostModeOption(v)

	case PropertyMaximumNumFramesInLostMode:
		v, ok := intInRange(value, 1, math.MaxInt32)
		if !ok {
			return false
		}

		s.MaximumNumFramesInLostMode = v

	case PropertyNumThreads:
		v, ok := intInRange(value, 0, MaxNumThreads)
		if !ok {
			return false
		}

		s.NumThreads = v
		t.pool = NewPool(v)
		t.corr.setPool(t.pool)

	case PropertySearchWindowX:
		if t.frames == nil {
			return false
		}

		v, ok := intInRange(value, 0, s.FrameWidth-1)
		if !ok {
			return false
		}

		s.SearchWindowX = v

	case PropertySearchWindowY:
		if t.frames == nil {
			return false
		}

		v, ok := intInRange(value, 0, s.FrameHeight-1)
		if !ok {
			return false
		}

		s.SearchWindowY = v

	default:
		return false
	}

	return true
}

// surfaceChanged updates the filter limits after a correlation surface
// size change
func (t *Tracker) surfaceChanged() {

	s := &t.state

	if s.Mode == ModeFree {
		return
	}

	t.filter.setGeometry(s.TrackingRectangle.Width, s.TrackingRectangle.Height,
		s.CorrelationSurfaceWidth, s.CorrelationSurfaceHeight)
}

// GetProperty returns the value of a Tracker property, or PropertyUnknown
// if the id is not known
func (t *Tracker) GetProperty(id PropertyID) float64 {

	t.mu.Lock()
	defer t.mu.Unlock()

	s := &t.state

	switch id {
	case PropertyFrameBufferSize:
		return float64(s.FrameBufferSize)
	case PropertyTrackingRectangleWidth:
		return float64(s.TrackingRectangle.Width)
	case PropertyTrackingRectangleHeight:
		return float64(s.TrackingRectangle.Height)
	case PropertyPixelDeviationThreshold:
		return float64(s.PixelDeviationThreshold)
	case PropertyObjectLossThreshold:
		return float64(s.ObjectLossThreshold)
	case PropertyObjectDetectionThreshold:
		return float64(s.ObjectDetectionThreshold)
	case PropertyPatternUpdateCoeff:
		return float64(s.PatternUpdateCoeff)
	case PropertyProbabilityUpdateCoeff:
		return float64(s.ProbabilityUpdateCoeff)
	case PropertyVelocityUpdateCoeff:
		return float64(s.VelocityUpdateCoeff)
	case PropertyCorrelationSurfaceWidth:
		return float64(s.CorrelationSurfaceWidth)
	case PropertyCorrelationSurfaceHeight:
		return float64(s.CorrelationSurfaceHeight)
	case PropertyLostModeOption:
		return float64(s.LostModeOption)
	case PropertyMaximumNumFramesInLostMode:
		return float64(s.MaximumNumFramesInLostMode)
	case PropertyNumThreads:
		return float64(s.NumThreads)
	case PropertySearchWindowX:
		return float64(s.SearchWindowX)
	case PropertySearchWindowY:
		return float64(s.SearchWindowY)
	case PropertyMode:
		return float64(s.Mode)
	case PropertyFrameWidth:
		return float64(s.FrameWidth)
	case PropertyFrameHeight:
		return float64(s.FrameHeight)
	case PropertyTrackingRectangleX:
		return float64(s.TrackingRectangle.X)
	case PropertyTrackingRectangleY:
		return float64(s.TrackingRectangle.Y)
	case PropertyObjectDetectionProbability:
		return float64(s.ObjectDetectionProbability)
	case PropertyProbabilityAdaptiveThreshold:
		return float64(s.ProbabilityAdaptiveThreshold)
	case PropertyBufferFrameID:
		if t.frames == nil {
			return 0
		}
		return float64(t.frames.bufferFrameID())
	case PropertyTrackerFrameID:
		if t.frames == nil {
			return 0
		}
		return float64(t.frames.trackerFrameID())
	}

	return PropertyUnknown
}

// intInRange converts value to an int if it is integral and inside
// [lo, hi]
func intInRange(value float64, lo, hi int) (int, bool) {

	if math.IsNaN(value) || value != math.Trunc(value) {
		return 0, false
	}

	if value < float64(lo) || value > float64(hi) {
		return 0, false
	}

	return int(value), true
}

// setUnit stores value in dst if it lies in [0, 1]
func setUnit(dst *float32, value float64) bool {

	if math.IsNaN(value) || value < 0 || value > 1 {
		return false
	}

	*dst = float32(value)

	return true
}

package corrtrack

import (
	"github.com/chewxy/math32"
	"github.com/cyclopcam/logs"
	"sync"
	"time"
)

// Tracker is a correlation based single object video tracker.  Every public
// method holds the Tracker lock for its full duration so state is never
// observed mid update.
type Tracker struct {
	mu  sync.Mutex
	log logs.Log
	// now is the clock used to bound the catch up loop
	now func() time.Time

	state  TrackerState
	frames *frameBuffer
	model  *patternModel
	filter positionFilter
	pool   *Pool
	corr   *correlator
}

// New returns a Tracker in free mode with default settings.  The frame
// buffer is allocated on the first call to ProcessFrame.
func New(opts ...Option) *Tracker {

	t := &Tracker{
		log:   discardLog{},
		now:   time.Now,
		model: newPatternModel(),
		pool:  NewPool(defaultNumThreads),
	}

	t.corr = newCorrelator(t.model, t.pool)

	t.state = TrackerState{
		Mode:                         ModeFree,
		TrackingRectangle:            NewRect(0, 0, defaultRectWidth, defaultRectHeight),
		ObjectLossThreshold:          defaultObjectLossThreshold,
		ObjectDetectionThreshold:     defaultObjectDetectionThreshold,
		ProbabilityAdaptiveThreshold: initialAdaptiveThreshold,
		PatternUpdateCoeff:           defaultPatternUpdateCoeff,
		VelocityUpdateCoeff:          defaultVelocityUpdateCoeff,
		ProbabilityUpdateCoeff:       defaultProbabilityUpdateCoeff,
		PixelDeviationThreshold:      defaultPixelDeviationThreshold,
		LostModeOption:               defaultLostModeOption,
		MaximumNumFramesInLostMode:   defaultMaximumNumFramesInLostMode,
		CorrelationSurfaceWidth:      defaultSurfaceWidth,
		CorrelationSurfaceHeight:     defaultSurfaceHeight,
		FrameBufferSize:              defaultFrameBufferSize,
		NumThreads:                   defaultNumThreads,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// ProcessFrame ingests a new grayscale frame of width x height bytes.  While
// an object is tracked every buffered frame not yet evaluated is processed
// in order.  When timeoutMs is above zero the catch up stops once that many
// milliseconds have passed, leaving the rest of the backlog for the next
// call.  Returns false if the frame has no size or is too short.
func (t *Tracker) ProcessFrame(frame []byte, width, height int, timeoutMs int) bool {

	t.mu.Lock()
	defer t.mu.Unlock()

	if width <= 0 || height <= 0 || len(frame) < width*height {
		return false
	}

	if !t.frames.matches(t.state.FrameBufferSize, width, height) {
		t.log.Infof("Allocating frame buffer of %d frames at %dx%d",
			t.state.FrameBufferSize, width, height)

		t.frames = newFrameBuffer(t.state.FrameBufferSize, width, height)
		t.state.FrameWidth = width
		t.state.FrameHeight = height
		t.reset()
	}

	t.frames.push(frame)
	t.state.BufferFrameID = t.frames.bufferFrameID()

	if t.state.Mode != ModeFree {
		t.catchUp(time.Duration(timeoutMs) * time.Millisecond)
	}

	return true
}

// catchUp evaluates buffered frames until the consumer reaches the producer,
// the object is released or the budget is spent
func (t *Tracker) catchUp(budget time.Duration) {

	start := t.now()

	for t.state.Mode != ModeFree {

		slot, ok := t.frames.next()

		if !ok {
			break
		}

		t.step(slot)

		if budget > 0 && t.now().Sub(start) >= budget {
			break
		}
	}
}

// step evaluates a single buffered frame
func (t *Tracker) step(slot int) {

	t.state.TrackerFrameID = slot
	frame := t.frames.frame(slot)

	switch t.state.Mode {
	case ModeTracking, ModeLost:
		t.correlate(frame)

	case ModeInertial:
		t.moveBy(t.filter.x.predicted, t.filter.y.predicted)
		t.checkBorder()

	case ModeStatic:
		t.checkBorder()
	}
}

// correlate runs one correlation pass around the search window center and
// decides whether the object was found
func (t *Tracker) correlate(frame []byte) {

	s := &t.state

	t.corr.pass(frame, s.FrameWidth, s.FrameHeight, s.SearchWindowX, s.SearchWindowY,
		s.CorrelationSurfaceWidth, s.CorrelationSurfaceHeight, &t.filter)

	pk := analyzeSurface(t.corr.surface, t.filter.x.predicted, t.filter.y.predicted)
	s.ObjectDetectionProbability = pk.value

	var found bool

	if s.Mode == ModeTracking {
		found = pk.value >= (1-s.ObjectLossThreshold)*s.ProbabilityAdaptiveThreshold
	} else {
		found = pk.value > (1-s.ObjectDetectionThreshold)*s.ProbabilityAdaptiveThreshold
	}

	if found {
		t.hit(frame, pk)
	} else {
		t.miss()
	}
}

// hit applies an accepted correlation peak
func (t *Tracker) hit(frame []byte, pk peak) {

	s := &t.state

	if s.Mode == ModeLost {
		t.log.Infof("Object reacquired after %d frames, probability %.3f",
			s.FrameCounterInLostMode, pk.value)
	}

	t.filter.update(pk.fdx, pk.fdy)

	rect := &s.TrackingRectangle
	rect.X = s.SearchWindowX + pk.dx
	rect.Y = s.SearchWindowY + pk.dy
	rect.FX = float32(s.SearchWindowX) + pk.fdx
	rect.FY = float32(s.SearchWindowY) + pk.fdy

	s.Mode = ModeTracking
	s.FrameCounterInLostMode = 0
	s.ProbabilityAdaptiveThreshold += s.ProbabilityUpdateCoeff * (pk.value - s.ProbabilityAdaptiveThreshold)
	s.ObjectRectangle = t.model.objectRect(*rect)

	t.model.learn(frame, s.FrameWidth, s.FrameHeight, *rect, true, s.PatternUpdateCoeff)

	s.SearchWindowX = rect.X
	s.SearchWindowY = rect.Y

	t.checkBorder()
}

// miss handles a pass where the object was not found
func (t *Tracker) miss() {

	s := &t.state

	t.filter.inflate()

	if s.Mode == ModeTracking {
		t.log.Infof("Object lost, probability %.3f below %.3f", s.ObjectDetectionProbability,
			(1-s.ObjectLossThreshold)*s.ProbabilityAdaptiveThreshold)

		s.Mode = ModeLost
		s.FrameCounterInLostMode = 1
	} else {
		s.FrameCounterInLostMode++
	}

	if s.FrameCounterInLostMode > s.MaximumNumFramesInLostMode {
		t.log.Infof("Object not found for %d frames, releasing", s.FrameCounterInLostMode-1)
		t.reset()
		return
	}

	switch s.LostModeOption {
	case LostModeDriftStopAtBorder:
		dx, dy := roundOffset(s.TrackingRectangle.FX+t.filter.x.predicted, s.TrackingRectangle.X),
			roundOffset(s.TrackingRectangle.FY+t.filter.y.predicted, s.TrackingRectangle.Y)

		moved := s.TrackingRectangle
		moved.X += dx
		moved.Y += dy

		if !moved.touchesBorder(s.FrameWidth, s.FrameHeight) {
			t.moveBy(t.filter.x.predicted, t.filter.y.predicted)
		}

	case LostModeDrift:
		t.moveBy(t.filter.x.predicted, t.filter.y.predicted)
	}

	t.checkBorder()
}

// moveBy shifts the tracking rectangle, the object rectangle and the search
// window by a sub pixel offset
func (t *Tracker) moveBy(dx, dy float32) {

	s := &t.state
	rect := &s.TrackingRectangle

	ix := roundOffset(rect.FX+dx, rect.X)
	iy := roundOffset(rect.FY+dy, rect.Y)

	rect.FX += dx
	rect.FY += dy
	rect.X += ix
	rect.Y += iy

	s.ObjectRectangle.X += ix
	s.ObjectRectangle.Y += iy
	s.ObjectRectangle.FX += dx
	s.ObjectRectangle.FY += dy

	s.SearchWindowX = rect.X
	s.SearchWindowY = rect.Y
}

// roundOffset returns the integer step from cur to the rounded position f
func roundOffset(f float32, cur int) int {
	return int(math32.Floor(f+0.5)) - cur
}

// checkBorder releases the object once the tracking rectangle reaches the
// frame border
func (t *Tracker) checkBorder() {

	s := &t.state

	if s.Mode == ModeFree {
		return
	}

	if s.TrackingRectangle.touchesBorder(s.FrameWidth, s.FrameHeight) {
		t.log.Infof("Tracking rectangle at (%d,%d) reached the frame border, releasing",
			s.TrackingRectangle.X, s.TrackingRectangle.Y)
		t.reset()
	}
}

// reset returns to free mode and zeroes every surface without freeing
// buffers.  Configuration is kept.
func (t *Tracker) reset() {

	s := &t.state

	s.Mode = ModeFree
	s.TrackingRectangle = NewRect(0, 0, s.TrackingRectangle.Width, s.TrackingRectangle.Height)
	s.ObjectRectangle = Rect{}
	s.SearchWindowX = 0
	s.SearchWindowY = 0
	s.FrameCounterInLostMode = 0
	s.ObjectDetectionProbability = 0
	s.ProbabilityAdaptiveThreshold = initialAdaptiveThreshold

	t.model.reset()
	t.corr.reset()
	t.filter.reset()
}

// GetTrackerResultData returns a copy of the Tracker state
func (t *Tracker) GetTrackerResultData() TrackerState {

	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.state
	s.PredictedOffsetX = t.filter.x.predicted
	s.PredictedOffsetY = t.filter.y.predicted
	s.CovarianceX = t.filter.x.covariance
	s.CovarianceY = t.filter.y.covariance

	if t.frames != nil {
		s.BufferFrameID = t.frames.bufferFrameID()
		s.TrackerFrameID = t.frames.trackerFrameID()
	}

	return s
}

package corrtrack

import (
	"gonum.org/v1/gonum/stat"
)

// ExecuteCommand runs a Tracker command.  arg1..arg3 and data1, data2 are
// the command arguments documented on each CommandID.  Returns false if the
// frame size is not known yet or the command preconditions are not met.
func (t *Tracker) ExecuteCommand(id CommandID, arg1, arg2, arg3 int, data1, data2 []byte) bool {

	t.mu.Lock()
	defer t.mu.Unlock()

	// no frame has been seen yet
	if t.frames == nil || t.frames.written == 0 {
		return false
	}

	switch id {
	case CommandCapture:
		return t.capture(arg1, arg2, arg3, data1, data2)

	case CommandReset:
		t.reset()
		return true

	case CommandSetInertialMode:
		return t.setMode(ModeInertial)

	case CommandSetLostMode:
		return t.setMode(ModeLost)

	case CommandSetStaticMode:
		return t.setMode(ModeStatic)

	case CommandSetTrackingRectangleAutoSize:
		return t.autoSize()

	case CommandMoveTrackingRectangle:
		return t.moveTrackingRectangle(arg1, arg2)
	}

	return false
}

// capture starts tracking the object at (x, y) on the buffered frame in
// slot.  A negative slot resolves the frame from descriptor, or uses the
// latest frame if no descriptor is given.  On any failure the Tracker is
// reset.
func (t *Tracker) capture(x, y, slot int, descriptor, objectMask []byte) bool {

	s := &t.state
	fb := t.frames

	switch {
	case slot >= 0:
		if !fb.slotHeld(slot) {
			t.log.Warnf("Capture at (%d,%d) failed, frame %d is not buffered", x, y, slot)
			t.reset()
			return false
		}

	case len(descriptor) > 0:
		var corr float64
		slot, corr = resolveFrameByDescriptor(fb, descriptor, x, y)
		t.log.Debugf("Capture frame resolved to slot %d, correlation %.3f", slot, corr)

	default:
		slot = fb.bufferFrameID()
	}

	rect := NewRect(x, y, s.TrackingRectangle.Width, s.TrackingRectangle.Height)

	if rect.touchesBorder(s.FrameWidth, s.FrameHeight) {
		t.log.Warnf("Capture at (%d,%d) failed, tracking rectangle outside the frame", x, y)
		t.reset()
		return false
	}

	frame := fb.frame(slot)

	if s.PixelDeviationThreshold > 0 {
		if dev := rectStdDev(frame, s.FrameWidth, rect); dev < float64(s.PixelDeviationThreshold) {
			t.log.Warnf("Capture at (%d,%d) failed, pixel deviation %.1f below %d",
				x, y, dev, s.PixelDeviationThreshold)
			t.reset()
			return false
		}
	}

	t.model.initialize(frame, s.FrameWidth, s.FrameHeight, rect, objectMask)
	t.filter.seed(rect.Width, rect.Height, s.CorrelationSurfaceWidth, s.CorrelationSurfaceHeight)

	s.Mode = ModeTracking
	s.TrackingRectangle = rect
	s.ObjectRectangle = t.model.objectRect(rect)
	s.SearchWindowX = x
	s.SearchWindowY = y
	s.FrameCounterInLostMode = 0
	s.ProbabilityAdaptiveThreshold = initialAdaptiveThreshold
	s.ObjectDetectionProbability = 0

	// frames buffered after the capture frame are caught up on the next
	// ProcessFrame
	fb.rewindTo(slot)
	s.TrackerFrameID = slot

	t.log.Infof("Captured object at (%d,%d) size %dx%d on frame %d", x, y, rect.Width, rect.Height, slot)

	return true
}

// rectStdDev returns the standard deviation of the frame pixels inside rect
func rectStdDev(frame []byte, fw int, rect Rect) float64 {

	vals := make([]float64, 0, rect.Width*rect.Height)

	for y := rect.TLY(); y < rect.TLY()+rect.Height; y++ {
		for x := rect.TLX(); x < rect.TLX()+rect.Width; x++ {
			vals = append(vals, float64(frame[y*fw+x]))
		}
	}

	_, std := stat.MeanStdDev(vals, nil)

	return std
}

// setMode switches a non free Tracker into mode
func (t *Tracker) setMode(mode Mode) bool {

	if t.state.Mode == ModeFree {
		return false
	}

	if t.state.Mode != mode {
		t.log.Infof("Mode %v -> %v", t.state.Mode, mode)
	}

	t.state.Mode = mode

	return true
}

// moveTrackingRectangle shifts the tracking rectangle by (dx, dy) together
// with the pattern and masks
func (t *Tracker) moveTrackingRectangle(dx, dy int) bool {

	s := &t.state
	rect := s.TrackingRectangle

	if s.Mode != ModeTracking {
		return false
	}

	if abs(dx) > rect.Width/2 || abs(dy) > rect.Height/2 {
		return false
	}

	moved := rect
	moved.X += dx
	moved.Y += dy
	moved.FX += float32(dx)
	moved.FY += float32(dy)

	if moved.touchesBorder(s.FrameWidth, s.FrameHeight) {
		return false
	}

	frame := t.frames.frame(t.frames.trackerFrameID())
	t.model.shift(dx, dy, frame, s.FrameWidth, s.FrameHeight, moved)

	s.TrackingRectangle = moved
	s.ObjectRectangle = t.model.objectRect(moved)
	s.SearchWindowX = moved.X
	s.SearchWindowY = moved.Y

	return true
}

// autoSize recenters the tracking rectangle on the object rectangle and
// resizes it to autoSizeScale times the object size
func (t *Tracker) autoSize() bool {

	s := &t.state

	if s.Mode != ModeTracking {
		return false
	}

	obj := s.ObjectRectangle
	rect := s.TrackingRectangle

	dx := obj.X - rect.X
	dy := obj.Y - rect.Y

	width := clampInt(int(float32(obj.Width)*autoSizeScale+0.5), MinRectWidth, MaxRectWidth)
	height := clampInt(int(float32(obj.Height)*autoSizeScale+0.5), MinRectHeight, MaxRectHeight)

	// check the final rectangle first so a failure changes nothing
	final := NewRect(rect.X+dx, rect.Y+dy, width, height)

	if final.touchesBorder(s.FrameWidth, s.FrameHeight) {
		return false
	}

	if (dx != 0 || dy != 0) && !t.moveTrackingRectangle(dx, dy) {
		return false
	}

	t.log.Debugf("Auto size tracking rectangle %dx%d -> %dx%d", rect.Width, rect.Height, width, height)

	return t.resize(width, height)
}

// resize reseeds the pattern at the current center with a new rectangle
// size, keeping the mode and the filter prediction
func (t *Tracker) resize(width, height int) bool {

	s := &t.state
	rect := s.TrackingRectangle

	resized := rect
	resized.Width = width
	resized.Height = height

	if resized.touchesBorder(s.FrameWidth, s.FrameHeight) {
		return false
	}

	frame := t.frames.frame(t.frames.trackerFrameID())
	t.model.initialize(frame, s.FrameWidth, s.FrameHeight, resized, nil)
	t.filter.setGeometry(width, height, s.CorrelationSurfaceWidth, s.CorrelationSurfaceHeight)

	s.TrackingRectangle = resized
	s.ObjectRectangle = t.model.objectRect(resized)

	return true
}

// abs returns the absolute value of v
func abs(v int) int {

	if v < 0 {
		return -v
	}

	return v
}

// clampInt limits v to [lo, hi]
func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

package corrtrack

// frameBuffer is a fixed capacity ring of raw grayscale frames.  Producer
// and consumer positions are kept as absolute counters so a consumer that
// has been lapped by the producer can be detected, the public frame ids are
// these counters modulo the buffer size.
type frameBuffer struct {
	width  int
	height int
	frames [][]byte
	// written is the number of frames written since allocation
	written int64
	// evaluated is the absolute index of the last frame the tracker has
	// evaluated, -1 if none
	evaluated int64
}

// newFrameBuffer allocates size frames of width x height bytes
func newFrameBuffer(size, width, height int) *frameBuffer {

	fb := &frameBuffer{
		width:     width,
		height:    height,
		frames:    make([][]byte, size),
		evaluated: -1,
	}

	for i := range fb.frames {
		fb.frames[i] = make([]byte, width*height)
	}

	return fb
}

// size returns the number of frame slots
func (fb *frameBuffer) size() int {
	return len(fb.frames)
}

// matches reports whether the buffer holds frames of the given geometry
func (fb *frameBuffer) matches(size, width, height int) bool {
	return fb != nil && fb.size() == size && fb.width == width && fb.height == height
}

// push copies a frame into the next slot, overwriting the oldest frame
// once the ring has wrapped
func (fb *frameBuffer) push(frame []byte) {
	slot := int(fb.written % int64(fb.size()))
	copy(fb.frames[slot], frame[:fb.width*fb.height])
	fb.written++
}

// bufferFrameID returns the slot written last
func (fb *frameBuffer) bufferFrameID() int {

	if fb.written == 0 {
		return 0
	}

	return int((fb.written - 1) % int64(fb.size()))
}

// trackerFrameID returns the slot evaluated last
func (fb *frameBuffer) trackerFrameID() int {

	if fb.evaluated < 0 {
		return fb.bufferFrameID()
	}

	return int(fb.evaluated % int64(fb.size()))
}

// held returns the number of frames currently held in the ring
func (fb *frameBuffer) held() int {

	if fb.written < int64(fb.size()) {
		return int(fb.written)
	}

	return fb.size()
}

// pending returns the number of written frames not yet evaluated
func (fb *frameBuffer) pending() int64 {
	return fb.written - 1 - fb.evaluated
}

// next advances the consumer to the next unevaluated frame and returns its
// slot.  If the producer has overwritten frames the consumer has not seen
// the consumer skips to the oldest frame still held.
func (fb *frameBuffer) next() (int, bool) {

	if fb.pending() <= 0 {
		return 0, false
	}

	oldest := fb.written - int64(fb.size())

	if fb.evaluated+1 < oldest {
		fb.evaluated = oldest - 1
	}

	fb.evaluated++

	return int(fb.evaluated % int64(fb.size())), true
}

// rewindTo sets the consumer to the slot a capture was made on so the
// frames buffered after it are caught up.  The slot must hold a frame.
func (fb *frameBuffer) rewindTo(slot int) {

	latest := fb.written - 1
	back := int64((fb.bufferFrameID() - slot + fb.size()) % fb.size())
	fb.evaluated = latest - back
}

// slotHeld reports whether slot contains a written frame
func (fb *frameBuffer) slotHeld(slot int) bool {
	return slot >= 0 && slot < fb.size() && int64(slot) < fb.written
}

// frame returns the pixels in slot
func (fb *frameBuffer) frame(slot int) []byte {
	return fb.frames[slot]
}

// Package adapter binds the tracker to a gocv video pipeline.  Frames of
// any size and color layout are converted to grayscale at tracking
// resolution and all coordinates are given in the source frame.
package adapter

import (
	"github.com/cyclopcam/logs"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skylens/go-corrtrack"
	"github.com/skylens/go-corrtrack/preprocess"
	"gocv.io/x/gocv"
	"image"
	"sync"
)

// Config holds the Adapter settings
type Config struct {
	// MaxWidth is the largest frame width handed to the tracker, wider
	// frames are scaled down.  0 keeps the source resolution.
	MaxWidth int
	// TimeoutMs bounds the tracker catch up per frame, 0 is unbounded
	TimeoutMs int
}

// Adapter drives a Tracker from a video pipeline
type Adapter struct {
	mu      sync.Mutex
	log     logs.Log
	tracker *corrtrack.Tracker
	cfg     Config
	resizer *preprocess.Resizer
	// last is the last frame handed to the tracker
	last []byte
	// session identifies the current target lock, empty when unlocked
	session string
}

// New returns an Adapter feeding tr
func New(log logs.Log, tr *corrtrack.Tracker, cfg Config) *Adapter {
	return &Adapter{
		log:     newPrefixLogger(log, "Adapter:"),
		tracker: tr,
		cfg:     cfg,
	}
}

// Close frees the conversion buffers
func (a *Adapter) Close() error {

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.resizer == nil {
		return nil
	}

	err := a.resizer.Close()
	a.resizer = nil

	return err
}

// DoProcessFrame hands frame to the tracker and returns the tracking
// rectangle in frame coordinates.  The rectangle is empty unless the target
// is tracked on this frame.
func (a *Adapter) DoProcessFrame(frame gocv.Mat) (image.Rectangle, error) {

	a.mu.Lock()
	defer a.mu.Unlock()

	if frame.Empty() {
		return image.Rectangle{}, errors.New("empty frame")
	}

	if a.resizer == nil || a.resizer.SrcWidth() != frame.Cols() || a.resizer.SrcHeight() != frame.Rows() {
		if a.resizer != nil {
			if err := a.resizer.Close(); err != nil {
				a.log.Warnf("Error closing resizer: %v", err)
			}
		}

		a.resizer = preprocess.NewResizer(frame.Cols(), frame.Rows(), a.cfg.MaxWidth)

		a.log.Infof("Source %dx%d tracked at %dx%d", frame.Cols(), frame.Rows(),
			a.resizer.Width(), a.resizer.Height())
	}

	gray, err := a.resizer.Gray(frame)

	if err != nil {
		return image.Rectangle{}, errors.Wrap(err, "error converting frame")
	}

	a.last = gray

	if !a.tracker.ProcessFrame(gray, a.resizer.Width(), a.resizer.Height(), a.cfg.TimeoutMs) {
		return image.Rectangle{}, errors.Errorf("tracker rejected %dx%d frame",
			a.resizer.Width(), a.resizer.Height())
	}

	res := a.tracker.GetTrackerResultData()

	if res.Mode == corrtrack.ModeFree && a.session != "" {
		a.log.Infof("Session %s target released", a.session)
		a.session = ""
	}

	if res.Mode != corrtrack.ModeTracking {
		return image.Rectangle{}, nil
	}

	r := res.TrackingRectangle.Image()

	return image.Rectangle{
		Min: a.resizer.ToSource(r.Min),
		Max: a.resizer.ToSource(r.Max),
	}, nil
}

// LockTarget starts tracking the object at center on the latest frame
func (a *Adapter) LockTarget(center image.Point) bool {

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.lock(center, nil)
}

// LockTargetSeen starts tracking the object at center on the buffered frame
// matching descriptor.  The descriptor comes from Descriptor called when the
// operator selected the point, so the lock lands on the frame the operator
// saw even if newer frames have been processed since.
func (a *Adapter) LockTargetSeen(center image.Point, descriptor []byte) bool {

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.lock(center, descriptor)
}

// lock runs the capture command and opens a new session
func (a *Adapter) lock(center image.Point, descriptor []byte) bool {

	if a.resizer == nil {
		return false
	}

	pt := a.resizer.FromSource(center)

	if !a.tracker.ExecuteCommand(corrtrack.CommandCapture, pt.X, pt.Y, -1, descriptor, nil) {
		a.log.Warnf("Lock at %v failed", center)
		a.session = ""
		return false
	}

	a.session = uuid.NewString()
	a.log.Infof("Session %s locked target at %v", a.session, center)

	return true
}

// Descriptor returns the descriptor of the last processed frame around
// center, nil if no frame has been processed
func (a *Adapter) Descriptor(center image.Point) []byte {

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.resizer == nil || a.last == nil {
		return nil
	}

	pt := a.resizer.FromSource(center)

	return corrtrack.ComputeDescriptor(a.last, a.resizer.Width(), a.resizer.Height(), pt.X, pt.Y)
}

// UnlockTarget stops tracking
func (a *Adapter) UnlockTarget() {

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session != "" {
		a.log.Infof("Session %s unlocked", a.session)
	}

	a.session = ""
	a.tracker.ExecuteCommand(corrtrack.CommandReset, 0, 0, 0, nil, nil)
}

// SetTargetSize sets the tracking rectangle to a square of size source
// pixels
func (a *Adapter) SetTargetSize(size int) bool {

	a.mu.Lock()
	defer a.mu.Unlock()

	scale := float32(1)

	if a.resizer != nil {
		scale = a.resizer.ScaleFactor()
	}

	v := float64(int(float32(size)/scale + 0.5))

	return a.tracker.SetProperty(corrtrack.PropertyTrackingRectangleWidth, v) &&
		a.tracker.SetProperty(corrtrack.PropertyTrackingRectangleHeight, v)
}

// Scale returns the factor from tracking to source resolution, 1 before the
// first frame
func (a *Adapter) Scale() float32 {

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.resizer == nil {
		return 1
	}

	return a.resizer.ScaleFactor()
}

// Session returns the id of the current target lock, empty when no target
// is locked
func (a *Adapter) Session() string {

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.session
}

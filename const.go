package corrtrack

// Mode is the lifecycle state of the Tracker
type Mode int

const (
	// ModeFree is the idle state, nothing is tracked
	ModeFree Mode = 0
	// ModeTracking means the object is found on every processed frame
	ModeTracking Mode = 1
	// ModeLost means the object has not been found and the Tracker keeps
	// searching for it
	ModeLost Mode = 2
	// ModeInertial moves the tracking rectangle by the predicted velocity
	// without correlating
	ModeInertial Mode = 3
	// ModeStatic freezes the tracking rectangle
	ModeStatic Mode = 4
)

// String returns the mode name
func (m Mode) String() string {

	switch m {
	case ModeFree:
		return "FREE"
	case ModeTracking:
		return "TRACKING"
	case ModeLost:
		return "LOST"
	case ModeInertial:
		return "INERTIAL"
	case ModeStatic:
		return "STATIC"
	}

	return "UNKNOWN"
}

// PropertyID identifies a Tracker property used with SetProperty and
// GetProperty
type PropertyID int

const (
	PropertyFrameBufferSize PropertyID = iota
	PropertyTrackingRectangleWidth
	PropertyTrackingRectangleHeight
	PropertyPixelDeviationThreshold
	PropertyObjectLossThreshold
	PropertyObjectDetectionThreshold
	PropertyPatternUpdateCoeff
	PropertyProbabilityUpdateCoeff
	PropertyVelocityUpdateCoeff
	PropertyCorrelationSurfaceWidth
	PropertyCorrelationSurfaceHeight
	PropertyLostModeOption
	PropertyMaximumNumFramesInLostMode
	PropertyNumThreads
	PropertySearchWindowX
	PropertySearchWindowY

	// read only properties
	PropertyMode
	PropertyFrameWidth
	PropertyFrameHeight
	PropertyTrackingRectangleX
	PropertyTrackingRectangleY
	PropertyObjectDetectionProbability
	PropertyProbabilityAdaptiveThreshold
	PropertyBufferFrameID
	PropertyTrackerFrameID
)

// CommandID identifies a command run with ExecuteCommand
type CommandID int

const (
	// CommandCapture starts tracking at the point (arg1, arg2).  arg3 is the
	// frame buffer slot the point was selected on, or -1 to resolve the slot
	// from the descriptor passed in data1 (or use the latest frame if no
	// descriptor is given).  data2 is an optional object mask of
	// width*height bytes where zero marks background.
	CommandCapture CommandID = iota
	// CommandReset stops tracking
	CommandReset
	// CommandSetInertialMode switches a non free Tracker into inertial mode
	CommandSetInertialMode
	// CommandSetLostMode switches a non free Tracker into lost mode
	CommandSetLostMode
	// CommandSetStaticMode switches a non free Tracker into static mode
	CommandSetStaticMode
	// CommandSetTrackingRectangleAutoSize recenters and resizes the tracking
	// rectangle around the object estimated from the mask
	CommandSetTrackingRectangleAutoSize
	// CommandMoveTrackingRectangle shifts the tracking rectangle by
	// (arg1, arg2) pixels
	CommandMoveTrackingRectangle
)

// LostModeOption defines how the tracking rectangle drifts while the object
// is lost
type LostModeOption int

const (
	// LostModeHold keeps the tracking rectangle where the object was lost
	LostModeHold LostModeOption = 0
	// LostModeDriftStopAtBorder moves the rectangle by the predicted velocity
	// but stops before it reaches the frame border
	LostModeDriftStopAtBorder LostModeOption = 1
	// LostModeDrift moves the rectangle by the predicted velocity, reaching
	// the frame border resets the Tracker
	LostModeDrift LostModeOption = 2
)

// ImageType selects the diagnostic image returned by GetImage
type ImageType int

const (
	ImagePattern ImageType = 0
	ImageMask    ImageType = 1
	ImageSurface ImageType = 2
)

const (
	// MaxRectWidth is the largest tracking rectangle width
	MaxRectWidth = 128
	// MaxRectHeight is the largest tracking rectangle height
	MaxRectHeight = 128
	// MinRectWidth is the smallest tracking rectangle width
	MinRectWidth = 16
	// MinRectHeight is the smallest tracking rectangle height
	MinRectHeight = 16

	// MinSurfaceSize and MaxSurfaceSize bound the correlation surface
	// width and height
	MinSurfaceSize = 27
	MaxSurfaceSize = 105

	MinFrameBufferSize = 2
	MaxFrameBufferSize = 1024

	MaxNumThreads = 8

	// DiagnosticImageSize is the number of bytes GetImage needs
	DiagnosticImageSize = MaxRectWidth * MaxRectHeight

	// PropertyUnknown is returned by GetProperty for unknown ids
	PropertyUnknown = -1.0
)

// internal tuning constants
const (
	// coarseStep is the grid step of the coarse correlation search
	coarseStep = 4
	// minPeakDistance is the smallest distance between the primary and
	// secondary correlation peaks
	minPeakDistance = 2 * coarseStep
	// peakMargin is the relative margin within which two peaks are
	// considered equal and the one closer to the prediction wins
	peakMargin = 0.05
	// initialAdaptiveThreshold is set on every capture
	initialAdaptiveThreshold = 0.8
	// deviationUpdateCoeff smooths the temporal pixel deviation
	deviationUpdateCoeff = 0.125
	// minValidFraction is the least fraction of mask weight that must lie
	// inside the frame for a correlation value to be computed
	minValidFraction = 0.25
	// lostCovarianceGrowth inflates the filter covariance per lost frame
	lostCovarianceGrowth = 1.25
	// autoSizeScale is the tracking rectangle size relative to the object
	// size after SET_TRACKING_RECTANGLE_AUTO_SIZE
	autoSizeScale = 1.5
)

// defaults applied by New
const (
	defaultFrameBufferSize            = 16
	defaultRectWidth                  = 64
	defaultRectHeight                 = 64
	defaultSurfaceWidth               = 49
	defaultSurfaceHeight              = 49
	defaultObjectLossThreshold        = 0.4
	defaultObjectDetectionThreshold   = 0.3
	defaultPatternUpdateCoeff         = 0.05
	defaultProbabilityUpdateCoeff     = 0.05
	defaultVelocityUpdateCoeff        = 0.5
	defaultPixelDeviationThreshold    = 0
	defaultLostModeOption             = LostModeHold
	defaultMaximumNumFramesInLostMode = 120
	defaultNumThreads                 = 0
)

package config

import (
	"encoding/json"
	"github.com/pkg/errors"
	"github.com/skylens/go-corrtrack"
	"os"
	"path/filepath"
)

// maxFileSize is the largest tuning file accepted
const maxFileSize = 1 * 1024 * 1024

// TuningConfig holds the tracker tuning parameters read from a JSON file.
// Every field is optional, fields left out keep the tracker value.
type TuningConfig struct {
	// Frame buffer
	FrameBufferSize *int `json:"frame_buffer_size,omitempty"`

	// Geometry
	TrackingRectangleWidth   *int `json:"tracking_rectangle_width,omitempty"`
	TrackingRectangleHeight  *int `json:"tracking_rectangle_height,omitempty"`
	CorrelationSurfaceWidth  *int `json:"correlation_surface_width,omitempty"`
	CorrelationSurfaceHeight *int `json:"correlation_surface_height,omitempty"`

	// Detection
	PixelDeviationThreshold  *int     `json:"pixel_deviation_threshold,omitempty"`
	ObjectLossThreshold      *float64 `json:"object_loss_threshold,omitempty"`
	ObjectDetectionThreshold *float64 `json:"object_detection_threshold,omitempty"`

	// Adaptation
	PatternUpdateCoeff     *float64 `json:"pattern_update_coeff,omitempty"`
	ProbabilityUpdateCoeff *float64 `json:"probability_update_coeff,omitempty"`
	VelocityUpdateCoeff    *float64 `json:"velocity_update_coeff,omitempty"`

	// Loss handling
	LostModeOption             *int `json:"lost_mode_option,omitempty"`
	MaximumNumFramesInLostMode *int `json:"maximum_num_frames_in_lost_mode,omitempty"`

	// Parallelism, 0 runs the correlation serially
	NumThreads *int `json:"num_threads,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultTuningConfig returns a TuningConfig holding the values a new
// tracker starts with
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		FrameBufferSize:            ptrInt(16),
		TrackingRectangleWidth:     ptrInt(64),
		TrackingRectangleHeight:    ptrInt(64),
		CorrelationSurfaceWidth:    ptrInt(49),
		CorrelationSurfaceHeight:   ptrInt(49),
		PixelDeviationThreshold:    ptrInt(0),
		ObjectLossThreshold:        ptrFloat64(0.4),
		ObjectDetectionThreshold:   ptrFloat64(0.3),
		PatternUpdateCoeff:         ptrFloat64(0.05),
		ProbabilityUpdateCoeff:     ptrFloat64(0.05),
		VelocityUpdateCoeff:        ptrFloat64(0.5),
		LostModeOption:             ptrInt(int(corrtrack.LostModeHold)),
		MaximumNumFramesInLostMode: ptrInt(120),
		NumThreads:                 ptrInt(0),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.  The file must
// have a .json extension and be under 1MB.
func LoadTuningConfig(path string) (*TuningConfig, error) {

	cleanPath := filepath.Clean(path)

	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, errors.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)

	if err != nil {
		return nil, errors.Wrap(err, "failed to stat config file")
	}

	if fileInfo.Size() > maxFileSize {
		return nil, errors.Errorf("config file too large: %d bytes (max %d)",
			fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)

	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := &TuningConfig{}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config JSON")
	}

	return cfg, nil
}

// setting binds a config field to a tracker property
type setting struct {
	name  string
	id    corrtrack.PropertyID
	value *float64
}

// settings lists the fields that are set, in the order they are applied.
// The frame buffer size goes first as changing it resets the tracker.
func (c *TuningConfig) settings() []setting {

	var out []setting

	addInt := func(name string, id corrtrack.PropertyID, v *int) {
		if v != nil {
			out = append(out, setting{name, id, ptrFloat64(float64(*v))})
		}
	}

	addFloat := func(name string, id corrtrack.PropertyID, v *float64) {
		if v != nil {
			out = append(out, setting{name, id, v})
		}
	}

	addInt("frame_buffer_size", corrtrack.PropertyFrameBufferSize, c.FrameBufferSize)
	addInt("tracking_rectangle_width", corrtrack.PropertyTrackingRectangleWidth, c.TrackingRectangleWidth)
	addInt("tracking_rectangle_height", corrtrack.PropertyTrackingRectangleHeight, c.TrackingRectangleHeight)
	addInt("correlation_surface_width", corrtrack.PropertyCorrelationSurfaceWidth, c.CorrelationSurfaceWidth)
	addInt("correlation_surface_height", corrtrack.PropertyCorrelationSurfaceHeight, c.CorrelationSurfaceHeight)
	addInt("pixel_deviation_threshold", corrtrack.PropertyPixelDeviationThreshold, c.PixelDeviationThreshold)
	addFloat("object_loss_threshold", corrtrack.PropertyObjectLossThreshold, c.ObjectLossThreshold)
	addFloat("object_detection_threshold", corrtrack.PropertyObjectDetectionThreshold, c.ObjectDetectionThreshold)
	addFloat("pattern_update_coeff", corrtrack.PropertyPatternUpdateCoeff, c.PatternUpdateCoeff)
	addFloat("probability_update_coeff", corrtrack.PropertyProbabilityUpdateCoeff, c.ProbabilityUpdateCoeff)
	addFloat("velocity_update_coeff", corrtrack.PropertyVelocityUpdateCoeff, c.VelocityUpdateCoeff)
	addInt("lost_mode_option", corrtrack.PropertyLostModeOption, c.LostModeOption)
	addInt("maximum_num_frames_in_lost_mode", corrtrack.PropertyMaximumNumFramesInLostMode, c.MaximumNumFramesInLostMode)
	addInt("num_threads", corrtrack.PropertyNumThreads, c.NumThreads)

	return out
}

// Apply sets every field of the config on the tracker.  It stops at the
// first value the tracker rejects and returns an error naming the field.
func (c *TuningConfig) Apply(tr *corrtrack.Tracker) error {

	for _, s := range c.settings() {
		if !tr.SetProperty(s.id, *s.value) {
			return errors.Errorf("%s: value %v rejected by tracker", s.name, *s.value)
		}
	}

	return nil
}

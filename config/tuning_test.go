package config

import (
	"github.com/skylens/go-corrtrack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTuningConfigMatchesTracker(t *testing.T) {

	cfg := DefaultTuningConfig()
	tr := corrtrack.New()

	for _, s := range cfg.settings() {
		assert.InDelta(t, *s.value, tr.GetProperty(s.id), 1e-6, "field %s", s.name)
	}

	require.NoError(t, cfg.Apply(tr))
}

func TestDefaultsFileMatchesDefaults(t *testing.T) {

	cfg, err := LoadTuningConfig("tuning.defaults.json")
	require.NoError(t, err)

	assert.Equal(t, DefaultTuningConfig(), cfg)
}

func TestLoadTuningConfig(t *testing.T) {

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "tracking_rectangle_width": 32,
  "object_loss_threshold": 0.25,
  "lost_mode_option": 2,
  "num_threads": 4
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	require.NoError(t, err)

	if cfg.TrackingRectangleWidth == nil || *cfg.TrackingRectangleWidth != 32 {
		t.Errorf("Expected TrackingRectangleWidth 32, got %v", cfg.TrackingRectangleWidth)
	}
	if cfg.ObjectLossThreshold == nil || *cfg.ObjectLossThreshold != 0.25 {
		t.Errorf("Expected ObjectLossThreshold 0.25, got %v", cfg.ObjectLossThreshold)
	}
	if cfg.TrackingRectangleHeight != nil {
		t.Errorf("Expected TrackingRectangleHeight unset, got %v", *cfg.TrackingRectangleHeight)
	}

	tr := corrtrack.New()
	require.NoError(t, cfg.Apply(tr))

	assert.Equal(t, 32.0, tr.GetProperty(corrtrack.PropertyTrackingRectangleWidth))
	assert.Equal(t, 64.0, tr.GetProperty(corrtrack.PropertyTrackingRectangleHeight))
	assert.Equal(t, float64(corrtrack.LostModeDrift), tr.GetProperty(corrtrack.PropertyLostModeOption))
	assert.Equal(t, 4.0, tr.GetProperty(corrtrack.PropertyNumThreads))
}

func TestApplyRejectedValue(t *testing.T) {

	cfg := &TuningConfig{
		PatternUpdateCoeff:      ptrFloat64(0.1),
		CorrelationSurfaceWidth: ptrInt(200),
	}

	err := cfg.Apply(corrtrack.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "correlation_surface_width")
}

func TestLoadTuningConfigErrors(t *testing.T) {

	tmpDir := t.TempDir()

	badExt := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(badExt, []byte("{}"), 0644))

	badJSON := filepath.Join(tmpDir, "bad.json")
	require.NoError(t, os.WriteFile(badJSON, []byte("{not json"), 0644))

	large := filepath.Join(tmpDir, "large.json")
	require.NoError(t, os.WriteFile(large, make([]byte, maxFileSize+1), 0644))

	tests := []struct {
		name string
		path string
	}{
		{"wrong extension", badExt},
		{"missing file", filepath.Join(tmpDir, "missing.json")},
		{"invalid json", badJSON},
		{"too large", large},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadTuningConfig(tc.path)
			assert.Error(t, err)
		})
	}
}

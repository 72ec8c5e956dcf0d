package preprocess

import (
	"gocv.io/x/gocv"
	"image"
	"testing"
)

func TestResizerScale(t *testing.T) {

	tests := []struct {
		srcWidth       int
		srcHeight      int
		maxWidth       int
		expectedWidth  int
		expectedHeight int
		expectedScale  float32
	}{
		{1280, 720, 640, 640, 360, 2},
		{1920, 1080, 480, 480, 270, 4},
		{640, 480, 640, 640, 480, 1},
		{320, 240, 640, 320, 240, 1},
		{1280, 720, 0, 1280, 720, 1},
	}

	for _, tc := range tests {
		r := NewResizer(tc.srcWidth, tc.srcHeight, tc.maxWidth)

		if r.Width() != tc.expectedWidth || r.Height() != tc.expectedHeight {
			t.Errorf("Test failed for src (%d, %d): tracking size wrong, expected %dx%d, got %dx%d",
				tc.srcWidth, tc.srcHeight, tc.expectedWidth, tc.expectedHeight, r.Width(), r.Height())
		}

		if r.ScaleFactor() != tc.expectedScale {
			t.Errorf("Test failed for src (%d, %d): Scalefactor incorrect, expected %f, got %f",
				tc.srcWidth, tc.srcHeight, tc.expectedScale, r.ScaleFactor())
		}

		r.Close()
	}
}

func TestResizerGray(t *testing.T) {

	r := NewResizer(320, 240, 160)
	defer r.Close()

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 240, 320,
		gocv.MatTypeCV8UC3)
	defer img.Close()

	gray, err := r.Gray(img)

	if err != nil {
		t.Fatalf("Gray conversion failed: %v", err)
	}

	if len(gray) != 160*120 {
		t.Fatalf("Expected %d bytes, got %d", 160*120, len(gray))
	}

	for i, v := range gray {
		if v != 255 {
			t.Fatalf("Pixel %d expected 255, got %d", i, v)
		}
	}

	if pt := r.ToSource(image.Pt(50, 40)); pt != image.Pt(100, 80) {
		t.Errorf("ToSource expected (100,80), got %v", pt)
	}

	if pt := r.FromSource(image.Pt(100, 80)); pt != image.Pt(50, 40) {
		t.Errorf("FromSource expected (50,40), got %v", pt)
	}

	// wrong frame size is rejected
	small := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer small.Close()

	if _, err := r.Gray(small); err == nil {
		t.Errorf("Expected error for mismatched frame size")
	}
}

package preprocess

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"image"
)

// Resizer converts source video frames into the grayscale planes the
// tracker works on, downscaling them when the source is wider than the
// tracking resolution
type Resizer struct {
	// srcWidth is the width of the source image
	srcWidth int
	// srcHeight is the height of the source image
	srcHeight int
	// destWidth is the width to scale to
	destWidth int
	// destHeight is the height to scale to
	destHeight int
	// grayMat and resizedMat are Mats used during the conversion
	grayMat    gocv.Mat
	resizedMat gocv.Mat
	// scale is the factor from tracking to source resolution
	scale float32
}

// NewResizer returns a Resizer for frames of srcWidth x srcHeight.  Frames
// wider than maxWidth are scaled down to maxWidth keeping their aspect, a
// maxWidth of 0 keeps the source resolution.
func NewResizer(srcWidth, srcHeight, maxWidth int) *Resizer {
	r := &Resizer{
		srcWidth:   srcWidth,
		srcHeight:  srcHeight,
		grayMat:    gocv.NewMat(),
		resizedMat: gocv.NewMat(),
	}

	// precalculate scaling dimensions
	r.preCalc(maxWidth)

	return r
}

// Close frees memory allocated during the conversion
func (r *Resizer) Close() error {

	if err := r.grayMat.Close(); err != nil {
		return err
	}

	return r.resizedMat.Close()
}

// preCalc the tracking resolution and the scale back to the source
func (r *Resizer) preCalc(maxWidth int) {

	r.destWidth = r.srcWidth
	r.destHeight = r.srcHeight
	r.scale = 1

	if maxWidth <= 0 || r.srcWidth <= maxWidth {
		return
	}

	r.destWidth = maxWidth
	r.destHeight = int(float32(r.srcHeight)*float32(maxWidth)/float32(r.srcWidth) + 0.5)
	r.scale = float32(r.srcWidth) / float32(r.destWidth)
}

// Gray converts src into a grayscale frame at tracking resolution and
// returns its pixels as packed rows
func (r *Resizer) Gray(src gocv.Mat) ([]byte, error) {

	if src.Cols() != r.srcWidth || src.Rows() != r.srcHeight {
		return nil, errors.Errorf("frame size %dx%d does not match %dx%d",
			src.Cols(), src.Rows(), r.srcWidth, r.srcHeight)
	}

	switch src.Channels() {
	case 1:
		src.CopyTo(&r.grayMat)
	case 3:
		gocv.CvtColor(src, &r.grayMat, gocv.ColorBGRToGray)
	case 4:
		gocv.CvtColor(src, &r.grayMat, gocv.ColorBGRAToGray)
	default:
		return nil, errors.Errorf("unsupported number of channels %d", src.Channels())
	}

	out := r.grayMat

	if r.destWidth != r.srcWidth {
		gocv.Resize(r.grayMat, &r.resizedMat, image.Pt(r.destWidth, r.destHeight),
			0, 0, gocv.InterpolationArea)
		out = r.resizedMat
	}

	return out.ToBytes(), nil
}

// ToSource maps a point in tracking resolution to the source image
func (r *Resizer) ToSource(pt image.Point) image.Point {
	return image.Pt(int(float32(pt.X)*r.scale+0.5), int(float32(pt.Y)*r.scale+0.5))
}

// FromSource maps a point in the source image to tracking resolution
func (r *Resizer) FromSource(pt image.Point) image.Point {
	return image.Pt(int(float32(pt.X)/r.scale+0.5), int(float32(pt.Y)/r.scale+0.5))
}

// ScaleFactor returns the factor from tracking to source resolution
func (r *Resizer) ScaleFactor() float32 {
	return r.scale
}

// Width returns the width of the tracking resolution
func (r *Resizer) Width() int {
	return r.destWidth
}

// Height returns the height of the tracking resolution
func (r *Resizer) Height() int {
	return r.destHeight
}

// SrcWidth returns the width of the source image
func (r *Resizer) SrcWidth() int {
	return r.srcWidth
}

// SrcHeight returns the height of the source image
func (r *Resizer) SrcHeight() int {
	return r.srcHeight
}

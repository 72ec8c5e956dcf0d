package render

import (
	"github.com/pkg/errors"
	"github.com/skylens/go-corrtrack"
	"gocv.io/x/gocv"
	"golang.org/x/image/draw"
	"image"
)

// Diagnostic holds the buffers used to render the tracker diagnostic images
type Diagnostic struct {
	// size is the side of the square each diagnostic image is scaled to
	size int
	buf  []byte
}

// NewDiagnostic returns a Diagnostic that scales every image to size x size
// pixels
func NewDiagnostic(size int) *Diagnostic {
	return &Diagnostic{
		size: size,
		buf:  make([]byte, corrtrack.DiagnosticImageSize),
	}
}

// Image reads the diagnostic image of the given kind from the tracker and
// scales it with nearest neighbour sampling so single pixels stay visible
func (d *Diagnostic) Image(tr *corrtrack.Tracker, kind corrtrack.ImageType) (*image.Gray, error) {

	w, h, ok := tr.GetImage(kind, d.buf)

	if !ok || w == 0 || h == 0 {
		return nil, errors.Errorf("diagnostic image %d not available", kind)
	}

	src := &image.Gray{
		Pix:    d.buf[:w*h],
		Stride: w,
		Rect:   image.Rect(0, 0, w, h),
	}

	dst := image.NewGray(image.Rect(0, 0, d.size, d.size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return dst, nil
}

// Inset draws the diagnostic image of the given kind into img with its
// top-left corner at pt.  The image is clipped to img.
func (d *Diagnostic) Inset(img *gocv.Mat, tr *corrtrack.Tracker, kind corrtrack.ImageType,
	pt image.Point) error {

	gray, err := d.Image(tr, kind)

	if err != nil {
		return err
	}

	area := image.Rect(pt.X, pt.Y, pt.X+d.size, pt.Y+d.size).
		Intersect(image.Rect(0, 0, img.Cols(), img.Rows()))

	if area.Empty() {
		return nil
	}

	grayMat, err := gocv.ImageGrayToMatGray(gray)

	if err != nil {
		return errors.Wrap(err, "error converting diagnostic image")
	}

	defer grayMat.Close()

	// the part of the inset inside img
	src := grayMat.Region(area.Sub(pt))
	defer src.Close()

	roi := img.Region(area)
	defer roi.Close()

	if img.Channels() == 1 {
		src.CopyTo(&roi)
		return nil
	}

	colorMat := gocv.NewMat()
	defer colorMat.Close()

	gocv.CvtColor(src, &colorMat, gocv.ColorGrayToBGR)
	colorMat.CopyTo(&roi)

	return nil
}

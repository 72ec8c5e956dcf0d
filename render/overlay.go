package render

import (
	"fmt"
	"github.com/skylens/go-corrtrack"
	"gocv.io/x/gocv"
	"image"
	"image/color"
)

// OverlayStyle defines how the tracker state is drawn over a frame
type OverlayStyle struct {
	LineThickness int
	// ShowObject draws the object rectangle estimated inside the tracking
	// rectangle
	ShowObject  bool
	ObjectColor color.RGBA
	// ShowLabel draws the mode and detection probability above the
	// tracking rectangle
	ShowLabel bool
	// CrosshairSize is the half length of the crosshair drawn on the
	// tracking rectangle center, 0 disables it
	CrosshairSize int
}

// DefaultOverlayStyle returns default overlay style settings
func DefaultOverlayStyle() OverlayStyle {
	return OverlayStyle{
		LineThickness: 2,
		ShowObject:    true,
		ObjectColor:   Yellow,
		ShowLabel:     true,
		CrosshairSize: 6,
	}
}

// ScaleRect scales a rectangle in tracking resolution by scale to the
// source image resolution
func ScaleRect(r image.Rectangle, scale float32) image.Rectangle {
	return image.Rect(
		int(float32(r.Min.X)*scale+0.5), int(float32(r.Min.Y)*scale+0.5),
		int(float32(r.Max.X)*scale+0.5), int(float32(r.Max.Y)*scale+0.5),
	)
}

// ScalePoint scales a point in tracking resolution by scale to the source
// image resolution
func ScalePoint(p image.Point, scale float32) image.Point {
	return image.Pt(int(float32(p.X)*scale+0.5), int(float32(p.Y)*scale+0.5))
}

// TrackerOverlay renders the tracking rectangle, object rectangle and a
// status label for the tracker result res on img.  scale maps tracking
// resolution coordinates to img.  Nothing is drawn in free mode.
func TrackerOverlay(img *gocv.Mat, res corrtrack.TrackerState, scale float32,
	font Font, style OverlayStyle) {

	if res.Mode == corrtrack.ModeFree {
		return
	}

	clr := ModeColor(res.Mode)

	// draw rectangle around tracked object
	rect := ScaleRect(res.TrackingRectangle.Image(), scale)
	gocv.Rectangle(img, rect, clr, style.LineThickness)

	if style.ShowObject {
		obj := ScaleRect(res.ObjectRectangle.Image(), scale)
		gocv.Rectangle(img, obj, style.ObjectColor, 1)
	}

	if style.CrosshairSize > 0 {
		c := ScalePoint(image.Pt(res.TrackingRectangle.X, res.TrackingRectangle.Y), scale)
		n := style.CrosshairSize

		gocv.Line(img, image.Pt(c.X-n, c.Y), image.Pt(c.X+n, c.Y), clr, 1)
		gocv.Line(img, image.Pt(c.X, c.Y-n), image.Pt(c.X, c.Y+n), clr, 1)
	}

	if style.ShowLabel {
		text := fmt.Sprintf("%s %.2f", res.Mode, res.ObjectDetectionProbability)

		if res.Mode == corrtrack.ModeLost {
			text = fmt.Sprintf("%s %d", res.Mode, res.FrameCounterInLostMode)
		}

		placeLabel(rect, text, clr, font, style.LineThickness).draw(img, font)
	}
}

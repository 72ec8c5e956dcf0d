package render

import (
	"github.com/skylens/go-corrtrack"
	"image/color"
)

var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 50, A: 255}
	Pink   = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Green  = color.RGBA{R: 72, G: 249, B: 10, A: 255}  // #48F90A
	Orange = color.RGBA{R: 255, G: 112, B: 31, A: 255} // #FF701F
	Red    = color.RGBA{R: 255, G: 56, B: 56, A: 255}  // #FF3838
	Cyan   = color.RGBA{R: 0, G: 194, B: 255, A: 255}  // #00C2FF
	Grey   = color.RGBA{R: 96, G: 96, B: 96, A: 255}   // #606060

	// modeColors are the colors of the tracking rectangle per tracker mode
	modeColors = map[corrtrack.Mode]color.RGBA{
		corrtrack.ModeFree:     Grey,
		corrtrack.ModeTracking: Green,
		corrtrack.ModeLost:     Red,
		corrtrack.ModeInertial: Orange,
		corrtrack.ModeStatic:   Cyan,
	}
)

// ModeColor returns the color used to render a tracker in the given mode
func ModeColor(mode corrtrack.Mode) color.RGBA {

	if clr, ok := modeColors[mode]; ok {
		return clr
	}

	return White
}

package corrtrack

import (
	"gonum.org/v1/gonum/floats"
)

// GetImage copies a diagnostic image into buf as packed rows of width bytes.
// The pattern and the correlation surface are stretched to 0-255, the mask
// is copied as is.  buf must hold at least DiagnosticImageSize bytes.
func (t *Tracker) GetImage(kind ImageType, buf []byte) (width, height int, ok bool) {

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(buf) < DiagnosticImageSize {
		return 0, 0, false
	}

	switch kind {
	case ImagePattern:
		return stretchPlane(t.model.pattern, buf), t.model.pattern.height, true

	case ImageMask:
		m := t.model.mask

		for y := 0; y < m.height; y++ {
			copy(buf[y*m.width:], m.row(y))
		}

		return m.width, m.height, true

	case ImageSurface:
		return stretchPlane(t.corr.surface, buf), t.corr.surface.height, true
	}

	return 0, 0, false
}

// stretchPlane writes p into buf with its value range mapped onto 0-255 and
// returns the width written
func stretchPlane(p *plane[float32], buf []byte) int {

	vals := make([]float64, 0, p.width*p.height)

	for y := 0; y < p.height; y++ {
		for _, v := range p.row(y) {
			vals = append(vals, float64(v))
		}
	}

	if len(vals) == 0 {
		return p.width
	}

	lo := floats.Min(vals)
	hi := floats.Max(vals)
	scale := 0.0

	if hi > lo {
		scale = 255 / (hi - lo)
	}

	for i, v := range vals {
		buf[i] = uint8((v-lo)*scale + 0.5)
	}

	return p.width
}

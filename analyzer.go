package corrtrack

// peak is the accepted maximum of a correlation surface
type peak struct {
	// dx, dy is the integer offset of the peak from the surface center
	dx, dy int
	// fdx, fdy is the sub pixel offset
	fdx, fdy float32
	value    float32
}

// analyzeSurface finds the dominant peak of the surface.  A secondary peak
// at least minPeakDistance away that is within peakMargin of the dominant
// one wins if it lies closer to the predicted offset (predX, predY).
func analyzeSurface(surface *plane[float32], predX, predY float32) peak {

	halfW := surface.width / 2
	halfH := surface.height / 2

	maxX, maxY := halfW, halfH
	maxV := float32(-1)

	for y := 0; y < surface.height; y++ {
		for x, v := range surface.row(y) {
			if v > maxV {
				maxV = v
				maxX, maxY = x, y
			}
		}
	}

	secX, secY := -1, -1
	secV := float32(-1)

	for y := 0; y < surface.height; y++ {
		for x, v := range surface.row(y) {
			if v > secV && chebyshev(x, y, maxX, maxY) >= minPeakDistance {
				secV = v
				secX, secY = x, y
			}
		}
	}

	if secX >= 0 && maxV > 0 && secV >= maxV*(1-peakMargin) {
		d1 := sqDist(float32(maxX-halfW), float32(maxY-halfH), predX, predY)
		d2 := sqDist(float32(secX-halfW), float32(secY-halfH), predX, predY)

		if d2 < d1 {
			maxX, maxY, maxV = secX, secY, secV
		}
	}

	p := peak{
		dx:    maxX - halfW,
		dy:    maxY - halfH,
		fdx:   float32(maxX - halfW),
		fdy:   float32(maxY - halfH),
		value: max(maxV, 0),
	}

	// sub pixel refinement needs the full 3x3 neighbourhood
	if maxX < 1 || maxY < 1 || maxX > surface.width-2 || maxY > surface.height-2 {
		return p
	}

	var sum, sx, sy float32

	for y := -1; y <= 1; y++ {
		for x := -1; x <= 1; x++ {
			v := surface.at(maxX+x, maxY+y)

			if v <= 0 {
				continue
			}

			sum += v
			sx += v * float32(x)
			sy += v * float32(y)
		}
	}

	if sum > 0 {
		p.fdx += sx / sum
		p.fdy += sy / sum
	}

	return p
}

// sqDist returns the squared distance between two points
func sqDist(x0, y0, x1, y1 float32) float32 {
	dx := x0 - x1
	dy := y0 - y1
	return dx*dx + dy*dy
}

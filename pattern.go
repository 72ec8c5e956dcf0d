package corrtrack

// patternModel is the adaptive template of the tracked object together with
// the weighting masks used to suppress background pixels in the correlation
type patternModel struct {
	width  int
	height int
	// pattern is blended toward the tracking rectangle content while tracking
	pattern *plane[float32]
	// mask is the per pixel weight in [32,255]
	mask *plane[uint8]
	// reduced is mask quantised to mask/32, used by the coarse search
	reduced *plane[uint8]
	// deviation is the exponentially smoothed absolute difference between
	// consecutive tracking rectangle snapshots
	deviation *plane[float32]
	// snapshots holds the current and previous tracking rectangle content,
	// snapshots[snapshotIndex] is the current one
	snapshots     [2]*plane[uint8]
	snapshotIndex int
}

// newPatternModel allocates all surfaces at the maximum rectangle size
func newPatternModel() *patternModel {
	return &patternModel{
		width:     defaultRectWidth,
		height:    defaultRectHeight,
		pattern:   newPlane[float32](MaxRectWidth, MaxRectHeight),
		mask:      newPlane[uint8](MaxRectWidth, MaxRectHeight),
		reduced:   newPlane[uint8](MaxRectWidth, MaxRectHeight),
		deviation: newPlane[float32](MaxRectWidth, MaxRectHeight),
		snapshots: [2]*plane[uint8]{
			newPlane[uint8](MaxRectWidth, MaxRectHeight),
			newPlane[uint8](MaxRectWidth, MaxRectHeight),
		},
	}
}

// reset zeroes every surface
func (m *patternModel) reset() {
	m.pattern.clear()
	m.mask.clear()
	m.reduced.clear()
	m.deviation.clear()
	m.snapshots[0].clear()
	m.snapshots[1].clear()
	m.snapshotIndex = 0
}

// setSize sets the active size of every surface
func (m *patternModel) setSize(width, height int) {

	m.width = width
	m.height = height

	m.pattern.setSize(width, height)
	m.mask.setSize(width, height)
	m.reduced.setSize(width, height)
	m.deviation.setSize(width, height)
	m.snapshots[0].setSize(width, height)
	m.snapshots[1].setSize(width, height)
}

// current returns the latest tracking rectangle snapshot
func (m *patternModel) current() *plane[uint8] {
	return m.snapshots[m.snapshotIndex]
}

// previous returns the snapshot before current
func (m *patternModel) previous() *plane[uint8] {
	return m.snapshots[1-m.snapshotIndex]
}

// initialize seeds the model from the content of rect in frame.  objectMask
// is optional, when it holds width*height bytes pixels marked zero are
// treated as background by seeding their deviation at the maximum.
func (m *patternModel) initialize(frame []byte, fw, fh int, rect Rect, objectMask []byte) {

	m.reset()
	m.setSize(rect.Width, rect.Height)

	cutRect(m.current(), frame, fw, fh, rect)
	m.previous().copyFrom(m.current())

	cur := m.current()
	useMask := len(objectMask) == rect.Width*rect.Height

	for y := 0; y < m.height; y++ {
		prow := m.pattern.row(y)
		crow := cur.row(y)
		drow := m.deviation.row(y)

		for x := range prow {
			prow[x] = float32(crow[x])

			if useMask && objectMask[y*rect.Width+x] == 0 {
				drow[x] = 255
			} else {
				drow[x] = 0
			}
		}
	}

	m.buildMask()
}

// buildMask computes both masks over the whole surface
func (m *patternModel) buildMask() maskSums {
	return m.maskRows(0, m.height)
}

// maskSums are the mask weighted pattern sums over a range of rows
type maskSums struct {
	mask        float64
	maskPattern float64
	red         float64
	redPattern  float64
}

// add accumulates o into s
func (s *maskSums) add(o maskSums) {
	s.mask += o.mask
	s.maskPattern += o.maskPattern
	s.red += o.red
	s.redPattern += o.redPattern
}

// maskRows computes the full and reduced mask for rows [y0, y1) from a
// Sobel gradient magnitude of the pattern and the temporal deviation, and
// returns the weighted pattern sums of those rows.  Rows are independent so
// disjoint ranges may run concurrently.
func (m *patternModel) maskRows(y0, y1 int) maskSums {

	var sums maskSums
	w := m.width
	h := m.height

	for y := y0; y < y1; y++ {
		up := max(y-1, 0)
		down := min(y+1, h-1)

		pu := m.pattern.row(up)
		pc := m.pattern.row(y)
		pd := m.pattern.row(down)
		drow := m.deviation.row(y)
		mrow := m.mask.row(y)
		rrow := m.reduced.row(y)

		for x := 0; x < w; x++ {
			left := max(x-1, 0)
			right := min(x+1, w-1)

			gx := (pu[right] + 2*pc[right] + pd[right]) - (pu[left] + 2*pc[left] + pd[left])
			gy := (pd[left] + 2*pd[x] + pd[right]) - (pu[left] + 2*pu[x] + pu[right])

			if gx < 0 {
				gx = -gx
			}

			if gy < 0 {
				gy = -gy
			}

			grad := (gx + gy) / 8
			weight := 64 + 2*grad - 4*drow[x]

			if weight < 32 {
				weight = 32
			} else if weight > 255 {
				weight = 255
			}

			mv := uint8(weight)
			rv := mv / 32

			mrow[x] = mv
			rrow[x] = rv

			sums.mask += float64(mv)
			sums.maskPattern += float64(mv) * float64(pc[x])
			sums.red += float64(rv)
			sums.redPattern += float64(rv) * float64(pc[x])
		}
	}

	return sums
}

// learn records the tracking rectangle content at rect as the newest
// snapshot, updates the temporal deviation and, when blend is set, blends the
// pattern toward it with coefficient coeff
func (m *patternModel) learn(frame []byte, fw, fh int, rect Rect, blend bool, coeff float32) {

	m.snapshotIndex = 1 - m.snapshotIndex
	cur := m.current()
	prev := m.previous()

	cutRect(cur, frame, fw, fh, rect)

	for y := 0; y < m.height; y++ {
		crow := cur.row(y)
		prow := prev.row(y)
		drow := m.deviation.row(y)
		patrow := m.pattern.row(y)

		for x := range crow {
			diff := float32(crow[x]) - float32(prow[x])

			if diff < 0 {
				diff = -diff
			}

			drow[x] += deviationUpdateCoeff * (diff - drow[x])

			if blend {
				patrow[x] += coeff * (float32(crow[x]) - patrow[x])
			}
		}
	}
}

// shift moves the content of every surface by (dx, dy) so that it follows a
// tracking rectangle moved to rect.  Uncovered pixels of the pattern and the
// snapshots are filled from frame, uncovered deviation is zeroed.
func (m *patternModel) shift(dx, dy int, frame []byte, fw, fh int, rect Rect) {

	w := m.width
	h := m.height

	// iterate so that source pixels are read before they are overwritten
	ys, ye, ystep := 0, h, 1
	if dy < 0 {
		ys, ye, ystep = h-1, -1, -1
	}

	xs, xe, xstep := 0, w, 1
	if dx < 0 {
		xs, xe, xstep = w-1, -1, -1
	}

	left := rect.TLX()
	top := rect.TLY()

	for y := ys; y != ye; y += ystep {
		sy := y + dy

		for x := xs; x != xe; x += xstep {
			sx := x + dx

			if sx >= 0 && sx < w && sy >= 0 && sy < h {
				m.pattern.set(x, y, m.pattern.at(sx, sy))
				m.deviation.set(x, y, m.deviation.at(sx, sy))
				m.snapshots[0].set(x, y, m.snapshots[0].at(sx, sy))
				m.snapshots[1].set(x, y, m.snapshots[1].at(sx, sy))
				continue
			}

			v := framePixel(frame, fw, fh, left+x, top+y)
			m.pattern.set(x, y, float32(v))
			m.deviation.set(x, y, 0)
			m.snapshots[0].set(x, y, v)
			m.snapshots[1].set(x, y, v)
		}
	}

	m.buildMask()
}

// objectRect estimates the object inside the tracking rectangle as the
// bounding box of the mask pixels above the mid level of the mask
func (m *patternModel) objectRect(track Rect) Rect {

	lo := uint8(255)
	hi := uint8(0)

	for y := 0; y < m.height; y++ {
		for _, v := range m.mask.row(y) {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}

	// a flat mask carries no shape information
	if int(hi)-int(lo) < 8 {
		return track
	}

	level := uint8((int(lo) + int(hi) + 1) / 2)
	minX, minY := m.width, m.height
	maxX, maxY := -1, -1

	for y := 0; y < m.height; y++ {
		for x, v := range m.mask.row(y) {
			if v < level {
				continue
			}

			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}

	if maxX < 0 {
		return track
	}

	ow := maxX - minX + 1
	oh := maxY - minY + 1
	cx := float32(minX+maxX) / 2
	cy := float32(minY+maxY) / 2

	obj := Rect{
		X:      track.TLX() + minX + ow/2,
		Y:      track.TLY() + minY + oh/2,
		FX:     float32(track.TLX()) + cx,
		FY:     float32(track.TLY()) + cy,
		Width:  ow,
		Height: oh,
	}

	return obj
}

// cutRect copies the content of rect from frame into dst.  Coordinates
// outside the frame are clamped to the nearest edge pixel.
func cutRect(dst *plane[uint8], frame []byte, fw, fh int, rect Rect) {

	left := rect.TLX()
	top := rect.TLY()

	for y := 0; y < dst.height; y++ {
		row := dst.row(y)
		fy := min(max(top+y, 0), fh-1)

		if left >= 0 && left+dst.width <= fw {
			copy(row, frame[fy*fw+left:fy*fw+left+dst.width])
			continue
		}

		for x := range row {
			fx := min(max(left+x, 0), fw-1)
			row[x] = frame[fy*fw+fx]
		}
	}
}

// framePixel returns the frame pixel at (x, y) clamped to the frame
func framePixel(frame []byte, fw, fh, x, y int) uint8 {
	x = min(max(x, 0), fw-1)
	y = min(max(y, 0), fh-1)
	return frame[y*fw+x]
}

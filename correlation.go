package corrtrack

import (
	"github.com/chewxy/math32"
)

const (
	maxWindowWidth  = MaxSurfaceSize + MaxRectWidth - 1
	maxWindowHeight = MaxSurfaceSize + MaxRectHeight - 1
	// flatVariance is the weighted variance per unit of mask weight below
	// which a window patch is considered flat
	flatVariance = 1.0
)

// partialSums are the per worker results of one phase
type partialSums struct {
	windowSum   int64
	windowCount int64
	mask        maskSums
	energy      float64
	redEnergy   float64
}

// add accumulates o into s
func (s *partialSums) add(o *partialSums) {
	s.windowSum += o.windowSum
	s.windowCount += o.windowCount
	s.mask.add(o.mask)
	s.energy += o.energy
	s.redEnergy += o.redEnergy
}

// correlator computes the correlation surface between the search window and
// the pattern.  A pass is split into phases that each run over row ranges
// on the worker pool:
//
//  1. accumulate the window mean and build the masks
//  2. build the zero mean window and the weighted zero mean patterns
//  3. correlate on the coarse grid
//  4. refine around the two best coarse peaks at full resolution
//
// Every phase reads aggregates combined from all workers of the phase
// before it.
type correlator struct {
	pool  *Pool
	model *patternModel

	// diff is the window minus its mean, diffSq its square
	diff   *plane[float32]
	diffSq *plane[float32]
	// weighted is mask*(pattern-mean) for the full and reduced masks
	weighted    *plane[float32]
	weightedRed *plane[float32]
	surface     *plane[float32]
	visited     *plane[uint8]

	// geometry of the current pass
	frame  []byte
	fw, fh int
	// wx0, wy0 is the frame position of the window top-left pixel
	wx0, wy0 int
	halfW    int
	halfH    int

	// aggregates of the current pass
	windowMean     float32
	patternMean    float32
	redPatternMean float32
	maskSum        float32
	redSum         float32
	energy         float32
	redEnergy      float32

	// prior
	predX, predY float32
	covX, covY   float32

	gridX      []int
	gridY      []int
	candidates [][2]int
}

// newCorrelator allocates all surfaces at their maximum size
func newCorrelator(model *patternModel, pool *Pool) *correlator {
	return &correlator{
		pool:        pool,
		model:       model,
		diff:        newPlane[float32](maxWindowWidth, maxWindowHeight),
		diffSq:      newPlane[float32](maxWindowWidth, maxWindowHeight),
		weighted:    newPlane[float32](MaxRectWidth, MaxRectHeight),
		weightedRed: newPlane[float32](MaxRectWidth, MaxRectHeight),
		surface:     newPlane[float32](MaxSurfaceSize, MaxSurfaceSize),
		visited:     newPlane[uint8](MaxSurfaceSize, MaxSurfaceSize),
	}
}

// reset zeroes every surface
func (c *correlator) reset() {
	c.diff.clear()
	c.diffSq.clear()
	c.weighted.clear()
	c.weightedRed.clear()
	c.surface.clear()
	c.visited.clear()
	c.frame = nil
}

// setPool replaces the worker pool
func (c *correlator) setPool(pool *Pool) {
	c.pool = pool
}

// pass computes the correlation surface of size surfaceW x surfaceH centered
// on (cx, cy) in frame, biased toward the filter prediction
func (c *correlator) pass(frame []byte, fw, fh, cx, cy, surfaceW, surfaceH int,
	filter *positionFilter) {

	m := c.model

	c.frame = frame
	c.fw = fw
	c.fh = fh
	c.halfW = surfaceW / 2
	c.halfH = surfaceH / 2
	c.wx0 = cx - c.halfW - m.width/2
	c.wy0 = cy - c.halfH - m.height/2

	c.predX = filter.x.predicted
	c.predY = filter.y.predicted
	c.covX = filter.x.covariance
	c.covY = filter.y.covariance

	c.diff.setSize(surfaceW+m.width-1, surfaceH+m.height-1)
	c.diffSq.setSize(surfaceW+m.width-1, surfaceH+m.height-1)
	c.weighted.setSize(m.width, m.height)
	c.weightedRed.setSize(m.width, m.height)
	c.surface.setSize(surfaceW, surfaceH)
	c.visited.setSize(surfaceW, surfaceH)
	c.surface.clear()
	c.visited.clear()

	// phase 1
	c.pool.run(c.accumulate)
	sums := c.pool.combine()

	c.windowMean = 0
	if sums.windowCount > 0 {
		c.windowMean = float32(float64(sums.windowSum) / float64(sums.windowCount))
	}

	c.maskSum = float32(sums.mask.mask)
	c.redSum = float32(sums.mask.red)
	c.patternMean = float32(sums.mask.maskPattern / sums.mask.mask)
	c.redPatternMean = float32(sums.mask.redPattern / sums.mask.red)

	// phase 2
	c.pool.run(c.finalize)
	sums = c.pool.combine()

	c.energy = float32(sums.energy)
	c.redEnergy = float32(sums.redEnergy)

	// phase 3
	c.gridX = gridOffsets(c.gridX[:0], c.halfW)
	c.gridY = gridOffsets(c.gridY[:0], c.halfH)
	c.pool.run(c.coarse)

	// phase 4
	c.buildCandidates()
	c.pool.run(c.refine)
}

// accumulate is phase 1.  It sums the in frame window pixels and builds the
// mask rows of this worker.
func (c *correlator) accumulate(part *partialSums, worker, workers int) {

	lo, hi := chunk(c.diff.height, worker, workers)

	for y := lo; y < hi; y++ {
		fy := c.wy0 + y

		if fy < 0 || fy >= c.fh {
			continue
		}

		x0 := max(c.wx0, 0)
		x1 := min(c.wx0+c.diff.width, c.fw)

		if x1 <= x0 {
			continue
		}

		for _, v := range c.frame[fy*c.fw+x0 : fy*c.fw+x1] {
			part.windowSum += int64(v)
		}

		part.windowCount += int64(x1 - x0)
	}

	lo, hi = chunk(c.model.height, worker, workers)
	part.mask = c.model.maskRows(lo, hi)
}

// finalize is phase 2.  It builds the zero mean window and the weighted zero
// mean patterns of this worker.
func (c *correlator) finalize(part *partialSums, worker, workers int) {

	lo, hi := chunk(c.diff.height, worker, workers)

	for y := lo; y < hi; y++ {
		fy := c.wy0 + y
		drow := c.diff.row(y)
		d2row := c.diffSq.row(y)

		for x := range drow {
			fx := c.wx0 + x

			if fy < 0 || fy >= c.fh || fx < 0 || fx >= c.fw {
				drow[x] = 0
				d2row[x] = 0
				continue
			}

			d := float32(c.frame[fy*c.fw+fx]) - c.windowMean
			drow[x] = d
			d2row[x] = d * d
		}
	}

	m := c.model
	lo, hi = chunk(m.height, worker, workers)

	for y := lo; y < hi; y++ {
		prow := m.pattern.row(y)
		mrow := m.mask.row(y)
		rrow := m.reduced.row(y)
		arow := c.weighted.row(y)
		arrow := c.weightedRed.row(y)

		for x, p := range prow {
			dp := p - c.patternMean
			arow[x] = float32(mrow[x]) * dp
			part.energy += float64(arow[x] * dp)

			dr := p - c.redPatternMean
			arrow[x] = float32(rrow[x]) * dr
			part.redEnergy += float64(arrow[x] * dr)
		}
	}
}

// coarse is phase 3.  It evaluates the reduced mask correlation on the grid
// rows of this worker.
func (c *correlator) coarse(part *partialSums, worker, workers int) {

	lo, hi := chunk(len(c.gridY), worker, workers)

	for _, v := range c.gridY[lo:hi] {
		for _, u := range c.gridX {
			sx := u + c.halfW
			sy := v + c.halfH
			c.surface.set(sx, sy, c.value(sx, sy, false))
		}
	}
}

// refine is phase 4.  It evaluates the full mask correlation of this worker's
// share of the refinement candidates.
func (c *correlator) refine(part *partialSums, worker, workers int) {

	lo, hi := chunk(len(c.candidates), worker, workers)

	for _, cand := range c.candidates[lo:hi] {
		c.surface.set(cand[0], cand[1], c.value(cand[0], cand[1], true))
	}
}

// buildCandidates picks the two best coarse peaks at least minPeakDistance
// apart and lists every surface cell of their neighbourhoods once
func (c *correlator) buildCandidates() {

	c.candidates = c.candidates[:0]

	first, second := c.coarsePeaks()

	for _, peak := range [][2]int{first, second} {
		if peak[0] < 0 {
			continue
		}

		for sy := peak[1] - coarseStep + 1; sy <= peak[1]+coarseStep-1; sy++ {
			if sy < 0 || sy >= c.surface.height {
				continue
			}

			for sx := peak[0] - coarseStep + 1; sx <= peak[0]+coarseStep-1; sx++ {
				if sx < 0 || sx >= c.surface.width || c.visited.at(sx, sy) != 0 {
					continue
				}

				c.visited.set(sx, sy, 1)
				c.candidates = append(c.candidates, [2]int{sx, sy})
			}
		}
	}
}

// coarsePeaks returns the surface cells of the best and the second best
// coarse grid values, {-1,-1} when there is none
func (c *correlator) coarsePeaks() ([2]int, [2]int) {

	first := [2]int{-1, -1}
	second := [2]int{-1, -1}
	best := float32(-1)

	for _, v := range c.gridY {
		for _, u := range c.gridX {
			sx := u + c.halfW
			sy := v + c.halfH

			if val := c.surface.at(sx, sy); val > best {
				best = val
				first = [2]int{sx, sy}
			}
		}
	}

	if first[0] < 0 {
		return first, second
	}

	best = -1

	for _, v := range c.gridY {
		for _, u := range c.gridX {
			sx := u + c.halfW
			sy := v + c.halfH

			if chebyshev(sx, sy, first[0], first[1]) < minPeakDistance {
				continue
			}

			if val := c.surface.at(sx, sy); val > best {
				best = val
				second = [2]int{sx, sy}
			}
		}
	}

	return first, second
}

// value returns the weighted normalised cross correlation of the pattern
// and the window patch whose top-left is (sx, sy) in window coordinates,
// multiplied by the prior.  The full mask is used when full is set, the
// reduced mask otherwise.
func (c *correlator) value(sx, sy int, full bool) float32 {

	m := c.model
	fx0 := c.wx0 + sx
	fy0 := c.wy0 + sy

	var ncc float32

	if fx0 >= 0 && fy0 >= 0 && fx0+m.width <= c.fw && fy0+m.height <= c.fh {
		ncc = c.nccInside(sx, sy, full)
	} else {
		ncc = c.nccClipped(sx, sy, full)
	}

	if ncc <= 0 {
		return 0
	}

	if ncc > 1 {
		ncc = 1
	}

	return ncc * c.prior(sx-c.halfW, sy-c.halfH)
}

// nccInside computes the correlation of a patch entirely inside the frame
// from the precomputed zero mean surfaces
func (c *correlator) nccInside(sx, sy int, full bool) float32 {

	m := c.model
	weights := m.reduced
	weighted := c.weightedRed
	weightSum := c.redSum
	energy := c.redEnergy

	if full {
		weights = m.mask
		weighted = c.weighted
		weightSum = c.maskSum
		energy = c.energy
	}

	if energy <= 0 || weightSum <= 0 {
		return 0
	}

	var sA, sM, sMM float32

	for y := 0; y < m.height; y++ {
		arow := weighted.row(y)
		mrow := weights.row(y)
		drow := c.diff.row(sy + y)[sx : sx+m.width]
		d2row := c.diffSq.row(sy + y)[sx : sx+m.width]

		for x, a := range arow {
			w := float32(mrow[x])
			sA += a * drow[x]
			sM += w * drow[x]
			sMM += w * d2row[x]
		}
	}

	variance := sMM - sM*sM/weightSum

	if variance <= flatVariance*weightSum {
		return 0
	}

	return sA / math32.Sqrt(energy*variance)
}

// nccClipped computes the correlation of a patch reaching outside the frame
// over its in frame pixels only
func (c *correlator) nccClipped(sx, sy int, full bool) float32 {

	m := c.model
	weights := m.reduced
	total := c.redSum

	if full {
		weights = m.mask
		total = c.maskSum
	}

	var sw, sp, sd, spp, sdd, spd float32

	for y := 0; y < m.height; y++ {
		fy := c.wy0 + sy + y

		if fy < 0 || fy >= c.fh {
			continue
		}

		prow := m.pattern.row(y)
		mrow := weights.row(y)
		drow := c.diff.row(sy + y)

		for x := 0; x < m.width; x++ {
			fx := c.wx0 + sx + x

			if fx < 0 || fx >= c.fw {
				continue
			}

			w := float32(mrow[x])
			p := prow[x]
			d := drow[sx+x]

			sw += w
			sp += w * p
			sd += w * d
			spp += w * p * p
			sdd += w * d * d
			spd += w * p * d
		}
	}

	if sw < minValidFraction*total || sw <= 0 {
		return 0
	}

	varP := spp - sp*sp/sw
	varD := sdd - sd*sd/sw

	if varP <= flatVariance*sw || varD <= flatVariance*sw {
		return 0
	}

	return (spd - sp*sd/sw) / math32.Sqrt(varP*varD)
}

// prior is the Gaussian weight of the offset (u, v) around the predicted
// offset with the filter covariance as variance
func (c *correlator) prior(u, v int) float32 {

	if c.covX <= 0 || c.covY <= 0 {
		return 1
	}

	du := float32(u) - c.predX
	dv := float32(v) - c.predY

	return math32.Exp(-0.5 * (du*du/c.covX + dv*dv/c.covY))
}

// gridOffsets appends the coarse grid offsets within [-half, half] to dst,
// the grid always contains offset 0
func gridOffsets(dst []int, half int) []int {

	n := half / coarseStep

	for k := -n; k <= n; k++ {
		dst = append(dst, k*coarseStep)
	}

	return dst
}

// chebyshev returns the chessboard distance between two cells
func chebyshev(x0, y0, x1, y1 int) int {

	dx := x0 - x1
	if dx < 0 {
		dx = -dx
	}

	dy := y0 - y1
	if dy < 0 {
		dy = -dy
	}

	return max(dx, dy)
}

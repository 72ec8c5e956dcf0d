package corrtrack

// axisFilter is a one dimensional recursive estimator of the object offset
// inside the search window along a single axis
type axisFilter struct {
	// predicted is the expected offset of the object on the next frame
	predicted float32
	// covariance is the uncertainty of predicted in pixels squared
	covariance float32
	// noise is the measurement noise
	noise float32
	// floor is the smallest covariance allowed
	floor float32
	// ceiling is the largest covariance allowed while the object is lost
	ceiling float32
}

// seed initialises the filter for a new capture.  rectSize is the tracking
// rectangle size and surfaceSize the correlation surface size along the axis.
func (f *axisFilter) seed(rectSize, surfaceSize int) {

	f.predicted = 0
	f.setGeometry(rectSize, surfaceSize)

	// start with the spread of half the search range so distant peaks are
	// still reachable
	half := float32(surfaceSize / 2)
	f.covariance = max(f.floor, half*half/2)
}

// setGeometry updates the limits after a rectangle or surface size change
func (f *axisFilter) setGeometry(rectSize, surfaceSize int) {

	f.floor = float32(rectSize*rectSize) / 8
	f.noise = f.floor / 2
	f.ceiling = float32(surfaceSize * surfaceSize)

	if f.ceiling < f.floor {
		f.ceiling = f.floor
	}

	f.covariance = min(max(f.covariance, f.floor), f.ceiling)
}

// update corrects the prediction with a measured offset
func (f *axisFilter) update(measured float32) {

	gain := f.covariance / (f.covariance + f.noise)
	innovation := measured - f.predicted

	f.predicted += gain * innovation
	f.covariance = (1-gain)*f.covariance + gain*innovation*innovation

	if f.covariance < f.floor {
		f.covariance = f.floor
	}
}

// inflate grows the uncertainty while the object is not found
func (f *axisFilter) inflate() {

	f.covariance *= lostCovarianceGrowth

	if f.covariance > f.ceiling {
		f.covariance = f.ceiling
	}
}

// positionFilter holds the two independent axis filters
type positionFilter struct {
	x axisFilter
	y axisFilter
}

// seed initialises both axes for a new capture
func (p *positionFilter) seed(rectW, rectH, surfaceW, surfaceH int) {
	p.x.seed(rectW, surfaceW)
	p.y.seed(rectH, surfaceH)
}

// setGeometry applies new rectangle or surface sizes keeping the prediction
func (p *positionFilter) setGeometry(rectW, rectH, surfaceW, surfaceH int) {
	p.x.setGeometry(rectW, surfaceW)
	p.y.setGeometry(rectH, surfaceH)
}

// update corrects both axes with the measured offset
func (p *positionFilter) update(dx, dy float32) {
	p.x.update(dx)
	p.y.update(dy)
}

// inflate grows the uncertainty of both axes
func (p *positionFilter) inflate() {
	p.x.inflate()
	p.y.inflate()
}

// reset clears the filter
func (p *positionFilter) reset() {
	*p = positionFilter{}
}

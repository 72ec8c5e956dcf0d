package corrtrack

// pixel is the set of element types stored in a plane
type pixel interface {
	~uint8 | ~float32
}

// plane is a fixed capacity row-major 2D surface.  The stride is the
// capacity width so a plane can change its active size without moving
// any data.
type plane[T pixel] struct {
	data   []T
	stride int
	// capacity
	maxW, maxH int
	// active size
	width, height int
}

// newPlane allocates a plane able to hold maxW x maxH elements
func newPlane[T pixel](maxW, maxH int) *plane[T] {
	return &plane[T]{
		data:   make([]T, maxW*maxH),
		stride: maxW,
		maxW:   maxW,
		maxH:   maxH,
		width:  maxW,
		height: maxH,
	}
}

// setSize changes the active size, it must be within capacity
func (p *plane[T]) setSize(width, height int) {

	if width > p.maxW || height > p.maxH || width < 0 || height < 0 {
		panic("plane size exceeds capacity")
	}

	p.width = width
	p.height = height
}

// idx returns the index of element (x, y) in data
func (p *plane[T]) idx(x, y int) int {
	return y*p.stride + x
}

// at returns element (x, y)
func (p *plane[T]) at(x, y int) T {
	return p.data[p.idx(x, y)]
}

// set stores v at element (x, y)
func (p *plane[T]) set(x, y int, v T) {
	p.data[p.idx(x, y)] = v
}

// row returns the active part of row y
func (p *plane[T]) row(y int) []T {
	start := p.idx(0, y)
	return p.data[start : start+p.width]
}

// clear zeroes the full capacity
func (p *plane[T]) clear() {
	clear(p.data)
}

// copyFrom copies the active area of src into p and takes its size
func (p *plane[T]) copyFrom(src *plane[T]) {

	p.setSize(src.width, src.height)

	for y := 0; y < src.height; y++ {
		copy(p.row(y), src.row(y))
	}
}

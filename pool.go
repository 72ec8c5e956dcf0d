package corrtrack

import (
	"golang.org/x/sync/errgroup"
)

// Pool is a fixed size set of workers that run the phases of a correlation
// pass over disjoint row ranges.  Every worker owns its partial sums so no
// locking is needed inside a phase, the partial sums are combined after the
// phase has been joined.
type Pool struct {
	// partials holds one scratch area per worker
	partials []partialSums
	// size of pool
	size int
}

// NewPool creates a new worker pool, a size below 1 creates a serial pool
func NewPool(size int) *Pool {

	if size < 1 {
		size = 1
	}

	return &Pool{
		partials: make([]partialSums, size),
		size:     size,
	}
}

// Size returns the number of workers
func (p *Pool) Size() int {
	return p.size
}

// run executes fn once per worker and returns when every worker has
// finished, it is the join point between two phases of a pass.  A serial
// pool runs fn on the calling goroutine.
func (p *Pool) run(fn func(part *partialSums, worker, workers int)) {

	if p.size == 1 {
		p.partials[0] = partialSums{}
		fn(&p.partials[0], 0, 1)
		return
	}

	var g errgroup.Group

	for i := 0; i < p.size; i++ {
		p.partials[i] = partialSums{}
		part := &p.partials[i]
		worker := i

		g.Go(func() error {
			fn(part, worker, p.size)
			return nil
		})
	}

	// workers never fail
	_ = g.Wait()
}

// combine sums the partial results of the last phase
func (p *Pool) combine() partialSums {

	var total partialSums

	for i := range p.partials {
		total.add(&p.partials[i])
	}

	return total
}

// chunk returns the half open range of n items handled by worker k of
// workers
func chunk(n, worker, workers int) (int, int) {

	per := n / workers
	rem := n % workers

	lo := worker*per + min(worker, rem)
	hi := lo + per

	if worker < rem {
		hi++
	}

	return lo, hi
}

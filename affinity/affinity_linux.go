package affinity

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"math/bits"
)

// Set restricts the process to the cores in mask
func Set(mask uintptr) error {

	var set unix.CPUSet

	for m := uint64(mask); m != 0; m &= m - 1 {
		set.Set(bits.TrailingZeros64(m))
	}

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return errors.Wrap(err, "error setting CPU affinity")
	}

	return nil
}

// Get returns the mask of cores the process may run on, cores above the
// width of uintptr are not reported
func Get() (uintptr, error) {

	var set unix.CPUSet

	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return 0, errors.Wrap(err, "error getting CPU affinity")
	}

	var mask uintptr

	for cpu := 0; cpu < bits.UintSize; cpu++ {
		if set.IsSet(cpu) {
			mask |= 1 << cpu
		}
	}

	return mask, nil
}

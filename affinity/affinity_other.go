//go:build !linux

package affinity

import (
	"github.com/pkg/errors"
)

// Set is only supported on linux
func Set(mask uintptr) error {
	return errors.New("CPU affinity not supported")
}

// Get is only supported on linux
func Get() (uintptr, error) {
	return 0, errors.New("CPU affinity not supported")
}

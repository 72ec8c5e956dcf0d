// Package affinity pins the tracking process to a set of CPU cores.  On
// big.LITTLE boards running the tracker on the fast cores keeps the per
// frame catch up inside its budget.
package affinity

import (
	"github.com/pkg/errors"
	"os"
	"strings"
)

// CoreType selects a group of cores on a platform
type CoreType int

const (
	FastCores CoreType = 0
	SlowCores CoreType = 1
	AllCores  CoreType = 2
)

// ParseCoreType converts fast|slow|all into a CoreType
func ParseCoreType(s string) (CoreType, error) {

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast":
		return FastCores, nil
	case "slow":
		return SlowCores, nil
	case "all":
		return AllCores, nil
	}

	return 0, errors.Errorf("unknown core type %q", s)
}

// platformMasks lists the core masks of the supported boards.  Boards with a
// single cluster use the same mask for every core type.
var platformMasks = map[string]map[CoreType]uintptr{
	"rk3566": {FastCores: 0b00001111, SlowCores: 0b00001111, AllCores: 0b00001111},
	"rk3568": {FastCores: 0b00001111, SlowCores: 0b00001111, AllCores: 0b00001111},
	"rk3576": {FastCores: 0b11110000, SlowCores: 0b00001111, AllCores: 0b11111111},
	"rk3588": {FastCores: 0b11110000, SlowCores: 0b00001111, AllCores: 0b11111111},
}

// CoreMask returns the mask selecting the given core numbers, eg: []int{4,5,6,7}
func CoreMask(cores []int) uintptr {

	var mask uintptr

	for _, core := range cores {
		mask |= 1 << core
	}

	return mask
}

// PlatformMask returns the mask of the cores of type ct on platform
func PlatformMask(platform string, ct CoreType) (uintptr, error) {

	masks, ok := platformMasks[strings.ToLower(strings.TrimSpace(platform))]

	if !ok {
		return 0, errors.Errorf("unknown platform %q", platform)
	}

	mask, ok := masks[ct]

	if !ok {
		return 0, errors.Errorf("unknown core type %d", ct)
	}

	return mask, nil
}

// compatiblePath is the device tree node naming the board
var compatiblePath = "/proc/device-tree/compatible"

// DetectPlatform returns the first known platform named in the device tree
func DetectPlatform() (string, error) {

	buf, err := os.ReadFile(compatiblePath)

	if err != nil {
		return "", errors.Wrap(err, "error reading device tree")
	}

	return matchPlatform(buf)
}

// matchPlatform finds a known platform in the NUL separated compatible list
func matchPlatform(compatible []byte) (string, error) {

	for _, entry := range strings.Split(string(compatible), "\x00") {
		// entries are vendor,model
		model := entry

		if i := strings.IndexByte(entry, ','); i >= 0 {
			model = entry[i+1:]
		}

		if _, ok := platformMasks[model]; ok {
			return model, nil
		}
	}

	return "", errors.New("no known platform in device tree")
}

// PinPlatform pins the process to the cores of type ct on the detected
// platform and returns the platform name
func PinPlatform(ct CoreType) (string, error) {

	platform, err := DetectPlatform()

	if err != nil {
		return "", err
	}

	mask, err := PlatformMask(platform, ct)

	if err != nil {
		return "", err
	}

	return platform, Set(mask)
}

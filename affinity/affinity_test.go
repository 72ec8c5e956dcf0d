package affinity

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestCoreMask(t *testing.T) {

	assert.Equal(t, uintptr(0b11110000), CoreMask([]int{4, 5, 6, 7}))
	assert.Equal(t, uintptr(0b101), CoreMask([]int{0, 2, 2}))
	assert.Equal(t, uintptr(0), CoreMask(nil))
}

func TestParseCoreType(t *testing.T) {

	tests := []struct {
		in     string
		expect CoreType
		ok     bool
	}{
		{"fast", FastCores, true},
		{" Slow ", SlowCores, true},
		{"ALL", AllCores, true},
		{"big", 0, false},
	}

	for _, tc := range tests {
		ct, err := ParseCoreType(tc.in)

		if !tc.ok {
			assert.Error(t, err, tc.in)
			continue
		}

		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.expect, ct, tc.in)
	}
}

func TestPlatformMask(t *testing.T) {

	mask, err := PlatformMask("RK3588", FastCores)
	require.NoError(t, err)
	assert.Equal(t, CoreMask([]int{4, 5, 6, 7}), mask)

	mask, err = PlatformMask("rk3568", FastCores)
	require.NoError(t, err)
	assert.Equal(t, CoreMask([]int{0, 1, 2, 3}), mask)

	_, err = PlatformMask("rk9999", AllCores)
	assert.Error(t, err)

	_, err = PlatformMask("rk3588", CoreType(7))
	assert.Error(t, err)
}

func TestMatchPlatform(t *testing.T) {

	platform, err := matchPlatform([]byte("radxa,rock-5b\x00rockchip,rk3588\x00"))
	require.NoError(t, err)
	assert.Equal(t, "rk3588", platform)

	_, err = matchPlatform([]byte("raspberrypi,4-model-b\x00brcm,bcm2711\x00"))
	assert.Error(t, err)
}

func TestGetSetRoundTrip(t *testing.T) {

	mask, err := Get()

	if err != nil {
		t.Skipf("CPU affinity not available: %v", err)
	}

	require.NotZero(t, mask)
	require.NoError(t, Set(mask))

	after, err := Get()
	require.NoError(t, err)
	assert.Equal(t, mask, after)
}

package corrtrack

import (
	"gonum.org/v1/gonum/stat"
)

const (
	// descriptorBlock is the side of the square pixel block averaged into a
	// single descriptor element
	descriptorBlock = 8
	// descriptorBlocks is the number of blocks per descriptor side
	descriptorBlocks = 16
	// DescriptorSize is the length of a descriptor in bytes
	DescriptorSize = descriptorBlocks * descriptorBlocks
	// minDescriptorCorrelation is the least correlation for a buffered frame
	// to be selected as the capture source
	minDescriptorCorrelation = 0.8
)

// ComputeDescriptor returns the block mean descriptor of the region centered
// on (x, y) in a grayscale frame.  The caller computes it on the frame the
// operator saw when selecting the point and passes it to CAPTURE so the
// Tracker can find that frame in its buffer.  Returns nil if the frame is
// smaller than width*height.
func ComputeDescriptor(frame []byte, width, height, x, y int) []byte {

	if width <= 0 || height <= 0 || len(frame) < width*height {
		return nil
	}

	desc := make([]byte, DescriptorSize)
	computeDescriptor(desc, frame, width, height, x, y)

	return desc
}

// computeDescriptor fills desc with the block means.  Pixels outside the
// frame are excluded, a block entirely outside the frame is zero.
func computeDescriptor(desc []byte, frame []byte, width, height, x, y int) {

	half := descriptorBlocks * descriptorBlock / 2
	x0 := x - half
	y0 := y - half

	for by := 0; by < descriptorBlocks; by++ {
		for bx := 0; bx < descriptorBlocks; bx++ {

			sum := 0
			count := 0

			for py := y0 + by*descriptorBlock; py < y0+(by+1)*descriptorBlock; py++ {
				if py < 0 || py >= height {
					continue
				}

				for px := x0 + bx*descriptorBlock; px < x0+(bx+1)*descriptorBlock; px++ {
					if px < 0 || px >= width {
						continue
					}

					sum += int(frame[py*width+px])
					count++
				}
			}

			if count > 0 {
				desc[by*descriptorBlocks+bx] = byte(sum / count)
			} else {
				desc[by*descriptorBlocks+bx] = 0
			}
		}
	}
}

// descriptorCorrelation returns the zero mean normalised correlation of two
// descriptors, 0 if either is flat
func descriptorCorrelation(a, b []byte) float64 {

	fa := make([]float64, len(a))
	fb := make([]float64, len(b))

	for i := range a {
		fa[i] = float64(a[i])
		fb[i] = float64(b[i])
	}

	if stat.Variance(fa, nil) == 0 || stat.Variance(fb, nil) == 0 {
		return 0
	}

	return stat.Correlation(fa, fb, nil)
}

// resolveFrameByDescriptor returns the buffered frame slot whose descriptor
// at (x, y) best matches want.  If no frame correlates better than
// minDescriptorCorrelation the latest slot is returned.
func resolveFrameByDescriptor(fb *frameBuffer, want []byte, x, y int) (int, float64) {

	latest := fb.bufferFrameID()

	if len(want) != DescriptorSize {
		return latest, 0
	}

	desc := make([]byte, DescriptorSize)
	bestSlot := latest
	bestCorr := minDescriptorCorrelation
	found := false

	// walk from newest to oldest so ties go to the most recent frame
	for back := 0; back < fb.held(); back++ {

		slot := (latest - back + fb.size()) % fb.size()
		computeDescriptor(desc, fb.frame(slot), fb.width, fb.height, x, y)

		corr := descriptorCorrelation(desc, want)

		if corr > bestCorr {
			bestCorr = corr
			bestSlot = slot
			found = true
		}
	}

	if !found {
		return latest, 0
	}

	return bestSlot, bestCorr
}

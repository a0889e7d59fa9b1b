package imp

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the intensity distribution of an image, or of a whole
// set of images.
type Stats struct {
	Mean   float64
	StdDev float64
}

func (s Stats) String() string {
	return fmt.Sprintf("mean=%.4f std=%.4f", s.Mean, s.StdDev)
}

// ImageStats computes the mean and the (population) standard deviation over
// every sample of an image.
func ImageStats(img image.Image) Stats {
	xs := samples(img)
	if len(xs) == 0 {
		return Stats{}
	}
	mean, std := stat.PopMeanStdDev(xs, nil)
	return Stats{Mean: mean, StdDev: std}
}

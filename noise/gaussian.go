package noise

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Scalar is a zero-mean Gaussian noise stream over a single channel.
// Streams built on the same source draw from it sequentially; a Sample call
// consumes a draw even when the standard deviation is zero, so the draw
// order of a run does not depend on which channels are noiseless.
type Scalar struct {
	dist distuv.Normal
}

// NewScalar creates a zero-mean Gaussian stream with standard deviation
// sigma drawing from src. It returns an error if sigma is negative or src
// is nil.
func NewScalar(sigma float64, src rand.Source) (*Scalar, error) {
	if sigma < 0 {
		return nil, fmt.Errorf("invalid standard deviation: %v", sigma)
	}

	if src == nil {
		return nil, fmt.Errorf("nil random source")
	}

	return &Scalar{
		dist: distuv.Normal{Mu: 0, Sigma: sigma, Src: src},
	}, nil
}

// Sample draws the next value from the stream.
func (s *Scalar) Sample() float64 {
	return s.dist.Rand()
}

// StdDev returns the stream standard deviation.
func (s *Scalar) StdDev() float64 {
	return s.dist.Sigma
}

// String implements the Stringer interface.
func (s *Scalar) String() string {
	return fmt.Sprintf("Gaussian{Mean=0 StdDev=%v}", s.dist.Sigma)
}

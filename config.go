package diffdrive

import "fmt"

// MotionNoise holds the odometry noise standard deviations per wheel.
type MotionNoise struct {
	Left, Right float64
}

// SensorNoise holds the range and bearing measurement noise standard
// deviations.
type SensorNoise struct {
	Range, Bearing float64
}

// Config collects the parameters of one simulation run. The zero value is
// not valid; every run must pass Validate before any component is built.
type Config struct {
	// WheelBase is the wheel separation.
	WheelBase float64
	// TimeSteps is the number of discrete time steps to simulate.
	TimeSteps int
	// Landmarks are the known map points.
	Landmarks []Landmark
	// MotionNoise is shared by the ground truth generator and the EKF's
	// independent control re-sampling.
	MotionNoise MotionNoise
	// SensorNoise is shared by both estimators' measurement synthesis.
	SensorNoise SensorNoise
	// MotionSeed seeds the ground truth motion stream.
	MotionSeed uint64
	// SensorSeed seeds each estimator's sensor stream.
	SensorSeed uint64
	// InitialPose is the starting pose of the truth and of every estimator.
	InitialPose Pose
}

// Validate checks the run parameters and returns an error describing the
// first invalid one.
func (c Config) Validate() error {
	if c.WheelBase <= 0 {
		return fmt.Errorf("invalid wheel base: %v", c.WheelBase)
	}

	if c.TimeSteps < 1 {
		return fmt.Errorf("invalid time step count: %d", c.TimeSteps)
	}

	if len(c.Landmarks) < 1 {
		return fmt.Errorf("at least one landmark required")
	}

	if c.MotionNoise.Left < 0 || c.MotionNoise.Right < 0 {
		return fmt.Errorf("invalid motion noise: %+v", c.MotionNoise)
	}

	if c.SensorNoise.Range < 0 || c.SensorNoise.Bearing < 0 {
		return fmt.Errorf("invalid sensor noise: %+v", c.SensorNoise)
	}

	return nil
}

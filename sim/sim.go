package sim

import (
	"fmt"

	"golang.org/x/exp/rand"

	diffdrive "github.com/milosgajdos/go-diffdrive"
	"github.com/milosgajdos/go-diffdrive/ekf"
	"github.com/milosgajdos/go-diffdrive/rbo"
	"github.com/milosgajdos/go-diffdrive/trajectory"
	"github.com/milosgajdos/go-diffdrive/truth"
)

// Simulation wires the ground truth generator and both estimators into one
// deterministic run over the configured number of time steps.
type Simulation struct {
	cfg diffdrive.Config
}

// Result holds the per-estimator trajectory logs of one run.
type Result struct {
	EKF *trajectory.Log
	RBO *trajectory.Log
}

// New creates a new simulation. It returns an error if the configuration is
// invalid.
func New(c diffdrive.Config) (*Simulation, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &Simulation{cfg: c}, nil
}

// Run simulates the ground truth once and runs both estimators over it. The
// EKF consumes the truth incrementally together with its independently
// sampled control estimates; the RBO then re-estimates every logged true
// pose with a freshly seeded sensor stream, so neither estimator sees the
// other's noise realizations. A step failure halts that estimator's run and
// fails the whole run.
func (s *Simulation) Run() (*Result, error) {
	gen, err := truth.New(s.cfg, rand.NewSource(s.cfg.MotionSeed))
	if err != nil {
		return nil, fmt.Errorf("failed to create ground truth generator: %v", err)
	}

	ekfFilter, err := ekf.New(s.cfg, rand.NewSource(s.cfg.SensorSeed))
	if err != nil {
		return nil, fmt.Errorf("failed to create EKF: %v", err)
	}

	ekfLog := trajectory.NewLog(s.cfg.TimeSteps)
	truthPoses := make([]diffdrive.Pose, 0, s.cfg.TimeSteps)
	for t := 0; t < s.cfg.TimeSteps; t++ {
		pose := gen.Step()
		truthPoses = append(truthPoses, pose)

		rec, err := ekfFilter.Step(pose, gen.SampleControl())
		if err != nil {
			return nil, fmt.Errorf("EKF step %d: %w", t, err)
		}
		ekfLog.Append(rec)
	}

	rboFilter, err := rbo.New(s.cfg, rand.NewSource(s.cfg.SensorSeed))
	if err != nil {
		return nil, fmt.Errorf("failed to create RBO estimator: %v", err)
	}

	rboLog := trajectory.NewLog(s.cfg.TimeSteps)
	for t, pose := range truthPoses {
		rec, err := rboFilter.Step(pose, diffdrive.Control{})
		if err != nil {
			return nil, fmt.Errorf("RBO step %d: %w", t, err)
		}
		rboLog.Append(rec)
	}

	return &Result{EKF: ekfLog, RBO: rboLog}, nil
}

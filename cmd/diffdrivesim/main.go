package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/milosgajdos/matrix"
	"gonum.org/v1/plot/vg"

	diffdrive "github.com/milosgajdos/go-diffdrive"
	"github.com/milosgajdos/go-diffdrive/consistency"
	"github.com/milosgajdos/go-diffdrive/report"
	"github.com/milosgajdos/go-diffdrive/sim"
	"github.com/milosgajdos/go-diffdrive/trajectory"
	"github.com/milosgajdos/go-diffdrive/web"
)

var (
	steps      = flag.Int("steps", 100, "number of simulation time steps")
	motionSeed = flag.Uint64("motion-seed", 24, "ground truth motion stream seed")
	sensorSeed = flag.Uint64("sensor-seed", 123, "estimator sensor stream seed")
	csvDir     = flag.String("csv-dir", "", "directory to write trajectory CSV files to")
	plotDir    = flag.String("plot-dir", "", "directory to write trajectory plots to")
	serveAddr  = flag.String("serve", "", "address to stream trajectories on, e.g. :8080")
)

func main() {
	flag.Parse()

	c := diffdrive.Config{
		WheelBase:   0.5,
		TimeSteps:   *steps,
		Landmarks:   []diffdrive.Landmark{{X: 5, Y: 5}, {X: 10, Y: 0}, {X: 0, Y: 10}},
		MotionNoise: diffdrive.MotionNoise{Left: 0.01, Right: 0.01},
		SensorNoise: diffdrive.SensorNoise{Range: 0.1, Bearing: 0.05},
		MotionSeed:  *motionSeed,
		SensorSeed:  *sensorSeed,
	}

	s, err := sim.New(c)
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}

	res, err := s.Run()
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	runs := []struct {
		name string
		log  *trajectory.Log
	}{
		{"EKF", res.EKF},
		{"RBO", res.RBO},
	}

	entries := make([]report.Entry, 0, len(runs))
	for _, r := range runs {
		sum, err := consistency.Evaluate(r.log.Records())
		if err != nil {
			log.Fatalf("%s evaluation failed: %v", r.name, err)
		}
		entries = append(entries, report.Entry{Name: r.name, Summary: sum})
	}

	report.Render(os.Stdout, c, entries)

	last := res.EKF.Records()[res.EKF.Len()-1]
	fmt.Printf("EKF final covariance:\n%v\n", matrix.Format(last.Cov))

	if *csvDir != "" {
		for _, r := range runs {
			if err := writeCSV(r.log, filepath.Join(*csvDir, strings.ToLower(r.name)+"_simulation_data.csv")); err != nil {
				log.Fatalf("Failed to write %s CSV: %v", r.name, err)
			}
		}
	}

	if *plotDir != "" {
		for i, r := range runs {
			sum := entries[i].Summary
			title := fmt.Sprintf("%s Simulation\nANEES: %.3f | 95%% CI: [%.2f, %.2f] | %s",
				r.name, sum.ANEES, sum.Lower, sum.Upper, sum.Verdict)

			plt, err := sim.NewTrajectoryPlot(title, r.log.Records(), c.Landmarks)
			if err != nil {
				log.Fatalf("Failed to make %s plot: %v", r.name, err)
			}

			name := filepath.Join(*plotDir, strings.ToLower(r.name)+"_trajectory.png")
			if err := plt.Save(10*vg.Inch, 6*vg.Inch, name); err != nil {
				log.Fatalf("Failed to save plot to %s: %v", name, err)
			}
		}
	}

	if *serveAddr != "" {
		srv := web.NewServer()
		go func() {
			for {
				for _, r := range runs {
					if err := srv.Replay(r.name, r.log.Records(), 50*time.Millisecond); err != nil {
						log.Printf("Replay of %s failed: %v", r.name, err)
						return
					}
				}
			}
		}()

		if err := srv.Start(*serveAddr); err != nil {
			log.Fatalf("Stream server failed: %v", err)
		}
	}
}

func writeCSV(l *trajectory.Log, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := l.WriteCSV(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

package trajectory

import (
	"encoding/csv"
	"io"
	"strconv"

	diffdrive "github.com/milosgajdos/go-diffdrive"
)

// Header is the column schema of a persisted trajectory record: the true
// pose, the estimated pose and the full 3x3 covariance row by row with the
// position block first.
var Header = []string{
	"x_actual", "y_actual", "theta_actual",
	"x_estimated", "y_estimated", "theta_estimated",
	"covXX", "covXY", "covYX", "covYY",
	"covXT", "covYT", "covTX", "covTY", "covTT",
}

// Log is an append-only sequence of per-step trajectory records produced by
// one estimator run.
type Log struct {
	records []diffdrive.Record
}

// NewLog creates a log with capacity for steps records.
func NewLog(steps int) *Log {
	return &Log{records: make([]diffdrive.Record, 0, steps)}
}

// Append adds one step record to the log.
func (l *Log) Append(r diffdrive.Record) {
	l.records = append(l.records, r)
}

// Len returns the number of logged records.
func (l *Log) Len() int {
	return len(l.records)
}

// Records returns the logged records. The returned slice shares its backing
// array with the log and must not be mutated.
func (l *Log) Records() []diffdrive.Record {
	return l.records
}

// WriteCSV writes the log to w in the Header schema, one row per time step.
func (l *Log) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	row := make([]string, len(Header))
	for _, r := range l.records {
		vals := [...]float64{
			r.Truth.X, r.Truth.Y, r.Truth.Theta,
			r.Est.X, r.Est.Y, r.Est.Theta,
			r.Cov.At(0, 0), r.Cov.At(0, 1), r.Cov.At(1, 0), r.Cov.At(1, 1),
			r.Cov.At(0, 2), r.Cov.At(1, 2), r.Cov.At(2, 0), r.Cov.At(2, 1), r.Cov.At(2, 2),
		}
		for i, v := range vals {
			row[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

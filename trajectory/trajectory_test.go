package trajectory

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	diffdrive "github.com/milosgajdos/go-diffdrive"
)

func TestLogAppend(t *testing.T) {
	assert := assert.New(t)

	l := NewLog(10)
	assert.Equal(0, l.Len())

	rec := diffdrive.Record{
		Truth: diffdrive.Pose{X: 1, Y: 2, Theta: 0.3},
		Est:   diffdrive.Pose{X: 1.1, Y: 1.9, Theta: 0.25},
		Cov:   mat.NewSymDense(3, nil),
	}
	l.Append(rec)

	assert.Equal(1, l.Len())
	assert.Equal(rec, l.Records()[0])
}

func TestWriteCSV(t *testing.T) {
	assert := assert.New(t)

	cov := mat.NewSymDense(3, []float64{
		0.01, 0.002, 0.0005,
		0.002, 0.02, 0.0007,
		0.0005, 0.0007, 0.005,
	})

	l := NewLog(2)
	l.Append(diffdrive.Record{
		Truth: diffdrive.Pose{X: 1, Y: 2, Theta: 0.3},
		Est:   diffdrive.Pose{X: 1.1, Y: 1.9, Theta: 0.25},
		Cov:   cov,
	})
	l.Append(diffdrive.Record{
		Truth: diffdrive.Pose{X: 1.2, Y: 2.1, Theta: 0.35},
		Est:   diffdrive.Pose{X: 1.25, Y: 2.05, Theta: 0.3},
		Cov:   cov,
	})

	var buf bytes.Buffer
	assert.NoError(l.WriteCSV(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(err)
	assert.Equal(3, len(rows))
	assert.Equal(Header, rows[0])

	x, err := strconv.ParseFloat(rows[1][0], 64)
	assert.NoError(err)
	assert.Equal(1.0, x)

	covXY, err := strconv.ParseFloat(rows[1][7], 64)
	assert.NoError(err)
	assert.Equal(0.002, covXY)

	covTT, err := strconv.ParseFloat(rows[2][14], 64)
	assert.NoError(err)
	assert.Equal(0.005, covTT)
}

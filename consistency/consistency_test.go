package consistency

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	diffdrive "github.com/milosgajdos/go-diffdrive"
)

func record(errX, errY, errTheta float64, cov *mat.SymDense) diffdrive.Record {
	return diffdrive.Record{
		Truth: diffdrive.Pose{X: errX, Y: errY, Theta: errTheta},
		Est:   diffdrive.Pose{},
		Cov:   cov,
	}
}

func TestANEES(t *testing.T) {
	assert := assert.New(t)

	eye := mat.NewSymDense(3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})

	// e'*I*e = 3 for every record
	recs := []diffdrive.Record{
		record(1, 1, 1, eye),
		record(-1, 1, -1, eye),
	}
	anees, excluded, err := ANEES(recs, CondMax)
	assert.NoError(err)
	assert.Equal(0, excluded)
	assert.InDelta(3.0, anees, 1e-12)

	// empty log
	_, _, err = ANEES(nil, CondMax)
	assert.Error(err)
}

func TestANEESExcludesIllConditioned(t *testing.T) {
	assert := assert.New(t)

	eye := mat.NewSymDense(3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	sick := mat.NewSymDense(3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1e-30})

	recs := []diffdrive.Record{
		record(1, 1, 1, eye),
		record(5, 5, 5, sick),
	}
	anees, excluded, err := ANEES(recs, CondMax)
	assert.NoError(err)
	assert.Equal(1, excluded)
	assert.InDelta(3.0, anees, 1e-12)

	// every record excluded
	_, excluded, err = ANEES([]diffdrive.Record{record(1, 1, 1, sick)}, CondMax)
	assert.Error(err)
	assert.Equal(1, excluded)
}

func TestANEESWrapsHeadingError(t *testing.T) {
	assert := assert.New(t)

	eye := mat.NewSymDense(3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})

	// a full turn of heading error is no error at all
	anees, _, err := ANEES([]diffdrive.Record{record(0, 0, 2*math.Pi, eye)}, CondMax)
	assert.NoError(err)
	assert.InDelta(0.0, anees, 1e-12)
}

func TestChiSquareBounds(t *testing.T) {
	assert := assert.New(t)

	lower, upper := ChiSquareBounds(100, 3, 0.05)
	assert.Less(lower, 3.0)
	assert.Greater(upper, 3.0)
	assert.InDelta(2.54, lower, 0.03)
	assert.InDelta(3.50, upper, 0.03)

	// the interval tightens around dims as n grows
	l2, u2 := ChiSquareBounds(10000, 3, 0.05)
	assert.Greater(l2, lower)
	assert.Less(u2, upper)
}

func TestRMSE(t *testing.T) {
	assert := assert.New(t)

	eye := mat.NewSymDense(3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})

	rmse := RMSE([]diffdrive.Record{record(3, 4, 0, eye)})
	assert.InDelta(math.Sqrt(25.0/3.0), rmse, 1e-12)

	// heading error wraps before squaring
	rmse = RMSE([]diffdrive.Record{record(0, 0, 2*math.Pi, eye)})
	assert.InDelta(0.0, rmse, 1e-12)

	assert.True(math.IsNaN(RMSE(nil)))
}

func TestEvaluateVerdict(t *testing.T) {
	assert := assert.New(t)

	eye := mat.NewSymDense(3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})

	// anees pinned to exactly dims must be consistent at any n
	recs := make([]diffdrive.Record, 100)
	for i := range recs {
		recs[i] = record(1, 1, 1, eye)
	}
	sum, err := Evaluate(recs)
	assert.NoError(err)
	assert.Equal(Consistent, sum.Verdict)
	assert.Equal(100, sum.Steps)
	assert.Equal(0, sum.Excluded)

	// grossly overconfident covariance must be flagged
	for i := range recs {
		recs[i] = record(10, 0, 0, eye)
	}
	sum, err = Evaluate(recs)
	assert.NoError(err)
	assert.Equal(Inconsistent, sum.Verdict)
}

func TestANEESConsistentFilter(t *testing.T) {
	assert := assert.New(t)

	// synthetic errors drawn exactly from the reported covariance land the
	// statistic near dims
	cov := mat.NewSymDense(3, []float64{0.04, 0.001, 0, 0.001, 0.09, 0, 0, 0, 0.01})
	dist, ok := distmv.NewNormal(make([]float64, 3), cov, rand.NewSource(7))
	assert.True(ok)

	n := 2000
	recs := make([]diffdrive.Record, n)
	for i := range recs {
		e := dist.Rand(nil)
		recs[i] = record(e[0], e[1], e[2], cov)
	}

	anees, excluded, err := ANEES(recs, CondMax)
	assert.NoError(err)
	assert.Equal(0, excluded)
	assert.InDelta(3.0, anees, 0.3)

	lower, upper := ChiSquareBounds(n, Dims, Alpha)
	assert.Less(lower, 3.0)
	assert.Greater(upper, 3.0)
}

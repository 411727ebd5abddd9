package consistency

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	diffdrive "github.com/milosgajdos/go-diffdrive"
)

const (
	// CondMax is the covariance condition number at which a record is
	// excluded from the ANEES mean.
	CondMax = 1e12
	// Alpha is the two-sided significance level of the chi-square bounds.
	Alpha = 0.05
	// Dims is the dimensionality of the pose error.
	Dims = 3
)

// Verdict strings reported by Evaluate.
const (
	Consistent   = "Consistent"
	Inconsistent = "Inconsistent"
)

// Summary holds the consistency statistics of one estimator run.
type Summary struct {
	ANEES    float64
	Lower    float64
	Upper    float64
	RMSE     float64
	Verdict  string
	Steps    int
	Excluded int
}

// ANEES returns the average normalized estimation error squared over the
// log together with the number of records excluded because their covariance
// condition number reached condMax or their covariance could not be
// inverted. Excluded records are missing from the mean, not zero. It returns
// an error if the log is empty or every record is excluded.
func ANEES(recs []diffdrive.Record, condMax float64) (anees float64, excluded int, err error) {
	if len(recs) == 0 {
		return 0, 0, fmt.Errorf("empty trajectory log")
	}

	var sum float64
	var included int
	for _, r := range recs {
		if !(mat.Cond(r.Cov, 2) < condMax) {
			excluded++
			continue
		}

		var pInv mat.Dense
		if invErr := pInv.Inverse(r.Cov); invErr != nil {
			excluded++
			continue
		}

		e := errVec(r)
		var tmp mat.VecDense
		tmp.MulVec(&pInv, e)
		sum += mat.Dot(e, &tmp)
		included++
	}

	if included == 0 {
		return 0, excluded, fmt.Errorf("no well-conditioned records in trajectory log")
	}

	return sum / float64(included), excluded, nil
}

// ChiSquareBounds returns the two-sided chi-square acceptance interval for
// ANEES over n records of dims-dimensional errors at significance alpha:
// the alpha/2 and 1-alpha/2 quantiles at n*dims degrees of freedom, each
// scaled by 1/n.
func ChiSquareBounds(n, dims int, alpha float64) (lower, upper float64) {
	dist := distuv.ChiSquared{K: float64(n * dims)}

	return dist.Quantile(alpha/2) / float64(n), dist.Quantile(1-alpha/2) / float64(n)
}

// RMSE returns the root mean square error over all pose components of the
// log jointly, with the heading error wrapped.
func RMSE(recs []diffdrive.Record) float64 {
	if len(recs) == 0 {
		return math.NaN()
	}

	var sum float64
	for _, r := range recs {
		e := errVec(r)
		sum += mat.Dot(e, e)
	}

	return math.Sqrt(sum / float64(len(recs)*Dims))
}

// Evaluate computes the full consistency summary of one estimator run with
// the default exclusion threshold and significance level.
func Evaluate(recs []diffdrive.Record) (Summary, error) {
	anees, excluded, err := ANEES(recs, CondMax)
	if err != nil {
		return Summary{}, err
	}

	lower, upper := ChiSquareBounds(len(recs), Dims, Alpha)

	verdict := Inconsistent
	if lower <= anees && anees <= upper {
		verdict = Consistent
	}

	return Summary{
		ANEES:    anees,
		Lower:    lower,
		Upper:    upper,
		RMSE:     RMSE(recs),
		Verdict:  verdict,
		Steps:    len(recs),
		Excluded: excluded,
	}, nil
}

// errVec returns the componentwise estimation error of a record with the
// heading error wrapped.
func errVec(r diffdrive.Record) *mat.VecDense {
	return mat.NewVecDense(Dims, []float64{
		r.Truth.X - r.Est.X,
		r.Truth.Y - r.Est.Y,
		diffdrive.Wrap(r.Truth.Theta - r.Est.Theta),
	})
}

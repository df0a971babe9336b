package ml

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// BuildTrainingSet splits ds into a design matrix with a leading intercept
// column, the target vector and the feature names in column order.
func BuildTrainingSet(ds *Dataset, target string) (x *mat.Dense, y *mat.VecDense, features []string, err error) {
	if ds == nil {
		return nil, nil, nil, fmt.Errorf("%w: dataset is nil", ErrTraining)
	}
	targetIdx := ds.Index(target)
	if targetIdx < 0 {
		return nil, nil, nil, fmt.Errorf("%w: target column %q not found", ErrTraining, target)
	}

	features = make([]string, 0, len(ds.columns)-1)
	for i, name := range ds.columns {
		if i != targetIdx {
			features = append(features, name)
		}
	}
	if len(features) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: no feature columns besides %q", ErrTraining, target)
	}

	n, p := ds.Len(), len(features)
	if n < p+1 {
		return nil, nil, nil, fmt.Errorf("%w: %d rows cannot determine %d coefficients and an intercept", ErrTraining, n, p)
	}

	x = mat.NewDense(n, p+1, nil)
	y = mat.NewVecDense(n, nil)
	for i, row := range ds.rows {
		x.Set(i, 0, 1)
		col := 1
		for j, value := range row {
			if math.IsNaN(value) || math.IsInf(value, 0) {
				return nil, nil, nil, fmt.Errorf("%w: row %d column %s is not a finite number", ErrTraining, i+1, ds.columns[j])
			}
			if j == targetIdx {
				y.SetVec(i, value)
				continue
			}
			x.Set(i, col, value)
			col++
		}
	}
	return x, y, features, nil
}

func solveLeastSquares(x *mat.Dense, y *mat.VecDense) (*mat.VecDense, error) {
	_, cols := x.Dims()
	var qr mat.QR
	qr.Factorize(x)

	beta := mat.NewVecDense(cols, nil)
	if err := qr.SolveVecTo(beta, false, y); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: design matrix is rank-deficient (condition number %g)", ErrTraining, float64(cond))
		}
		return nil, fmt.Errorf("%w: %w", ErrTraining, err)
	}
	for i := 0; i < cols; i++ {
		if v := beta.AtVec(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: least squares produced a non-finite coefficient", ErrTraining)
		}
	}
	return beta, nil
}

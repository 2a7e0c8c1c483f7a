package classifier

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// standardScaler centres each feature and divides by its population standard
// deviation. Constant features keep a scale of 1.
type standardScaler struct {
	mean  []float64
	scale []float64
}

func fitScaler(x *mat.Dense) *standardScaler {
	r, c := x.Dims()
	s := &standardScaler{mean: make([]float64, c), scale: make([]float64, c)}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		s.mean[j] = stat.Mean(col, nil)
		sd := math.Sqrt(stat.Moment(2, col, nil))
		if sd == 0 || math.IsNaN(sd) {
			sd = 1
		}
		s.scale[j] = sd
	}
	return s
}

func (s *standardScaler) transform(x *mat.Dense) *mat.Dense {
	r, c := x.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return (v - s.mean[j]) / s.scale[j]
	}, x)
	return out
}

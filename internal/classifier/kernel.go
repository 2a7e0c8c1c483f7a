package classifier

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Kernel names a support-vector kernel function.
type Kernel string

const (
	Linear  Kernel = "linear"
	Poly    Kernel = "poly"
	RBF     Kernel = "rbf"
	Sigmoid Kernel = "sigmoid"
)

// Kernels lists the supported kernels.
var Kernels = []Kernel{Linear, Poly, RBF, Sigmoid}

// ParseKernel validates a kernel name.
func ParseKernel(s string) (Kernel, error) {
	k := Kernel(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kernels {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown kernel %q (want linear, poly, rbf or sigmoid)", s)
}

// kernelParams mirrors the C-SVC defaults: degree 3, coef0 0 and a gamma
// derived from the training data.
type kernelParams struct {
	kind   Kernel
	gamma  float64
	coef0  float64
	degree int
}

// eval computes K(a, b). sqA and sqB are the squared norms of a and b and
// are only used by the RBF kernel.
func (k kernelParams) eval(a, b []float64, sqA, sqB float64) float64 {
	dot := floats.Dot(a, b)
	switch k.kind {
	case Linear:
		return dot
	case Poly:
		return math.Pow(k.gamma*dot+k.coef0, float64(k.degree))
	case Sigmoid:
		return math.Tanh(k.gamma*dot + k.coef0)
	default:
		d := sqA + sqB - 2*dot
		if d < 0 {
			d = 0
		}
		return math.Exp(-k.gamma * d)
	}
}

// scaleGamma returns 1 / (n_features * Var(X)) over every element of X, or 1
// when X is constant.
func scaleGamma(rows [][]float64) float64 {
	var n, mean, m2 float64
	nf := 0
	for _, r := range rows {
		nf = len(r)
		for _, v := range r {
			n++
			d := v - mean
			mean += d / n
			m2 += d * (v - mean)
		}
	}
	if n == 0 || nf == 0 {
		return 1
	}
	v := m2 / n
	if v == 0 {
		return 1
	}
	return 1 / (float64(nf) * v)
}

package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Polynomial coefficients from Royston (1995), algorithm AS R94.
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.5440, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// ShapiroWilk returns the W statistic and its p-value for x. Fewer than three
// values yield NaN for both.
func ShapiroWilk(x []float64) (w, p float64) {
	n := len(x)
	if n < 3 {
		return math.NaN(), math.NaN()
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	if sorted[n-1]-sorted[0] == 0 {
		return 1, 1
	}

	a := swilkCoefficients(n)
	mean := floats.Sum(sorted) / float64(n)
	ssq := 0.0
	for _, v := range sorted {
		d := v - mean
		ssq += d * d
	}
	num := floats.Dot(a, sorted)
	w = num * num / ssq
	if w > 1 {
		w = 1
	}
	return w, swilkPValue(w, n)
}

// swilkCoefficients returns the antisymmetric weights a_1..a_n for a sample
// of size n sorted in ascending order.
func swilkCoefficients(n int) []float64 {
	a := make([]float64, n)
	if n == 3 {
		a[0], a[2] = -math.Sqrt(0.5), math.Sqrt(0.5)
		return a
	}
	m := make([]float64, n)
	for i := range m {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
	}
	summ2 := floats.Dot(m, m)
	ssumm2 := math.Sqrt(summ2)
	u := 1 / math.Sqrt(float64(n))

	an := m[n-1]/ssumm2 + poly(swC1, u)
	a[n-1], a[0] = an, -an
	var phi float64
	lo := 1
	if n > 5 {
		an1 := m[n-2]/ssumm2 + poly(swC2, u)
		a[n-2], a[1] = an1, -an1
		phi = (summ2 - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) / (1 - 2*an*an - 2*an1*an1)
		lo = 2
	} else {
		phi = (summ2 - 2*m[n-1]*m[n-1]) / (1 - 2*an*an)
	}
	sphi := math.Sqrt(phi)
	for i := lo; i < n-lo; i++ {
		a[i] = m[i] / sphi
	}
	return a
}

func swilkPValue(w float64, n int) float64 {
	if n == 3 {
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		return math.Max(p, 0)
	}
	if w >= 1 {
		return 1
	}
	y := math.Log(1 - w)
	nf := float64(n)
	var mu, sigma float64
	if n <= 11 {
		gamma := poly(swG, nf)
		if y >= gamma {
			return 1e-99
		}
		y = -math.Log(gamma - y)
		mu = poly(swC3, nf)
		sigma = math.Exp(poly(swC4, nf))
	} else {
		ln := math.Log(nf)
		mu = poly(swC5, ln)
		sigma = math.Exp(poly(swC6, ln))
	}
	return distuv.UnitNormal.Survival((y - mu) / sigma)
}

// poly evaluates c[0] + c[1]x + c[2]x^2 + ...
func poly(c []float64, x float64) float64 {
	out := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		out = out*x + c[i]
	}
	return out
}

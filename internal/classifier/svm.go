package classifier

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultC is the soft-margin penalty.
	DefaultC = 1.0
	smoTol   = 1e-3
	smoTau   = 1e-12
	// cacheBudget bounds the kernel cache of one binary problem, in floats.
	cacheBudget = 1 << 22
)

// binarySVC is a two-class decision function sum(coef_i K(sv_i, x)) - rho.
type binarySVC struct {
	sv   [][]float64
	sqSV []float64
	coef []float64
	rho  float64
	kern kernelParams
}

func (m *binarySVC) decision(x []float64, sqX float64) float64 {
	sum := 0.0
	for i, sv := range m.sv {
		sum += m.coef[i] * m.kern.eval(sv, x, m.sqSV[i], sqX)
	}
	return sum - m.rho
}

// smo solves the C-SVC dual with second-order working set selection.
type smo struct {
	x     [][]float64
	sq    []float64
	y     []float64
	kern  kernelParams
	c     float64
	alpha []float64
	grad  []float64
	qd    []float64
	cache *rowCache
}

func newSMO(x [][]float64, sq, y []float64, kern kernelParams, c float64) *smo {
	l := len(y)
	s := &smo{
		x:     x,
		sq:    sq,
		y:     y,
		kern:  kern,
		c:     c,
		alpha: make([]float64, l),
		grad:  make([]float64, l),
		qd:    make([]float64, l),
	}
	for i := range s.grad {
		s.grad[i] = -1
		s.qd[i] = kern.eval(x[i], x[i], sq[i], sq[i])
	}
	rows := cacheBudget / max(l, 1)
	s.cache = newRowCache(rows, l, func(i int, row []float64) {
		for j := range row {
			row[j] = s.y[i] * s.y[j] * s.kern.eval(s.x[i], s.x[j], s.sq[i], s.sq[j])
		}
	})
	return s
}

func (s *smo) upper(i int) bool { return s.alpha[i] >= s.c }
func (s *smo) lower(i int) bool { return s.alpha[i] <= 0 }

func (s *smo) selectWorkingSet() (int, int, bool) {
	gmax, gmax2 := math.Inf(-1), math.Inf(-1)
	iIdx, jIdx := -1, -1
	objMin := math.Inf(1)
	for t := range s.y {
		if s.y[t] > 0 {
			if !s.upper(t) && -s.grad[t] >= gmax {
				gmax, iIdx = -s.grad[t], t
			}
		} else if !s.lower(t) && s.grad[t] >= gmax {
			gmax, iIdx = s.grad[t], t
		}
	}
	if iIdx < 0 {
		return 0, 0, false
	}
	qi := s.cache.get(iIdx)
	for j := range s.y {
		var diff, quad float64
		if s.y[j] > 0 {
			if s.lower(j) {
				continue
			}
			diff = gmax + s.grad[j]
			gmax2 = math.Max(gmax2, s.grad[j])
			quad = s.qd[iIdx] + s.qd[j] - 2*s.y[iIdx]*qi[j]
		} else {
			if s.upper(j) {
				continue
			}
			diff = gmax - s.grad[j]
			gmax2 = math.Max(gmax2, -s.grad[j])
			quad = s.qd[iIdx] + s.qd[j] + 2*s.y[iIdx]*qi[j]
		}
		if diff <= 0 {
			continue
		}
		if quad <= 0 {
			quad = smoTau
		}
		if obj := -(diff * diff) / quad; obj <= objMin {
			jIdx, objMin = j, obj
		}
	}
	if gmax+gmax2 < smoTol || jIdx < 0 {
		return 0, 0, false
	}
	return iIdx, jIdx, true
}

func (s *smo) update(i, j int) {
	qi := s.cache.get(i)
	qj := s.cache.get(j)
	c := s.c
	oldI, oldJ := s.alpha[i], s.alpha[j]
	a := s.alpha

	if s.y[i] != s.y[j] {
		quad := s.qd[i] + s.qd[j] + 2*qi[j]
		if quad <= 0 {
			quad = smoTau
		}
		delta := (-s.grad[i] - s.grad[j]) / quad
		diff := a[i] - a[j]
		a[i] += delta
		a[j] += delta
		if diff > 0 {
			if a[j] < 0 {
				a[j], a[i] = 0, diff
			}
		} else if a[i] < 0 {
			a[i], a[j] = 0, -diff
		}
		if diff > 0 {
			if a[i] > c {
				a[i], a[j] = c, c-diff
			}
		} else if a[j] > c {
			a[j], a[i] = c, c+diff
		}
	} else {
		quad := s.qd[i] + s.qd[j] - 2*qi[j]
		if quad <= 0 {
			quad = smoTau
		}
		delta := (s.grad[i] - s.grad[j]) / quad
		sum := a[i] + a[j]
		a[i] -= delta
		a[j] += delta
		if sum > c {
			if a[i] > c {
				a[i], a[j] = c, sum-c
			}
		} else if a[j] < 0 {
			a[j], a[i] = 0, sum
		}
		if sum > c {
			if a[j] > c {
				a[j], a[i] = c, sum-c
			}
		} else if a[i] < 0 {
			a[i], a[j] = 0, sum
		}
	}

	di, dj := a[i]-oldI, a[j]-oldJ
	for k := range s.grad {
		s.grad[k] += qi[k]*di + qj[k]*dj
	}
}

func (s *smo) rho() float64 {
	ub, lb := math.Inf(1), math.Inf(-1)
	sumFree, nFree := 0.0, 0
	for i := range s.y {
		yg := s.y[i] * s.grad[i]
		switch {
		case s.upper(i):
			if s.y[i] < 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		case s.lower(i):
			if s.y[i] > 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		default:
			nFree++
			sumFree += yg
		}
	}
	if nFree > 0 {
		return sumFree / float64(nFree)
	}
	return (ub + lb) / 2
}

func (s *smo) solve() *binarySVC {
	maxIter := max(10_000_000, 100*len(s.y))
	for it := 0; it < maxIter; it++ {
		i, j, ok := s.selectWorkingSet()
		if !ok {
			break
		}
		s.update(i, j)
	}
	m := &binarySVC{rho: s.rho(), kern: s.kern}
	for i, a := range s.alpha {
		if a > 0 {
			m.sv = append(m.sv, s.x[i])
			m.sqSV = append(m.sqSV, s.sq[i])
			m.coef = append(m.coef, a*s.y[i])
		}
	}
	return m
}

type pairModel struct {
	a, b int
	m    *binarySVC
}

// svc is a one-vs-one multiclass C-SVC over class indices [0, k).
type svc struct {
	k     int
	pairs []pairModel
}

var errSingleClass = errors.New("the number of classes has to be greater than one")

// fitSVC trains one binary machine per class pair; class a of each pair is
// the positive side.
func fitSVC(x [][]float64, y []int, k int, kern kernelParams, c float64) (*svc, error) {
	present := make([]int, k)
	for _, v := range y {
		present[v]++
	}
	distinct := 0
	for _, n := range present {
		if n > 0 {
			distinct++
		}
	}
	if distinct < 2 {
		return nil, errSingleClass
	}
	sq := make([]float64, len(x))
	for i, r := range x {
		sq[i] = floats.Dot(r, r)
	}
	model := &svc{k: k}
	for a := 0; a < k; a++ {
		for b := a + 1; b < k; b++ {
			if present[a] == 0 || present[b] == 0 {
				continue
			}
			var px [][]float64
			var psq, py []float64
			for i, v := range y {
				switch v {
				case a:
					py = append(py, 1)
				case b:
					py = append(py, -1)
				default:
					continue
				}
				px = append(px, x[i])
				psq = append(psq, sq[i])
			}
			m := newSMO(px, psq, py, kern, c).solve()
			model.pairs = append(model.pairs, pairModel{a: a, b: b, m: m})
		}
	}
	return model, nil
}

// predict returns the class with most pairwise votes; ties go to the lower
// class index.
func (s *svc) predict(x [][]float64) []int {
	out := make([]int, len(x))
	votes := make([]int, s.k)
	for i, row := range x {
		for c := range votes {
			votes[c] = 0
		}
		sq := floats.Dot(row, row)
		for _, p := range s.pairs {
			if p.m.decision(row, sq) > 0 {
				votes[p.a]++
			} else {
				votes[p.b]++
			}
		}
		best := 0
		for c := 1; c < s.k; c++ {
			if votes[c] > votes[best] {
				best = c
			}
		}
		out[i] = best
	}
	return out
}

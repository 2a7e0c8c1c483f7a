package dataset

import "math/rand"

// RandomSeed seeds the synthetic generator so repeated loads render the same
// statistics.
const RandomSeed int64 = 123

// RandomColumns is the schema of the synthetic dataset.
var RandomColumns = []string{"x", "y", "z"}

// Random returns n rows of independent standard-normal columns x, y and z.
// Columns are drawn one after another from a single source.
func Random(n int, seed int64) *Dataset {
	if n < 0 {
		n = 0
	}
	rng := rand.New(rand.NewSource(seed))
	cols := make([]*Column, len(RandomColumns))
	for j, name := range RandomColumns {
		v := make([]float64, n)
		for i := range v {
			v[i] = rng.NormFloat64()
		}
		cols[j] = NewNumeric(name, v)
	}
	ds, _ := New(cols...)
	return ds
}

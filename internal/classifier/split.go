package classifier

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// testCount returns ceil(testSize * n), tolerating float noise such as
// 0.1*30 = 3.0000000000000004.
func testCount(n int, testSize float64) int {
	return int(math.Ceil(testSize*float64(n) - 1e-9))
}

// stratifiedSplit partitions sample indices into train and test sets that
// preserve the proportion of each class. y holds class indices in [0, k).
func stratifiedSplit(y []int, k int, testSize float64, rng *rand.Rand) (train, test []int, err error) {
	n := len(y)
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, &SplitError{Reason: fmt.Sprintf("test_size=%g should be between 0 and 1", testSize)}
	}
	nTest := testCount(n, testSize)
	nTrain := n - nTest
	if nTest == 0 || nTrain == 0 {
		return nil, nil, &SplitError{Reason: fmt.Sprintf("with n_samples=%d and test_size=%g the resulting train set would be empty", n, testSize)}
	}

	byClass := make([][]int, k)
	for i, c := range y {
		byClass[c] = append(byClass[c], i)
	}
	counts := make([]int, k)
	for c, idx := range byClass {
		counts[c] = len(idx)
		if len(idx) < 2 {
			return nil, nil, &SplitError{Reason: "the least populated class in y has only 1 member, which is too few; the minimum number of groups for any class cannot be less than 2"}
		}
	}
	if nTrain < k {
		return nil, nil, &SplitError{Reason: fmt.Sprintf("the train_size = %d should be greater or equal to the number of classes = %d", nTrain, k)}
	}
	if nTest < k {
		return nil, nil, &SplitError{Reason: fmt.Sprintf("the test_size = %d should be greater or equal to the number of classes = %d", nTest, k)}
	}

	trainPer := approximateMode(counts, nTrain, rng)
	left := make([]int, k)
	for c := range counts {
		left[c] = counts[c] - trainPer[c]
	}
	testPer := approximateMode(left, nTest, rng)

	for c, idx := range byClass {
		perm := rng.Perm(len(idx))
		for p, pi := range perm {
			switch {
			case p < trainPer[c]:
				train = append(train, idx[pi])
			case p < trainPer[c]+testPer[c]:
				test = append(test, idx[pi])
			}
		}
	}
	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rng.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })
	return train, test, nil
}

// approximateMode draws draws items from classes of the given sizes so the
// per-class share follows the class proportions. Floors are taken first and
// the remaining slots go to the largest fractional parts, with ties broken at
// random.
func approximateMode(counts []int, draws int, rng *rand.Rand) []int {
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make([]int, len(counts))
	if total == 0 {
		return out
	}
	rem := make([]float64, len(counts))
	assigned := 0
	for i, c := range counts {
		cont := float64(c) / float64(total) * float64(draws)
		fl := math.Floor(cont)
		out[i] = int(fl)
		rem[i] = cont - fl
		assigned += out[i]
	}
	need := draws - assigned
	if need <= 0 {
		return out
	}
	values := uniqueDesc(rem)
	for _, v := range values {
		var idx []int
		for i, r := range rem {
			if r == v {
				idx = append(idx, i)
			}
		}
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		take := len(idx)
		if take > need {
			take = need
		}
		for _, i := range idx[:take] {
			out[i]++
		}
		need -= take
		if need == 0 {
			break
		}
	}
	return out
}

func uniqueDesc(v []float64) []float64 {
	seen := map[float64]struct{}{}
	var out []float64
	for _, x := range v {
		if _, ok := seen[x]; !ok {
			seen[x] = struct{}{}
			out = append(out, x)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}

package classifier

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/KaramelBytes/statlens/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// twoClusters builds n rows per class with one well separated numeric feature,
// one text feature and a text target.
func twoClusters(t *testing.T, n int) *dataset.Dataset {
	t.Helper()
	var f1 []float64
	var f2, target []string
	for i := 0; i < n; i++ {
		f1 = append(f1, float64(i%5)*0.1)
		f2 = append(f2, []string{"red", "blue"}[i%2])
		target = append(target, "benign")
	}
	for i := 0; i < n; i++ {
		f1 = append(f1, 100+float64(i%5)*0.1)
		f2 = append(f2, []string{"red", "blue"}[i%2])
		target = append(target, "malignant")
	}
	ds, err := dataset.New(
		dataset.NewNumeric("size", f1),
		dataset.NewCategorical("color", f2, nil),
		dataset.NewCategorical("diagnosis", target, nil),
	)
	require.NoError(t, err)
	return ds
}

func TestPrepareEncodesAndCleans(t *testing.T) {
	ds, err := dataset.New(
		dataset.NewNumeric("a", []float64{1, 2, math.NaN(), 4}),
		dataset.NewCategorical("b", []string{"y", "x", "z", "y"}, nil),
		dataset.NewCategorical("label", []string{"no", "yes", "yes", "no"}, nil),
	)
	require.NoError(t, err)

	p, err := Prepare(ds, "")
	require.NoError(t, err)
	assert.Equal(t, "label", p.Target)
	assert.Equal(t, []string{"a", "b"}, p.FeatureNames)
	assert.Equal(t, 4, p.Samples)
	assert.Equal(t, 3, p.Rows())
	require.NotNil(t, p.Decoder)
	assert.Equal(t, []string{"no", "yes"}, p.Decoder.Classes)
	assert.Equal(t, []float64{0, 1, 0}, p.Y)
	// "b" is encoded over the cleaned rows only: x=0, y=1.
	assert.Equal(t, []float64{1, 0, 1}, mat.Col(nil, 1, p.X))
	assert.Equal(t, []float64{1, 2, 4}, mat.Col(nil, 0, p.X))
}

func TestPrepareNumericTargetHasNoDecoder(t *testing.T) {
	ds, err := dataset.New(
		dataset.NewNumeric("f", []float64{1, 2, 3}),
		dataset.NewNumeric("t", []float64{0, 1, 0}),
	)
	require.NoError(t, err)
	p, err := Prepare(ds, "t")
	require.NoError(t, err)
	assert.Nil(t, p.Decoder)
}

func TestPrepareErrors(t *testing.T) {
	allMissing, err := dataset.New(
		dataset.NewNumeric("a", []float64{math.NaN(), 1}),
		dataset.NewNumeric("b", []float64{2, math.NaN()}),
	)
	require.NoError(t, err)
	_, err = Prepare(allMissing, "")
	require.ErrorIs(t, err, ErrEmptyAfterCleaning)

	ds := twoClusters(t, 5)
	_, err = Prepare(ds, "nope")
	var nf *dataset.ColumnNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.Column)

	single, err := dataset.New(dataset.NewNumeric("only", []float64{1, 2}))
	require.NoError(t, err)
	_, err = Prepare(single, "")
	require.ErrorIs(t, err, ErrNoFeatureColumns)
}

func TestRunRejectsSmallDatasets(t *testing.T) {
	ds := twoClusters(t, 4) // 8 rows
	for _, k := range Kernels {
		for _, ts := range TestSizes {
			_, err := Run(ds, "", TrainOptions{TestSize: ts, Kernel: k, Seed: DefaultSeed})
			var ie *InsufficientDataError
			require.ErrorAs(t, err, &ie, "kernel=%s test_size=%g", k, ts)
			assert.Equal(t, 8, ie.Rows)
		}
	}
}

func TestRunTwentyRowsBinary(t *testing.T) {
	res, err := Run(twoClusters(t, 10), "diagnosis", TrainOptions{TestSize: 0.2, Kernel: RBF, Seed: DefaultSeed})
	require.NoError(t, err)
	assert.Equal(t, 16, res.NTrain)
	assert.Equal(t, 4, res.NTest)
	assert.Equal(t, 20, res.NSamples)
	assert.Equal(t, 2, res.NFeatures)
	assert.Equal(t, []string{"benign", "malignant"}, res.ClassLabels)
	assert.Equal(t, []string{"size", "color"}, res.FeatureColumns)
	assert.Equal(t, RBF, res.Kernel)
	require.Len(t, res.ConfusionMatrix, 2)
	sum := 0
	for _, row := range res.ConfusionMatrix {
		require.Len(t, row, 2)
		for _, v := range row {
			sum += v
		}
	}
	assert.Equal(t, 4, sum)
	// Stratification keeps two of each class in the test split.
	assert.Equal(t, 2, res.ConfusionMatrix[0][0]+res.ConfusionMatrix[0][1])
	for _, v := range []float64{res.Accuracy, res.Precision, res.Recall, res.F1Score} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.Equal(t, 1.0, res.Accuracy)
}

func TestRunAllKernelsMulticlass(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 60
	x1 := make([]float64, n)
	x2 := make([]float64, n)
	y := make([]string, n)
	for i := 0; i < n; i++ {
		c := i % 3
		x1[i] = float64(c)*4 + rng.NormFloat64()*0.3
		x2[i] = float64(c)*-3 + rng.NormFloat64()*0.3
		y[i] = fmt.Sprintf("class-%c", 'a'+c)
	}
	ds, err := dataset.New(
		dataset.NewNumeric("x1", x1),
		dataset.NewNumeric("x2", x2),
		dataset.NewCategorical("y", y, nil),
	)
	require.NoError(t, err)

	for _, k := range Kernels {
		res, err := Run(ds, "y", TrainOptions{TestSize: 0.3, Kernel: k, Seed: DefaultSeed})
		require.NoError(t, err, "kernel %s", k)
		assert.Equal(t, []string{"class-a", "class-b", "class-c"}, res.ClassLabels)
		require.Len(t, res.ConfusionMatrix, 3)
		total := 0
		for _, row := range res.ConfusionMatrix {
			require.Len(t, row, 3)
			for _, v := range row {
				total += v
			}
		}
		assert.Equal(t, res.NTest, total)
		assert.Equal(t, 18, res.NTest)
		assert.Equal(t, 42, res.NTrain)
		if k == Linear || k == RBF {
			assert.Greater(t, res.Accuracy, 0.9, "kernel %s", k)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	ds := twoClusters(t, 15)
	opts := TrainOptions{TestSize: 0.3, Kernel: Poly, Seed: 3}
	a, err := Run(ds, "", opts)
	require.NoError(t, err)
	b, err := Run(ds, "", opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRunNumericLabels(t *testing.T) {
	n := 24
	f := make([]float64, n)
	target := make([]float64, n)
	for i := range f {
		target[i] = float64(i % 2)
		f[i] = target[i]*10 + float64(i)*0.01
	}
	ds, err := dataset.New(dataset.NewNumeric("f", f), dataset.NewNumeric("t", target))
	require.NoError(t, err)
	res, err := Run(ds, "", TrainOptions{TestSize: 0.25, Kernel: Linear, Seed: DefaultSeed})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1"}, res.ClassLabels)
	assert.Equal(t, 6, res.NTest)
}

func TestRunBinaryScoresClassOne(t *testing.T) {
	// Overlapping classes 1 and 2 so the held-out predictions are imperfect.
	rng := rand.New(rand.NewSource(11))
	n := 60
	f := make([]float64, n)
	target := make([]float64, n)
	for i := range f {
		target[i] = float64(1 + i%2)
		f[i] = target[i] + rng.NormFloat64()
	}
	ds, err := dataset.New(dataset.NewNumeric("f", f), dataset.NewNumeric("t", target))
	require.NoError(t, err)
	res, err := Run(ds, "t", TrainOptions{TestSize: 0.5, Kernel: Linear, Seed: DefaultSeed})
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2"}, res.ClassLabels)

	cm := res.ConfusionMatrix
	tp, fp, fn := cm[0][0], cm[1][0], cm[0][1]
	ratio := func(a, b int) float64 {
		if b == 0 {
			return 0
		}
		return float64(a) / float64(b)
	}
	assert.InDelta(t, ratio(tp, tp+fp), res.Precision, 1e-12)
	assert.InDelta(t, ratio(tp, tp+fn), res.Recall, 1e-12)
	assert.InDelta(t, ratio(2*tp, 2*tp+fp+fn), res.F1Score, 1e-12)
}

func TestRunSplitError(t *testing.T) {
	f := make([]float64, 12)
	labels := make([]string, 12)
	for i := range f {
		f[i] = float64(i)
		labels[i] = "common"
	}
	labels[11] = "rare"
	ds, err := dataset.New(dataset.NewNumeric("f", f), dataset.NewCategorical("label", labels, nil))
	require.NoError(t, err)

	_, err = Run(ds, "", TrainOptions{TestSize: 0.2, Kernel: RBF, Seed: DefaultSeed})
	var se *SplitError
	require.ErrorAs(t, err, &se)
}

func TestRunUnknownKernelIsTrainingError(t *testing.T) {
	_, err := Run(twoClusters(t, 10), "", TrainOptions{TestSize: 0.2, Kernel: "cubic"})
	var te *TrainingError
	require.ErrorAs(t, err, &te)
}

func TestTrainRecoversPanics(t *testing.T) {
	prep := &Prepared{Y: make([]float64, 12)}
	_, err := Train(prep, TrainOptions{TestSize: 0.2, Kernel: RBF})
	var te *TrainingError
	require.ErrorAs(t, err, &te)
}

func TestPipelineStates(t *testing.T) {
	p := New()
	assert.Equal(t, StateUnprepared, p.State())

	_, err := p.Evaluate()
	var se *StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StateUnprepared, se.Have)

	require.NoError(t, p.Prepare(twoClusters(t, 10), ""))
	assert.Equal(t, StatePrepared, p.State())
	require.NoError(t, p.Fit(TrainOptions{TestSize: 0.2, Kernel: Linear, Seed: DefaultSeed}))
	assert.Equal(t, StateTrained, p.State())
	res, err := p.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, StateEvaluated, p.State())
	assert.Equal(t, 4, res.NTest)

	failing := New()
	err = failing.Prepare(twoClusters(t, 10), "missing")
	require.Error(t, err)
	assert.Equal(t, StateFailed, failing.State())
	assert.Equal(t, err, failing.Fit(TrainOptions{}))
	assert.Equal(t, err, failing.Err())
}

func TestValidate(t *testing.T) {
	require.ErrorIs(t, Validate(nil), ErrNoData)
	require.ErrorIs(t, Validate(nil), ErrEmptyAfterCleaning)

	one, err := dataset.New(dataset.NewNumeric("a", make([]float64, 20)))
	require.NoError(t, err)
	require.ErrorIs(t, Validate(one), ErrTooFewColumns)
	require.ErrorIs(t, Validate(one), ErrNoFeatureColumns)
	assert.Equal(t, "at least 2 columns required (features + target)", Validate(one).Error())

	var ie *InsufficientDataError
	require.ErrorAs(t, Validate(twoClusters(t, 4)), &ie)
	require.NoError(t, Validate(twoClusters(t, 5)))
}

func TestFeatureColumns(t *testing.T) {
	ds := twoClusters(t, 2)
	assert.Equal(t, []string{"size", "color"}, FeatureColumns(ds, ""))
	assert.Equal(t, []string{"color", "diagnosis"}, FeatureColumns(ds, "size"))
}

func TestParseKernel(t *testing.T) {
	k, err := ParseKernel(" RBF ")
	require.NoError(t, err)
	assert.Equal(t, RBF, k)
	_, err = ParseKernel("tree")
	require.Error(t, err)
}

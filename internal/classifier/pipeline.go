// Package classifier trains and evaluates a support-vector classifier on a
// dataset: cleaning and encoding, a stratified train/test split, feature
// standardisation, SMO training and test-set metrics.
package classifier

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/KaramelBytes/statlens/internal/dataset"
	"gonum.org/v1/gonum/mat"
)

// DefaultSeed seeds the train/test split.
const DefaultSeed int64 = 42

// TestSizes are the accepted test fractions.
var TestSizes = []float64{0.1, 0.2, 0.3, 0.4}

// TrainOptions configures Train.
type TrainOptions struct {
	TestSize float64
	Kernel   Kernel
	Seed     int64
	// C is the soft-margin penalty; 0 selects DefaultC.
	C float64
}

// Result is the evaluation report of one trained model.
type Result struct {
	Accuracy        float64  `json:"accuracy"`
	Precision       float64  `json:"precision"`
	Recall          float64  `json:"recall"`
	F1Score         float64  `json:"f1_score"`
	ConfusionMatrix [][]int  `json:"confusion_matrix"`
	ClassLabels     []string `json:"class_labels"`
	FeatureColumns  []string `json:"feature_columns"`
	TargetColumn    string   `json:"target_column"`
	Kernel          Kernel   `json:"kernel"`
	TestSize        float64  `json:"test_size"`
	NSamples        int      `json:"n_samples"`
	NFeatures       int      `json:"n_features"`
	NTrain          int      `json:"n_train"`
	NTest           int      `json:"n_test"`
}

// State is a pipeline's progress.
type State int

const (
	StateUnprepared State = iota
	StatePrepared
	StateTrained
	StateEvaluated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnprepared:
		return "unprepared"
	case StatePrepared:
		return "prepared"
	case StateTrained:
		return "trained"
	case StateEvaluated:
		return "evaluated"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Pipeline walks one dataset through Prepare, Fit and Evaluate. Any failing
// step moves it to StateFailed, after which every step returns the
// original error. A Pipeline is not safe for concurrent use.
type Pipeline struct {
	state  State
	err    error
	prep   *Prepared
	opts   TrainOptions
	model  *svc
	labels []string
	pos    int
	testX  [][]float64
	testY  []int
	nTrain int
	result *Result
}

// New returns an unprepared pipeline.
func New() *Pipeline { return &Pipeline{} }

// State returns the current state.
func (p *Pipeline) State() State { return p.state }

// Err returns the error that failed the pipeline, if any.
func (p *Pipeline) Err() error { return p.err }

// Prepared returns the cleaned data once Prepare has succeeded.
func (p *Pipeline) Prepared() *Prepared { return p.prep }

func (p *Pipeline) fail(err error) error {
	p.state, p.err = StateFailed, err
	return err
}

func (p *Pipeline) require(op string, want State) error {
	if p.state == StateFailed {
		return p.err
	}
	if p.state != want {
		return &StateError{Op: op, Have: p.state}
	}
	return nil
}

// Prepare cleans ds and encodes it for training.
func (p *Pipeline) Prepare(ds *dataset.Dataset, target string) error {
	if err := p.require("prepare", StateUnprepared); err != nil {
		return err
	}
	prep, err := Prepare(ds, target)
	if err != nil {
		return p.fail(err)
	}
	p.prep, p.state = prep, StatePrepared
	return nil
}

// Fit splits, scales and trains. Panics inside the solver surface as a
// *TrainingError.
func (p *Pipeline) Fit(opts TrainOptions) (err error) {
	if err := p.require("fit", StatePrepared); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = p.fail(&TrainingError{Err: fmt.Errorf("%v", r)})
		}
	}()
	if err := p.fit(opts); err != nil {
		return p.fail(err)
	}
	p.state = StateTrained
	return nil
}

func (p *Pipeline) fit(opts TrainOptions) error {
	prep := p.prep
	n := prep.Rows()
	if n < MinSamples {
		return &InsufficientDataError{Rows: n}
	}
	if opts.Kernel == "" {
		opts.Kernel = RBF
	}
	kind, err := ParseKernel(string(opts.Kernel))
	if err != nil {
		return &TrainingError{Err: err}
	}
	opts.Kernel = kind
	if opts.C == 0 {
		opts.C = DefaultC
	}
	if err := checkFinite(prep.X); err != nil {
		return &TrainingError{Err: err}
	}

	classes := uniqueSorted(prep.Y)
	index := make(map[float64]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	p.pos = positiveClass(classes)
	y := make([]int, n)
	for i, v := range prep.Y {
		y[i] = index[v]
	}
	p.labels = make([]string, len(classes))
	for i, c := range classes {
		if prep.Decoder != nil {
			p.labels[i] = prep.Decoder.Decode(int(c))
		} else {
			p.labels[i] = formatLabel(c)
		}
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	trainIdx, testIdx, err := stratifiedSplit(y, len(classes), opts.TestSize, rng)
	if err != nil {
		return err
	}
	xTrain, yTrain := subset(prep.X, y, trainIdx)
	xTest, yTest := subset(prep.X, y, testIdx)

	scaler := fitScaler(xTrain)
	xTrain = scaler.transform(xTrain)
	xTest = scaler.transform(xTest)

	trainRows := rowViews(xTrain)
	kern := kernelParams{kind: opts.Kernel, gamma: scaleGamma(trainRows), degree: 3}
	model, err := fitSVC(trainRows, yTrain, len(classes), kern, opts.C)
	if err != nil {
		return &TrainingError{Err: err}
	}
	p.opts = opts
	p.model = model
	p.testX, p.testY = rowViews(xTest), yTest
	p.nTrain = len(trainIdx)
	return nil
}

// Evaluate scores the trained model on the held-out split.
func (p *Pipeline) Evaluate() (res *Result, err error) {
	if err := p.require("evaluate", StateTrained); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, p.fail(&TrainingError{Err: fmt.Errorf("%v", r)})
		}
	}()
	pred := p.model.predict(p.testX)
	cm := confusionMatrix(p.testY, pred, len(p.labels))
	s := score(cm, p.pos)
	p.result = &Result{
		Accuracy:        s.Accuracy,
		Precision:       s.Precision,
		Recall:          s.Recall,
		F1Score:         s.F1,
		ConfusionMatrix: cm,
		ClassLabels:     p.labels,
		FeatureColumns:  p.prep.FeatureNames,
		TargetColumn:    p.prep.Target,
		Kernel:          p.opts.Kernel,
		TestSize:        p.opts.TestSize,
		NSamples:        p.prep.Samples,
		NFeatures:       len(p.prep.FeatureNames),
		NTrain:          p.nTrain,
		NTest:           len(p.testY),
	}
	p.state = StateEvaluated
	return p.result, nil
}

// Train fits and evaluates a model on already prepared data.
func Train(prep *Prepared, opts TrainOptions) (*Result, error) {
	p := &Pipeline{state: StatePrepared, prep: prep}
	if err := p.Fit(opts); err != nil {
		return nil, err
	}
	return p.Evaluate()
}

// Run prepares ds and trains on it in one call.
func Run(ds *dataset.Dataset, target string, opts TrainOptions) (*Result, error) {
	p := New()
	if err := p.Prepare(ds, target); err != nil {
		return nil, err
	}
	if err := p.Fit(opts); err != nil {
		return nil, err
	}
	return p.Evaluate()
}

func subset(x *mat.Dense, y []int, idx []int) (*mat.Dense, []int) {
	_, c := x.Dims()
	out := mat.NewDense(len(idx), c, nil)
	ys := make([]int, len(idx))
	for i, r := range idx {
		out.SetRow(i, x.RawRowView(r))
		ys[i] = y[r]
	}
	return out, ys
}

func rowViews(x *mat.Dense) [][]float64 {
	r, _ := x.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = x.RawRowView(i)
	}
	return out
}

func checkFinite(x *mat.Dense) error {
	r, c := x.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := x.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("input contains NaN or infinity at row %d, column %d", i, j)
			}
		}
	}
	return nil
}

package classifier

import (
	"github.com/KaramelBytes/statlens/internal/dataset"
	"gonum.org/v1/gonum/mat"
)

// Prepared is a cleaned, fully numeric feature matrix and target vector.
type Prepared struct {
	// X holds one row per sample in FeatureNames order.
	X            *mat.Dense
	Y            []float64
	FeatureNames []string
	Target       string
	// Decoder is set when the target was text and has been label-encoded.
	Decoder *LabelDecoder
	// Samples is the row count before rows with missing values were dropped.
	Samples int
}

// Rows returns the number of cleaned samples.
func (p *Prepared) Rows() int { return len(p.Y) }

// Prepare drops incomplete rows, picks the target (the last column when
// target is empty) and label-encodes every text column independently.
func Prepare(ds *dataset.Dataset, target string) (*Prepared, error) {
	if ds == nil || ds.Width() == 0 {
		return nil, ErrNoData
	}
	clean := ds.DropMissing()
	if clean.Len() == 0 {
		return nil, ErrEmptyAfterCleaning
	}
	if target == "" {
		names := clean.Names()
		target = names[len(names)-1]
	}
	tcol, ok := clean.Column(target)
	if !ok {
		return nil, &dataset.ColumnNotFoundError{Column: target}
	}
	features := FeatureColumns(clean, target)
	if len(features) == 0 {
		return nil, ErrNoFeatureColumns
	}

	rows := clean.Len()
	data := make([]float64, rows*len(features))
	for j, name := range features {
		c, _ := clean.Column(name)
		vals := encodeColumn(c)
		for i, v := range vals {
			data[i*len(features)+j] = v
		}
	}
	p := &Prepared{
		X:            mat.NewDense(rows, len(features), data),
		FeatureNames: features,
		Target:       target,
		Samples:      ds.Len(),
	}
	if tcol.IsNumeric() {
		p.Y = append([]float64(nil), tcol.Floats...)
	} else {
		p.Y, p.Decoder = fitLabels(tcol.Strings)
	}
	return p, nil
}

// FeatureColumns lists every column except target, in dataset order. An empty
// target means the last column.
func FeatureColumns(ds *dataset.Dataset, target string) []string {
	names := ds.Names()
	if target == "" && len(names) > 0 {
		target = names[len(names)-1]
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

func encodeColumn(c *dataset.Column) []float64 {
	if c.IsNumeric() {
		return c.Floats
	}
	enc, _ := fitLabels(c.Strings)
	return enc
}

// Validate checks that ds can be used for training at all: at least two
// columns and MinSamples rows.
func Validate(ds *dataset.Dataset) error {
	if ds == nil || ds.Len() == 0 {
		return ErrNoData
	}
	if ds.Width() < 2 {
		return ErrTooFewColumns
	}
	if ds.Len() < MinSamples {
		return &InsufficientDataError{Rows: ds.Len()}
	}
	return nil
}

package classifier

import (
	"errors"
	"fmt"
)

// MinSamples is the smallest cleaned dataset the classifier will train on.
const MinSamples = 10

var (
	// ErrEmptyAfterCleaning indicates every row had a missing value.
	ErrEmptyAfterCleaning = errors.New("no data remaining after removing missing values")
	// ErrNoFeatureColumns indicates only the target column is left.
	ErrNoFeatureColumns = errors.New("no feature columns available for training")
)

var (
	// ErrNoData indicates an empty or absent dataset. It matches
	// ErrEmptyAfterCleaning.
	ErrNoData error = &kindError{msg: "no data available", kind: ErrEmptyAfterCleaning}
	// ErrTooFewColumns indicates a dataset cannot hold both features and a
	// target. It matches ErrNoFeatureColumns.
	ErrTooFewColumns error = &kindError{msg: "at least 2 columns required (features + target)", kind: ErrNoFeatureColumns}
)

// kindError is a sentinel with its own message that also matches a broader
// error kind under errors.Is.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// InsufficientDataError indicates fewer than MinSamples usable rows.
type InsufficientDataError struct {
	Rows int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for training (minimum %d samples required, got %d)", MinSamples, e.Rows)
}

// SplitError indicates the stratified train/test split is impossible.
type SplitError struct {
	Reason string
}

func (e *SplitError) Error() string { return fmt.Sprintf("cannot split data: %s", e.Reason) }

// TrainingError wraps any failure while fitting or evaluating the model.
type TrainingError struct {
	Err error
}

func (e *TrainingError) Error() string {
	if e == nil || e.Err == nil {
		return "error training SVM model"
	}
	return fmt.Sprintf("error training SVM model: %v", e.Err)
}

func (e *TrainingError) Unwrap() error { return e.Err }

// StateError reports a pipeline step invoked out of order.
type StateError struct {
	Op   string
	Have State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s: pipeline is %s", e.Op, e.Have)
}

package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// SourceKind selects where a dataset comes from.
type SourceKind string

const (
	SourceRandom SourceKind = "random"
	SourceUpload SourceKind = "upload"
	SourceLocal  SourceKind = "local"
)

// DefaultSampleSize is used for random data when no size is given, and for
// the random fallback of a missing local dataset.
const DefaultSampleSize = 1000

// DefaultLocalDataset is the reference file read by the local source.
const DefaultLocalDataset = "brain_tumor_dataset.csv"

// WarnLocalFallback is reported when the local dataset is absent.
const WarnLocalFallback = "dataset not found, using random data"

// ParseSourceKind validates a data-source selector.
func ParseSourceKind(s string) (SourceKind, error) {
	switch k := SourceKind(strings.ToLower(strings.TrimSpace(s))); k {
	case SourceRandom, SourceUpload, SourceLocal:
		return k, nil
	}
	return "", fmt.Errorf("invalid data source %q (want random, upload or local)", s)
}

// Source describes one load request.
type Source struct {
	Kind       SourceKind
	SampleSize int
	Path       string // uploaded file for SourceUpload
	LocalPath  string // overrides DefaultLocalDataset for SourceLocal
	Seed       int64
}

// Load resolves src into a dataset. Non-fatal conditions are returned as
// warnings; the local source degrades to random data instead of failing.
func Load(ctx context.Context, src Source) (*Dataset, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	seed := src.Seed
	if seed == 0 {
		seed = RandomSeed
	}
	switch src.Kind {
	case SourceRandom:
		n := src.SampleSize
		if n <= 0 {
			n = DefaultSampleSize
		}
		return Random(n, seed), nil, nil
	case SourceUpload:
		if strings.TrimSpace(src.Path) == "" {
			return nil, nil, &LoadError{Err: ErrNoFile}
		}
		ds, err := ReadFile(src.Path)
		if err != nil {
			return nil, nil, err
		}
		return ds, nil, nil
	case SourceLocal:
		p := src.LocalPath
		if p == "" {
			p = DefaultLocalDataset
		}
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Random(DefaultSampleSize, seed), []string{WarnLocalFallback}, nil
			}
			return nil, nil, &LoadError{Path: p, Err: err}
		}
		ds, err := ReadFile(p)
		if err != nil {
			return nil, nil, err
		}
		return ds, nil, nil
	}
	return nil, nil, &LoadError{Err: fmt.Errorf("invalid data source %q", src.Kind)}
}

package dataset

import (
	"path/filepath"
	"strings"
)

// Reader loads one family of tabular file formats.
type Reader interface {
	CanRead(filename string) bool
	Read(path string) (*Dataset, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ReadFile selects a reader by file extension. Failures other than a
// DecodeError are reported as a *LoadError.
func ReadFile(path string) (*Dataset, error) {
	for _, r := range registry {
		if !r.CanRead(path) {
			continue
		}
		ds, err := r.Read(path)
		if err != nil {
			switch err.(type) {
			case *LoadError, *DecodeError:
				return nil, err
			}
			return nil, &LoadError{Path: filepath.Base(path), Err: err}
		}
		return ds, nil
	}
	return nil, &LoadError{Path: filepath.Base(path), Err: ErrUnsupported}
}

func hasExt(filename string, exts ...string) bool {
	name := strings.ToLower(filename)
	for _, e := range exts {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
	Register(xlsReader{})
}

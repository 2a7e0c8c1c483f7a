package dataset

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the inferred storage type of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

// String returns the dtype name shown to users (pandas-style).
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "float64"
	case Categorical:
		return "object"
	default:
		return "unknown"
	}
}

// Column is a named, typed vector. Numeric columns store missing cells as NaN;
// categorical columns keep a parallel missing mask.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
	Missing []bool
}

// NewNumeric builds a numeric column. NaN marks a missing value.
func NewNumeric(name string, values []float64) *Column {
	return &Column{Name: name, Kind: Numeric, Floats: values}
}

// NewCategorical builds a categorical column. A nil mask means no missing cells.
func NewCategorical(name string, values []string, missing []bool) *Column {
	if missing == nil {
		missing = make([]bool, len(values))
	}
	return &Column{Name: name, Kind: Categorical, Strings: values, Missing: missing}
}

// Len returns the number of cells.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// IsNumeric reports whether the column holds floating point values.
func (c *Column) IsNumeric() bool { return c.Kind == Numeric }

// IsMissing reports whether cell i is missing.
func (c *Column) IsMissing(i int) bool {
	if c.Kind == Numeric {
		return math.IsNaN(c.Floats[i])
	}
	return c.Missing[i]
}

// MissingCount counts missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Values returns a copy of the non-missing numeric values in row order.
// It returns nil for categorical columns.
func (c *Column) Values() []float64 {
	if c.Kind != Numeric {
		return nil
	}
	out := make([]float64, 0, len(c.Floats))
	for _, v := range c.Floats {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Cell renders cell i as text; missing cells render as "".
func (c *Column) Cell(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	if c.Kind == Numeric {
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	}
	return c.Strings[i]
}

// Value returns cell i as a JSON-friendly value (float64, string or nil).
func (c *Column) Value(i int) any {
	if c.IsMissing(i) {
		return nil
	}
	if c.Kind == Numeric {
		return c.Floats[i]
	}
	return c.Strings[i]
}

func (c *Column) take(rows []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Kind == Numeric {
		out.Floats = make([]float64, len(rows))
		for i, r := range rows {
			out.Floats[i] = c.Floats[r]
		}
		return out
	}
	out.Strings = make([]string, len(rows))
	out.Missing = make([]bool, len(rows))
	for i, r := range rows {
		out.Strings[i] = c.Strings[r]
		out.Missing[i] = c.Missing[r]
	}
	return out
}

// Dataset is an ordered set of equal-length columns. Callers treat it as
// immutable; operations that filter rows return a new Dataset.
type Dataset struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New validates that all columns have equal length and unique names.
func New(cols ...*Column) (*Dataset, error) {
	d := &Dataset{cols: cols, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if i == 0 {
			d.rows = c.Len()
		} else if c.Len() != d.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.Name, c.Len(), d.rows)
		}
		if _, dup := d.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name)
		}
		d.index[c.Name] = i
	}
	return d, nil
}

// Len returns the row count.
func (d *Dataset) Len() int { return d.rows }

// Width returns the column count.
func (d *Dataset) Width() int { return len(d.cols) }

// Columns returns the columns in order.
func (d *Dataset) Columns() []*Column { return d.cols }

// Names returns column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by name.
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.cols[i], true
}

// NumericColumns returns the numeric columns in order.
func (d *Dataset) NumericColumns() []*Column {
	var out []*Column
	for _, c := range d.cols {
		if c.IsNumeric() {
			out = append(out, c)
		}
	}
	return out
}

// DropMissing returns a copy without any row that has a missing cell in any column.
func (d *Dataset) DropMissing() *Dataset {
	keep := make([]int, 0, d.rows)
	for r := 0; r < d.rows; r++ {
		complete := true
		for _, c := range d.cols {
			if c.IsMissing(r) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, r)
		}
	}
	return d.Take(keep)
}

// Head returns the first n rows.
func (d *Dataset) Head(n int) *Dataset {
	if n > d.rows {
		n = d.rows
	}
	if n < 0 {
		n = 0
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return d.Take(rows)
}

// Take returns a new Dataset made of the given row indices.
func (d *Dataset) Take(rows []int) *Dataset {
	cols := make([]*Column, len(d.cols))
	for i, c := range d.cols {
		cols[i] = c.take(rows)
	}
	out := &Dataset{cols: cols, index: make(map[string]int, len(cols)), rows: len(rows)}
	for k, v := range d.index {
		out.index[k] = v
	}
	return out
}

package dataset

import (
	"fmt"
	"strings"
)

// DefaultPreviewRows is the number of rows shown by Preview.
const DefaultPreviewRows = 100

// Info describes the shape and schema of a dataset.
type Info struct {
	Rows               int               `json:"rows"`
	Cols               int               `json:"cols"`
	Columns            []string          `json:"columns"`
	Dtypes             map[string]string `json:"dtypes"`
	MissingValues      map[string]int    `json:"missing_values"`
	NumericColumns     []string          `json:"numeric_columns"`
	CategoricalColumns []string          `json:"categorical_columns"`
}

// Describe collects Info for ds.
func Describe(ds *Dataset) Info {
	info := Info{
		Rows:          ds.Len(),
		Cols:          ds.Width(),
		Columns:       ds.Names(),
		Dtypes:        make(map[string]string, ds.Width()),
		MissingValues: make(map[string]int, ds.Width()),
	}
	for _, c := range ds.Columns() {
		info.Dtypes[c.Name] = c.Kind.String()
		info.MissingValues[c.Name] = c.MissingCount()
		if c.IsNumeric() {
			info.NumericColumns = append(info.NumericColumns, c.Name)
		} else {
			info.CategoricalColumns = append(info.CategoricalColumns, c.Name)
		}
	}
	return info
}

// Markdown renders the schema as a compact text block.
func (i Info) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATA INFO]\n")
	b.WriteString(fmt.Sprintf("Shape: %d rows x %d columns\n\n", i.Rows, i.Cols))
	b.WriteString("[SCHEMA]\n")
	for _, name := range i.Columns {
		b.WriteString(fmt.Sprintf("- %s: %s (missing %d)\n", name, i.Dtypes[name], i.MissingValues[name]))
	}
	return b.String()
}

// PreviewTable is the head of a dataset in row-major form.
type PreviewTable struct {
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
	TotalRows int      `json:"total_rows"`
}

// Preview returns up to n leading rows; n <= 0 selects DefaultPreviewRows.
func Preview(ds *Dataset, n int) PreviewTable {
	if n <= 0 {
		n = DefaultPreviewRows
	}
	head := ds.Head(n)
	out := PreviewTable{Columns: head.Names(), TotalRows: ds.Len(), Rows: make([][]any, head.Len())}
	cols := head.Columns()
	for r := range out.Rows {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = c.Value(r)
		}
		out.Rows[r] = row
	}
	return out
}

// Markdown renders the preview as a pipe table.
func (p PreviewTable) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[DATA PREVIEW] showing %d of %d rows\n", len(p.Rows), p.TotalRows))
	if len(p.Columns) == 0 {
		return b.String()
	}
	b.WriteString("| " + strings.Join(p.Columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(p.Columns)) + "\n")
	for _, row := range p.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			cells[j] = strings.ReplaceAll(fmt.Sprint(v), "|", "/")
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

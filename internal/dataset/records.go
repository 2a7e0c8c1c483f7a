package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// missingTokens are cell values read as missing, in addition to the empty string.
var missingTokens = map[string]struct{}{
	"NA": {}, "N/A": {}, "n/a": {}, "#N/A": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NULL": {}, "null": {}, "None": {}, "<NA>": {},
}

func isMissingToken(s string) bool {
	if s == "" {
		return true
	}
	_, ok := missingTokens[s]
	return ok
}

// FromRecords builds a Dataset from a header row and string records. A column
// is numeric when every non-missing cell parses as a float; otherwise it
// stays categorical. Short records are padded with missing cells.
func FromRecords(header []string, rows [][]string) (*Dataset, error) {
	names := normalizeHeader(header)
	ncol := len(names)
	cols := make([]*Column, ncol)
	for j, name := range names {
		raw := make([]string, len(rows))
		missing := make([]bool, len(rows))
		numeric := true
		floats := make([]float64, len(rows))
		for i, rec := range rows {
			if len(rec) > ncol {
				return nil, fmt.Errorf("row %d: expected %d fields, saw %d", i+2, ncol, len(rec))
			}
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			raw[i] = v
			if isMissingToken(v) {
				missing[i] = true
				floats[i] = math.NaN()
				continue
			}
			if !numeric {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				numeric = false
				continue
			}
			floats[i] = f
		}
		if numeric {
			cols[j] = NewNumeric(name, floats)
		} else {
			cols[j] = NewCategorical(name, raw, missing)
		}
	}
	return New(cols...)
}

// normalizeHeader trims names, labels blank ones and de-duplicates repeats
// with a numeric suffix ("a", "a.1", ...).
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			base := name
			for k := n + 1; ; k++ {
				candidate := fmt.Sprintf("%s.%d", base, k)
				if _, taken := seen[candidate]; !taken {
					seen[base] = k
					name = candidate
					break
				}
			}
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}

package classifier

import (
	"sort"
	"strconv"
)

// LabelDecoder maps encoded class indices back to the original text labels.
// Classes are sorted, so index i decodes to Classes[i].
type LabelDecoder struct {
	Classes []string `json:"classes"`
}

// Decode returns the label for index i, or its decimal form when out of range.
func (d *LabelDecoder) Decode(i int) string {
	if d == nil || i < 0 || i >= len(d.Classes) {
		return strconv.Itoa(i)
	}
	return d.Classes[i]
}

// Encode returns the index of label, or -1.
func (d *LabelDecoder) Encode(label string) int {
	i := sort.SearchStrings(d.Classes, label)
	if i < len(d.Classes) && d.Classes[i] == label {
		return i
	}
	return -1
}

// fitLabels encodes values as indices into their sorted unique set.
func fitLabels(values []string) ([]float64, *LabelDecoder) {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Strings(classes)
	dec := &LabelDecoder{Classes: classes}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(dec.Encode(v))
	}
	return out, dec
}

// uniqueSorted returns the distinct values of y in ascending order.
func uniqueSorted(y []float64) []float64 {
	seen := make(map[float64]struct{}, len(y))
	var out []float64
	for _, v := range y {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

func formatLabel(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

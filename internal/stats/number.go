package stats

import (
	"encoding/json"
	"math"
	"strconv"
)

// Number is a float64 that survives JSON encoding when it is not finite:
// NaN and infinities are written as the strings "nan", "inf" and "-inf".
type Number float64

// Float returns the value as a float64.
func (n Number) Float() float64 { return float64(n) }

// IsFinite reports whether n is neither NaN nor infinite.
func (n Number) IsFinite() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.IsFinite() {
		return json.Marshal(n.String())
	}
	return json.Marshal(float64(n))
}

func (n *Number) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "inf":
		*n = Number(math.Inf(1))
	case "-inf":
		*n = Number(math.Inf(-1))
	default:
		*n = Number(math.NaN())
	}
	return nil
}

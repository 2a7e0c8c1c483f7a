// Package charts builds Plotly-compatible figure specifications from datasets
// and classifier results. Figures serialise to the {"data", "layout"} JSON
// shape a browser-side renderer consumes directly.
package charts

import "encoding/json"

// Kind identifies which builder produced a figure.
type Kind string

const (
	KindHistogram   Kind = "histogram"
	KindBox         Kind = "box"
	KindQQ          Kind = "qq"
	KindCorrelation Kind = "correlation"
	KindConfusion   Kind = "confusion"
	KindMetrics     Kind = "metrics"
)

// Template is the layout template applied to every figure.
const Template = "plotly_white"

// Figure is one chart: a list of traces and a layout.
type Figure struct {
	Kind   Kind    `json:"-"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single Plotly trace. X, Y and Text hold []float64, []string or
// [][]string depending on the trace type.
type Trace struct {
	Type         string      `json:"type"`
	Name         string      `json:"name,omitempty"`
	Mode         string      `json:"mode,omitempty"`
	X            any         `json:"x,omitempty"`
	Y            any         `json:"y,omitempty"`
	Z            [][]float64 `json:"z,omitempty"`
	Text         any         `json:"text,omitempty"`
	TextTemplate string      `json:"texttemplate,omitempty"`
	TextPosition string      `json:"textposition,omitempty"`
	TextFont     *Font       `json:"textfont,omitempty"`
	NBinsX       int         `json:"nbinsx,omitempty"`
	Marker       *Marker     `json:"marker,omitempty"`
	Line         *Line       `json:"line,omitempty"`
	ColorScale   string      `json:"colorscale,omitempty"`
	ZMid         *float64    `json:"zmid,omitempty"`
	HoverOnGaps  *bool       `json:"hoverongaps,omitempty"`
}

// Marker styles points and bars. Color is a single color or one per bar.
type Marker struct {
	Color any `json:"color,omitempty"`
	Size  int `json:"size,omitempty"`
}

type Line struct {
	Color string `json:"color,omitempty"`
	Width int    `json:"width,omitempty"`
}

type Font struct {
	Size int `json:"size,omitempty"`
}

// Layout is the subset of Plotly layout attributes the builders set.
type Layout struct {
	Title      Text   `json:"title"`
	XAxis      *Axis  `json:"xaxis,omitempty"`
	YAxis      *Axis  `json:"yaxis,omitempty"`
	Template   string `json:"template,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	ShowLegend *bool  `json:"showlegend,omitempty"`
}

type Axis struct {
	Title Text      `json:"title"`
	Range []float64 `json:"range,omitempty"`
}

// Text is a Plotly title object.
type Text struct {
	Text string `json:"text"`
}

// JSON encodes the figure.
func (f *Figure) JSON() ([]byte, error) { return json.Marshal(f) }

func newLayout(title, xTitle, yTitle string) Layout {
	l := Layout{Title: Text{title}, Template: Template}
	if xTitle != "" {
		l.XAxis = &Axis{Title: Text{xTitle}}
	}
	if yTitle != "" {
		l.YAxis = &Axis{Title: Text{yTitle}}
	}
	return l
}

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

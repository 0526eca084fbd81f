package funcplotter

import (
	"encoding/json"
	"math"
)

// ============================================================
// JSON Serialization
// ============================================================

// ToJSON encodes an expression tree, e.g.
// {"type":"add","terms":[{"type":"sym","name":"x"},{"type":"num","value":"1"}]}.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// floats encodes NaN and ±Inf as null, which encoding/json rejects
// otherwise.
type floats []float64

func (fs floats) MarshalJSON() ([]byte, error) {
	out := make([]interface{}, len(fs))
	for i, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			out[i] = nil
		} else {
			out[i] = f
		}
	}
	return json.Marshal(out)
}

type diagnosticJSON struct {
	Title    string `json:"title"`
	Text     string `json:"text"`
	Severity string `json:"severity"`
}

type axesJSON struct {
	XLabel  string      `json:"x_label"`
	YLabel  string      `json:"y_label"`
	Clamped bool        `json:"clamped"`
	Bounds  *[2]float64 `json:"bounds,omitempty"`
}

type responseJSON struct {
	Expr        string                 `json:"expr,omitempty"`
	Tree        map[string]interface{} `json:"tree,omitempty"`
	Variables   []string               `json:"variables"`
	Valid       bool                   `json:"valid"`
	RangeValid  bool                   `json:"range_valid"`
	X           floats                 `json:"x"`
	Y           floats                 `json:"y"`
	Axes        *axesJSON              `json:"axes,omitempty"`
	Diagnostics []diagnosticJSON       `json:"diagnostics"`
}

// MarshalJSON encodes the response for machine consumers. Gaps in the
// samples are null.
func (r Response) MarshalJSON() ([]byte, error) {
	out := responseJSON{
		Variables:   []string(r.Vars),
		Valid:       r.Valid,
		RangeValid:  r.RangeValid,
		X:           floats(r.X),
		Y:           floats(r.Y),
		Diagnostics: make([]diagnosticJSON, len(r.Diagnostics)),
	}
	if out.Variables == nil {
		out.Variables = []string{}
	}
	if r.Expr != nil {
		out.Expr = r.Expr.String()
		out.Tree = r.Expr.toJSON()
	}
	if r.Drawable() {
		ax := &axesJSON{XLabel: r.Axes.XLabel, YLabel: r.Axes.YLabel, Clamped: r.Axes.Clamped}
		if ax.Clamped {
			lo, hi := r.Axes.Bounds()
			ax.Bounds = &[2]float64{lo, hi}
		}
		out.Axes = ax
	}
	for i, d := range r.Diagnostics {
		out.Diagnostics[i] = diagnosticJSON{Title: d.Title, Text: d.Text, Severity: d.Severity.String()}
	}
	return json.Marshal(out)
}

package funcplotter

// AxisClamp is the half-width of the default viewport.
const AxisClamp = 10

// AxisSpec tells the renderer how to label and bound the plot.
type AxisSpec struct {
	XLabel string
	YLabel string
	// Clamped is true when both axes must be limited to
	// [-AxisClamp, AxisClamp]; otherwise the renderer autoscales.
	Clamped bool
}

// Bounds returns the clamped viewport. It is meaningful only when Clamped.
func (a AxisSpec) Bounds() (min, max float64) { return -AxisClamp, AxisClamp }

// Axes picks axis labels from the sorted variables and decides the
// viewport. The viewport is clamped unless the range reaches past both
// ±AxisClamp, i.e. whenever Start > -10 or End < 10.
func Axes(vars VariableSet, r Range) AxisSpec {
	spec := AxisSpec{XLabel: "x", YLabel: "y"}
	switch len(vars) {
	case 2:
		spec.XLabel, spec.YLabel = vars[0], vars[1]
	case 1:
		spec.XLabel = vars[0]
	}
	spec.Clamped = r.Start > -AxisClamp || r.End < AxisClamp
	return spec
}

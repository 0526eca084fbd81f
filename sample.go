package funcplotter

import (
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Sampler
// ============================================================

const (
	// FunctionSamples is the number of points taken for a function of one
	// variable. The step is (End-Start)/FunctionSamples, so End itself is
	// never sampled.
	FunctionSamples = 2051
	// RelationSteps is the number of intervals for a two-variable relation.
	// Both endpoints are sampled, giving RelationSteps+1 points.
	RelationSteps = 100
)

// Range is the requested x interval.
type Range struct {
	Start, End float64
}

// Valid reports whether sampling may proceed. Only Start > End is
// rejected, so NaN bounds pass and sample to NaN.
func (r Range) Valid() bool { return !(r.Start > r.End) }

// SampleSet holds plot coordinates. NaN in Y marks a gap.
type SampleSet struct {
	X []float64
	Y []float64
}

// Result is the outcome of one Sample call.
type Result struct {
	SampleSet
	Valid      bool
	RangeValid bool
	Expr       Expr
}

// Sample turns a validated expression into coordinates over r. raw is the
// text the expression was parsed from; constants are read from it.
//
// With zero variables X is [Start, End] and Y repeats the constant. With
// one variable FunctionSamples points are evaluated and any complex or
// undefined value becomes NaN. With two variables the expression is taken
// as expr = 0 and solved for the lexicographically second variable at
// RelationSteps+1 values of the first; as soon as one x has two or more
// roots the relation is rejected and sampling stops, leaving X one element
// longer than Y.
//
// Arrays are empty unless both v.Valid and the range are valid.
func Sample(v Validation, r Range, raw string, n Notifier) Result {
	n = notifierOrDiscard(n)
	res := Result{
		SampleSet:  SampleSet{X: []float64{}, Y: []float64{}},
		Valid:      v.Valid,
		RangeValid: r.Valid(),
		Expr:       v.Expr,
	}
	if !res.RangeValid {
		n.Notify(reject(MsgRange, ErrRange))
	}
	if !res.Valid || !res.RangeValid || v.Expr == nil {
		return res
	}

	vars := Variables(v.Expr)
	switch len(vars) {
	case 0:
		res.SampleSet = sampleConstant(v.Expr, r, raw)
	case 1:
		res.SampleSet = sampleFunction(v.Expr, vars[0], r)
	case 2:
		set, ok := sampleRelation(v.Expr, vars[0], vars[1], r)
		res.SampleSet = set
		if !ok {
			n.Notify(reject(MsgGeometry, ErrGeometry))
			res.Valid = false
		}
	}
	return res
}

func sampleConstant(e Expr, r Range, raw string) SampleSet {
	var y float64
	switch raw {
	case "pi":
		y = math.Pi
	case "E":
		y = math.E
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			f = EvalAt(e, nil)
		}
		y = f
	}
	return SampleSet{X: []float64{r.Start, r.End}, Y: []float64{y, y}}
}

func sampleFunction(e Expr, name string, r Range) SampleSet {
	set := SampleSet{
		X: make([]float64, FunctionSamples),
		Y: make([]float64, FunctionSamples),
	}
	step := (r.End - r.Start) / FunctionSamples
	env := Env{}
	for i := 0; i < FunctionSamples; i++ {
		x := r.Start + step*float64(i)
		env[name] = complex(x, 0)
		set.X[i] = x
		set.Y[i] = EvalAt(e, env)
	}
	return set
}

// sampleRelation reports ok=false when some x has more than one root.
func sampleRelation(e Expr, xName, yName string, r Range) (SampleSet, bool) {
	set := SampleSet{
		X: make([]float64, 0, RelationSteps+1),
		Y: make([]float64, 0, RelationSteps+1),
	}
	step := (r.End - r.Start) / RelationSteps
	env := Env{}
	for i := 0; i <= RelationSteps; i++ {
		x := r.Start + step*float64(i)
		set.X = append(set.X, x)
		env[xName] = complex(x, 0)

		roots := Solve(e, yName, env).Roots
		switch {
		case len(roots) >= 2:
			return set, false
		case len(roots) == 0:
			set.Y = append(set.Y, math.NaN())
		default:
			set.Y = append(set.Y, realValue(roots[0], true))
		}
	}
	return set, true
}

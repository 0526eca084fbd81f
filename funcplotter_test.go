package funcplotter_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"math/cmplx"
	"strings"
	"sync"
	"testing"

	funcplotter "github.com/Zaituny/FuncPlotter"
)

func full() funcplotter.Range { return funcplotter.Range{Start: -10, End: 10} }

// ============================================================
// Expression kernel
// ============================================================

func TestNum_Rational(t *testing.T) {
	if s := funcplotter.F(2, 4).String(); s != "1/2" {
		t.Errorf("want 1/2, got %s", s)
	}
	if s := funcplotter.N(-7).String(); s != "-7" {
		t.Errorf("want -7, got %s", s)
	}
}

func TestAdd_LikeTerms(t *testing.T) {
	x := funcplotter.S("x")
	cases := []struct {
		expr funcplotter.Expr
		want string
	}{
		{funcplotter.AddOf(x, funcplotter.N(3)), "x + 3"},
		{funcplotter.AddOf(x, x), "2*x"},
		{funcplotter.AddOf(x, x, x, funcplotter.N(2)), "3*x + 2"},
		{funcplotter.AddOf(funcplotter.N(1), funcplotter.N(-1)), "0"},
		{funcplotter.AddOf(x, funcplotter.MulOf(funcplotter.N(-1), x)), "0"},
	}
	for _, c := range cases {
		if got := c.expr.String(); got != c.want {
			t.Errorf("got %s, want %s", got, c.want)
		}
	}
}

func TestMul_MergesPowers(t *testing.T) {
	x := funcplotter.S("x")
	if s := funcplotter.MulOf(x, x).String(); s != "x^2" {
		t.Errorf("x*x = %s", s)
	}
	if s := funcplotter.MulOf(x, funcplotter.PowOf(x, funcplotter.N(-1))).String(); s != "1" {
		t.Errorf("x/x = %s", s)
	}
	if s := funcplotter.MulOf(funcplotter.N(0), x).String(); s != "0" {
		t.Errorf("0*x = %s", s)
	}
}

func TestPow_ExactNumbers(t *testing.T) {
	if s := funcplotter.PowOf(funcplotter.N(2), funcplotter.N(10)).String(); s != "1024" {
		t.Errorf("2^10 = %s", s)
	}
	if s := funcplotter.PowOf(funcplotter.N(2), funcplotter.N(-2)).String(); s != "1/4" {
		t.Errorf("2^-2 = %s", s)
	}
	// 0^-1 stays symbolic and evaluates to a gap.
	z := funcplotter.PowOf(funcplotter.N(0), funcplotter.N(-1))
	if !math.IsNaN(funcplotter.EvalAt(z, nil)) {
		t.Errorf("0^-1 should evaluate to NaN, got %v", funcplotter.EvalAt(z, nil))
	}
}

func TestPow_HugeIntegerExponentStaysSymbolic(t *testing.T) {
	// 2^64 does not fit an int64 and must not wrap to 0.
	e := funcplotter.MustParse("2^18446744073709551616")
	if s := e.String(); s != "2^18446744073709551616" {
		t.Errorf("got %s", s)
	}
	if !math.IsNaN(funcplotter.EvalAt(e, nil)) {
		t.Errorf("2^(2^64) should overflow to NaN, got %v", funcplotter.EvalAt(e, nil))
	}
}

func TestSub(t *testing.T) {
	quad := funcplotter.MustParse("x^2 - 4*x + 4")
	if s := funcplotter.Sub(quad, "x", funcplotter.N(5)).String(); s != "9" {
		t.Errorf("quad(5) = %s", s)
	}
	if s := funcplotter.Sub(quad, "y", funcplotter.N(5)).String(); s != quad.String() {
		t.Errorf("substituting an absent symbol changed %s to %s", quad, s)
	}
}

func TestDiff(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"x^2", "2*x"},
		{"sin(x)", "cos(x)"},
		{"exp(x)", "exp(x)"},
		{"5", "0"},
		{"y", "0"},
		{"abs(x)", "sign(x)"},
	}
	for _, c := range cases {
		got := funcplotter.Diff(funcplotter.MustParse(c.in), "x").String()
		if got != c.want {
			t.Errorf("d/dx %s = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestDiff_Numeric(t *testing.T) {
	// d/dx x*sin(x) = sin(x) + x*cos(x)
	d := funcplotter.Diff(funcplotter.MustParse("x*sin(x)"), "x")
	x := 0.7
	want := math.Sin(x) + x*math.Cos(x)
	got := funcplotter.EvalAt(d, funcplotter.Env{"x": complex(x, 0)})
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVariables(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"pi", "{}"},
		{"x^2", "{x}"},
		{"y + x", "{x, y}"},
		{"b*a + sin(c)", "{a, b, c}"},
	}
	for _, c := range cases {
		got := funcplotter.Variables(funcplotter.MustParse(c.in)).String()
		if got != c.want {
			t.Errorf("Variables(%s) = %s, want %s", c.in, got, c.want)
		}
	}
	if len(funcplotter.Variables(nil)) != 0 {
		t.Error("Variables(nil) should be empty")
	}
}

// ============================================================
// Evaluation
// ============================================================

func TestEvalAt_RealDomain(t *testing.T) {
	cases := []struct {
		in   string
		x    float64
		want float64
		nan  bool
	}{
		{"sqrt(x)", 4, 2, false},
		{"sqrt(x)", -1, 0, true},
		{"log(x)", -1, 0, true},
		{"1/x", 0, 0, true},
		{"x^3", -2, -8, false},
		{"asin(x)", 2, 0, true},
		{"abs(x)", -3, 3, false},
		{"floor(x)", 2.5, 2, false},
	}
	for _, c := range cases {
		got := funcplotter.EvalAt(funcplotter.MustParse(c.in), funcplotter.Env{"x": complex(c.x, 0)})
		if c.nan {
			if !math.IsNaN(got) {
				t.Errorf("%s at %v = %v, want NaN", c.in, c.x, got)
			}
			continue
		}
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("%s at %v = %v, want %v", c.in, c.x, got, c.want)
		}
	}
}

func TestEvalAt_Unbound(t *testing.T) {
	if !math.IsNaN(funcplotter.EvalAt(funcplotter.MustParse("x + y"), funcplotter.Env{"x": 1})) {
		t.Error("unbound symbol should evaluate to NaN")
	}
}

// ============================================================
// Parser
// ============================================================

func TestParse_Accepts(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"x**2", "x^2"},
		{"2*x**2", "2*x^2"},
		{"-2^2", "-4"},
		{"2^3^2", "512"},
		{"(x+1)*(x+1)", "(x + 1)^2"},
		{"ln(E)", "1"},
		{"  x  ", "x"},
		{"1.5", "3/2"},
	}
	for _, c := range cases {
		e, err := funcplotter.Parse(c.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", c.in, err)
			continue
		}
		if got := e.String(); got != c.want {
			t.Errorf("Parse(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"2x", "x y", "sin", "sin(x", "foo(x)", "x +", "", "   ", "x $ 1", ")"} {
		_, err := funcplotter.Parse(in)
		if err == nil {
			t.Errorf("Parse(%q) should fail", in)
			continue
		}
		if !errors.Is(err, funcplotter.ErrParse) {
			t.Errorf("Parse(%q) error %v does not wrap ErrParse", in, err)
		}
		var pe *funcplotter.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Parse(%q) error is %T, want *ParseError", in, err)
		}
	}
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on bad input")
		}
	}()
	funcplotter.MustParse("(")
}

// ============================================================
// Solver
// ============================================================

func TestPolyCoeffs(t *testing.T) {
	coeffs, ok := funcplotter.PolyCoeffs(funcplotter.MustParse("(y - x)^2"), "y", funcplotter.Env{"x": 3})
	if !ok {
		t.Fatal("expected a polynomial")
	}
	want := []complex128{9, -6, 1}
	if len(coeffs) != len(want) {
		t.Fatalf("coeffs = %v", coeffs)
	}
	for i := range want {
		if coeffs[i] != want[i] {
			t.Errorf("coeffs[%d] = %v, want %v", i, coeffs[i], want[i])
		}
	}

	for _, in := range []string{"sin(y)", "2^y", "1/y", "y^(1/2)", "y^18446744073709551617 - 2", "y^65"} {
		if _, ok := funcplotter.PolyCoeffs(funcplotter.MustParse(in), "y", nil); ok {
			t.Errorf("%s should not be a polynomial in y", in)
		}
	}
}

func TestSolveQuadratic(t *testing.T) {
	if r := funcplotter.SolveQuadratic(1, -2, 1); len(r) != 1 || r[0] != 1 {
		t.Errorf("double root: %v", r)
	}
	if r := funcplotter.SolveQuadratic(1, 0, -4); len(r) != 2 {
		t.Errorf("two real roots: %v", r)
	}
	r := funcplotter.SolveQuadratic(1, 0, 1)
	if len(r) != 2 || imag(r[0]) == 0 {
		t.Errorf("complex pair: %v", r)
	}
}

func TestSolve_Polynomial(t *testing.T) {
	cases := []struct {
		in    string
		x     float64
		roots int
	}{
		{"y - x^2", 2, 1},
		{"x^2 + y^2 - 1", 0, 2},
		{"x^2 + y^2 - 1", 5, 2},
		{"y^3 - x", 1, 3},
		{"(y - 1)^3", 0, 1},
		{"x", 1, 0},
	}
	for _, c := range cases {
		res := funcplotter.Solve(funcplotter.MustParse(c.in), "y", funcplotter.Env{"x": complex(c.x, 0)})
		if !res.Polynomial {
			t.Errorf("%s: expected polynomial path", c.in)
		}
		if len(res.Roots) != c.roots {
			t.Errorf("%s at x=%v: %d roots %v, want %d", c.in, c.x, len(res.Roots), res.Roots, c.roots)
		}
	}
}

func TestSolve_DurandKerner(t *testing.T) {
	// (y-1)(y-2)(y-3)(y-4)
	coeffs := []complex128{24, -50, 35, -10, 1}
	roots := funcplotter.SolvePolynomial(coeffs)
	if len(roots) != 4 {
		t.Fatalf("roots = %v", roots)
	}
	for _, want := range []float64{1, 2, 3, 4} {
		found := false
		for _, r := range roots {
			if cmplx.Abs(r-complex(want, 0)) < 1e-8 {
				found = true
			}
		}
		if !found {
			t.Errorf("missing root %v in %v", want, roots)
		}
	}
}

func TestSolve_HugeExponentIsNotLinear(t *testing.T) {
	res := funcplotter.Solve(funcplotter.MustParse("y^18446744073709551617 - 2"), "y", nil)
	if res.Polynomial {
		t.Errorf("y^(2^64+1) - 2 took the polynomial path with roots %v", res.Roots)
	}
}

func TestSolve_Newton(t *testing.T) {
	res := funcplotter.Solve(funcplotter.MustParse("exp(y) - 2"), "y", nil)
	if res.Polynomial {
		t.Error("exp(y) - 2 should not take the polynomial path")
	}
	if len(res.Roots) != 1 || math.Abs(real(res.Roots[0])-math.Ln2) > 1e-8 {
		t.Errorf("roots = %v, want [ln 2]", res.Roots)
	}

	if r := funcplotter.SolveNewton(funcplotter.MustParse("sin(y) + 2"), "y", nil, 0, 0, 0); len(r) != 0 {
		t.Errorf("sin(y)+2 has no real roots, got %v", r)
	}
}

// ============================================================
// Validator
// ============================================================

func TestValidate_Diagnostics(t *testing.T) {
	cases := []struct {
		in       string
		valid    bool
		parsed   bool
		messages []string
	}{
		{"x^2", true, true, nil},
		{"x", true, true, nil},
		{"E", true, true, nil},
		{"pi", false, true, []string{funcplotter.MsgBareLetters}},
		{"abc", false, true, []string{funcplotter.MsgBareLetters}},
		{"x=1", false, false, []string{funcplotter.MsgEquation, funcplotter.MsgParse}},
		{"", false, false, []string{funcplotter.MsgEmpty}},
		{"sin(x", false, false, []string{funcplotter.MsgParse}},
		{"x+y+z", false, true, []string{funcplotter.MsgDimension}},
		{"2x", false, false, []string{funcplotter.MsgParse}},
	}
	for _, c := range cases {
		var diags funcplotter.Diagnostics
		v := funcplotter.Validate(c.in, &diags)
		if v.Valid != c.valid {
			t.Errorf("Validate(%q).Valid = %v, want %v", c.in, v.Valid, c.valid)
		}
		if (v.Expr != nil) != c.parsed {
			t.Errorf("Validate(%q).Expr = %v, parsed want %v", c.in, v.Expr, c.parsed)
		}
		if len(diags) != len(c.messages) {
			t.Errorf("Validate(%q): %d diagnostics %v, want %d", c.in, len(diags), diags, len(c.messages))
			continue
		}
		for i, d := range diags {
			if d.Text != c.messages[i] || d.Title != "Invalid Input" || d.Severity != funcplotter.SeverityError {
				t.Errorf("Validate(%q) diag %d = %+v", c.in, i, d)
			}
		}
	}
}

func TestValidate_SentinelErrors(t *testing.T) {
	var diags funcplotter.Diagnostics
	funcplotter.Validate("a+b+c+d", &diags)
	if !diags.Has(funcplotter.ErrDimension) {
		t.Errorf("expected ErrDimension in %v", diags)
	}
	if !errors.Is(diags.Err(), funcplotter.ErrDimension) {
		t.Errorf("Err() = %v", diags.Err())
	}

	diags = nil
	funcplotter.Validate("x=", &diags)
	if !diags.Has(funcplotter.ErrInputShape) || !diags.Has(funcplotter.ErrParse) {
		t.Errorf("expected ErrInputShape and ErrParse in %v", diags)
	}

	var ok funcplotter.Diagnostics
	if ok.Err() != nil {
		t.Error("empty Diagnostics should have nil Err")
	}
}

func TestValidate_NilNotifier(t *testing.T) {
	v := funcplotter.Validate("", nil)
	if v.Valid || v.Expr != nil {
		t.Errorf("got %+v", v)
	}
}

func TestValidate_NotifierFunc(t *testing.T) {
	var titles []string
	n := funcplotter.NotifierFunc(func(d funcplotter.Diagnostic) { titles = append(titles, d.Title) })
	funcplotter.Validate("x=1", n)
	if len(titles) != 2 {
		t.Errorf("titles = %v", titles)
	}
}

func TestHelp(t *testing.T) {
	h := funcplotter.Help()
	if h.Title != "Help Dialog" || h.Severity != funcplotter.SeverityInfo {
		t.Errorf("help = %+v", h)
	}
	if !strings.Contains(h.Text, "x+y as x+y=0") {
		t.Error("help text should explain two-variable input")
	}
	if funcplotter.SeverityInfo.String() != "info" || funcplotter.SeverityError.String() != "error" {
		t.Error("severity names")
	}
}

// ============================================================
// Sampler
// ============================================================

func sample(t *testing.T, text string, r funcplotter.Range) (funcplotter.Result, funcplotter.Diagnostics) {
	t.Helper()
	var diags funcplotter.Diagnostics
	v := funcplotter.Validate(text, &diags)
	return funcplotter.Sample(v, r, text, &diags), diags
}

// sampleParsed skips validation, as a caller holding a parsed expression
// would.
func sampleParsed(text string, r funcplotter.Range) funcplotter.Result {
	v := funcplotter.Validation{Expr: funcplotter.MustParse(text), Valid: true}
	return funcplotter.Sample(v, r, text, nil)
}

func TestSample_Constant(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"pi", math.Pi},
		{"E", math.E},
		{"3", 3},
		{" 2.5 ", 2.5},
		{"2*3", 6},
		{"x - x", 0},
	}
	for _, c := range cases {
		res := sampleParsed(c.in, funcplotter.Range{Start: -3, End: 4})
		if !res.Valid || len(res.X) != 2 || len(res.Y) != 2 {
			t.Errorf("%q: %+v", c.in, res)
			continue
		}
		if res.X[0] != -3 || res.X[1] != 4 {
			t.Errorf("%q: X = %v", c.in, res.X)
		}
		if res.Y[0] != c.want || res.Y[1] != c.want {
			t.Errorf("%q: Y = %v, want %v", c.in, res.Y, c.want)
		}
	}
}

func TestSample_ValidatedPiIsRejected(t *testing.T) {
	res, diags := sample(t, "pi", full())
	if res.Valid || len(res.X) != 0 || !diags.Has(funcplotter.ErrInputShape) {
		t.Errorf("res = %+v diags = %v", res, diags)
	}
	if res := sampleParsed("2*pi", full()); !res.Valid || math.Abs(res.Y[0]-2*math.Pi) > 1e-12 {
		t.Errorf("2*pi = %v", res.Y)
	}
}

func TestSample_Identity(t *testing.T) {
	res := sampleParsed("x", funcplotter.Range{Start: 0, End: 1})
	if len(res.X) != funcplotter.FunctionSamples {
		t.Fatalf("len = %d", len(res.X))
	}
	for i := range res.X {
		if res.X[i] != res.Y[i] {
			t.Fatalf("X[%d] = %v, Y[%d] = %v", i, res.X[i], i, res.Y[i])
		}
	}
}

func TestSample_Function(t *testing.T) {
	res, diags := sample(t, "x^2", full())
	if len(diags) != 0 || !res.Valid || !res.RangeValid {
		t.Fatalf("res = %+v diags = %v", res.Valid, diags)
	}
	if len(res.X) != funcplotter.FunctionSamples || len(res.Y) != funcplotter.FunctionSamples {
		t.Fatalf("len = %d/%d", len(res.X), len(res.Y))
	}
	step := 20.0 / funcplotter.FunctionSamples
	if res.X[0] != -10 || math.Abs(res.X[1]-(-10+step)) > 1e-12 {
		t.Errorf("X starts %v %v", res.X[0], res.X[1])
	}
	last := res.X[len(res.X)-1]
	if last >= 10 || math.Abs(last-(10-step)) > 1e-9 {
		t.Errorf("last X = %v, want End excluded", last)
	}
	for i, x := range res.X {
		if math.Abs(res.Y[i]-x*x) > 1e-9 {
			t.Fatalf("Y[%d] = %v, want %v", i, res.Y[i], x*x)
		}
	}
}

func TestSample_FunctionGaps(t *testing.T) {
	res, _ := sample(t, "sqrt(x)", funcplotter.Range{Start: -1, End: 1})
	if !res.Valid {
		t.Fatal("sqrt(x) should be valid")
	}
	for i, x := range res.X {
		if x < 0 && !math.IsNaN(res.Y[i]) {
			t.Fatalf("sqrt(%v) = %v, want NaN", x, res.Y[i])
		}
		if x >= 0 && math.IsNaN(res.Y[i]) {
			t.Fatalf("sqrt(%v) should be defined", x)
		}
	}
}

func TestSample_Relation(t *testing.T) {
	res, diags := sample(t, "(y - x)^2", full())
	if len(diags) != 0 || !res.Valid {
		t.Fatalf("diags = %v", diags)
	}
	if len(res.X) != funcplotter.RelationSteps+1 || len(res.Y) != funcplotter.RelationSteps+1 {
		t.Fatalf("len = %d/%d", len(res.X), len(res.Y))
	}
	if res.X[0] != -10 || res.X[len(res.X)-1] != 10 {
		t.Errorf("X endpoints %v %v", res.X[0], res.X[len(res.X)-1])
	}
	for i, x := range res.X {
		if math.Abs(res.Y[i]-x) > 1e-9 {
			t.Fatalf("Y[%d] = %v, want %v", i, res.Y[i], x)
		}
	}
}

func TestSample_RelationSecondVariable(t *testing.T) {
	// b is solved for at values of a, whatever order they appear in.
	res, _ := sample(t, "b - 2*a", funcplotter.Range{Start: 0, End: 1})
	if !res.Valid || len(res.Y) != funcplotter.RelationSteps+1 {
		t.Fatalf("res = %+v", res.Valid)
	}
	if math.Abs(res.Y[len(res.Y)-1]-2) > 1e-12 {
		t.Errorf("b at a=1 = %v", res.Y[len(res.Y)-1])
	}
}

func TestSample_RelationComplexRootIsGap(t *testing.T) {
	// sqrt(x) is imaginary for x < 0, so the single root is complex there.
	res, _ := sample(t, "y - sqrt(x)", funcplotter.Range{Start: -1, End: 1})
	if !res.Valid {
		t.Fatal("expected valid")
	}
	if !math.IsNaN(res.Y[0]) {
		t.Errorf("Y at x=-1 = %v, want NaN", res.Y[0])
	}
	if math.Abs(res.Y[len(res.Y)-1]-1) > 1e-12 {
		t.Errorf("Y at x=1 = %v, want 1", res.Y[len(res.Y)-1])
	}
}

func TestSample_RelationRootFarOutside(t *testing.T) {
	// log(y) = x has the single root e^x, which passes 1000 at x ~ 6.9.
	res, diags := sample(t, "log(y) - x", funcplotter.Range{Start: 0, End: 10})
	if !res.Valid || len(diags) != 0 {
		t.Fatalf("valid = %v diags = %v", res.Valid, diags)
	}
	if len(res.X) != funcplotter.RelationSteps+1 || len(res.Y) != funcplotter.RelationSteps+1 {
		t.Fatalf("len = %d/%d", len(res.X), len(res.Y))
	}
	for i, x := range res.X {
		want := math.Exp(x)
		if math.IsNaN(res.Y[i]) || math.Abs(res.Y[i]-want) > 1e-8*want {
			t.Fatalf("Y at x=%v = %v, want %v", x, res.Y[i], want)
		}
	}
}

func TestSample_RelationFlatTail(t *testing.T) {
	// exp(-y) is nearly zero for large y; that tail is not a root of
	// x - exp(-y), whose only root is -ln(x).
	res, diags := sample(t, "x - exp(-y)", funcplotter.Range{Start: 1e-12, End: 1})
	if !res.Valid || len(diags) != 0 {
		t.Fatalf("valid = %v diags = %v", res.Valid, diags)
	}
	if len(res.X) != funcplotter.RelationSteps+1 || len(res.Y) != funcplotter.RelationSteps+1 {
		t.Fatalf("len = %d/%d", len(res.X), len(res.Y))
	}
	for i, x := range res.X {
		want := -math.Log(x)
		if math.IsNaN(res.Y[i]) || math.Abs(res.Y[i]-want) > 1e-8*math.Max(1, math.Abs(want)) {
			t.Fatalf("Y at x=%v = %v, want %v", x, res.Y[i], want)
		}
	}
}

func TestSolveNewton_FlatTailOnly(t *testing.T) {
	// exp(-y) never reaches zero, even where it underflows to 0.
	r := funcplotter.SolveNewton(funcplotter.MustParse("exp(-y)"), "y", nil, 0, 0, 0)
	if len(r) != 0 {
		t.Errorf("exp(-y) has no roots, got %v", r)
	}
}

func TestSample_NotAFunction(t *testing.T) {
	res, diags := sample(t, "x^2 + y^2 - 1", full())
	if res.Valid {
		t.Fatal("circle should fail the vertical line test")
	}
	if len(res.X) != 1 || len(res.Y) != 0 {
		t.Errorf("len = %d/%d, want 1/0", len(res.X), len(res.Y))
	}
	if !diags.Has(funcplotter.ErrGeometry) || diags[len(diags)-1].Text != funcplotter.MsgGeometry {
		t.Errorf("diags = %v", diags)
	}
}

func TestSample_NotAFunctionLater(t *testing.T) {
	// y^2 = x has no real root for x < 0 but complex roots still count.
	res, _ := sample(t, "y^2 - x", funcplotter.Range{Start: 0, End: 1})
	if res.Valid {
		t.Fatal("y^2 - x should be rejected")
	}
	// x = 0 gives a double root, x = 0.01 gives two.
	if len(res.X) != 2 || len(res.Y) != 1 {
		t.Errorf("len = %d/%d, want 2/1", len(res.X), len(res.Y))
	}
}

func TestSample_InvalidRange(t *testing.T) {
	res, diags := sample(t, "x", funcplotter.Range{Start: 2, End: 1})
	if res.RangeValid || len(res.X) != 0 || len(res.Y) != 0 {
		t.Errorf("res = %+v", res)
	}
	if len(diags) != 1 || diags[0].Text != funcplotter.MsgRange || !errors.Is(diags[0], funcplotter.ErrRange) {
		t.Errorf("diags = %v", diags)
	}
	if res.X == nil || res.Y == nil {
		t.Error("arrays should be empty, not nil")
	}
}

func TestSample_InvalidInputAndRange(t *testing.T) {
	res, diags := sample(t, "", funcplotter.Range{Start: 2, End: 1})
	if res.Valid || res.RangeValid {
		t.Errorf("res = %+v", res)
	}
	if len(diags) != 2 {
		t.Errorf("diags = %v", diags)
	}
}

func TestSample_DegenerateRange(t *testing.T) {
	res, _ := sample(t, "x", funcplotter.Range{Start: 1, End: 1})
	if !res.RangeValid || len(res.X) != funcplotter.FunctionSamples {
		t.Fatalf("res = %+v", res.RangeValid)
	}
	for _, x := range res.X {
		if x != 1 {
			t.Fatalf("X = %v", x)
		}
	}
}

func TestSample_Idempotent(t *testing.T) {
	a, _ := sample(t, "sin(x)/x", full())
	b, _ := sample(t, "sin(x)/x", full())
	for i := range a.Y {
		if a.Y[i] != b.Y[i] && !(math.IsNaN(a.Y[i]) && math.IsNaN(b.Y[i])) {
			t.Fatalf("Y[%d] differs: %v vs %v", i, a.Y[i], b.Y[i])
		}
	}
}

// ============================================================
// Axes
// ============================================================

func TestAxes(t *testing.T) {
	cases := []struct {
		vars    funcplotter.VariableSet
		r       funcplotter.Range
		x, y    string
		clamped bool
	}{
		{nil, full(), "x", "y", false},
		{funcplotter.VariableSet{"t"}, full(), "t", "y", false},
		{funcplotter.VariableSet{"a", "b"}, funcplotter.Range{Start: -20, End: 20}, "a", "b", false},
		{funcplotter.VariableSet{"x"}, funcplotter.Range{Start: -5, End: 20}, "x", "y", true},
		{funcplotter.VariableSet{"x"}, funcplotter.Range{Start: -20, End: 5}, "x", "y", true},
	}
	for _, c := range cases {
		got := funcplotter.Axes(c.vars, c.r)
		if got.XLabel != c.x || got.YLabel != c.y || got.Clamped != c.clamped {
			t.Errorf("Axes(%v, %+v) = %+v", c.vars, c.r, got)
		}
	}
	lo, hi := funcplotter.AxisSpec{Clamped: true}.Bounds()
	if lo != -10 || hi != 10 {
		t.Errorf("Bounds = %v, %v", lo, hi)
	}
}

// ============================================================
// Plotter
// ============================================================

func TestPlotter_Plot(t *testing.T) {
	var forwarded funcplotter.Diagnostics
	p := funcplotter.New(funcplotter.WithNotifier(&forwarded), funcplotter.WithLogger(nil))

	resp := p.Plot(funcplotter.Request{Text: "y - x", Range: full()})
	if !resp.Drawable() || resp.Axes.XLabel != "x" || resp.Axes.YLabel != "y" {
		t.Errorf("resp = %+v", resp.Axes)
	}

	resp = p.Plot(funcplotter.Request{Text: "x=1", Range: full()})
	if resp.Drawable() || len(resp.Diagnostics) != 2 {
		t.Errorf("diags = %v", resp.Diagnostics)
	}
	if len(forwarded) != 2 {
		t.Errorf("forwarded = %v", forwarded)
	}
	if resp.Axes != (funcplotter.AxisSpec{}) {
		t.Errorf("axes should be zero for undrawable responses: %+v", resp.Axes)
	}
}

func TestPlotter_LogEvents(t *testing.T) {
	var buf bytes.Buffer
	p := funcplotter.New(funcplotter.WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))))
	p.Plot(funcplotter.Request{Text: "x=1", Range: full()})

	var events []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		events = append(events, rec.Msg)
	}
	want := []string{"plot.diagnostic", "plot.diagnostic", "validate.reject", "sample.skipped"}
	if strings.Join(events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestPlotter_Concurrent(t *testing.T) {
	p := funcplotter.New()
	var wg sync.WaitGroup
	for _, text := range []string{"x^2", "y - x", "pi", "abc", "sqrt(x)"} {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			p.Plot(funcplotter.Request{Text: text, Range: full()})
		}(text)
	}
	wg.Wait()
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	js, err := funcplotter.ToJSON(funcplotter.MustParse("x + 1"))
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(js), &m); err != nil {
		t.Fatal(err)
	}
	if m["type"] != "add" {
		t.Errorf("json = %s", js)
	}
}

func TestResponse_MarshalJSON_NaNIsNull(t *testing.T) {
	resp := funcplotter.New().Plot(funcplotter.Request{Text: "sqrt(x)", Range: funcplotter.Range{Start: -1, End: 1}})
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Y           []*float64    `json:"y"`
		Variables   []string      `json:"variables"`
		Diagnostics []interface{} `json:"diagnostics"`
		Axes        struct {
			Clamped bool `json:"clamped"`
		} `json:"axes"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out.Y[0] != nil {
		t.Errorf("Y[0] = %v, want null", *out.Y[0])
	}
	if out.Y[len(out.Y)-1] == nil {
		t.Error("last Y should be a number")
	}
	if len(out.Variables) != 1 || out.Diagnostics == nil || !out.Axes.Clamped {
		t.Errorf("out = %+v", out)
	}
}

func TestResponse_MarshalJSON_Rejected(t *testing.T) {
	resp := funcplotter.New().Plot(funcplotter.Request{Text: "", Range: full()})
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	if !strings.Contains(s, `"valid":false`) || strings.Contains(s, `"axes"`) || !strings.Contains(s, `"variables":[]`) {
		t.Errorf("json = %s", s)
	}
}

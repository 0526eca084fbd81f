// Package funcplotter turns free-form expression text into plottable
// coordinate arrays.
//
// The pipeline has two stages:
//   - Validate parses raw text into an Expr and rejects input that cannot
//     be drawn on a 2D plane, reporting each rejection as a Diagnostic.
//   - Sample classifies the Expr by its free variables (constant, function
//     of one variable, implicit relation of two) and produces X/Y arrays
//     over a Range, using NaN for undefined or complex points.
//
// Expressions are immutable trees of Num, Sym, Const, Add, Mul, Pow and
// Func nodes. Constructors simplify as they build, so two texts that
// differ only in term order produce equal trees.
package funcplotter

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is a parsed symbolic formula.
type Expr interface {
	Simplify() Expr
	String() string
	// Sub replaces every occurrence of the named symbol with value.
	Sub(varName string, value Expr) Expr
	// Diff returns the derivative with respect to varName.
	Diff(varName string) Expr
	// Eval evaluates numerically. ok is false when a free symbol has no
	// binding in env.
	Eval(env Env) (v complex128, ok bool)
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// Env binds symbol names to numeric values for Eval.
type Env map[string]complex128

// ============================================================
// Num — exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("funcplotter: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Eval(Env) (complex128, bool) {
	return complex(n.Float64(), 0), true
}
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": n.exprType(), "value": n.String()}
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("funcplotter: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// ============================================================
// Sym — free variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) Eval(env Env) (complex128, bool) {
	v, ok := env[s.name]
	return v, ok
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": s.exprType(), "name": s.name}
}
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Const — named constants pi, E and the imaginary unit I
// ============================================================

type Const struct{ name string }

var (
	Pi = &Const{name: "pi"}
	E  = &Const{name: "E"}
	I  = &Const{name: "I"}
)

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Eval(Env) (complex128, bool) {
	return constValue(c.name), true
}
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) exprType() string      { return "const" }
func (c *Const) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": c.exprType(), "name": c.name}
}

// ============================================================
// Add — sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds numbers and collects like terms:
// x + 2*x becomes 3*x and x - x vanishes.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	numAccum := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = N(0)
			rests[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], coeff)
	}
	sort.Strings(order)
	result := []Expr{}
	for _, key := range order {
		coeff := coeffs[key]
		switch {
		case coeff.IsZero():
			continue
		case coeff.IsOne():
			result = append(result, rests[key])
		default:
			result = append(result, MulOf(coeff, rests[key]))
		}
	}
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Eval(env Env) (complex128, bool) {
	var acc complex128
	for _, t := range a.terms {
		v, ok := t.Eval(env)
		if !ok {
			return 0, false
		}
		acc += v
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	ts := make([]map[string]interface{}, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.toJSON()
	}
	return map[string]interface{}{"type": a.exprType(), "terms": ts}
}

// ============================================================
// Mul — product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds numeric factors and merges
// powers of the same base, so x*x becomes x^2 and x/x becomes 1.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := N(1)
	bases := map[string]Expr{}
	exps := map[string][]Expr{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := splitPower(f)
		key := base.String()
		if _, seen := bases[key]; !seen {
			order = append(order, key)
			bases[key] = base
		}
		exps[key] = append(exps[key], exp)
	}
	if coeff.IsZero() {
		return N(0)
	}
	sort.Strings(order)
	others := []Expr{}
	for _, key := range order {
		p := PowOf(bases[key], AddOf(exps[key]...))
		if v, ok := p.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		others = append(others, p)
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}
	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

func splitPower(e Expr) (base, exp Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, N(1)
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, "*")
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors))
		others = append(others, dfi)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms[i] = MulOf(others...)
	}
	return AddOf(terms...)
}

func (m *Mul) Eval(env Env) (complex128, bool) {
	acc := complex(1, 0)
	for _, f := range m.factors {
		v, ok := f.Eval(env)
		if !ok {
			return 0, false
		}
		acc *= v
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	fs := make([]map[string]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toJSON()
	}
	return map[string]interface{}{"type": m.exprType(), "factors": fs}
}

// extractCoefficient splits a leading numeric factor from a product.
func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// ============================================================
// Pow — base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}

	if bn, ok := base.(*Num); ok {
		// 0^negative stays symbolic and evaluates to +Inf.
		if bn.IsZero() {
			if expIsNum && en.IsNegative() {
				return &Pow{base: base, exp: exp}
			}
			if expIsNum {
				return N(0)
			}
		}
		if bn.IsOne() {
			return N(1)
		}
		// Exponents beyond int64 stay symbolic.
		if expIsNum && en.IsInteger() && en.val.Num().IsInt64() {
			e := en.val.Num().Int64()
			if e >= -20 && e <= 20 {
				abs := e
				if abs < 0 {
					abs = -abs
				}
				result := N(1)
				for i := int64(0); i < abs; i++ {
					result = numMul(result, bn)
				}
				if e < 0 {
					return numRecip(result)
				}
				return result
			}
		}
	}
	// (b^m)^n = b^(m*n) only holds for integer n.
	if inner, ok := base.(*Pow); ok && expIsNum && en.IsInteger() {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string {
	baseStr := p.base.String()
	expStr := p.exp.String()
	if needsParens(p.base) {
		baseStr = "(" + baseStr + ")"
	}
	if needsParens(p.exp) {
		expStr = "(" + expStr + ")"
	}
	return baseStr + "^" + expStr
}

func needsParens(e Expr) bool {
	switch v := e.(type) {
	case *Add, *Mul, *Pow:
		return true
	case *Num:
		return v.IsNegative() || !v.IsInteger()
	}
	return false
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if _, expIsNum := p.exp.(*Num); expIsNum {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	switch p.base.(type) {
	case *Num, *Const:
		return MulOf(PowOf(p.base, p.exp), LogOf(p.base), dv)
	}
	logTerm := MulOf(dv, LogOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Eval(env Env) (complex128, bool) {
	b, ok1 := p.base.Eval(env)
	e, ok2 := p.exp.Eval(env)
	if !ok1 || !ok2 {
		return 0, false
	}
	return powComplex(b, e), true
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": p.exprType(), "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}

// ============================================================
// Func — named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr  { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr  { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr  { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr  { return funcOf("exp", arg).Simplify() }
func LogOf(arg Expr) Expr  { return funcOf("log", arg).Simplify() }
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr  { return funcOf("abs", arg).Simplify() }
func SinhOf(arg Expr) Expr { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr { return funcOf("tanh", arg).Simplify() }
func SignOf(arg Expr) Expr { return funcOf("sign", arg).Simplify() }

// Simplify applies exact identities only. Numeric folding is left to Eval
// so that domain errors surface as complex or non-finite values.
func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	switch f.name {
	case "sin", "tan", "sinh", "tanh", "asin", "atan":
		if isNumEqual(arg, 0) {
			return N(0)
		}
	case "cos", "cosh", "exp":
		if isNumEqual(arg, 0) {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && f.name == "exp" && inner.name == "log" {
			return inner.arg
		}
	case "log":
		if isNumEqual(arg, 1) {
			return N(0)
		}
		if c, ok := arg.(*Const); ok && c == E {
			return N(1)
		}
	case "abs":
		if n, ok := arg.(*Num); ok {
			if n.IsNegative() {
				return MulOf(N(-1), n)
			}
			return n
		}
	case "floor", "ceiling":
		if n, ok := arg.(*Num); ok && n.IsInteger() {
			return n
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	if isNumEqual(du, 0) {
		return N(0)
	}
	u := f.arg
	oneMinusSq := AddOf(N(1), MulOf(N(-1), PowOf(u, N(2))))
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(u)
	case "cos":
		outer = MulOf(N(-1), SinOf(u))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(u), N(2)))
	case "cot":
		outer = MulOf(N(-1), PowOf(funcOf("csc", u), N(2)))
	case "sec":
		outer = MulOf(funcOf("sec", u), TanOf(u))
	case "csc":
		outer = MulOf(N(-1), funcOf("csc", u), funcOf("cot", u))
	case "exp":
		outer = ExpOf(u)
	case "log":
		outer = PowOf(u, N(-1))
	case "asin":
		outer = PowOf(oneMinusSq, F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(oneMinusSq, F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(u, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(u)
	case "cosh":
		outer = SinhOf(u)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(u), N(2))))
	case "abs":
		outer = SignOf(u)
	case "floor", "ceiling", "sign":
		return N(0)
	default:
		return MulOf(funcOf("D["+f.name+"]", u), du)
	}
	return MulOf(outer, du)
}

func (f *Func) Eval(env Env) (complex128, bool) {
	z, ok := f.arg.Eval(env)
	if !ok {
		return 0, false
	}
	return applyFunc(f.name, z), true
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": f.exprType(), "name": f.name, "arg": f.arg.toJSON()}
}

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.Equal(N(v))
}

// ============================================================
// Top-level convenience functions
// ============================================================

func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}

// ============================================================
// Free Symbols
// ============================================================

// FreeSymbols returns the set of variable names in e. Named constants are
// not variables.
func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

func hasSymbol(e Expr, name string) bool {
	_, ok := FreeSymbols(e)[name]
	return ok
}

// VariableSet is the lexicographically sorted list of free variable names
// of an expression. Index 0 plays the x role, index 1 the y role.
type VariableSet []string

// Variables returns the sorted free variables of e. A nil e has none.
func Variables(e Expr) VariableSet {
	if e == nil {
		return VariableSet{}
	}
	syms := FreeSymbols(e)
	vars := make(VariableSet, 0, len(syms))
	for name := range syms {
		vars = append(vars, name)
	}
	sort.Strings(vars)
	return vars
}

func (v VariableSet) String() string {
	return fmt.Sprintf("{%s}", strings.Join(v, ", "))
}

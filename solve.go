package funcplotter

import (
	"math"
	"math/cmplx"
	"sort"
)

// ============================================================
// Polynomial utilities
// ============================================================

// maxPolyDegree bounds the integer exponents expanded by PolyCoeffs.
const maxPolyDegree = 64

// PolyCoeffs expands e as a polynomial in varName with every other symbol
// bound by env. coeffs[k] is the coefficient of varName^k and trailing
// zero coefficients are trimmed. ok is false when varName appears under a
// function, in an exponent, with a negative or fractional power, or when
// a symbol other than varName is unbound.
func PolyCoeffs(e Expr, varName string, env Env) (coeffs []complex128, ok bool) {
	coeffs, ok = polyOf(e, varName, env)
	if !ok {
		return nil, false
	}
	return trimPoly(coeffs), true
}

func polyOf(e Expr, varName string, env Env) ([]complex128, bool) {
	switch v := e.(type) {
	case *Sym:
		if v.name == varName {
			return []complex128{0, 1}, true
		}
	case *Add:
		acc := []complex128{0}
		for _, t := range v.terms {
			p, ok := polyOf(t, varName, env)
			if !ok {
				return nil, false
			}
			acc = polyAdd(acc, p)
		}
		return acc, true
	case *Mul:
		acc := []complex128{1}
		for _, f := range v.factors {
			p, ok := polyOf(f, varName, env)
			if !ok {
				return nil, false
			}
			acc = polyMul(acc, p)
		}
		return acc, true
	case *Pow:
		if !hasSymbol(v.base, varName) {
			break
		}
		if hasSymbol(v.exp, varName) {
			return nil, false
		}
		n, ok := v.exp.(*Num)
		if !ok || !n.IsInteger() || n.IsNegative() || !n.val.Num().IsInt64() || n.val.Num().Int64() > maxPolyDegree {
			return nil, false
		}
		base, ok := polyOf(v.base, varName, env)
		if !ok {
			return nil, false
		}
		acc := []complex128{1}
		for i := int64(0); i < n.val.Num().Int64(); i++ {
			acc = polyMul(acc, base)
		}
		return acc, true
	case *Func:
		if hasSymbol(v.arg, varName) {
			return nil, false
		}
	}
	// Anything free of varName is a constant coefficient.
	if hasSymbol(e, varName) {
		return nil, false
	}
	c, ok := e.Eval(env)
	if !ok {
		return nil, false
	}
	return []complex128{c}, true
}

func polyAdd(a, b []complex128) []complex128 {
	if len(a) < len(b) {
		a, b = b, a
	}
	out := make([]complex128, len(a))
	copy(out, a)
	for i, c := range b {
		out[i] += c
	}
	return out
}

func polyMul(a, b []complex128) []complex128 {
	out := make([]complex128, len(a)+len(b)-1)
	for i, ca := range a {
		if ca == 0 {
			continue
		}
		for j, cb := range b {
			out[i+j] += ca * cb
		}
	}
	return out
}

func trimPoly(p []complex128) []complex128 {
	n := len(p)
	for n > 0 && p[n-1] == 0 {
		n--
	}
	return p[:n]
}

// ============================================================
// Solvers
// ============================================================

// rootTol is the distance under which two computed roots are reported as
// one root of higher multiplicity.
const rootTol = 1e-4

// SolveResult lists the distinct roots found for an equation.
type SolveResult struct {
	Roots []complex128
	// Polynomial is true when the roots came from the closed-form or
	// Durand–Kerner path and are therefore complete.
	Polynomial bool
}

// Solve finds the distinct roots of rel(varName) = 0, with every other
// symbol bound by env. Polynomials yield every complex root with
// multiplicities collapsed; other relations fall back to a seeded Newton
// search for real roots. A polynomial whose coefficients are not finite
// at env has no roots.
func Solve(rel Expr, varName string, env Env) SolveResult {
	if coeffs, ok := PolyCoeffs(rel, varName, env); ok {
		for _, c := range coeffs {
			if cmplx.IsNaN(c) || cmplx.IsInf(c) {
				return SolveResult{Polynomial: true}
			}
		}
		return SolveResult{Roots: SolvePolynomial(coeffs), Polynomial: true}
	}
	return SolveResult{Roots: SolveNewton(rel, varName, env, 0, 0, 0)}
}

// SolvePolynomial returns the distinct roots of sum(coeffs[k] * v^k).
// A constant polynomial has no roots, including the zero polynomial.
func SolvePolynomial(coeffs []complex128) []complex128 {
	coeffs = trimPoly(coeffs)
	switch len(coeffs) {
	case 0, 1:
		return nil
	case 2:
		return []complex128{SolveLinear(coeffs[1], coeffs[0])}
	case 3:
		return SolveQuadratic(coeffs[2], coeffs[1], coeffs[0])
	}
	return clusterRoots(durandKerner(coeffs))
}

// SolveLinear returns the root of a*v + b = 0. a must be non-zero.
func SolveLinear(a, b complex128) complex128 {
	if isReal(a) && isReal(b) {
		return complex(-real(b)/real(a), 0)
	}
	return -b / a
}

// SolveQuadratic returns the distinct roots of a*v^2 + b*v + c = 0.
func SolveQuadratic(a, b, c complex128) []complex128 {
	if isReal(a) && isReal(b) && isReal(c) {
		af, bf, cf := real(a), real(b), real(c)
		disc := bf*bf - 4*af*cf
		if disc == 0 {
			return []complex128{complex(-bf/(2*af), 0)}
		}
		if disc > 0 {
			sq := math.Sqrt(disc)
			return []complex128{complex((-bf+sq)/(2*af), 0), complex((-bf-sq)/(2*af), 0)}
		}
		re := -bf / (2 * af)
		im := math.Sqrt(-disc) / (2 * af)
		return []complex128{complex(re, im), complex(re, -im)}
	}
	disc := b*b - 4*a*c
	if disc == 0 {
		return []complex128{-b / (2 * a)}
	}
	sq := cmplx.Sqrt(disc)
	return clusterRoots([]complex128{(-b + sq) / (2 * a), (-b - sq) / (2 * a)})
}

// durandKerner finds all roots of a polynomial of degree >= 1 at once.
func durandKerner(coeffs []complex128) []complex128 {
	n := len(coeffs) - 1
	lead := coeffs[n]
	monic := make([]complex128, len(coeffs))
	for i, c := range coeffs {
		monic[i] = c / lead
	}
	eval := func(z complex128) complex128 {
		acc := complex(0, 0)
		for i := n; i >= 0; i-- {
			acc = acc*z + monic[i]
		}
		return acc
	}

	// Cauchy bound spreads the seeds over a circle that contains every root.
	bound := 0.0
	for i := 0; i < n; i++ {
		bound = math.Max(bound, cmplx.Abs(monic[i]))
	}
	radius := 1 + bound
	roots := make([]complex128, n)
	for k := range roots {
		roots[k] = cmplx.Rect(radius, 2*math.Pi*float64(k)/float64(n)+0.4)
	}

	for iter := 0; iter < 1000; iter++ {
		maxDelta := 0.0
		for i := range roots {
			denom := complex(1, 0)
			for j := range roots {
				if i != j {
					denom *= roots[i] - roots[j]
				}
			}
			if denom == 0 {
				denom = complex(1e-12, 0)
			}
			delta := eval(roots[i]) / denom
			roots[i] -= delta
			maxDelta = math.Max(maxDelta, cmplx.Abs(delta))
		}
		if maxDelta < 1e-15*radius {
			break
		}
	}
	return roots
}

// clusterRoots merges roots closer than rootTol (relative to their size)
// into their mean, so a repeated root counts once.
func clusterRoots(roots []complex128) []complex128 {
	type cluster struct {
		sum complex128
		n   int
	}
	var clusters []cluster
	for _, r := range roots {
		merged := false
		for i := range clusters {
			c := clusters[i].sum / complex(float64(clusters[i].n), 0)
			if cmplx.Abs(r-c) <= rootTol*math.Max(1, cmplx.Abs(c)) {
				clusters[i].sum += r
				clusters[i].n++
				merged = true
				break
			}
		}
		if !merged {
			clusters = append(clusters, cluster{sum: r, n: 1})
		}
	}
	out := make([]complex128, len(clusters))
	for i, c := range clusters {
		z := c.sum / complex(float64(c.n), 0)
		// A cluster mean of conjugate noise is real.
		if math.Abs(imag(z)) <= rootTol*1e-4*math.Max(1, math.Abs(real(z))) {
			z = complex(real(z), 0)
		}
		out[i] = z
	}
	return out
}

// newtonStepTol is the relative step size at which an iterate counts as
// converged.
const newtonStepTol = 1e-10

// SolveNewton searches for distinct real roots of rel(varName) = 0 by
// Newton iteration. Seeds are evenly spaced over [-searchRange,
// searchRange] plus ±10^k beyond it, and iterates may leave the seed
// window. An iterate is a root only once the Newton step has converged
// relative to its size and rel either is within tol of zero or changes
// sign across it, so flat tails such as exp(-y) for large y never count.
// The derivative is taken symbolically. Zero arguments select defaults.
func SolveNewton(rel Expr, varName string, env Env, searchRange, tol float64, maxIter int) []complex128 {
	if searchRange <= 0 {
		searchRange = 100
	}
	if tol <= 0 {
		tol = 1e-10
	}
	if maxIter <= 0 {
		maxIter = 100
	}
	local := make(Env, len(env)+1)
	for k, v := range env {
		local[k] = v
	}
	deriv := Diff(rel, varName)
	at := func(e Expr, x float64) float64 {
		local[varName] = complex(x, 0)
		z, ok := e.Eval(local)
		if !ok || !isReal(z) {
			return math.NaN()
		}
		return real(z)
	}
	crosses := func(x float64) bool {
		h := 1e3 * newtonStepTol * math.Max(1, math.Abs(x))
		lo, hi := at(rel, x-h), at(rel, x+h)
		return !math.IsNaN(lo) && !math.IsNaN(hi) && (lo <= 0) != (hi <= 0)
	}

	var roots []float64
	add := func(x float64) {
		for _, r := range roots {
			if math.Abs(r-x) < rootTol*math.Max(1, math.Abs(r)) {
				return
			}
		}
		roots = append(roots, x)
	}

	for _, x := range newtonSeeds(searchRange) {
		for iter := 0; iter < maxIter; iter++ {
			fx := at(rel, x)
			if math.IsNaN(fx) || math.IsInf(fx, 0) {
				break
			}
			dfx := at(deriv, x)
			if fx == 0 {
				// An underflowed tail evaluates to 0 with a 0 slope.
				if (dfx != 0 && !math.IsNaN(dfx)) || crosses(x) {
					add(x)
				}
				break
			}
			step := fx / dfx
			if math.IsNaN(step) || math.IsInf(step, 0) {
				break
			}
			x -= step
			if math.Abs(step) <= newtonStepTol*math.Max(1, math.Abs(x)) {
				if fx = at(rel, x); !math.IsNaN(fx) && (math.Abs(fx) <= tol || crosses(x)) {
					add(x)
				}
				break
			}
		}
	}
	sort.Float64s(roots)
	out := make([]complex128, len(roots))
	for i, r := range roots {
		out[i] = complex(r, 0)
	}
	return out
}

// newtonSeeds returns 201 evenly spaced points in [-r, r] followed by
// ±10^k for every power of ten above r up to 1e15.
func newtonSeeds(r float64) []float64 {
	seeds := make([]float64, 0, 240)
	for i := 0; i <= 200; i++ {
		seeds = append(seeds, -r+2*r*float64(i)/200)
	}
	for p := math.Pow(10, math.Floor(math.Log10(r))+1); p <= 1e15; p *= 10 {
		seeds = append(seeds, p, -p)
	}
	return seeds
}

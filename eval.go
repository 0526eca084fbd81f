package funcplotter

import (
	"math"
	"math/cmplx"
)

// ============================================================
// Numeric evaluation over complex128
// ============================================================
//
// Real inputs stay on the real axis whenever the real-valued function is
// defined there, so an imaginary part is exactly zero for every point the
// sampler should keep. Outside the real domain (sqrt of a negative, log
// of a negative, asin beyond ±1, fractional power of a negative base) the
// principal complex value is returned.

func constValue(name string) complex128 {
	switch name {
	case "pi":
		return complex(math.Pi, 0)
	case "E":
		return complex(math.E, 0)
	case "I":
		return complex(0, 1)
	}
	return cmplx.NaN()
}

func isReal(z complex128) bool { return imag(z) == 0 }

func powComplex(b, e complex128) complex128 {
	if isReal(b) && isReal(e) {
		br, er := real(b), real(e)
		if br >= 0 || er == math.Trunc(er) || math.IsNaN(br) || math.IsNaN(er) {
			return complex(math.Pow(br, er), 0)
		}
	}
	if isReal(e) && real(e) == math.Trunc(real(e)) && math.Abs(real(e)) <= 64 {
		return powInt(b, int(real(e)))
	}
	return cmplx.Pow(b, e)
}

// powInt computes b^n by repeated squaring so integer powers of complex
// numbers do not pick up rounding noise from the polar form.
func powInt(b complex128, n int) complex128 {
	if n < 0 {
		return 1 / powInt(b, -n)
	}
	result := complex(1, 0)
	for n > 0 {
		if n&1 == 1 {
			result *= b
		}
		b *= b
		n >>= 1
	}
	return result
}

func applyFunc(name string, z complex128) complex128 {
	if isReal(z) {
		if v, ok := applyRealFunc(name, real(z)); ok {
			return complex(v, 0)
		}
	}
	switch name {
	case "sin":
		return cmplx.Sin(z)
	case "cos":
		return cmplx.Cos(z)
	case "tan":
		return cmplx.Tan(z)
	case "cot":
		return cmplx.Cot(z)
	case "sec":
		return 1 / cmplx.Cos(z)
	case "csc":
		return 1 / cmplx.Sin(z)
	case "asin":
		return cmplx.Asin(z)
	case "acos":
		return cmplx.Acos(z)
	case "atan":
		return cmplx.Atan(z)
	case "sinh":
		return cmplx.Sinh(z)
	case "cosh":
		return cmplx.Cosh(z)
	case "tanh":
		return cmplx.Tanh(z)
	case "exp":
		return cmplx.Exp(z)
	case "log":
		return cmplx.Log(z)
	case "abs":
		return complex(cmplx.Abs(z), 0)
	}
	// floor, ceiling and sign have no complex extension here.
	return cmplx.NaN()
}

// applyRealFunc reports ok=false when x lies outside the real domain of the
// function and the complex branch has to be taken.
func applyRealFunc(name string, x float64) (float64, bool) {
	switch name {
	case "sin":
		return math.Sin(x), true
	case "cos":
		return math.Cos(x), true
	case "tan":
		return math.Tan(x), true
	case "cot":
		return 1 / math.Tan(x), true
	case "sec":
		return 1 / math.Cos(x), true
	case "csc":
		return 1 / math.Sin(x), true
	case "asin":
		if x < -1 || x > 1 {
			return 0, false
		}
		return math.Asin(x), true
	case "acos":
		if x < -1 || x > 1 {
			return 0, false
		}
		return math.Acos(x), true
	case "atan":
		return math.Atan(x), true
	case "sinh":
		return math.Sinh(x), true
	case "cosh":
		return math.Cosh(x), true
	case "tanh":
		return math.Tanh(x), true
	case "exp":
		return math.Exp(x), true
	case "log":
		if x < 0 {
			return 0, false
		}
		return math.Log(x), true
	case "abs":
		return math.Abs(x), true
	case "floor":
		return math.Floor(x), true
	case "ceiling":
		return math.Ceil(x), true
	case "sign":
		switch {
		case x > 0:
			return 1, true
		case x < 0:
			return -1, true
		case x == 0:
			return 0, true
		}
		return math.NaN(), true
	}
	return 0, false
}

// realValue maps an evaluated point to what the sampler stores: the real
// part when the value is real and finite, NaN otherwise.
func realValue(z complex128, ok bool) float64 {
	if !ok || !isReal(z) {
		return math.NaN()
	}
	v := real(z)
	if math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// EvalAt evaluates e with the given bindings and returns the real value,
// or NaN when the result is undefined, infinite or has an imaginary part.
func EvalAt(e Expr, env Env) float64 {
	return realValue(e.Eval(env))
}

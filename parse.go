package funcplotter

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"text/scanner"
)

// ============================================================
// Parser — text to Expr
// ============================================================
//
//	expr    := term (('+'|'-') term)*
//	term    := unary (('*'|'/') unary)*
//	unary   := ('+'|'-') unary | power
//	power   := primary (('^'|'**') unary)?
//	primary := number | name | name '(' expr ')' | '(' expr ')'
//
// '^' and '**' both mean exponentiation and associate to the right, so
// -2^2 is -(2^2) and 2^3^2 is 2^(3^2).

// ErrParse is the sentinel wrapped by every *ParseError.
var ErrParse = errors.New("parse error")

// ParseError describes where parsing stopped.
type ParseError struct {
	Offset int
	Near   string
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
	}
	return fmt.Sprintf("offset %d near %q: %s", e.Offset, e.Near, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }

var constants = map[string]*Const{
	"pi": Pi,
	"E":  E,
	"I":  I,
}

// functions maps accepted spellings to canonical function names.
var functions = map[string]string{
	"sin": "sin", "cos": "cos", "tan": "tan",
	"cot": "cot", "sec": "sec", "csc": "csc",
	"asin": "asin", "acos": "acos", "atan": "atan",
	"sinh": "sinh", "cosh": "cosh", "tanh": "tanh",
	"exp": "exp", "log": "log", "ln": "log",
	"sqrt": "sqrt", "abs": "abs", "Abs": "abs",
	"floor": "floor", "ceiling": "ceiling", "ceil": "ceiling",
	"sign": "sign",
}

type parser struct {
	s    scanner.Scanner
	tok  rune
	text string
	pos  int
	err  error
}

// Parse converts text into a simplified Expr. Juxtaposition is not
// multiplication: "2x" and "x y" are errors.
func Parse(text string) (Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Msg: "empty expression"}
	}
	p := &parser{}
	p.s.Init(strings.NewReader(text))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = &ParseError{Offset: s.Pos().Offset, Msg: msg}
		}
	}
	p.next()
	e := p.parseExpr()
	if p.err != nil {
		return nil, p.err
	}
	if p.tok != scanner.EOF {
		p.errorf("unexpected %s", p.describe())
		return nil, p.err
	}
	return e, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) Expr {
	e, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("funcplotter: MustParse(%q): %v", text, err))
	}
	return e
}

func (p *parser) next() {
	p.tok = p.s.Scan()
	p.text = p.s.TokenText()
	p.pos = p.s.Position.Offset
}

func (p *parser) describe() string {
	if p.tok == scanner.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", p.text)
}

func (p *parser) errorf(format string, args ...interface{}) Expr {
	if p.err == nil {
		near := ""
		if p.tok != scanner.EOF {
			near = p.text
		}
		p.err = &ParseError{Offset: p.pos, Near: near, Msg: fmt.Sprintf(format, args...)}
	}
	return nil
}

func (p *parser) failed() bool { return p.err != nil }

func (p *parser) parseExpr() Expr {
	left := p.parseTerm()
	for !p.failed() && (p.tok == '+' || p.tok == '-') {
		op := p.tok
		p.next()
		right := p.parseTerm()
		if p.failed() {
			return nil
		}
		if op == '-' {
			right = MulOf(N(-1), right)
		}
		left = AddOf(left, right)
	}
	return left
}

func (p *parser) parseTerm() Expr {
	left := p.parseUnary()
	for !p.failed() && (p.tok == '*' || p.tok == '/') {
		op := p.tok
		p.next()
		right := p.parseUnary()
		if p.failed() {
			return nil
		}
		if op == '/' {
			right = PowOf(right, N(-1))
		}
		left = MulOf(left, right)
	}
	return left
}

func (p *parser) parseUnary() Expr {
	switch p.tok {
	case '+':
		p.next()
		return p.parseUnary()
	case '-':
		p.next()
		operand := p.parseUnary()
		if p.failed() {
			return nil
		}
		return MulOf(N(-1), operand)
	}
	return p.parsePower()
}

func (p *parser) parsePower() Expr {
	base := p.parsePrimary()
	if p.failed() {
		return nil
	}
	switch {
	case p.tok == '^':
		p.next()
	case p.tok == '*' && p.s.Peek() == '*':
		p.next()
		p.next()
	default:
		return base
	}
	exp := p.parseUnary()
	if p.failed() {
		return nil
	}
	return PowOf(base, exp)
}

func (p *parser) parsePrimary() Expr {
	switch p.tok {
	case scanner.Int, scanner.Float:
		r, ok := new(big.Rat).SetString(p.text)
		if !ok {
			return p.errorf("malformed number")
		}
		p.next()
		return &Num{val: r}
	case scanner.Ident:
		name := p.text
		p.next()
		if fn, ok := functions[name]; ok {
			if p.tok != '(' {
				return p.errorf("function %s needs an argument in brackets", name)
			}
			p.next()
			arg := p.parseExpr()
			if p.failed() {
				return nil
			}
			if p.tok != ')' {
				return p.errorf("expected ')' to close %s(", name)
			}
			p.next()
			if fn == "sqrt" {
				return SqrtOf(arg)
			}
			return funcOf(fn, arg).Simplify()
		}
		if p.tok == '(' {
			return p.errorf("unknown function %s", name)
		}
		if c, ok := constants[name]; ok {
			return c
		}
		return S(name)
	case '(':
		p.next()
		e := p.parseExpr()
		if p.failed() {
			return nil
		}
		if p.tok != ')' {
			return p.errorf("expected ')'")
		}
		p.next()
		return e
	}
	return p.errorf("unexpected %s", p.describe())
}

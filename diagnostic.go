package funcplotter

import (
	"errors"
	"strings"
)

// ============================================================
// Diagnostics — messages for the user-facing collaborator
// ============================================================

// Rejection classes. Every Diagnostic with SeverityError wraps one of
// these so callers can branch with errors.Is.
var (
	ErrInputShape = errors.New("input shape")
	ErrDimension  = errors.New("too many variables")
	ErrRange      = errors.New("invalid range")
	ErrGeometry   = errors.New("not a function")
)

// Severity separates rejections from informational messages.
type Severity int

const (
	SeverityError Severity = iota
	SeverityInfo
)

func (s Severity) String() string {
	if s == SeverityInfo {
		return "info"
	}
	return "error"
}

const defaultTitle = "Invalid Input"

// User-facing message texts.
const (
	MsgBareLetters = "Please, input at least 1 letter or at most 2 letters separated by an operator"
	MsgEquation    = "Invalid Input, input must be a function not an equation"
	MsgEmpty       = "Input can't be empty"
	MsgParse       = "Input may contain a typo or unsupported operations\n make sure all brackets are closed"
	MsgDimension   = "functions can't be drawn on a 2D plane"
	MsgRange       = "Invalid Range"
	MsgGeometry    = "this is not a function, check if the input passes the vertical line test"
)

// Diagnostic is one message to show the user, typically as a modal dialog.
type Diagnostic struct {
	Title    string
	Text     string
	Severity Severity
	Err      error
}

func (d Diagnostic) Error() string {
	return d.Title + ": " + strings.ReplaceAll(d.Text, "\n", " ")
}

func (d Diagnostic) Unwrap() error { return d.Err }

func reject(text string, err error) Diagnostic {
	return Diagnostic{Title: defaultTitle, Text: text, Severity: SeverityError, Err: err}
}

// Notifier receives diagnostics as they are raised.
type Notifier interface {
	Notify(d Diagnostic)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Diagnostic)

func (f NotifierFunc) Notify(d Diagnostic) { f(d) }

// Diagnostics collects everything it is notified of, in order.
type Diagnostics []Diagnostic

func (ds *Diagnostics) Notify(d Diagnostic) { *ds = append(*ds, d) }

// Has reports whether any collected diagnostic wraps target.
func (ds Diagnostics) Has(target error) bool {
	for _, d := range ds {
		if errors.Is(d, target) {
			return true
		}
	}
	return false
}

// Err joins the error-severity diagnostics, or returns nil if there are none.
func (ds Diagnostics) Err() error {
	var errs []error
	for _, d := range ds {
		if d.Severity == SeverityError {
			errs = append(errs, d)
		}
	}
	return errors.Join(errs...)
}

type discardNotifier struct{}

func (discardNotifier) Notify(Diagnostic) {}

func notifierOrDiscard(n Notifier) Notifier {
	if n == nil {
		return discardNotifier{}
	}
	return n
}

// Help returns the informational message describing accepted input.
func Help() Diagnostic {
	return Diagnostic{
		Title: "Help Dialog",
		Text: "Supported operands\n" +
			"1. + and -\n" +
			"2. * and /\n" +
			"3. ^ (or **)\n" +
			"Functions: sin cos tan cot sec csc asin acos atan sinh cosh tanh exp log ln sqrt abs floor ceiling sign\n" +
			"Constants: pi, E, I\n" +
			"Examples:\n x\nx^2\nsin(x) where x is in radians\n" +
			"x+y\n" +
			"a+b\n" +
			"Note: in case of multivariable input the input is going to be treated as an equation = 0 for example\n" +
			"x+y as x+y=0\n" +
			"Invalid Input Examples\n" +
			"asdgasdg\n" +
			"empty inputs\n" +
			"sin(x\n" +
			"sinx",
		Severity: SeverityInfo,
	}
}

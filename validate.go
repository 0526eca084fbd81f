package funcplotter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ============================================================
// Validator
// ============================================================

// MaxVariables is the largest free-variable count that fits a 2D plot.
const MaxVariables = 2

// Validation is the verdict on one piece of input text. Expr is nil (the
// invalid marker) whenever the text did not parse; it may be non-nil with
// Valid false when a static check rejected text that still parses, such
// as "abc".
type Validation struct {
	Expr  Expr
	Valid bool
}

// Validate checks raw text and parses it. Each failed check is reported to
// n as its own Diagnostic; the static checks (bare letters, equation,
// empty) all run, and the parse runs whenever the text is non-empty.
// Validate never panics on user input. n may be nil.
func Validate(text string, n Notifier) Validation {
	n = notifierOrDiscard(n)
	valid := true

	if isBareLetters(text) && utf8.RuneCountInString(text) > 1 {
		n.Notify(reject(MsgBareLetters, ErrInputShape))
		valid = false
	}

	if strings.Contains(text, "=") {
		n.Notify(reject(MsgEquation, ErrInputShape))
		valid = false
	}

	if text == "" {
		n.Notify(reject(MsgEmpty, ErrInputShape))
		return Validation{Valid: false}
	}

	e, err := Parse(text)
	if err != nil {
		n.Notify(reject(MsgParse, err))
		return Validation{Valid: false}
	}
	if len(FreeSymbols(e)) > MaxVariables {
		n.Notify(reject(MsgDimension, ErrDimension))
		valid = false
	}
	return Validation{Expr: e, Valid: valid}
}

func isBareLetters(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

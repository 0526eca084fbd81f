package funcplotter

import (
	"io"
	"log/slog"
)

// Request is one plot request from the user interface.
type Request struct {
	Text  string
	Range Range
}

// Response bundles everything a renderer needs for one request.
type Response struct {
	Result
	Vars        VariableSet
	Axes        AxisSpec
	Diagnostics Diagnostics
}

// Drawable reports whether the renderer should draw the samples.
func (r Response) Drawable() bool { return r.Valid && r.RangeValid }

// Plotter runs Validate then Sample then Axes for each request. It holds
// no per-request state and is safe for concurrent use.
type Plotter struct {
	logger *slog.Logger
	notify Notifier
}

// Option configures a Plotter.
type Option func(*Plotter)

// WithLogger sets the structured logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(p *Plotter) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithNotifier forwards every diagnostic to n as it is raised, in addition
// to collecting it in the Response.
func WithNotifier(n Notifier) Option {
	return func(p *Plotter) {
		p.notify = n
	}
}

// New returns a Plotter configured by opts.
func New(opts ...Option) *Plotter {
	p := &Plotter{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plot handles one request end to end.
func (p *Plotter) Plot(req Request) Response {
	log := p.logger
	var diags Diagnostics
	n := NotifierFunc(func(d Diagnostic) {
		diags.Notify(d)
		log.Info("plot.diagnostic", "title", d.Title, "severity", d.Severity.String(), "err", d.Err)
		if p.notify != nil {
			p.notify.Notify(d)
		}
	})

	log.Debug("plot.start", "text", req.Text, "start", req.Range.Start, "end", req.Range.End)

	v := Validate(req.Text, n)
	if !v.Valid {
		log.Info("validate.reject", "text", req.Text, "parsed", v.Expr != nil)
	}

	res := Sample(v, req.Range, req.Text, n)
	resp := Response{Result: res, Vars: Variables(res.Expr), Diagnostics: diags}
	if resp.Drawable() {
		resp.Axes = Axes(resp.Vars, req.Range)
		log.Info("sample.done",
			"expr", res.Expr.String(),
			"vars", len(resp.Vars),
			"points", len(res.X),
			"clamped", resp.Axes.Clamped,
		)
	} else {
		log.Info("sample.skipped", "valid", res.Valid, "range_valid", res.RangeValid, "points", len(res.X))
	}
	return resp
}

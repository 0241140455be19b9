// Package compiler drives olang's full pipeline end to end: lex, parse,
// resolve, type-check, optimize, emit. Each stage gates on the previous
// one's diagnostics — the driver never runs the next pass if the current
// pass produced any error.
package compiler

import (
	"fmt"
	"os"

	"github.com/go-olang/olangc/internal/emitter"
	baseerrors "github.com/go-olang/olangc/internal/errors"
	"github.com/go-olang/olangc/internal/lexer"
	"github.com/go-olang/olangc/internal/optimize"
	"github.com/go-olang/olangc/internal/parser"
	"github.com/go-olang/olangc/internal/resolver"
	"github.com/go-olang/olangc/internal/typecheck"
)

// Stage names a pipeline stage, for reporting where compilation stopped.
type Stage string

const (
	StageLex       Stage = "lex"
	StageParse     Stage = "parse"
	StageResolve   Stage = "resolve"
	StageTypecheck Stage = "typecheck"
	StageOptimize  Stage = "optimize"
	StageEmit      Stage = "emit"
)

// Logger receives trace-level progress messages when verbose output is
// requested. StderrLogger and NopLogger are the two stock implementations.
type Logger interface {
	Tracef(format string, args ...any)
}

// NopLogger discards every message.
type NopLogger struct{}

func (NopLogger) Tracef(string, ...any) {}

// StderrLogger writes each trace message to stderr, prefixed "trace: ".
type StderrLogger struct{}

func (StderrLogger) Tracef(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "trace: "+format+"\n", args...)
}

// Result is everything one call to Compile produced.
type Result struct {
	// StoppedAt is the stage that failed to gate further passes, or ""
	// if the whole pipeline ran to completion.
	StoppedAt Stage
	// Diagnostics accumulates every error and warning across every stage
	// that ran, in stage order.
	Diagnostics []*baseerrors.Diagnostic
	// OptimizeStats reports the dead-code and constant-folding counters,
	// nil if optimization did not run.
	OptimizeStats *optimize.Stats
	// Files is the emitted Target Assembly output, file name -> content,
	// nil unless the pipeline reached the emitter successfully.
	Files map[string]string
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (r *Result) HasErrors() bool {
	return baseerrors.HasErrors(r.Diagnostics)
}

// Option configures a Compile call.
type Option func(*options)

type options struct {
	logger Logger
}

// WithLogger sets the Logger a Compile call traces progress to. The
// default is NopLogger.
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// Compile runs the full pipeline over source, tagging every diagnostic with
// fileName. It never runs a stage after the first one that reports an
// error: a later stage reading a half-resolved tree is exactly the
// failure mode this gating exists to rule out.
func Compile(source, fileName string, opts ...Option) (*Result, error) {
	o := &options{logger: NopLogger{}}
	for _, opt := range opts {
		opt(o)
	}

	res := &Result{}

	o.logger.Tracef("lexing %s", fileName)
	lx := lexer.New(source)
	toks := lx.Lex()
	if msgs := lx.Errors(); len(msgs) > 0 {
		res.Diagnostics = append(res.Diagnostics, lexDiagnostics(msgs, toks, source, fileName)...)
		res.StoppedAt = StageLex
		return res, nil
	}

	o.logger.Tracef("parsing %s", fileName)
	p := parser.New(toks)
	prog := p.ParseProgram()
	if p.HasErrors() {
		res.Diagnostics = append(res.Diagnostics, parseErrorsToDiagnostics(p.Errors(), source, fileName)...)
		res.StoppedAt = StageParse
		return res, nil
	}

	o.logger.Tracef("resolving %s", fileName)
	res1 := resolver.New(source, fileName)
	res1.Resolve(prog)
	res.Diagnostics = append(res.Diagnostics, res1.Diagnostics()...)
	if baseerrors.HasErrors(res1.Diagnostics()) {
		res.StoppedAt = StageResolve
		return res, nil
	}

	o.logger.Tracef("type-checking %s", fileName)
	chk := typecheck.New(source, fileName)
	chk.Check(prog)
	res.Diagnostics = append(res.Diagnostics, chk.Diagnostics()...)
	if baseerrors.HasErrors(chk.Diagnostics()) {
		res.StoppedAt = StageTypecheck
		return res, nil
	}

	o.logger.Tracef("optimizing %s", fileName)
	stats := optimize.Run(prog)
	res.OptimizeStats = &stats
	if stats.FoldOverflow {
		o.logger.Tracef("constant folder hit the %d-iteration cap", stats.FoldIterations)
	}

	o.logger.Tracef("emitting %s", fileName)
	files, err := emitter.New().EmitProgram(prog)
	if err != nil {
		res.StoppedAt = StageEmit
		return res, fmt.Errorf("internal compiler error: %w", err)
	}
	res.Files = files

	return res, nil
}

// lexDiagnostics pairs the Lexer's formatted error strings with the spans
// of its Error-kind tokens, which are recorded in the same order, so the
// driver can report lex failures with the same source-context machinery
// used by every later stage. An unterminated block comment records a
// message without an Error token; it always runs to EOF, so a message left
// over after the pairing is reported at the final (EOF) token's span.
func lexDiagnostics(msgs []string, toks []lexer.Token, source, file string) []*baseerrors.Diagnostic {
	out := make([]*baseerrors.Diagnostic, 0, len(msgs))
	i := 0
	for _, t := range toks {
		if t.Kind != lexer.Error {
			continue
		}
		if i >= len(msgs) {
			break
		}
		out = append(out, baseerrors.New(t.Span, msgs[i], source, file))
		i++
	}
	for ; i < len(msgs) && len(toks) > 0; i++ {
		out = append(out, baseerrors.New(toks[len(toks)-1].Span, msgs[i], source, file))
	}
	return out
}

func parseErrorsToDiagnostics(errs []parser.Error, source, file string) []*baseerrors.Diagnostic {
	out := make([]*baseerrors.Diagnostic, len(errs))
	for i, e := range errs {
		out[i] = baseerrors.New(e.Span, e.Message, source, file)
	}
	return out
}

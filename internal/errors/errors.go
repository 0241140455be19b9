// Package errors formats olang compiler diagnostics with source context,
// line/column information, and caret indicators pointing at the offending
// span. Grounded on the teacher's internal/errors/errors.go, adapted from a
// single CompilerError type tied to lexer.Position into a Severity-tagged
// Diagnostic tied to span.Span.
package errors

import (
	"fmt"
	"strings"

	"github.com/go-olang/olangc/internal/span"
)

// Severity distinguishes a hard compilation error from a non-gating
// warning (the unused-local-variable check is the only Warning producer).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single compiler message with position and context, plain
// data rather than a Go error that unwinds the stack — every pass returns
// its diagnostics slice and the driver decides whether to gate on them.
type Diagnostic struct {
	Severity Severity
	Message  string
	Source   string
	File     string
	Span     span.Span
}

// New creates a Diagnostic at SeverityError.
func New(sp span.Span, message, source, file string) *Diagnostic {
	return &Diagnostic{Severity: SeverityError, Message: message, Source: source, File: file, Span: sp}
}

// NewWarning creates a Diagnostic at SeverityWarning.
func NewWarning(sp span.Span, message, source, file string) *Diagnostic {
	return &Diagnostic{Severity: SeverityWarning, Message: message, Source: source, File: file, Span: sp}
}

// Error implements the error interface so a Diagnostic can be returned or
// wrapped wherever a single-shot error value is convenient.
func (d *Diagnostic) Error() string {
	return d.Format(false)
}

// line and column render the diagnostic's start position one-based, the
// same convention span.Position.String uses for humans.
func (d *Diagnostic) line() int   { return d.Span.Start.Line + 1 }
func (d *Diagnostic) column() int { return d.Span.Start.Column + 1 }

// Format renders the one-based line:column header, the offending source
// line with a 4-wide right-aligned line-number gutter, and a caret line.
// If color is true, ANSI color codes are used for terminal output.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d\n", d.Severity, d.File, d.line(), d.column()))
	} else {
		sb.WriteString(fmt.Sprintf("%s at line %d:%d\n", d.Severity, d.line(), d.column()))
	}

	sourceLine := d.getSourceLine(d.line())
	if sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.line())
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+d.column()-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

// getSourceLine extracts a specific line from the source code. Lines are
// 1-indexed.
func (d *Diagnostic) getSourceLine(lineNum int) string {
	if d.Source == "" {
		return ""
	}

	lines := strings.Split(d.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}

	return lines[lineNum-1]
}

// getSourceContext extracts lines from (lineNum - contextBefore) to
// (lineNum + contextAfter), 1-indexed and clamped to the source's bounds.
func (d *Diagnostic) getSourceContext(lineNum, contextBefore, contextAfter int) []string {
	if d.Source == "" {
		return nil
	}

	lines := strings.Split(d.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return nil
	}

	start := lineNum - contextBefore
	if start < 1 {
		start = 1
	}

	end := lineNum + contextAfter
	if end > len(lines) {
		end = len(lines)
	}

	return lines[start-1 : end]
}

// FormatWithContext formats the diagnostic with surrounding source context.
func (d *Diagnostic) FormatWithContext(contextLines int, color bool) string {
	var sb strings.Builder

	if d.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d\n", d.Severity, d.File, d.line(), d.column()))
	} else {
		sb.WriteString(fmt.Sprintf("%s at line %d:%d\n", d.Severity, d.line(), d.column()))
	}

	contextLinesList := d.getSourceContext(d.line(), contextLines, contextLines)
	if len(contextLinesList) == 0 {
		return d.Format(color)
	}

	startLine := d.line() - contextLines
	if startLine < 1 {
		startLine = 1
	}

	for i, line := range contextLinesList {
		currentLine := startLine + i
		lineNumStr := fmt.Sprintf("%4d | ", currentLine)

		if currentLine == d.line() {
			if color {
				sb.WriteString("\033[1m")
			}
			sb.WriteString(lineNumStr)
			sb.WriteString(line)
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")

			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+d.column()-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		} else {
			if color {
				sb.WriteString("\033[2m")
			}
			sb.WriteString(lineNumStr)
			sb.WriteString(line)
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

// FormatAll formats multiple diagnostics, each with source context. When
// there is more than one it adds a numbered "[Error i of N]" header per
// diagnostic, matching the teacher's FormatErrors.
func FormatAll(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}

	if len(diags) == 1 {
		return diags[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compilation failed with %d error(s):\n\n", len(diags)))

	for i, d := range diags {
		sb.WriteString(fmt.Sprintf("[Error %d of %d]\n", i+1, len(diags)))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}

	return sb.String()
}

// FormatAllWithContext formats multiple diagnostics with source context.
func FormatAllWithContext(diags []*Diagnostic, contextLines int, color bool) string {
	if len(diags) == 0 {
		return ""
	}

	if len(diags) == 1 {
		return diags[0].FormatWithContext(contextLines, color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compilation failed with %d error(s):\n\n", len(diags)))

	for i, d := range diags {
		sb.WriteString(fmt.Sprintf("[Error %d of %d]\n", i+1, len(diags)))
		sb.WriteString(d.FormatWithContext(contextLines, color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}

	return sb.String()
}

// HasErrors reports whether diags contains at least one SeverityError
// entry (warnings alone never gate later pipeline stages).
func HasErrors(diags []*Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

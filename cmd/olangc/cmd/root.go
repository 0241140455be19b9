package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "olangc",
	Short: "olang compiler",
	Long: `olangc compiles olang, a small pure object-oriented teaching
language, to a stack-based Target Assembly.

The pipeline runs lex, parse, resolve, type-check, optimize, and emit in
order; it stops at the first stage that reports an error, so a later stage
never runs over a tree that an earlier stage already rejected.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// exitCoder is implemented by errors that know which process exit code they
// should produce, distinguishing "compilation reported diagnostics" (1) from
// "the compiler itself failed" (2).
type exitCoder interface {
	ExitCode() int
}

// ExitCode maps an error returned by Execute to a process exit code: 0 for
// nil, the error's own code if it implements exitCoder, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ec, ok := err.(exitCoder); ok {
		return ec.ExitCode()
	}
	return 1
}

// diagnosticsError reports that the pipeline ran to a stage that produced
// error diagnostics, already printed to stderr by the caller; Execute only
// needs it to carry the right exit code.
type diagnosticsError struct {
	stage string
	count int
}

func (e *diagnosticsError) Error() string {
	return fmt.Sprintf("%s reported %d error(s)", e.stage, e.count)
}

func (e *diagnosticsError) ExitCode() int { return 1 }

// internalError reports a failure in the compiler itself (an invariant
// violation reaching the emitter, a write failure), not in the source
// program under compilation.
type internalError struct {
	cause error
}

func (e *internalError) Error() string { return fmt.Sprintf("internal error: %v", e.cause) }
func (e *internalError) Unwrap() error { return e.cause }
func (e *internalError) ExitCode() int { return 2 }

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

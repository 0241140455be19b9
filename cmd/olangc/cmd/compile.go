package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-olang/olangc/internal/compiler"
	"github.com/go-olang/olangc/internal/emitter"
	"github.com/go-olang/olangc/internal/errors"
	"github.com/spf13/cobra"
)

var (
	outDir      string
	disassemble bool
	noColor     bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile an olang source file to Target Assembly",
	Long: `Compile runs the full pipeline (lex, parse, resolve, type-check,
optimize, emit) over a single olang source file and writes one .assembly
file per class to the output directory.

Examples:
  # Compile a program, writing <class>.assembly files to ./out
  olangc compile program.olang

  # Compile to a custom output directory
  olangc compile program.olang --out build/

  # Compile and print the emitted assembly to stderr as well
  olangc compile program.olang --disassemble`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outDir, "out", "o", "out", "output directory for .assembly files")
	compileCmd.Flags().BoolVar(&disassemble, "disassemble", false, "print the emitted assembly to stderr after compilation")
	compileCmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI color in diagnostic output")
}

func runCompile(cmd *cobra.Command, args []string) error {
	filename := args[0]
	verbose, _ := cmd.Flags().GetBool("verbose")

	content, err := os.ReadFile(filename)
	if err != nil {
		return &internalError{cause: fmt.Errorf("reading %s: %w", filename, err)}
	}

	var logger compiler.Logger = compiler.NopLogger{}
	if verbose {
		logger = compiler.StderrLogger{}
	}

	res, err := compiler.Compile(string(content), filename, compiler.WithLogger(logger))
	if err != nil {
		return &internalError{cause: err}
	}

	if len(res.Diagnostics) > 0 {
		fmt.Fprint(os.Stderr, errors.FormatAll(res.Diagnostics, !noColor))
	}
	if res.HasErrors() {
		return &diagnosticsError{stage: string(res.StoppedAt), count: countErrors(res.Diagnostics)}
	}

	if err := emitter.WriteFiles(res.Files, outDir); err != nil {
		return &internalError{cause: err}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "wrote %d file(s) to %s\n", len(res.Files), outDir)
	}
	if res.OptimizeStats != nil && verbose {
		fmt.Fprintf(os.Stderr, "optimize: %d constant fold(s), %d dead statement(s) removed\n",
			res.OptimizeStats.FoldsApplied, res.OptimizeStats.DeadStatementsRemoved)
	}

	if disassemble {
		for _, name := range sortedKeys(res.Files) {
			fmt.Fprintf(os.Stderr, "== %s ==\n%s\n", name, res.Files[name])
		}
	}

	fmt.Printf("compiled %s -> %s (%d file(s))\n", filename, outDir, len(res.Files))
	return nil
}

func countErrors(diags []*errors.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == errors.SeverityError {
			n++
		}
	}
	return n
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

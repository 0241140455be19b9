package cmd

import (
	"fmt"
	"os"

	"github.com/go-olang/olangc/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	evalExpr   string
	showPos    bool
	onlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize an olang file or expression",
	Long: `Tokenize olang source and print the resulting tokens, one per line.

This command is useful for debugging the lexer and understanding how
olang source is tokenized; it is not part of the normal compile pipeline.

Examples:
  # Tokenize a source file
  olangc lex program.olang

  # Tokenize inline source
  olangc lex -e "class C is this() is end end"

  # Show token spans
  olangc lex --show-pos program.olang`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline source instead of reading from a file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show each token's source span")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only Error-kind tokens")
}

func runLex(_ *cobra.Command, args []string) error {
	var input, filename string
	switch {
	case evalExpr != "":
		input, filename = evalExpr, "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return &internalError{cause: fmt.Errorf("reading %s: %w", filename, err)}
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline source")
	}

	lx := lexer.New(input)
	toks := lx.Lex()

	for _, t := range toks {
		if onlyErrors && t.Kind != lexer.Error {
			continue
		}
		printToken(t)
	}

	if msgs := lx.Errors(); len(msgs) > 0 {
		for _, m := range msgs {
			fmt.Fprintln(os.Stderr, m)
		}
		return &diagnosticsError{stage: "lex", count: len(msgs)}
	}
	return nil
}

func printToken(t lexer.Token) {
	out := fmt.Sprintf("%-12s %q", t.Kind, t.Lexeme)
	if showPos {
		out += fmt.Sprintf(" @%d:%d", t.Span.Start.Line+1, t.Span.Start.Column+1)
	}
	fmt.Println(out)
}

package lexer

import "github.com/go-olang/olangc/internal/span"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	EOF Kind = iota
	Error

	Identifier
	IntegerLit
	RealLit
	StringLit

	// Keywords
	Class
	Extends
	Is
	End
	Var
	Method
	This
	If
	Then
	Else
	While
	Loop
	Return
	True
	False

	// Punctuation / operators
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Dot
	Colon
	Assign // :=
	Arrow  // =>
)

var kindNames = map[Kind]string{
	EOF:        "EOF",
	Error:      "Error",
	Identifier: "Identifier",
	IntegerLit: "IntegerLit",
	RealLit:    "RealLit",
	StringLit:  "StringLit",
	Class:      "class",
	Extends:    "extends",
	Is:         "is",
	End:        "end",
	Var:        "var",
	Method:     "method",
	This:       "this",
	If:         "if",
	Then:       "then",
	Else:       "else",
	While:      "while",
	Loop:       "loop",
	Return:     "return",
	True:       "true",
	False:      "false",
	LParen:     "(",
	RParen:     ")",
	LBracket:   "[",
	RBracket:   "]",
	LBrace:     "{",
	RBrace:     "}",
	Comma:      ",",
	Dot:        ".",
	Colon:      ":",
	Assign:     ":=",
	Arrow:      "=>",
}

// String returns the human-readable name of a Kind, used in diagnostics and
// debug dumps (e.g. `olangc lex`).
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// keywords maps exact-case reserved words to their Kind. Anything not found
// here lexes as Identifier.
var keywords = map[string]Kind{
	"class":   Class,
	"extends": Extends,
	"is":      Is,
	"end":     End,
	"var":     Var,
	"method":  Method,
	"this":    This,
	"if":      If,
	"then":    Then,
	"else":    Else,
	"while":   While,
	"loop":    Loop,
	"return":  Return,
	"true":    True,
	"false":   False,
}

// LookupIdentifier resolves name to a keyword Kind, or Identifier if it is
// not a reserved word. Lookup is exact-case: olang has no case-insensitive
// keywords.
func LookupIdentifier(name string) Kind {
	if kind, ok := keywords[name]; ok {
		return kind
	}
	return Identifier
}

// Token is a single lexical unit: its kind, the exact source text it came
// from, and the span it occupies.
type Token struct {
	Kind   Kind
	Lexeme string
	Span   span.Span
}

// IsKeyword reports whether the token's kind is one of the reserved words.
func (t Token) IsKeyword() bool {
	return t.Kind >= Class && t.Kind <= False
}

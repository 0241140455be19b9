package lexer

import "testing"

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestLexKeywordsAndPunctuation(t *testing.T) {
	src := `class Foo extends Bar is var x : Integer(1) end`
	toks := New(src).Lex()
	want := []Kind{Class, Identifier, Extends, Identifier, Is, Var, Identifier, Colon, Identifier, LParen, IntegerLit, RParen, End, EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexAssignVsColon(t *testing.T) {
	toks := New(`a := b : c`).Lex()
	want := []Kind{Identifier, Assign, Identifier, Colon, Identifier, EOF}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexArrow(t *testing.T) {
	toks := New(`method f() => x`).Lex()
	found := false
	for _, tok := range toks {
		if tok.Kind == Arrow {
			found = true
		}
	}
	if !found {
		t.Error("expected an Arrow token")
	}
}

func TestLexIntegerAndReal(t *testing.T) {
	toks := New(`42 -7 3.14 -0.5`).Lex()
	if toks[0].Kind != IntegerLit || toks[0].Lexeme != "42" {
		t.Errorf("token 0: %+v", toks[0])
	}
	if toks[1].Kind != IntegerLit || toks[1].Lexeme != "-7" {
		t.Errorf("token 1: %+v", toks[1])
	}
	if toks[2].Kind != RealLit || toks[2].Lexeme != "3.14" {
		t.Errorf("token 2: %+v", toks[2])
	}
	if toks[3].Kind != RealLit || toks[3].Lexeme != "-0.5" {
		t.Errorf("token 3: %+v", toks[3])
	}
}

func TestLexInvalidNumericLiteral(t *testing.T) {
	l := New(`1.2.3`)
	toks := l.Lex()
	if toks[0].Kind != Error {
		t.Errorf("expected Error token, got %v", toks[0].Kind)
	}
	if len(l.Errors()) == 0 {
		t.Error("expected a lexical error to be recorded")
	}
}

func TestLexUnterminatedString(t *testing.T) {
	l := New(`"hello`)
	toks := l.Lex()
	if toks[0].Kind != Error {
		t.Errorf("expected Error token, got %v", toks[0].Kind)
	}
	if len(l.Errors()) != 1 {
		t.Errorf("expected 1 lexical error, got %d", len(l.Errors()))
	}
}

func TestLexUnterminatedBlockComment(t *testing.T) {
	l := New("/* comment\nnever closes")
	toks := l.Lex()
	if len(l.Errors()) != 1 {
		t.Errorf("expected 1 lexical error, got %d: %v", len(l.Errors()), l.Errors())
	}
	if toks[len(toks)-1].Kind != EOF {
		t.Error("expected stream to still terminate with EOF")
	}
}

func TestLexLineCommentSkipped(t *testing.T) {
	toks := New("x // trailing comment\ny").Lex()
	want := []Kind{Identifier, Identifier, EOF}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexUnexpectedCharacterRecovers(t *testing.T) {
	l := New(`a @ b`)
	toks := l.Lex()
	want := []Kind{Identifier, Error, Identifier, EOF}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if len(l.Errors()) != 1 {
		t.Errorf("expected 1 lexical error, got %d", len(l.Errors()))
	}
}

func TestLexBareMinusIsError(t *testing.T) {
	l := New(`- 1`)
	toks := l.Lex()
	if toks[0].Kind != Error {
		t.Errorf("expected Error token for bare '-', got %v", toks[0].Kind)
	}
}

func TestLexAlwaysEndsWithEOF(t *testing.T) {
	toks := New(``).Lex()
	if len(toks) != 1 || toks[0].Kind != EOF {
		t.Errorf("expected single EOF token for empty input, got %v", toks)
	}
}

func TestLexTrueFalseAreKeywords(t *testing.T) {
	toks := New(`true false`).Lex()
	if toks[0].Kind != True || toks[1].Kind != False {
		t.Errorf("got %v, %v", toks[0].Kind, toks[1].Kind)
	}
}

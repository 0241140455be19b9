package compiler

import (
	"strings"
	"testing"
)

func TestCompileSimpleClassProducesOneAssemblyFile(t *testing.T) {
	src := `class SimpleClass is var value : Integer(42) this() is end end`
	res, err := Compile(src, "t.olang")
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if res.StoppedAt != "" {
		t.Fatalf("expected the pipeline to run to completion, stopped at %q", res.StoppedAt)
	}
	if _, ok := res.Files["SimpleClass.assembly"]; !ok {
		t.Fatalf("expected SimpleClass.assembly in output, got %v", res.Files)
	}
}

func TestCompileStopsAtLexOnInvalidCharacter(t *testing.T) {
	res, err := Compile("class C is var x : Integer(1) this() is end end #", "t.olang")
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if res.StoppedAt != StageLex {
		t.Fatalf("expected lex to stop the pipeline, got stage %q", res.StoppedAt)
	}
	if res.Files != nil {
		t.Fatalf("expected no emitted files after a lex failure")
	}
}

func TestCompileStopsAtParseOnMalformedSource(t *testing.T) {
	res, err := Compile("class C is this( is end end", "t.olang")
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if res.StoppedAt != StageParse {
		t.Fatalf("expected parse to stop the pipeline, got stage %q", res.StoppedAt)
	}
}

func TestCompileStopsAtResolveOnUnknownType(t *testing.T) {
	res, err := Compile(`class C is var x : Bogus(1) this() is end end`, "t.olang")
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if res.StoppedAt != StageResolve && res.StoppedAt != StageTypecheck {
		t.Fatalf("expected resolve or typecheck to stop the pipeline, got stage %q", res.StoppedAt)
	}
}

func TestCompileStopsAtTypecheckOnReturnMismatch(t *testing.T) {
	src := `class TypeErr is method getNumber() : Integer is return Boolean(true) end this() is end end`
	res, err := Compile(src, "t.olang")
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if res.StoppedAt != StageTypecheck {
		t.Fatalf("expected typecheck to stop the pipeline, got stage %q", res.StoppedAt)
	}
	if res.Files != nil {
		t.Fatalf("expected the emitter not to run after a type error")
	}
	found := false
	for _, d := range res.Diagnostics {
		if strings.Contains(d.Message, "return") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a return-type diagnostic, got %v", res.Diagnostics)
	}
}

func TestCompileSynthesizesStartEntryPoint(t *testing.T) {
	src := `class Start is method start() is var p : Printer() p.print(Integer(7)) end this() is end end`
	res, err := Compile(src, "t.olang")
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if _, ok := res.Files["Main.assembly"]; !ok {
		t.Fatalf("expected a synthesized entry point, got %v", res.Files)
	}
}

func TestCompileReportsOptimizeStats(t *testing.T) {
	src := `class ConstFold is this() is var r : Integer(2).Plus(Integer(3)).Mult(Integer(4)) end end`
	res, err := Compile(src, "t.olang")
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if res.OptimizeStats == nil || res.OptimizeStats.FoldsApplied == 0 {
		t.Fatalf("expected constant folding to be applied and recorded, got %+v", res.OptimizeStats)
	}
}

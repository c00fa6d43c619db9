package asm

import (
	"strings"
	"testing"
)

func tokens(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer(strings.NewReader(src))
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next(%q): %v", src, err)
		}
		if tok.Kind == TokEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestLexNumbers(t *testing.T) {
	toks := tokens(t, "42 -7 $ff -$10")
	want := []int32{42, -7, 0xff, -0x10}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, tok := range toks {
		if tok.Kind != TokLiteral || tok.Num != want[i] {
			t.Fatalf("token %d = %+v, want literal %d", i, tok, want[i])
		}
	}
}

func TestLexCommentsAreSkipped(t *testing.T) {
	toks := tokens(t, "1 \\ line comment\n2 ( paren comment ) 3")
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3: %+v", len(toks), toks)
	}
}

func TestLexOpenParenIsIdentifierWithoutSpace(t *testing.T) {
	toks := tokens(t, "(foo)")
	if len(toks) != 1 || toks[0].Kind != TokIdentifier || toks[0].Str != "(foo)" {
		t.Fatalf("got %+v, want single identifier \"(foo)\"", toks)
	}
}

func TestLexUnterminatedParenCommentErrors(t *testing.T) {
	l := NewLexer(strings.NewReader("( unterminated"))
	if _, err := l.Next(); err == nil {
		t.Fatal("expected an error for unterminated comment")
	}
}

func TestLexString(t *testing.T) {
	toks := tokens(t, `"hello world"`)
	if len(toks) != 1 || toks[0].Kind != TokString || toks[0].Str != "hello world" {
		t.Fatalf("got %+v, want string token", toks)
	}
}

func TestLexStringSpansNewline(t *testing.T) {
	toks := tokens(t, "\"hello\nworld\"")
	if len(toks) != 1 || toks[0].Kind != TokString || toks[0].Str != "hello\nworld" {
		t.Fatalf("got %+v, want string token spanning a newline", toks)
	}
}

func TestLexUnterminatedStringErrors(t *testing.T) {
	l := NewLexer(strings.NewReader("\"no closing quote"))
	if _, err := l.Next(); err == nil {
		t.Fatal("expected an error for unterminated string")
	}
}

func TestLexKeywordMnemonicLabelIdentifier(t *testing.T) {
	toks := tokens(t, "if dup loop: foo")
	if toks[0].Kind != TokIf {
		t.Fatalf("toks[0] = %+v, want TokIf", toks[0])
	}
	if toks[1].Kind != TokMnemonic || toks[1].Str != "dup" {
		t.Fatalf("toks[1] = %+v, want mnemonic dup", toks[1])
	}
	if toks[2].Kind != TokLabel || toks[2].Str != "loop" {
		t.Fatalf("toks[2] = %+v, want label loop", toks[2])
	}
	if toks[3].Kind != TokIdentifier || toks[3].Str != "foo" {
		t.Fatalf("toks[3] = %+v, want identifier foo", toks[3])
	}
}

func TestLexDefinitionNestingRejected(t *testing.T) {
	l := NewLexer(strings.NewReader(": a : b ;"))
	var err error
	for i := 0; i < 4 && err == nil; i++ {
		_, err = l.Next()
	}
	if err == nil {
		t.Fatal("expected an error for nested definition")
	}
}

func TestLexSemicolonOutsideDefinitionRejected(t *testing.T) {
	l := NewLexer(strings.NewReader(";"))
	if _, err := l.Next(); err == nil {
		t.Fatal("expected an error for ; outside a definition")
	}
}

func TestLexIdentifierTooLongErrors(t *testing.T) {
	l := NewLexer(strings.NewReader(strings.Repeat("a", maxIdent+1)))
	if _, err := l.Next(); err == nil {
		t.Fatal("expected an error for oversize identifier")
	}
}

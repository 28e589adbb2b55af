package lowering_test

import (
	"strings"
	"testing"
	"text/scanner"

	"github.com/dcaiafa/p2llvm/ast"
)

// tokenize splits generated IR text into scanner tokens the same way
// asm/parser.go tokenizes assembly source, so golden comparisons aren't
// pinned to incidental whitespace/formatting. Punctuation runes (`@`,
// `(`, `{`, ...) come back as their own single-character tokens.
func tokenize(src string) []string {
	var s scanner.Scanner
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanStrings
	var out []string
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		out = append(out, s.TokenText())
	}
	return out
}

// containsTokenSeq reports whether seq occurs as a contiguous run inside
// tokens, independent of line breaks or whitespace run-length.
func containsTokenSeq(tokens []string, seq ...string) bool {
	if len(seq) == 0 || len(seq) > len(tokens) {
		return false
	}
	for i := 0; i+len(seq) <= len(tokens); i++ {
		match := true
		for j, want := range seq {
			if tokens[i+j] != want {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// TestLower_goldenSkeleton checks the fixed file-prologue and @main
// skeleton token-for-token, ignoring formatting, for the smallest
// possible program: an empty body with no declarations.
func TestLower_goldenSkeleton(t *testing.T) {
	prog := &ast.Program{SourcePath: "empty.p"}
	out := lower(t, prog)
	tokens := tokenize(out)

	for _, seq := range [][]string{
		{"target", "datalayout"},
		{"target", "triple"},
		{"declare", "i32", "@", "printf"},
		{"declare", "i32", "@", "__isoc99_scanf"},
		{"define", "i32", "@", "main", "(", ")", "{"},
		{"ret", "i32", "0"},
	} {
		if !containsTokenSeq(tokens, seq...) {
			t.Errorf("golden token sequence %v not found in:\n%s", seq, out)
		}
	}
}

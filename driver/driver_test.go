package driver_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dcaiafa/p2llvm/driver"
)

func TestOutputPath(t *testing.T) {
	cases := []struct {
		src, outDir, want string
	}{
		{"prog.json", "build", filepath.Join("build", "prog.ll")},
		{filepath.Join("in", "prog.json"), "build", filepath.Join("build", "prog.ll")},
		{"prog.ast.json", ".", "prog.ast.ll"},
		{"noext", "out", filepath.Join("out", "noext.ll")},
	}
	for _, c := range cases {
		if got := driver.OutputPath(c.src, c.outDir); got != c.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", c.src, c.outDir, got, c.want)
		}
	}
}

const helloAST = `{
  "source_path": "hello.p",
  "decls": [
    {"entry": {"name": "x", "kind": "variable", "type": {"elem": "integer"}, "level": 0}}
  ],
  "body": [
    {"kind": "assign",
     "target": {"kind": "var", "name": "x"},
     "value": {"kind": "int", "value": 7}},
    {"kind": "print", "arg": {"kind": "var", "name": "x"}}
  ]
}`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "hello.json")
	if err := os.WriteFile(srcPath, []byte(helloAST), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	outDir := filepath.Join(dir, "out")
	if err := driver.Run(srcPath, outDir); err != nil {
		t.Fatalf("Run: %v", err)
	}

	outPath := filepath.Join(outDir, "hello.ll")
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading generated output: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "@x = global i32 0") {
		t.Errorf("generated IR missing global declaration:\n%s", out)
	}
	if !strings.Contains(out, "store i32 7, i32* @x") {
		t.Errorf("generated IR missing store:\n%s", out)
	}
}

func TestRun_decodeError(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(srcPath, []byte("not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := driver.Run(srcPath, filepath.Join(dir, "out")); err == nil {
		t.Fatal("Run with malformed AST: expected an error, got nil")
	}
}

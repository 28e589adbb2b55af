// Package driver wires together AST decoding and lowering into the
// filesystem: deriving the output path from the source path and owning the
// output file's lifecycle (§2 "Driver glue", §6).
package driver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dcaiafa/p2llvm/ast"
	"github.com/dcaiafa/p2llvm/ir"
	"github.com/dcaiafa/p2llvm/lowering"
	"github.com/dcaiafa/p2llvm/symbol"
	"github.com/pkg/errors"
)

// OutputPath derives the `.ll` path for a source AST file living in outDir:
// the source's base name with its last extension stripped, joined to
// outDir, with `.ll` appended (§6). `prog/prog.json` with outDir `build`
// yields `build/prog.ll`.
func OutputPath(sourcePath, outDir string) string {
	base := filepath.Base(sourcePath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return filepath.Join(outDir, base+".ll")
}

// Run decodes the AST found at sourcePath, lowers it, and writes the
// resulting IR to outDir (an empty outDir means the current directory),
// following the derivation in OutputPath. The
// output file is opened last, immediately before lowering, and is always
// closed, on every exit path, regardless of whether lowering succeeded
// (§4.1, §5 CONCURRENCY & RESOURCE MODEL).
func Run(sourcePath, outDir string) (err error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return errors.Wrapf(err, "driver: reading %s", sourcePath)
	}

	table := symbol.NewMapTable()
	prog, err := ast.Decode(data, table)
	if err != nil {
		return errors.Wrapf(err, "driver: decoding %s", sourcePath)
	}
	prog.SourcePath = sourcePath

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return errors.Wrapf(err, "driver: creating output directory %s", outDir)
		}
	}

	outPath := OutputPath(sourcePath, outDir)
	f, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "driver: creating %s", outPath)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "driver: closing %s", outPath)
		}
	}()

	em := ir.NewEmitter(f)
	cg := lowering.New(em)
	if err := cg.Lower(prog); err != nil {
		return errors.Wrapf(err, "driver: lowering %s", sourcePath)
	}
	return nil
}

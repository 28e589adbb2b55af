package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dcaiafa/p2llvm/driver"
	"github.com/pkg/errors"
)

var (
	outDir string
	debug  bool
)

func atExit(err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "p2llvm: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "p2llvm: %+v\n", err)
	os.Exit(1)
}

func main() {
	var err error
	defer func() { atExit(err) }()

	flag.StringVar(&outDir, "o", ".", "output `directory` for the generated .ll file")
	flag.BoolVar(&debug, "debug", false, "print a full error stack trace on failure")
	flag.Parse()

	if flag.NArg() != 1 {
		err = errors.New("usage: p2llvm [-o dir] [-debug] <ast.json>")
		return
	}

	err = driver.Run(flag.Arg(0), outDir)
}

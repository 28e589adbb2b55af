package ir_test

import (
	"testing"

	"github.com/dcaiafa/p2llvm/ir"
)

func TestStack_pushPop(t *testing.T) {
	s := ir.NewStack()
	if s.Len() != 0 {
		t.Fatalf("new stack Len() = %d, want 0", s.Len())
	}

	s.PushInt(42)
	s.PushReg(7)
	s.PushFloat(3.5)
	s.PushStr("hi")
	s.PushGlobal("x")

	if s.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", s.Len())
	}

	want := []ir.Value{
		{Tag: ir.TagGlobal, Global: "x"},
		{Tag: ir.TagStr, Str: "hi"},
		{Tag: ir.TagFloat, Float: 3.5},
		{Tag: ir.TagReg, Reg: 7},
		{Tag: ir.TagInt, Int: 42},
	}
	for _, w := range want {
		got, err := s.Pop()
		if err != nil {
			t.Fatalf("Pop() error: %v", err)
		}
		if got != w {
			t.Errorf("Pop() = %+v, want %+v", got, w)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("Len() after draining = %d, want 0", s.Len())
	}
}

func TestStack_popEmpty(t *testing.T) {
	s := ir.NewStack()
	if _, err := s.Pop(); err == nil {
		t.Fatal("Pop() on empty stack: expected an error, got nil")
	}
}

func TestTag_String(t *testing.T) {
	cases := map[ir.Tag]string{
		ir.TagInt:    "INT",
		ir.TagReg:    "REG",
		ir.TagFloat:  "FLOAT",
		ir.TagStr:    "STR",
		ir.TagGlobal: "GLOBAL",
		ir.Tag(99):   "UNKNOWN",
	}
	for tag, want := range cases {
		if got := tag.String(); got != want {
			t.Errorf("Tag(%d).String() = %q, want %q", tag, got, want)
		}
	}
}

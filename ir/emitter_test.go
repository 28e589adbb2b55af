package ir_test

import (
	"strings"
	"testing"

	"github.com/dcaiafa/p2llvm/ir"
)

func TestEmitter_patch(t *testing.T) {
	var buf ir.Buffer
	em := ir.NewEmitter(&buf)

	if err := em.Raw("  br i1 %0, label %5, label %"); err != nil {
		t.Fatalf("Raw: %v", err)
	}
	pp, err := em.Placeholder()
	if err != nil {
		t.Fatalf("Placeholder: %v", err)
	}
	if err := em.Raw("\n"); err != nil {
		t.Fatalf("Raw: %v", err)
	}
	if err := em.Line("5:"); err != nil {
		t.Fatalf("Line: %v", err)
	}
	if err := em.Patch(pp, 12); err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if err := em.Line("12:"); err != nil {
		t.Fatalf("Line: %v", err)
	}

	got := buf.String()
	wantFirstLine := "  br i1 %0, label %5, label %12"
	firstLine := strings.SplitN(got, "\n", 2)[0]
	if strings.TrimRight(firstLine, " ") != wantFirstLine {
		t.Errorf("patched line = %q, want %q plus trailing padding", firstLine, wantFirstLine)
	}
	if !strings.HasSuffix(got, "12:\n") {
		t.Errorf("output does not end with the final label, got %q", got)
	}
}

// TestEmitter_patchOverflow exercises the §8-required detectability of a
// label whose decimal width exceeds the placeholder's fixed width.
func TestEmitter_patchOverflow(t *testing.T) {
	var buf ir.Buffer
	em := ir.NewEmitter(&buf)

	pp, err := em.Placeholder()
	if err != nil {
		t.Fatalf("Placeholder: %v", err)
	}

	const tenDigits = 4294967295 // uint32 max, one digit wider than PlaceholderWidth
	if err := em.Patch(pp, tenDigits); err == nil {
		t.Fatalf("Patch(%d): expected overflow error, got nil", uint32(tenDigits))
	}
}

func TestEmitter_rawThenLineOrder(t *testing.T) {
	var buf ir.Buffer
	em := ir.NewEmitter(&buf)
	if err := em.Raw("a\n"); err != nil {
		t.Fatalf("Raw: %v", err)
	}
	if err := em.Line("b: %d", 3); err != nil {
		t.Fatalf("Line: %v", err)
	}
	want := "a\nb: 3\n"
	if got := buf.String(); got != want {
		t.Errorf("buffer = %q, want %q", got, want)
	}
}

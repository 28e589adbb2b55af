package lowering

import (
	"strconv"

	"github.com/dcaiafa/p2llvm/ir"
	"github.com/dcaiafa/p2llvm/symbol"
	"github.com/pkg/errors"
)

func itoa(n int) string { return strconv.Itoa(n) }

// errf is a small wrapper so call sites read like fmt.Errorf while still
// getting github.com/pkg/errors' stack-trace capture (§10.1).
func errf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// operandText renders v as a bare LLVM operand: an immediate literal with
// no `%` sigil, an SSA register as `%<n>`, or a global as `@<name>` (§4.5:
// "immediate operands are emitted without the % sigil"). Float/string
// payloads have no lowering (§1 Non-goals) and are reported as errors
// rather than guessed at.
func operandText(v ir.Value) (string, error) {
	switch v.Tag {
	case ir.TagInt:
		return strconv.Itoa(int(v.Int)), nil
	case ir.TagReg:
		return "%" + strconv.FormatUint(uint64(v.Reg), 10), nil
	case ir.TagGlobal:
		return "@" + v.Global, nil
	case ir.TagFloat:
		return "", errors.New("lowering: float codegen is unsupported")
	case ir.TagStr:
		return "", errors.New("lowering: string codegen is unsupported")
	default:
		return "", errors.Errorf("lowering: unknown shadow-stack tag %v", v.Tag)
	}
}

// scalarAlign is the alignment of a scalar i32 alloca/global (§4.6).
const scalarAlign = 4

// mainArrayAlign is the alignment of a concrete array alloca owned by the
// function it is declared in (§4.6: "in main ... align 16").
const mainArrayAlign = 16

// pointerAlign is the alignment of the pointer-holding alloca a non-main
// function uses for an array parameter or local (§4.6: "align 8").
const pointerAlign = 8

// allocaType returns the LLVM type of e's alloca, following §4.4/§4.6:
// scalars are always `i32`; arrays are the concrete array type when owned
// by the declaring (main) function, or the pointer-form type when the
// storage is merely passed in (any non-main function).
func allocaType(e *symbol.Entry, nonMain bool) string {
	switch e.Type.Rank() {
	case 0:
		return "i32"
	case 1:
		if nonMain {
			return "i32*"
		}
		return "[" + itoa(e.Type.Dims[0]) + " x i32]"
	case 2:
		row := arrayRowType(e.Type.Dims[1])
		if nonMain {
			return row + "*"
		}
		return "[" + itoa(e.Type.Dims[0]) + " x " + row + "]"
	default:
		return "i32" // unreachable: rank > 2 rejected at decode time
	}
}

// allocaAlign returns the alignment that goes with allocaType(e, nonMain).
func allocaAlign(e *symbol.Entry, nonMain bool) int {
	switch {
	case e.Type.Rank() == 0:
		return scalarAlign
	case nonMain:
		return pointerAlign
	default:
		return mainArrayAlign
	}
}

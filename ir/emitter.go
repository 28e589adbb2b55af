// Package ir implements the leaf components of the lowering engine: the
// text emitter with forward-label patching, the tagged-union shadow stack,
// the SSA/label numbering authority, the scope context stack, and the
// local-slot binding map (§2, §3, §4.1–§4.2).
package ir

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// PlaceholderWidth is the fixed width, in bytes, reserved for a
// forward-referenced label. It must be at least the decimal width of the
// largest label number ever minted in one function; exceeding it is
// detected and reported rather than silently truncating (§4.1, §8). Nine
// digits accommodates any function with fewer than one billion minted
// SSA values/labels, while still leaving label values in the upper range
// of uint32 (ten digits) able to exercise the overflow check in tests.
const PlaceholderWidth = 9

// PatchPoint remembers where a forward-referenced label placeholder was
// written so it can be rewritten once the label's numeric value is known.
type PatchPoint struct {
	offset int64
}

// Emitter appends formatted IR text to a sink and supports patched
// insertions: a fixed-width run of spaces is written at the current
// position, its offset remembered, and later overwritten in place once the
// forward-referenced value becomes known (§4.1).
//
// The sink must implement io.WriteSeeker. For the real driver this is an
// *os.File opened by package driver; tests use an in-memory seekable
// buffer so that patching never needs real file I/O.
type Emitter struct {
	w      io.WriteSeeker
	offset int64
}

// NewEmitter wraps w. Open-output failure (constructing w) is the caller's
// concern (§4.1); NewEmitter itself cannot fail.
func NewEmitter(w io.WriteSeeker) *Emitter {
	return &Emitter{w: w}
}

// write appends p at the current offset, advancing it. Any write failure is
// fatal (§4.1) and is returned wrapped.
func (e *Emitter) write(p []byte) error {
	n, err := e.w.Write(p)
	e.offset += int64(n)
	if err != nil {
		return errors.Wrap(err, "ir: emitter write failed")
	}
	return nil
}

// Raw appends s verbatim, with no trailing newline.
func (e *Emitter) Raw(s string) error {
	return e.write([]byte(s))
}

// Line appends a formatted line followed by a newline.
func (e *Emitter) Line(format string, args ...interface{}) error {
	return e.write([]byte(fmt.Sprintf(format, args...) + "\n"))
}

// Placeholder writes PlaceholderWidth spaces at the current offset and
// returns a PatchPoint identifying them, so the caller can keep composing
// the rest of the line (e.g. ", label %<PH>") before later learning the
// forward-referenced label number.
func (e *Emitter) Placeholder() (PatchPoint, error) {
	pp := PatchPoint{offset: e.offset}
	pad := make([]byte, PlaceholderWidth)
	for i := range pad {
		pad[i] = ' '
	}
	if err := e.write(pad); err != nil {
		return PatchPoint{}, err
	}
	return pp, nil
}

// Patch overwrites a previously reserved placeholder with label's decimal
// representation, left-justified and space-padded to PlaceholderWidth, then
// restores the write cursor to the end of the stream. Patch fails fatally
// (§4.1) if label's decimal width exceeds PlaceholderWidth (§8: this
// overflow must be detectable by tests) or if seeking fails.
func (e *Emitter) Patch(pp PatchPoint, label uint32) error {
	digits := strconv.FormatUint(uint64(label), 10)
	if len(digits) > PlaceholderWidth {
		return errors.Errorf("ir: label %d overflows %d-byte patch placeholder", label, PlaceholderWidth)
	}
	buf := make([]byte, PlaceholderWidth)
	copy(buf, digits)
	for i := len(digits); i < PlaceholderWidth; i++ {
		buf[i] = ' '
	}
	end := e.offset
	if _, err := e.w.Seek(pp.offset, io.SeekStart); err != nil {
		return errors.Wrap(err, "ir: seek to patch point failed")
	}
	n, err := e.w.Write(buf)
	if err != nil {
		return errors.Wrap(err, "ir: patch write failed")
	}
	if int64(n) != PlaceholderWidth {
		return errors.Errorf("ir: short patch write (%d of %d bytes)", n, PlaceholderWidth)
	}
	if _, err := e.w.Seek(end, io.SeekStart); err != nil {
		return errors.Wrap(err, "ir: seek back to end failed")
	}
	return nil
}

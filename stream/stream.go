// Package stream reads and writes flat files of concatenated regdeps
// wire-format instructions: no framing beyond the codec's own 4-byte
// alignment, one encoded instruction after another.
package stream

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
)

// Load reads every instruction from path and returns them as a slice,
// decoded in file order.
func Load(path string) ([]*regdeps.Instruction, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- caller-supplied trace file
	if err != nil {
		return nil, fmt.Errorf("stream: read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode decodes every instruction packed in buf, in order, until no
// bytes remain. It returns the instructions decoded so far and an error
// wrapping io.ErrUnexpectedEOF if the last instruction is truncated.
func Decode(buf []byte) ([]*regdeps.Instruction, error) {
	var out []*regdeps.Instruction
	offset := 0
	for offset < len(buf) {
		rest := buf[offset:]
		if len(rest) < regdeps.HeaderBytes {
			return out, fmt.Errorf("stream: truncated header at offset %d: %w", offset, io.ErrUnexpectedEOF)
		}
		header := binary.LittleEndian.Uint32(rest)
		numOpnds := int(header&regdeps.DstOpndMask) + int((header&regdeps.SrcOpndMask)>>regdeps.SrcOpndShift)
		if need := int(regdeps.EncodedLength(numOpnds)); len(rest) < need {
			return out, fmt.Errorf("stream: truncated instruction at offset %d: need %d bytes, have %d: %w", offset, need, len(rest), io.ErrUnexpectedEOF)
		}
		inst := &regdeps.Instruction{}
		n := regdeps.Decode(buf[offset:], inst)
		if n == 0 {
			return out, fmt.Errorf("stream: zero-length decode at offset %d", offset)
		}
		out = append(out, inst)
		offset += n
	}
	return out, nil
}

// Save encodes insts in order and writes the concatenated bytes to path.
func Save(path string, insts []*regdeps.Instruction) error {
	buf, err := Encode(insts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0644); err != nil { // #nosec G306 -- trace output, not sensitive
		return fmt.Errorf("stream: write %s: %w", path, err)
	}
	return nil
}

// Encode flattens insts back into a single 4-byte-aligned byte stream.
func Encode(insts []*regdeps.Instruction) ([]byte, error) {
	var buf []byte
	for i, inst := range insts {
		var err error
		buf, err = regdeps.EncodeAppend(inst, buf)
		if err != nil {
			return nil, fmt.Errorf("stream: encode instruction %d: %w", i, err)
		}
	}
	return buf, nil
}

// Reader decodes instructions one at a time from an io.Reader, for
// callers that don't want to hold an entire trace in memory at once.
type Reader struct {
	r       io.Reader
	pending []byte
}

// NewReader wraps r for incremental decoding.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// headerPeek is the minimum number of bytes needed to determine an
// instruction's total encoded length (the 4-byte header).
const headerPeek = regdeps.HeaderBytes

// Next decodes and returns the next instruction, or io.EOF when the
// stream is exhausted cleanly at an instruction boundary.
func (r *Reader) Next() (*regdeps.Instruction, error) {
	if err := r.fill(headerPeek); err != nil {
		return nil, err
	}

	inst := &regdeps.Instruction{}
	// Pull the operand counts straight out of the header bits, without
	// calling Decode: Decode indexes past the header as soon as either
	// count is nonzero, which headerPeek bytes alone can't satisfy.
	header := binary.LittleEndian.Uint32(r.pending[:headerPeek])
	numDsts := int(header & regdeps.DstOpndMask)
	numSrcs := int((header & regdeps.SrcOpndMask) >> regdeps.SrcOpndShift)
	total := int(regdeps.EncodedLength(numDsts + numSrcs))

	if err := r.fill(total); err != nil {
		return nil, err
	}

	n := regdeps.Decode(r.pending[:total], inst)
	r.pending = r.pending[n:]
	return inst, nil
}

// fill ensures at least n bytes are buffered in r.pending, reading more
// from the underlying reader as needed.
func (r *Reader) fill(n int) error {
	buf := make([]byte, 4096)
	for len(r.pending) < n {
		m, err := r.r.Read(buf)
		if m > 0 {
			r.pending = append(r.pending, buf[:m]...)
		}
		if err != nil {
			if err == io.EOF && len(r.pending) == 0 {
				return io.EOF
			}
			if err == io.EOF && len(r.pending) < n {
				return fmt.Errorf("stream: truncated instruction, %d bytes short: %w", n-len(r.pending), io.ErrUnexpectedEOF)
			}
			if err != io.EOF {
				return fmt.Errorf("stream: read: %w", err)
			}
		}
	}
	return nil
}

// Writer encodes instructions one at a time to an io.Writer.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w for incremental encoding.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write encodes inst and writes it to the underlying writer.
func (w *Writer) Write(inst *regdeps.Instruction) error {
	buf, err := regdeps.EncodeAppend(inst, nil)
	if err != nil {
		return err
	}
	_, err = w.w.Write(buf)
	return err
}

package regdeps

import "fmt"

// CodecError reports a failure in Encode; Decode and Disassemble have no
// error return. It follows the teacher's EncodingError shape (message plus
// an optional wrapped error), extended to carry the offending instruction.
type CodecError struct {
	Instruction *Instruction // offending instruction, if one exists
	Message     string
	Wrapped     error
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("regdeps: %s: %v", e.Message, e.Wrapped)
	}
	return fmt.Sprintf("regdeps: %s", e.Message)
}

// Unwrap returns the wrapped error, for errors.Is/As support.
func (e *CodecError) Unwrap() error {
	return e.Wrapped
}

// ErrTooManyOperands is returned (wrapped in a *CodecError) when an
// instruction's total operand count exceeds MaxNumOpnds.
var ErrTooManyOperands = fmt.Errorf("instruction has more than %d operands", MaxNumOpnds)

func newCodecError(inst *Instruction, message string, wrapped error) *CodecError {
	return &CodecError{Instruction: inst, Message: message, Wrapped: wrapped}
}

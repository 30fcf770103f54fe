package core

import "fmt"

// MalformedFormulaError reports a formula string the parser rejected, with
// the byte offset of the first structural violation.
type MalformedFormulaError struct {
	Formula string
	Offset  int
	Reason  string
}

func (e *MalformedFormulaError) Error() string {
	return fmt.Sprintf("malformed formula %q at offset %d: %s", e.Formula, e.Offset, e.Reason)
}

// ArithmeticOverflowError reports a count scaling that exceeds the
// representable integer range.
type ArithmeticOverflowError struct {
	Count  int
	Factor int
}

func (e *ArithmeticOverflowError) Error() string {
	return fmt.Sprintf("scaling count %d by %d overflows", e.Count, e.Factor)
}

package matrix

import "errors"

var (
	// ErrBadShape is returned when a requested shape is invalid (rows or
	// columns not positive).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrRagged is returned when an operand's rows do not all have the same
	// length. Ragged input indicates an upstream contract violation and is
	// never repaired here.
	ErrRagged = errors.New("matrix: ragged rows")

	// ErrDimensionMismatch is returned when operand dimensions are not
	// conformant, e.g. Mul where a.Cols != b.Rows.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare is returned when a square matrix is required.
	ErrNonSquare = errors.New("matrix: matrix is not square")
)

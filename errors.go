package ndinterp

import "errors"

var (
	// ErrShape is returned when sample data is inconsistent with the axis
	// lengths.
	ErrShape = errors.New("shape mismatch")

	// ErrDomain is returned when log mode is requested but a sample is not
	// strictly positive.
	ErrDomain = errors.New("sample outside log domain")

	// ErrUnsupportedOrder is returned for interpolation orders other than
	// OrderLinear and OrderCubic.
	ErrUnsupportedOrder = errors.New("unsupported interpolation order")

	// ErrDimension is returned when a query does not match the number of
	// axes.
	ErrDimension = errors.New("dimension mismatch")

	// ErrMonotonicity is returned when an axis's knots are not finite and
	// strictly ascending.
	ErrMonotonicity = errors.New("axis not finite and strictly ascending")

	// ErrUnknownTable is returned by a TableSet for names it does not know.
	ErrUnknownTable = errors.New("unknown table")

	// ErrUnsupportedFormat is returned for table formats that cannot be
	// loaded.
	ErrUnsupportedFormat = errors.New("unsupported table format")
)

// Package ndinterp interpolates functions sampled on rectilinear,
// possibly irregular, N-dimensional grids.
//
// The last axis of a grid is the pivot axis (for example wavelength). A query
// fixes every other axis to a single value and returns one interpolated value
// per requested pivot.
package ndinterp

import (
	"fmt"
	"strconv"
	"strings"
)

// A Mode selects the domain in which samples are interpolated.
type Mode int

const (
	// ModeLog interpolates log10 of the samples and exponentiates results.
	ModeLog Mode = iota
	// ModeLinear interpolates the samples as given.
	ModeLinear
)

// An Order is an interpolation spline order.
type Order int

const (
	OrderLinear Order = 1 // Multilinear.
	OrderCubic  Order = 3 // Cubic B-spline.
)

// ParseMode parses a mode name. As with the tables it is used for, any name
// other than "log" selects ModeLinear.
func ParseMode(s string) Mode {
	if strings.EqualFold(s, "log") {
		return ModeLog
	}
	return ModeLinear
}

func (m Mode) String() string {
	switch m {
	case ModeLog:
		return "log"
	case ModeLinear:
		return "linear"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseOrder parses an order given either by number ("1", "3") or by name
// ("linear", "cubic").
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "1", "linear":
		return OrderLinear, nil
	case "3", "cubic":
		return OrderCubic, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnsupportedOrder)
	}
}

func (o Order) String() string {
	switch o {
	case OrderLinear:
		return "linear"
	case OrderCubic:
		return "cubic"
	default:
		return "Order(" + strconv.Itoa(int(o)) + ")"
	}
}

func (o Order) valid() bool {
	return o == OrderLinear || o == OrderCubic
}

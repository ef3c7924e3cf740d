package ndinterp

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// An Interpolator interpolates samples on a rectilinear grid. It is immutable
// once constructed and safe for concurrent use.
type Interpolator struct {
	axes   []*Axis
	cube   *hypercube
	coeffs []float64
	order  Order
	mode   Mode
	logger logrus.FieldLogger
}

// An Option sets an option on an Interpolator.
type Option func(*Interpolator)

// WithOrder sets the interpolation order. The default is OrderLinear.
func WithOrder(order Order) Option {
	return func(ip *Interpolator) {
		ip.order = order
	}
}

// WithMode sets the interpolation mode. The default is ModeLog.
func WithMode(mode Mode) Option {
	return func(ip *Interpolator) {
		ip.mode = mode
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(ip *Interpolator) {
		ip.logger = logger
	}
}

// New returns a new Interpolator for the samples in data on the grid with the
// given axes. The last axis is the pivot axis. If data's shape does not match
// the axis lengths then its values are reshaped in column-major order, see
// NewFlat.
func New(data Array, axes [][]float64, options ...Option) (*Interpolator, error) {
	ip := &Interpolator{
		order:  OrderLinear,
		mode:   ModeLog,
		logger: discardLogger(),
	}
	for _, option := range options {
		option(ip)
	}

	if !ip.order.valid() {
		return nil, fmt.Errorf("order %d: %w", ip.order, ErrUnsupportedOrder)
	}
	if len(axes) == 0 {
		return nil, fmt.Errorf("no axes: %w", ErrDimension)
	}

	ip.axes = make([]*Axis, len(axes))
	shape := make([]int, len(axes))
	for i, values := range axes {
		axis, err := NewAxis(values)
		if err != nil {
			return nil, fmt.Errorf("axis %d: %w", i, err)
		}
		ip.axes[i] = axis
		shape[i] = axis.Len()
	}

	cube, err := newHypercube(data, shape, ip.mode)
	if err != nil {
		return nil, err
	}
	ip.cube = cube

	logger := ip.logger.WithFields(logrus.Fields{
		"shape": shape,
		"order": ip.order,
		"mode":  ip.mode,
	})
	if ip.order == OrderCubic {
		logger.Debug("evaluating cubic spline coefficients")
		start := time.Now()
		ip.coeffs = splineFilter(cube.shape, cube.values)
		logger.WithField("duration", time.Since(start)).Debug("evaluated cubic spline coefficients")
	}
	logger.Debug("interpolator ready")

	return ip, nil
}

// NewFlat returns a new Interpolator for the flat samples in values, which
// are ordered with the first axis varying fastest:
//
//	values[i0 + n0*(i1 + n1*(i2 + ...))] = f(axes[0][i0], axes[1][i1], ...)
func NewFlat(values []float64, axes [][]float64, options ...Option) (*Interpolator, error) {
	return New(Array{Values: values}, axes, options...)
}

// Interpolate returns the interpolated values at vector, which holds one
// value for every axis except the pivot axis, for each of pivots. If pivots
// is nil then the pivot axis's own values are used.
func (ip *Interpolator) Interpolate(vector, pivots []float64) ([]float64, error) {
	if pivots != nil && len(pivots) == 0 {
		if err := ip.checkVector(vector); err != nil {
			return nil, err
		}
		return []float64{}, nil
	}
	coords, err := ip.Coords(vector, pivots)
	if err != nil {
		return nil, err
	}
	return ip.Evaluate(coords)
}

// Axes returns ip's axes.
func (ip *Interpolator) Axes() []*Axis {
	return append([]*Axis(nil), ip.axes...)
}

// NumAxes returns the number of axes, including the pivot axis.
func (ip *Interpolator) NumAxes() int {
	return len(ip.axes)
}

// PivotAxis returns ip's pivot axis.
func (ip *Interpolator) PivotAxis() *Axis {
	return ip.axes[len(ip.axes)-1]
}

// Order returns ip's interpolation order.
func (ip *Interpolator) Order() Order {
	return ip.order
}

// Mode returns ip's interpolation mode.
func (ip *Interpolator) Mode() Mode {
	return ip.mode
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

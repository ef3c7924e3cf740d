// Package projected queries grids in projected coordinate reference systems
// by longitude and latitude.
package projected

import (
	"errors"
	"fmt"
	"math"

	"github.com/twpayne/go-proj/v10"

	ndinterp "github.com/twpayne/go-ndinterp"
)

// A Service interpolates a GeoTIFF grid at EPSG:4326 coordinates.
type Service struct {
	grid *ndinterp.GeoTIFFGrid
	crs  string
	pj   *proj.PJ
}

// A ServiceOption sets an option on a Service.
type ServiceOption func(*Service)

// WithCRS sets the grid's CRS, overriding the CRS read from the raster. It is
// needed for rasters with user-defined CRSs, for example EU-DEM's
// "EPSG:3035".
func WithCRS(crs string) ServiceOption {
	return func(s *Service) {
		s.crs = crs
	}
}

// NewService returns a new Service for grid.
func NewService(grid *ndinterp.GeoTIFFGrid, options ...ServiceOption) (*Service, error) {
	if grid.NumAxes() != 2 {
		return nil, fmt.Errorf("grid has %d axes, expected 2: %w", grid.NumAxes(), ndinterp.ErrDimension)
	}
	s := &Service{
		grid: grid,
		crs:  grid.CRS,
	}
	for _, option := range options {
		option(s)
	}
	if s.crs == "" {
		return nil, fmt.Errorf("unknown grid CRS: %w", errors.ErrUnsupported)
	}

	var err error
	s.pj, err = proj.NewCRSToCRS("EPSG:4326", s.crs, nil)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the resources associated with s.
func (s *Service) Close() {
	s.pj.Destroy()
}

// Values returns the interpolated values at coords, which are [longitude,
// latitude] pairs. Coordinates that cannot be transformed give NaN.
func (s *Service) Values(coords [][]float64) ([]float64, error) {
	values := make([]float64, len(coords))
	for i, coord := range coords {
		x, y, ok := s.forward(coord)
		if !ok {
			values[i] = math.NaN()
			continue
		}
		result, err := s.grid.Interpolate([]float64{x}, []float64{y})
		if err != nil {
			return nil, err
		}
		values[i] = result[0]
	}
	return values, nil
}

// forward transforms coord from EPSG:4326 to the grid's CRS. EPSG:4326 has
// latitude first, so the coordinate is flipped on the way in.
func (s *Service) forward(coord []float64) (float64, float64, bool) {
	if len(coord) < 2 {
		return 0, 0, false
	}
	projected, err := s.pj.Forward(proj.NewCoord(coord[1], coord[0], 0, 0))
	if err != nil {
		return 0, 0, false
	}
	x, y := projected.X(), projected.Y()
	if math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0, 0, false
	}
	return x, y, true
}

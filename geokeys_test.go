package ndinterp

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestGeoKeyInfo(t *testing.T) {
	for _, tc := range []struct {
		name                string
		directory           []uint16
		expectedCRS         string
		expectedPixelIsArea bool
		expectedErr         error
	}{
		{
			name: "eu_dem",
			directory: []uint16{
				1, 1, 0, 22,
				1024, 0, 1, 1,
				1025, 0, 1, 1,
				1026, 34737, 28, 0,
				2048, 0, 1, 4258,
				2049, 34737, 86, 28,
				2050, 0, 1, 6258,
				2051, 0, 1, 8901,
				2054, 0, 1, 9102,
				2055, 34736, 1, 4,
				2056, 0, 1, 7019,
				2057, 34736, 1, 5,
				2059, 34736, 1, 6,
				2061, 34736, 1, 7,
				3072, 0, 1, 32767,
				3073, 34737, 400, 114,
				3074, 0, 1, 32767,
				3075, 0, 1, 10,
				3076, 0, 1, 9001,
				3082, 34736, 1, 2,
				3083, 34736, 1, 3,
				3088, 34736, 1, 1,
				3089, 34736, 1, 0,
			},
			expectedCRS:         "",
			expectedPixelIsArea: true,
		},
		{
			name: "projected_pixel_is_point",
			directory: []uint16{
				1, 1, 1, 3,
				1024, 0, 1, 1,
				1025, 0, 1, 2,
				3072, 0, 1, 3035,
			},
			expectedCRS: "EPSG:3035",
		},
		{
			name: "no_raster_type",
			directory: []uint16{
				1, 1, 0, 2,
				1024, 0, 1, 2,
				2048, 0, 1, 4326,
			},
			expectedCRS:         "EPSG:4326",
			expectedPixelIsArea: true,
		},
		{
			name: "no_crs",
			directory: []uint16{
				1, 1, 0, 2,
				1025, 0, 1, 1,
				2048, 0, 1, 4326,
			},
			expectedErr: errors.ErrUnsupported,
		},
		{
			name:        "short",
			directory:   []uint16{1, 1, 0},
			expectedErr: errGeoKeyParse,
		},
		{
			name:        "version",
			directory:   []uint16{2, 1, 0, 0},
			expectedErr: errGeoKeyParse,
		},
		{
			name: "length",
			directory: []uint16{
				1, 1, 0, 2,
				2048, 0, 1, 4326,
			},
			expectedErr: errGeoKeyParse,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			crs, pixelIsArea, err := geoKeyInfo(tc.directory)
			if tc.expectedErr != nil {
				assert.IsError(t, err, tc.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedCRS, crs)
			assert.Equal(t, tc.expectedPixelIsArea, pixelIsArea)
		})
	}
}

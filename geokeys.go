package ndinterp

import (
	"errors"
	"strconv"
)

var errGeoKeyParse = errors.New("geokey directory parse error")

// A geoKey is a key in a GeoTIFF GeoKey directory.
type geoKey uint16

const (
	geoKeyModelType    geoKey = 1024
	geoKeyRasterType   geoKey = 1025
	geoKeyGeodeticCRS  geoKey = 2048
	geoKeyProjectedCRS geoKey = 3072
)

const (
	// userDefined means that a key is not given by an EPSG code.
	userDefined = 32767

	modelTypeGeographic = 2
	rasterPixelIsArea   = 1
)

// geoKeyShortParams returns the short-valued keys in a GeoKey directory.
// Keys stored in the double or ASCII parameter tags are skipped, none of
// them identify a CRS.
func geoKeyShortParams(directory []uint16) (map[geoKey]int, error) {
	if len(directory) < 4 {
		return nil, errGeoKeyParse
	}
	if keyDirectoryVersion, keyRevision := directory[0], directory[1]; keyDirectoryVersion != 1 || keyRevision != 1 {
		return nil, errGeoKeyParse
	}
	if minorRevision := directory[2]; minorRevision > 1 {
		return nil, errGeoKeyParse
	}
	numberOfKeys := int(directory[3])
	if len(directory) != 4+4*numberOfKeys {
		return nil, errGeoKeyParse
	}

	params := make(map[geoKey]int, numberOfKeys)
	for i := range numberOfKeys {
		entry := directory[4+4*i : 4+4*(i+1)]
		tiffTagLocation, count := entry[1], entry[2]
		if tiffTagLocation != 0 {
			continue
		}
		if count != 1 {
			return nil, errGeoKeyParse
		}
		params[geoKey(entry[0])] = int(entry[3])
	}
	return params, nil
}

// geoKeyInfo returns the CRS of a GeoKey directory as an "EPSG:<code>"
// string and whether pixels are areas (rather than points) in raster space.
// The CRS is empty if it is user-defined.
func geoKeyInfo(directory []uint16) (crs string, pixelIsArea bool, err error) {
	params, err := geoKeyShortParams(directory)
	if err != nil {
		return "", false, err
	}
	crsKey := geoKeyProjectedCRS
	if params[geoKeyModelType] == modelTypeGeographic {
		crsKey = geoKeyGeodeticCRS
	}
	switch code, ok := params[crsKey]; {
	case !ok:
		return "", false, errors.ErrUnsupported
	case code != userDefined:
		crs = "EPSG:" + strconv.Itoa(code)
	}
	rasterType, ok := params[geoKeyRasterType]
	return crs, !ok || rasterType == rasterPixelIsArea, nil
}

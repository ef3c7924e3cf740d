package ndinterp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"

	"github.com/google/tiff"
	_ "github.com/google/tiff/bigtiff"
	_ "github.com/google/tiff/geotiff"
	"golang.org/x/image/tiff/lzw"
)

const noDataBits = 0xff7fffff

var (
	errShortRead = errors.New("short read")
	noData       = math.Float32frombits(noDataBits)
)

// A GeoTIFFGrid is a two-axis grid loaded from a GeoTIFF raster. The first
// axis is easting and the pivot axis is northing, both ascending. CRS is the
// raster's "EPSG:<code>" CRS, or empty if the raster's CRS is user-defined.
type GeoTIFFGrid struct {
	*Interpolator
	CRS string
}

// A geoTIFFIFD is a struct into which github.com/google/tiff can unmarshal an
// IFD.
type geoTIFFIFD struct {
	ImageWidth                uint16    `tiff:"field,tag=256"`
	ImageLength               uint16    `tiff:"field,tag=257"`
	BitsPerSample             uint16    `tiff:"field,tag=258"`
	Compression               uint16    `tiff:"field,tag=259"`
	PhotometricInterpretation uint16    `tiff:"field,tag=262"`
	SamplesPerPixel           uint16    `tiff:"field,tag=277"`
	PlanarConfiguration       uint16    `tiff:"field,tag=284"`
	Predictor                 uint16    `tiff:"field,tag=317"`
	TileWidth                 uint16    `tiff:"field,tag=322"`
	TileLength                uint16    `tiff:"field,tag=323"`
	TileOffsets               []uint64  `tiff:"field,tag=324"`
	TileByteCounts            []uint64  `tiff:"field,tag=325"`
	SampleFormat              uint16    `tiff:"field,tag=339"`
	ModelPixelScaleTag        []float64 `tiff:"field,tag=33550"`
	ModelTiepointTag          []float64 `tiff:"field,tag=33922"`
	GeoKeyDirectoryTag        []uint16  `tiff:"field,tag=34735"`
	GDALNoData                string    `tiff:"field,tag=42113"`
}

// A geoTIFFRaster is an open tiled GeoTIFF raster.
type geoTIFFRaster struct {
	file        *os.File
	ifd         geoTIFFIFD
	imageWidth  int
	imageLength int
	tileWidth   int
	tileLength  int
	tilesAcross int
	tilesDown   int
}

// LoadGeoTIFF returns a new GeoTIFFGrid for the single-band, float32,
// LZW-compressed, tiled GeoTIFF filename in fsys. GDAL no-data samples become
// NaN, so rasters with no-data samples cannot be loaded in ModeLog.
func LoadGeoTIFF(fsys fs.FS, filename string, options ...Option) (*GeoTIFFGrid, error) {
	r, err := openGeoTIFFRaster(fsys, filename)
	if err != nil {
		return nil, err
	}
	defer r.file.Close()

	crs, pixelIsArea, err := geoKeyInfo(r.ifd.GeoKeyDirectoryTag)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	values := make([]float64, r.imageWidth*r.imageLength)
	for tr := range r.tilesDown {
		for tc := range r.tilesAcross {
			tileSamples, err := r.tileSamples(tc, tr)
			if err != nil {
				return nil, fmt.Errorf("%s: tile (%d, %d): %w", filename, tc, tr, err)
			}
			r.placeTile(values, tc, tr, tileSamples)
		}
	}

	xs, ys := r.axes(pixelIsArea)
	ip, err := New(Array{
		Shape:  []int{r.imageWidth, r.imageLength},
		Values: values,
	}, [][]float64{xs, ys}, options...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &GeoTIFFGrid{
		Interpolator: ip,
		CRS:          crs,
	}, nil
}

// placeTile copies the samples of the tile at column tc and row tr into
// values, which are indexed [column][row] with rows reversed so that northing
// ascends. Samples in the padding beyond the image edges are dropped and
// no-data samples become NaN.
func (r *geoTIFFRaster) placeTile(values []float64, tc, tr int, tileSamples []float32) {
	for j := range r.tileLength {
		row := tr*r.tileLength + j
		if row >= r.imageLength {
			break
		}
		for i := range r.tileWidth {
			column := tc*r.tileWidth + i
			if column >= r.imageWidth {
				break
			}
			sample := tileSamples[i+j*r.tileWidth]
			value := float64(sample)
			if sample == noData {
				value = math.NaN()
			}
			values[column*r.imageLength+(r.imageLength-1-row)] = value
		}
	}
}

// axes returns the easting and ascending northing of the pixel centres.
func (r *geoTIFFRaster) axes(pixelIsArea bool) (xs, ys []float64) {
	scaleX, scaleY := r.ifd.ModelPixelScaleTag[0], r.ifd.ModelPixelScaleTag[1]
	x0, y0 := r.ifd.ModelTiepointTag[3], r.ifd.ModelTiepointTag[4]
	if pixelIsArea {
		x0 += scaleX / 2
		y0 -= scaleY / 2
	}
	xs = make([]float64, r.imageWidth)
	for i := range xs {
		xs[i] = x0 + float64(i)*scaleX
	}
	ys = make([]float64, r.imageLength)
	for k := range ys {
		ys[k] = y0 - float64(r.imageLength-1-k)*scaleY
	}
	return xs, ys
}

// openGeoTIFFRaster opens filename in fsys and checks that it is a raster
// that can be loaded.
func openGeoTIFFRaster(fsys fs.FS, filename string) (*geoTIFFRaster, error) {
	ok := false

	file, err := fsys.Open(filename)
	if err != nil {
		return nil, err
	}
	osFile, isOSFile := file.(*os.File)
	if !isOSFile {
		_ = file.Close()
		return nil, errors.ErrUnsupported
	}
	r := &geoTIFFRaster{
		file: osFile,
	}
	defer func() {
		if !ok {
			_ = r.file.Close()
		}
	}()

	tiffTIFF, err := tiff.Parse(r.file, tiff.GetTagSpace("GeoTIFF"), nil)
	if err != nil {
		return nil, err
	}
	if len(tiffTIFF.IFDs()) != 1 {
		return nil, fmt.Errorf("found %d IFDs, expected 1", len(tiffTIFF.IFDs()))
	}
	if err := tiff.UnmarshalIFD(tiffTIFF.IFDs()[0], &r.ifd); err != nil {
		return nil, err
	}

	ifd := &r.ifd
	if ifd.BitsPerSample != 32 ||
		ifd.Compression != 5 ||
		ifd.SamplesPerPixel != 1 ||
		ifd.PlanarConfiguration != 1 ||
		ifd.Predictor > 1 ||
		ifd.SampleFormat != 3 ||
		ifd.TileWidth == 0 || ifd.TileLength == 0 ||
		len(ifd.ModelPixelScaleTag) != 3 || ifd.ModelPixelScaleTag[0] <= 0 || ifd.ModelPixelScaleTag[1] <= 0 ||
		len(ifd.ModelTiepointTag) != 6 || ifd.ModelTiepointTag[0] != 0 || ifd.ModelTiepointTag[1] != 0 {
		return nil, errors.ErrUnsupported
	}

	r.imageWidth = int(ifd.ImageWidth)
	r.imageLength = int(ifd.ImageLength)
	r.tileWidth = int(ifd.TileWidth)
	r.tileLength = int(ifd.TileLength)
	r.tilesAcross = (r.imageWidth + r.tileWidth - 1) / r.tileWidth
	r.tilesDown = (r.imageLength + r.tileLength - 1) / r.tileLength
	tilesPerImage := r.tilesAcross * r.tilesDown
	if len(ifd.TileByteCounts) != tilesPerImage || len(ifd.TileOffsets) != tilesPerImage {
		return nil, errors.New("incorrect number of tile byte counts or offsets")
	}

	ok = true
	return r, nil
}

// tileSamples returns the decoded samples of the tile at column tc and row
// tr.
func (r *geoTIFFRaster) tileSamples(tc, tr int) ([]float32, error) {
	tileIndex := tc + r.tilesAcross*tr
	tileByteCount := r.ifd.TileByteCounts[tileIndex]
	compressedData := make([]byte, tileByteCount)
	switch n, err := r.file.ReadAt(compressedData, int64(r.ifd.TileOffsets[tileIndex])); {
	case err != nil:
		return nil, err
	case n != int(tileByteCount):
		return nil, errShortRead
	}

	tileSampleCount := r.tileWidth * r.tileLength
	tileData := make([]byte, 4*tileSampleCount)
	lzwReader := lzw.NewReader(bytes.NewReader(compressedData), lzw.MSB, 8)
	defer lzwReader.Close()
	if _, err := io.ReadFull(lzwReader, tileData); err != nil {
		return nil, err
	}

	tileSamples := make([]float32, tileSampleCount)
	for i := range tileSamples {
		tileSamples[i] = math.Float32frombits(binary.LittleEndian.Uint32(tileData[4*i : 4*(i+1)]))
	}
	return tileSamples, nil
}

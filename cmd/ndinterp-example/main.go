package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	ndinterp "github.com/twpayne/go-ndinterp"
	"github.com/twpayne/go-ndinterp/projected"
)

func run() error {
	order := flag.String("order", "1", "interpolation order (1 or 3)")
	mode := flag.String("mode", "log", "interpolation mode (log or linear)")
	number := flag.Int("n", 1000, "number of benchmark interpolations, 0 to skip")
	manifest := flag.String("manifest", "", "table manifest, queries a table instead of the example cube")
	dir := flag.String("dir", ".", "table directory")
	tableName := flag.String("table", "", "table name")
	vectorStr := flag.String("vector", "0.5,1", "comma-separated parameter values")
	pivotsStr := flag.String("pivots", "", "comma-separated pivots, default the pivot axis values")
	geoTIFF := flag.String("geotiff", "", "GeoTIFF raster, queries it at -lonlat instead of the example cube")
	crs := flag.String("crs", "", "GeoTIFF raster CRS, default the raster's own")
	lonLatStr := flag.String("lonlat", "", "comma-separated longitude and latitude")
	metricsAddr := flag.String("metrics-addr", "", "address to serve metrics on")
	verbose := flag.Bool("verbose", false, "verbose")
	flag.Parse()

	logger := logrus.StandardLogger()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				logger.WithError(err).Error("metrics server")
			}
		}()
	}

	vector, err := parseFloats(*vectorStr)
	if err != nil {
		return err
	}
	pivots, err := parseFloats(*pivotsStr)
	if err != nil {
		return err
	}

	if *manifest != "" {
		return queryTable(logger, *manifest, *dir, *tableName, vector, pivots)
	}
	if *geoTIFF != "" {
		lonLat, err := parseFloats(*lonLatStr)
		if err != nil {
			return err
		}
		return queryGeoTIFF(logger, *geoTIFF, *crs, lonLat)
	}

	parsedOrder, err := ndinterp.ParseOrder(*order)
	if err != nil {
		return err
	}
	if pivots == nil {
		pivots = linspace(0.5, 2.9, 50)
	}
	return example(logger, parsedOrder, ndinterp.ParseMode(*mode), vector, pivots, *number)
}

// example interpolates a synthetic cube of two-dimensional Gaussians whose
// centers move with wavelength.
func example(logger logrus.FieldLogger, order ndinterp.Order, mode ndinterp.Mode, vector, pivots []float64, number int) error {
	xs := linspace(-2, 2, 100)
	ys := linspace(-1, 1.5, 60)
	waves := linspace(0.1, 3, 10)

	values := make([]float64, 0, len(xs)*len(ys)*len(waves))
	for _, x := range xs {
		for _, y := range ys {
			for _, wave := range waves {
				values = append(values, math.Exp(-math.Sqrt(x*x+(y-wave)*(y-wave))))
			}
		}
	}

	ip, err := ndinterp.New(ndinterp.Array{
		Shape:  []int{len(xs), len(ys), len(waves)},
		Values: values,
	}, [][]float64{xs, ys, waves},
		ndinterp.WithOrder(order),
		ndinterp.WithMode(mode),
		ndinterp.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	sed, err := ip.Interpolate(vector, pivots)
	if err != nil {
		return err
	}
	for i, pivot := range pivots {
		fmt.Printf("%g\t%g\n", pivot, sed[i])
	}

	if number <= 0 {
		return nil
	}
	r := rand.New(rand.NewPCG(0, 0))
	randomVector := make([]float64, 2)
	start := time.Now()
	for range number {
		randomVector[0] = xs[0] + (xs[len(xs)-1]-xs[0])*r.Float64()
		randomVector[1] = ys[0] + (ys[len(ys)-1]-ys[0])*r.Float64()
		if _, err := ip.Interpolate(randomVector, pivots); err != nil {
			return err
		}
	}
	duration := time.Since(start)
	perCall := duration.Seconds() / float64(number)
	logger.WithFields(logrus.Fields{
		"n":        number,
		"duration": duration,
	}).Infof("%.2e seconds per interpolation, %d interpolations per second", perCall, int(1/perCall))

	return nil
}

func queryTable(logger logrus.FieldLogger, manifestFilename, dir, name string, vector, pivots []float64) error {
	manifest, err := ndinterp.ReadManifest(manifestFilename)
	if err != nil {
		return err
	}
	tableSet, err := ndinterp.NewTableSet(
		ndinterp.WithDir(dir),
		ndinterp.WithManifest(manifest),
		ndinterp.WithTableSetLogger(logger),
	)
	if err != nil {
		return err
	}
	if name == "" {
		names := tableSet.Names()
		if len(names) != 1 {
			return errors.New("-table required, tables: " + strings.Join(names, ", "))
		}
		name = names[0]
	}

	ip, err := tableSet.Interpolator(name)
	if err != nil {
		return err
	}
	if pivots == nil {
		pivots = ip.PivotAxis().Values()
	}
	values, err := tableSet.Interpolate(name, vector, pivots)
	if err != nil {
		return err
	}
	for i, pivot := range pivots {
		fmt.Printf("%g\t%g\n", pivot, values[i])
	}
	return nil
}

func queryGeoTIFF(logger logrus.FieldLogger, filename, crs string, lonLat []float64) error {
	if len(lonLat) != 2 {
		return errors.New("-lonlat must be a longitude and latitude")
	}
	grid, err := ndinterp.LoadGeoTIFF(os.DirFS(filepath.Dir(filename)), filepath.Base(filename),
		ndinterp.WithMode(ndinterp.ModeLinear),
		ndinterp.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	var options []projected.ServiceOption
	if crs != "" {
		options = append(options, projected.WithCRS(crs))
	}
	service, err := projected.NewService(grid, options...)
	if err != nil {
		return err
	}
	defer service.Close()
	values, err := service.Values([][]float64{lonLat})
	if err != nil {
		return err
	}
	fmt.Println(values[0])
	return nil
}

func linspace(start, stop float64, n int) []float64 {
	result := make([]float64, n)
	for i := range result {
		result[i] = start + (stop-start)*float64(i)/float64(n-1)
	}
	return result
}

func parseFloats(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	result := make([]float64, len(fields))
	for i, field := range fields {
		var err error
		result[i], err = strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

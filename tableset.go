package ndinterp

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var (
	missingTableCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ndinterp_missing_table_cache_hits_total",
		Help: "The total number of hits on the missing table cache",
	})
	missingTableCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ndinterp_missing_table_cache_misses_total",
		Help: "The total number of misses on the missing table cache",
	})
	tableCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ndinterp_table_cache_hits_total",
		Help: "The total number of hits on the table cache",
	})
	tableCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ndinterp_table_cache_misses_total",
		Help: "The total number of misses on the table cache",
	})
	tableCacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ndinterp_table_cache_evictions_total",
		Help: "The total number of evictions from the table cache",
	})
	tableLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ndinterp_table_load_duration_seconds",
		Help:    "The time taken to load a table and construct its interpolator",
		Buckets: prometheus.ExponentialBuckets(1e-3, 4, 10),
	})
)

// A TableSet is a set of named tables described by a Manifest. Tables are
// loaded on first use and kept in an LRU cache.
type TableSet struct {
	mutex         sync.Mutex
	dir           string
	manifest      *Manifest
	missingTables sync.Map
	cacheSize     int
	logger        logrus.FieldLogger
	tableCache    *lru.Cache[string, *Interpolator]
}

// A TableSetOption sets an option on a TableSet.
type TableSetOption func(*TableSet)

// NewTableSet returns a new TableSet with the given options.
func NewTableSet(options ...TableSetOption) (*TableSet, error) {
	s := &TableSet{
		dir:       ".",
		manifest:  &Manifest{},
		cacheSize: 32,
		logger:    discardLogger(),
	}
	for _, option := range options {
		option(s)
	}

	var err error
	s.tableCache, err = lru.NewWithEvict(s.cacheSize, func(name string, _ *Interpolator) {
		s.logger.WithField("table", name).Debug("evicted table")
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// WithCacheSize sets the maximum number of tables held in memory.
func WithCacheSize(cacheSize int) TableSetOption {
	return func(s *TableSet) {
		s.cacheSize = cacheSize
	}
}

// WithDir sets the directory that table files are relative to.
func WithDir(dir string) TableSetOption {
	return func(s *TableSet) {
		s.dir = dir
	}
}

// WithManifest sets the manifest. A nil manifest is ignored.
func WithManifest(manifest *Manifest) TableSetOption {
	return func(s *TableSet) {
		if manifest != nil {
			s.manifest = manifest
		}
	}
}

// WithTableSetLogger sets the logger.
func WithTableSetLogger(logger logrus.FieldLogger) TableSetOption {
	return func(s *TableSet) {
		s.logger = logger
	}
}

// Names returns the sorted names of the tables in s.
func (s *TableSet) Names() []string {
	return s.manifest.Names()
}

// Interpolate interpolates the table called name. See
// [Interpolator.Interpolate].
func (s *TableSet) Interpolate(name string, vector, pivots []float64) ([]float64, error) {
	ip, err := s.Interpolator(name)
	if err != nil {
		return nil, err
	}
	return ip.Interpolate(vector, pivots)
}

// Interpolator returns the Interpolator for the table called name, loading it
// if needed.
func (s *TableSet) Interpolator(name string) (*Interpolator, error) {
	if _, ok := s.manifest.Table[name]; !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownTable)
	}

	if err, ok := s.missingTables.Load(name); ok {
		missingTableCacheHits.Inc()
		return nil, err.(error)
	}

	if ip, ok := s.tableCache.Get(name); ok {
		tableCacheHits.Inc()
		return ip, nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err, ok := s.missingTables.Load(name); ok {
		missingTableCacheHits.Inc()
		return nil, err.(error)
	}

	if ip, ok := s.tableCache.Get(name); ok {
		tableCacheHits.Inc()
		return ip, nil
	}

	tableCacheMisses.Inc()

	ip, err := s.loadTable(s.manifest.Table[name])
	if err != nil {
		return nil, err
	}

	if eviction := s.tableCache.Add(name, ip); eviction {
		tableCacheEvictions.Inc()
	}

	return ip, nil
}

// loadTable loads the table described by config.
func (s *TableSet) loadTable(config *TableConfig) (*Interpolator, error) {
	start := time.Now()
	logger := s.logger.WithFields(logrus.Fields{
		"table":  config.Name,
		"file":   config.File,
		"format": config.Format,
	})
	options := append(config.options(), WithLogger(logger))

	var ip *Interpolator
	var err error
	switch config.Format {
	case FormatText:
		ip, err = LoadTextTable(filepath.Join(s.dir, config.File), config.Axes, options...)
	case FormatGeoTIFF:
		var grid *GeoTIFFGrid
		grid, err = LoadGeoTIFF(os.DirFS(s.dir), config.File, options...)
		if err == nil {
			ip = grid.Interpolator
		}
	default:
		err = fmt.Errorf("%q: %w", config.Format, ErrUnsupportedFormat)
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		err = fmt.Errorf("table %q: %w", config.Name, err)
		s.missingTables.Store(config.Name, err)
		missingTableCacheMisses.Inc()
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("table %q: %w", config.Name, err)
	}

	duration := time.Since(start)
	tableLoadDuration.Observe(duration.Seconds())
	logger.WithField("duration", duration).Info("loaded table")
	return ip, nil
}

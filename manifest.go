package ndinterp

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/gcfg.v1"
)

// Table formats.
const (
	FormatText    = "text"
	FormatGeoTIFF = "geotiff"
)

// A Manifest describes a set of named tables. It is read from a gcfg (INI
// style) file with one subsection per table:
//
//	[table "clumpy"]
//	file = clumpy.txt
//	axes = 7
//	order = 3
//	mode = log
type Manifest struct {
	Table map[string]*TableConfig
}

// A TableConfig describes one table in a Manifest.
type TableConfig struct {
	// Required
	File string

	// Optional
	Format string // FormatText (default) or FormatGeoTIFF.
	Axes   int    // Number of axes, required for FormatText.
	Order  string // "1"/"linear" (default) or "3"/"cubic".
	Mode   string // "log" (default) or anything else for linear.

	Name string
}

// ReadManifest reads and checks the manifest in filename.
func ReadManifest(filename string) (*Manifest, error) {
	m := &Manifest{}
	if err := gcfg.ReadFileInto(m, filename); err != nil {
		return nil, err
	}
	return m, m.checkInit()
}

// ParseManifest parses and checks the manifest in s.
func ParseManifest(s string) (*Manifest, error) {
	m := &Manifest{}
	if err := gcfg.ReadStringInto(m, s); err != nil {
		return nil, err
	}
	return m, m.checkInit()
}

// Names returns the sorted names of the tables in m.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Table))
	for name := range m.Table {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (m *Manifest) checkInit() error {
	for _, name := range m.Names() {
		if err := m.Table[name].CheckInit(name); err != nil {
			return err
		}
	}
	return nil
}

// CheckInit checks c and fills in defaults.
func (c *TableConfig) CheckInit(name string) error {
	c.Name = name
	if c.File == "" {
		return fmt.Errorf("table %q: no file", name)
	}

	c.Format = strings.ToLower(c.Format)
	switch c.Format {
	case "":
		c.Format = FormatText
		fallthrough
	case FormatText:
		if c.Axes < 1 {
			return fmt.Errorf("table %q: need a positive number of axes, got %d", name, c.Axes)
		}
	case FormatGeoTIFF:
		if c.Axes != 0 && c.Axes != 2 {
			return fmt.Errorf("table %q: geotiff tables have 2 axes, got %d", name, c.Axes)
		}
		c.Axes = 2
	default:
		return fmt.Errorf("table %q: %q: %w", name, c.Format, ErrUnsupportedFormat)
	}

	if c.Order == "" {
		c.Order = "1"
	}
	if _, err := ParseOrder(c.Order); err != nil {
		return fmt.Errorf("table %q: %w", name, err)
	}
	if c.Mode == "" {
		c.Mode = ModeLog.String()
	}

	return nil
}

// options returns the Interpolator options for c.
func (c *TableConfig) options() []Option {
	order, _ := ParseOrder(c.Order)
	return []Option{
		WithOrder(order),
		WithMode(ParseMode(c.Mode)),
	}
}

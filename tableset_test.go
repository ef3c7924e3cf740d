package ndinterp_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	ndinterp "github.com/twpayne/go-ndinterp"
)

func newTestTableSet(t *testing.T, options ...ndinterp.TableSetOption) *ndinterp.TableSet {
	t.Helper()
	dir := t.TempDir()
	for name, contents := range map[string]string{
		"a.txt": "0 0 1\n1 0 2\n0 1 3\n1 1 4\n",
		"b.txt": "0 10\n1 20\n2 30\n",
	} {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o666))
	}
	manifest, err := ndinterp.ParseManifest(`
[table "a"]
file = a.txt
axes = 2
mode = linear

[table "b"]
file = b.txt
axes = 1

[table "missing"]
file = missing.txt
axes = 2
`)
	assert.NoError(t, err)
	tableSet, err := ndinterp.NewTableSet(append([]ndinterp.TableSetOption{
		ndinterp.WithDir(dir),
		ndinterp.WithManifest(manifest),
	}, options...)...)
	assert.NoError(t, err)
	return tableSet
}

func TestTableSet(t *testing.T) {
	tableSet := newTestTableSet(t)
	assert.Equal(t, []string{"a", "b", "missing"}, tableSet.Names())

	actual, err := tableSet.Interpolate("a", []float64{1}, nil)
	assert.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, actual)

	actual, err = tableSet.Interpolate("b", nil, []float64{1})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(actual))
	assert.True(t, actual[0] > 19.999999 && actual[0] < 20.000001)

	ip1, err := tableSet.Interpolator("a")
	assert.NoError(t, err)
	ip2, err := tableSet.Interpolator("a")
	assert.NoError(t, err)
	assert.True(t, ip1 == ip2)
}

func TestTableSetErrors(t *testing.T) {
	tableSet := newTestTableSet(t)

	_, err := tableSet.Interpolator("unknown")
	assert.IsError(t, err, ndinterp.ErrUnknownTable)

	for range 2 {
		_, err = tableSet.Interpolate("missing", []float64{0}, nil)
		assert.IsError(t, err, fs.ErrNotExist)
	}

	_, err = tableSet.Interpolate("a", []float64{0, 0}, nil)
	assert.IsError(t, err, ndinterp.ErrDimension)
}

func TestTableSetNilManifest(t *testing.T) {
	tableSet, err := ndinterp.NewTableSet(ndinterp.WithManifest(nil))
	assert.NoError(t, err)
	assert.Equal(t, []string{}, tableSet.Names())
	_, err = tableSet.Interpolator("a")
	assert.IsError(t, err, ndinterp.ErrUnknownTable)
}

func TestTableSetEviction(t *testing.T) {
	tableSet := newTestTableSet(t, ndinterp.WithCacheSize(1))

	a1, err := tableSet.Interpolator("a")
	assert.NoError(t, err)
	_, err = tableSet.Interpolator("b")
	assert.NoError(t, err)
	a2, err := tableSet.Interpolator("a")
	assert.NoError(t, err)
	assert.True(t, a1 != a2)
}

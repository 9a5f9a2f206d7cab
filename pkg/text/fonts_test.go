package text

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestCache(t *testing.T) *FontCache {
	t.Helper()
	c, err := NewFontCache(FontConfig{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func TestFontCache_Memoizes(t *testing.T) {
	c := newTestCache(t)
	d := FontDescriptor{Size: 12, Weight: WeightBold, Slant: SlantRoman}

	first := c.Font(d)
	second := c.Font(d)
	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Len())

	c.Font(FontDescriptor{Size: 12})
	c.Font(FontDescriptor{Size: 14, Slant: SlantItalic})
	assert.Equal(t, 3, c.Len())
}

func TestFontCache_ConcurrentLookups(t *testing.T) {
	c := newTestCache(t)
	d := FontDescriptor{Size: 16, Weight: WeightBold, Slant: SlantItalic}

	var wg sync.WaitGroup
	got := make([]*Font, 32)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = c.Font(d)
			got[i].Measure("concurrent")
		}(i)
	}
	wg.Wait()

	for _, f := range got {
		assert.Same(t, got[0], f)
	}
	assert.Equal(t, 1, c.Len())
}

func TestFont_MetricsScaleWithSize(t *testing.T) {
	c := newTestCache(t)
	small := c.Font(FontDescriptor{Size: 10})
	large := c.Font(FontDescriptor{Size: 20})

	assert.Greater(t, small.Measure("hello"), 0.0)
	assert.Greater(t, large.Measure("hello"), small.Measure("hello"))
	assert.Greater(t, large.Ascent(), small.Ascent())
	assert.Greater(t, small.Ascent(), 0.0)
	assert.Greater(t, small.Descent(), 0.0)
	assert.Equal(t, 0.0, small.Measure(""))
	assert.Greater(t, small.Measure(" "), 0.0)
}

func TestFont_NonPositiveSizeStillMeasures(t *testing.T) {
	c := newTestCache(t)
	for _, size := range []int{0, -4} {
		f := c.Font(FontDescriptor{Size: size})
		assert.Equal(t, size, f.Descriptor().Size)
		assert.Greater(t, f.Measure("x"), 0.0)
		assert.Greater(t, f.Ascent(), 0.0)
	}
}

func TestFontCache_MissingFontFile(t *testing.T) {
	_, err := NewFontCache(FontConfig{Bold: filepath.Join(t.TempDir(), "missing.ttf")}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestFontConfig_FontPath(t *testing.T) {
	fc := FontConfig{Regular: "r.ttf", Bold: "b.ttf", Italic: "i.ttf", BoldItalic: "bi.ttf"}
	assert.Equal(t, "r.ttf", fc.FontPath(false, false))
	assert.Equal(t, "b.ttf", fc.FontPath(true, false))
	assert.Equal(t, "i.ttf", fc.FontPath(false, true))
	assert.Equal(t, "bi.ttf", fc.FontPath(true, true))
	assert.Equal(t, "", FontConfig{}.FontPath(true, true))
}

func TestFontDescriptor_Encoding(t *testing.T) {
	d := FontDescriptor{Size: 12, Weight: WeightBold, Slant: SlantItalic}
	assert.Equal(t, "12pt bold italic", d.String())

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"size":12,"weight":"bold","slant":"italic"}`, string(data))
}

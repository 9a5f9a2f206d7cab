package text

import (
	"fmt"
	"math"
	"sync"

	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/singleflight"
)

// minFaceSize is the smallest point size a face is built at. Descriptors
// keep whatever size the style stack produced.
const minFaceSize = 1

// Font is a measurable font handle. The face is not safe for concurrent
// use; Measure serializes access itself but callers drawing with Face must
// not share it across goroutines.
type Font struct {
	desc    FontDescriptor
	face    font.Face
	ascent  float64
	descent float64

	mu sync.Mutex
}

func (f *Font) Descriptor() FontDescriptor { return f.desc }

// Face returns the underlying face for drawing.
func (f *Font) Face() font.Face { return f.face }

func (f *Font) Ascent() float64  { return f.ascent }
func (f *Font) Descent() float64 { return f.descent }

// Measure returns the advance width of s in pixels.
func (f *Font) Measure(s string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return toFloat(font.MeasureString(f.face, s))
}

// FontCache memoizes Font handles by descriptor. Entries are never removed.
type FontCache struct {
	sources [4]*truetype.Font

	mu     sync.RWMutex
	fonts  map[FontDescriptor]*Font
	group  singleflight.Group
	logger *zap.Logger
}

// NewFontCache parses the configured font files, or the embedded Go fonts
// for any style without a path.
func NewFontCache(cfg FontConfig, logger *zap.Logger) (*FontCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &FontCache{
		fonts:  make(map[FontDescriptor]*Font),
		logger: logger.Named("fonts"),
	}
	embedded := [4][]byte{goregular.TTF, goitalic.TTF, gobold.TTF, gobolditalic.TTF}
	for _, w := range []Weight{WeightNormal, WeightBold} {
		for _, s := range []Slant{SlantRoman, SlantItalic} {
			i := sourceIndex(w, s)
			data := embedded[i]
			if path := cfg.FontPath(w == WeightBold, s == SlantItalic); path != "" {
				var err error
				if data, err = readFontFile(path); err != nil {
					return nil, err
				}
			}
			src, err := truetype.Parse(data)
			if err != nil {
				return nil, fmt.Errorf("parsing %s %s font: %w", w, s, err)
			}
			c.sources[i] = src
		}
	}
	return c, nil
}

func sourceIndex(w Weight, s Slant) int {
	i := 0
	if w == WeightBold {
		i += 2
	}
	if s == SlantItalic {
		i++
	}
	return i
}

// Font returns the memoized handle for d, building it on first use.
func (c *FontCache) Font(d FontDescriptor) *Font {
	if f, ok := c.lookup(d); ok {
		return f
	}
	v, _, _ := c.group.Do(d.String(), func() (any, error) {
		if f, ok := c.lookup(d); ok {
			return f, nil
		}
		f := c.build(d)
		c.mu.Lock()
		c.fonts[d] = f
		c.mu.Unlock()
		return f, nil
	})
	return v.(*Font)
}

// Metrics satisfies the layout engine's font source.
func (c *FontCache) Metrics(d FontDescriptor) Metrics {
	return c.Font(d)
}

// Len returns the number of cached handles.
func (c *FontCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fonts)
}

func (c *FontCache) lookup(d FontDescriptor) (*Font, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.fonts[d]
	return f, ok
}

func (c *FontCache) build(d FontDescriptor) *Font {
	size := math.Max(float64(d.Size), minFaceSize)
	face := truetype.NewFace(c.sources[sourceIndex(d.Weight, d.Slant)], &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	m := face.Metrics()
	c.logger.Debug("built font", zap.Stringer("font", d))
	return &Font{
		desc:    d,
		face:    face,
		ascent:  toFloat(m.Ascent),
		descent: toFloat(m.Descent),
	}
}

func toFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

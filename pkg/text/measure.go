package text

import (
	"fmt"
	"os"
)

type Weight int

const (
	WeightNormal Weight = iota
	WeightBold
)

func (w Weight) String() string {
	if w == WeightBold {
		return "bold"
	}
	return "normal"
}

func (w Weight) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

type Slant int

const (
	SlantRoman Slant = iota
	SlantItalic
)

func (s Slant) String() string {
	if s == SlantItalic {
		return "italic"
	}
	return "roman"
}

func (s Slant) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// FontDescriptor identifies a measurable font.
type FontDescriptor struct {
	Size   int    `json:"size" yaml:"size"`
	Weight Weight `json:"weight" yaml:"weight"`
	Slant  Slant  `json:"slant" yaml:"slant"`
}

func (d FontDescriptor) String() string {
	return fmt.Sprintf("%dpt %s %s", d.Size, d.Weight, d.Slant)
}

// Metrics measures text in one font. Widths and vertical metrics are in pixels.
type Metrics interface {
	Measure(s string) float64
	Ascent() float64
	Descent() float64
}

// FontConfig holds paths to TrueType files used for measurement and
// rendering. Empty paths fall back to the embedded Go fonts.
type FontConfig struct {
	Regular    string `mapstructure:"regular"`
	Bold       string `mapstructure:"bold"`
	Italic     string `mapstructure:"italic"`
	BoldItalic string `mapstructure:"bold_italic"`
}

// FontPath returns the configured font path for the given style combination,
// or "" when the embedded font should be used.
func (fc FontConfig) FontPath(bold, italic bool) string {
	switch {
	case bold && italic:
		return fc.BoldItalic
	case bold:
		return fc.Bold
	case italic:
		return fc.Italic
	}
	return fc.Regular
}

func readFontFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font %s: %w", path, err)
	}
	return data, nil
}

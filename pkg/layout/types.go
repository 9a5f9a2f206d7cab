package layout

import "wayfarer/pkg/text"

const (
	DefaultWidth    = 800
	DefaultMargin   = 13
	DefaultTop      = 18
	DefaultBaseSize = 12
	DefaultLeading  = 1.25
)

// Config fixes the viewport geometry for one layout pass.
type Config struct {
	Width        float64 `mapstructure:"width"`
	Margin       float64 `mapstructure:"margin"`
	Top          float64 `mapstructure:"top"`
	ParagraphGap float64 `mapstructure:"paragraph_gap"`
	BaseSize     int     `mapstructure:"base_size"`
	Leading      float64 `mapstructure:"leading"`
}

func DefaultConfig() Config {
	return Config{
		Width:        DefaultWidth,
		Margin:       DefaultMargin,
		Top:          DefaultTop,
		ParagraphGap: DefaultTop,
		BaseSize:     DefaultBaseSize,
		Leading:      DefaultLeading,
	}
}

// FontSource hands out font metrics by descriptor. *text.FontCache
// implements it.
type FontSource interface {
	Metrics(d text.FontDescriptor) text.Metrics
}

// Run is one positioned word. Y is the top of the word's ascent box, so the
// baseline sits at Y plus the font's ascent.
type Run struct {
	X    float64             `json:"x" yaml:"x"`
	Y    float64             `json:"y" yaml:"y"`
	Word string              `json:"word" yaml:"word"`
	Font text.FontDescriptor `json:"font" yaml:"font"`
}

// StyleState is the current weight, slant and size. Size is not clamped and
// may reach zero or below after enough nested small tags.
type StyleState struct {
	Weight text.Weight
	Slant  text.Slant
	Size   int
}

// Font returns the descriptor for text drawn in this style.
func (s StyleState) Font() text.FontDescriptor {
	return text.FontDescriptor{Size: s.Size, Weight: s.Weight, Slant: s.Slant}
}

// Apply updates s for a style tag and reports whether tag was one.
func (s *StyleState) Apply(tag string) bool {
	switch tag {
	case "b":
		s.Weight = text.WeightBold
	case "/b":
		s.Weight = text.WeightNormal
	case "i":
		s.Slant = text.SlantItalic
	case "/i":
		s.Slant = text.SlantRoman
	case "small":
		s.Size -= 2
	case "/small":
		s.Size += 2
	case "big":
		s.Size += 4
	case "/big":
		s.Size -= 4
	default:
		return false
	}
	return true
}

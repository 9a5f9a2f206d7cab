package render

import (
	"image"

	"github.com/fogleman/gg"

	"wayfarer/pkg/layout"
	"wayfarer/pkg/text"
)

// DefaultLineHeight is the slack given to runs straddling the top edge.
const DefaultLineHeight = layout.DefaultTop

// Visible reports whether a run starting at y intersects the window
// [scroll, scroll+viewportHeight], allowing lineHeight for runs that start
// just above it.
func Visible(y, scroll, lineHeight, viewportHeight float64) bool {
	return scroll <= y+lineHeight && y <= scroll+viewportHeight
}

// Window returns the runs visible at the given scroll offset.
func Window(runs []layout.Run, scroll, viewportHeight float64) []layout.Run {
	var out []layout.Run
	for _, r := range runs {
		if Visible(r.Y, scroll, DefaultLineHeight, viewportHeight) {
			out = append(out, r)
		}
	}
	return out
}

type Renderer struct {
	context *gg.Context
	fonts   *text.FontCache
	height  float64
}

func NewRenderer(width, height int, fonts *text.FontCache) *Renderer {
	return &Renderer{
		context: gg.NewContext(width, height),
		fonts:   fonts,
		height:  float64(height),
	}
}

// Render clears the canvas and draws every run visible at the scroll offset.
func (r *Renderer) Render(runs []layout.Run, scroll float64) int {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()
	r.context.SetRGB(0, 0, 0)

	drawn := 0
	for _, run := range Window(runs, scroll, r.height) {
		f := r.fonts.Font(run.Font)
		r.context.SetFontFace(f.Face())
		// DrawString takes the baseline; runs are positioned by their top.
		r.context.DrawString(run.Word, run.X, run.Y+f.Ascent()-scroll)
		drawn++
	}
	return drawn
}

func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

package render

import (
	"fmt"
	"image"
	"image/color"
)

// Diff summarizes a pixel comparison between two frames.
type Diff struct {
	Pixels    int // pixels whose largest channel difference exceeds the tolerance
	Total     int
	MaxChange int // largest 8-bit channel difference seen
}

// Identical reports whether no pixel differed beyond the tolerance.
func (d Diff) Identical() bool { return d.Pixels == 0 }

// Compare diffs two frames channel by channel. Differences of at most
// tolerance (0-255) are treated as equal.
func Compare(actual, expected image.Image, tolerance int) (Diff, error) {
	bounds := actual.Bounds()
	if bounds != expected.Bounds() {
		return Diff{}, fmt.Errorf("frame bounds differ: %v vs %v", bounds, expected.Bounds())
	}

	d := Diff{Total: bounds.Dx() * bounds.Dy()}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			change := pixelDiff(actual.At(x, y), expected.At(x, y))
			d.MaxChange = max(d.MaxChange, change)
			if change > tolerance {
				d.Pixels++
			}
		}
	}
	return d, nil
}

func pixelDiff(a, b color.Color) int {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return max(absDiff(ar, br), absDiff(ag, bg), absDiff(ab, bb), absDiff(aa, ba))
}

// absDiff compares two 16-bit channels at 8-bit precision.
func absDiff(a, b uint32) int {
	d := int(a>>8) - int(b>>8)
	if d < 0 {
		return -d
	}
	return d
}

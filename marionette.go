package marionette

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions and offsets throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an edge-based rectangle in logical units. Y increases upward, so
// Bottom < Top for a well-formed rect.
type Rect struct {
	Left, Right, Bottom, Top float64
}

// Width returns Right - Left.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns Top - Bottom.
func (r Rect) Height() float64 { return r.Top - r.Bottom }

// Contains reports whether (x, y) lies strictly inside the rectangle.
// Points on the edge are outside, matching the fallback hit regions.
func (r Rect) Contains(x, y float64) bool {
	return x > r.Left && x < r.Right && y > r.Bottom && y < r.Top
}

// Motion group and hit area names shared with model manifests.
const (
	MotionGroupIdle    = "Idle"
	MotionGroupTapBody = "TapBody"
	MotionGroupTapHead = "TapHead"

	HitAreaHead = "Head"
	HitAreaBody = "Body"
)

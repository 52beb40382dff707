package marionette

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// zoomAnim holds an active ZoomTo tween.
type zoomAnim struct {
	tween  *gween.Tween
	cx, cy float64
}

// ViewMatrix is the pan/zoom transform from view space (logical figure
// coordinates) to screen space. Scale is uniform and always stays within
// [MinScale, MaxScale]; translation is clamped so the visible region never
// leaves the max screen rect.
type ViewMatrix struct {
	m Matrix44

	screen    Rect
	maxScreen Rect
	minScale  float64
	maxScale  float64

	zoom *zoomAnim
}

// NewViewMatrix returns an identity view with a unit screen rect, the same
// max rect and a fixed scale of 1.
func NewViewMatrix() *ViewMatrix {
	unit := Rect{Left: -1, Right: 1, Bottom: -1, Top: 1}
	return &ViewMatrix{
		m:         Identity(),
		screen:    unit,
		maxScreen: unit,
		minScale:  1,
		maxScale:  1,
	}
}

// Matrix returns a copy of the current transform.
func (v *ViewMatrix) Matrix() Matrix44 { return v.m }

// Scale returns the current uniform scale.
func (v *ViewMatrix) Scale() float64 { return v.m.ScaleX() }

// Translation returns the current screen-space translation.
func (v *ViewMatrix) Translation() (float64, float64) {
	return v.m.TranslateX(), v.m.TranslateY()
}

// SetScreenRect sets the logical extent visible at scale 1.
func (v *ViewMatrix) SetScreenRect(r Rect) { v.screen = r }

// ScreenRect returns the logical extent visible at scale 1.
func (v *ViewMatrix) ScreenRect() Rect { return v.screen }

// SetMaxScreenRect sets the hard pan bounds.
func (v *ViewMatrix) SetMaxScreenRect(r Rect) { v.maxScreen = r }

// MaxScreenRect returns the hard pan bounds.
func (v *ViewMatrix) MaxScreenRect() Rect { return v.maxScreen }

// SetMinScale sets the lower zoom bound.
func (v *ViewMatrix) SetMinScale(s float64) { v.minScale = s }

// SetMaxScale sets the upper zoom bound.
func (v *ViewMatrix) SetMaxScale(s float64) { v.maxScale = s }

// MinScale returns the lower zoom bound.
func (v *ViewMatrix) MinScale() float64 { return v.minScale }

// MaxScale returns the upper zoom bound.
func (v *ViewMatrix) MaxScale() float64 { return v.maxScale }

// IsMaxScale reports whether the view is zoomed all the way in.
func (v *ViewMatrix) IsMaxScale() bool { return v.Scale() >= v.maxScale }

// IsMinScale reports whether the view is zoomed all the way out.
func (v *ViewMatrix) IsMinScale() bool { return v.Scale() <= v.minScale }

// Reset returns to the identity transform and cancels any zoom animation.
func (v *ViewMatrix) Reset() {
	v.m = Identity()
	v.zoom = nil
}

// ViewToScreen maps a view-space point to screen space.
func (v *ViewMatrix) ViewToScreen(x, y float64) (float64, float64) {
	return v.m.TransformX(x), v.m.TransformY(y)
}

// ScreenToView maps a screen-space point to view space.
func (v *ViewMatrix) ScreenToView(x, y float64) (float64, float64) {
	return v.m.InvertTransformX(x), v.m.InvertTransformY(y)
}

// AdjustTranslate pans by (dx, dy) screen units, then clamps.
func (v *ViewMatrix) AdjustTranslate(dx, dy float64) {
	tx, ty := v.Translation()
	v.m = v.m.WithTranslate(tx+dx, ty+dy)
	v.clampTranslate()
}

// AdjustScale zooms by factor about the screen point (cx, cy). The resulting
// scale is clamped to [MinScale, MaxScale]; the anchor is kept fixed for
// whatever factor survives the clamp. Non-positive factors are ignored.
func (v *ViewMatrix) AdjustScale(cx, cy, factor float64) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return
	}
	v.SetScale(cx, cy, v.Scale()*factor)
}

// SetScale zooms about (cx, cy) to an absolute scale, clamped to
// [MinScale, MaxScale]. The clamped scale is written exactly.
func (v *ViewMatrix) SetScale(cx, cy, scale float64) {
	if math.IsNaN(scale) {
		return
	}
	cur := v.Scale()
	target := math.Max(v.minScale, math.Min(scale, v.maxScale))
	if cur <= 0 {
		v.m = v.m.WithScale(target, target)
		v.clampTranslate()
		return
	}

	k := target / cur
	tx, ty := v.Translation()
	v.m = v.m.
		WithScale(target, target).
		WithTranslate(cx+k*(tx-cx), cy+k*(ty-cy))
	v.clampTranslate()
}

// clampTranslate keeps the visible region (the inverse image of the screen
// rect) inside the max screen rect. Each axis is corrected once; an axis whose
// visible extent is larger than the bounds is centered on them.
func (v *ViewMatrix) clampTranslate() {
	s := v.Scale()
	tx, ty := v.Translation()

	// X: visible left (L-tx)/s >= maxLeft and visible right (R-tx)/s <= maxRight.
	loX := v.screen.Right - s*v.maxScreen.Right
	hiX := v.screen.Left - s*v.maxScreen.Left
	tx = clampOrCenter(tx, loX, hiX)

	// Y: visible top (T-ty)/s <= maxTop and visible bottom (B-ty)/s >= maxBottom.
	loY := v.screen.Top - s*v.maxScreen.Top
	hiY := v.screen.Bottom - s*v.maxScreen.Bottom
	ty = clampOrCenter(ty, loY, hiY)

	v.m = v.m.WithTranslate(tx, ty)
}

func clampOrCenter(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(v, hi))
}

// ZoomTo animates the scale to target about (cx, cy) over duration seconds.
// Every intermediate step goes through SetScale, so the animation respects
// the same bounds as direct calls. A non-positive duration applies at once.
func (v *ViewMatrix) ZoomTo(cx, cy, target float64, duration float32, easeFn ease.TweenFunc) {
	if duration <= 0 {
		v.zoom = nil
		v.SetScale(cx, cy, target)
		return
	}
	if easeFn == nil {
		easeFn = ease.OutQuad
	}
	v.zoom = &zoomAnim{
		tween: gween.New(float32(v.Scale()), float32(target), duration, easeFn),
		cx:    cx,
		cy:    cy,
	}
}

// Zooming reports whether a ZoomTo animation is in progress.
func (v *ViewMatrix) Zooming() bool { return v.zoom != nil }

// Update advances a running ZoomTo animation by dt seconds.
func (v *ViewMatrix) Update(dt float32) {
	if v.zoom == nil {
		return
	}
	val, done := v.zoom.tween.Update(dt)
	v.SetScale(v.zoom.cx, v.zoom.cy, float64(val))
	if done {
		v.zoom = nil
	}
}

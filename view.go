package marionette

import "math"

// ViewConfig holds the logical view constants applied on every resize.
type ViewConfig struct {
	// LogicalLeft and LogicalRight are the X extent visible at scale 1.
	// The Y extent follows the canvas aspect ratio.
	LogicalLeft  float64 `yaml:"logical_left"`
	LogicalRight float64 `yaml:"logical_right"`
	// Max is the hard pan bound in view space.
	Max      Rect    `yaml:"max"`
	MinScale float64 `yaml:"min_scale"`
	MaxScale float64 `yaml:"max_scale"`
	// DragDeadZone is the device-pixel distance a pointer may travel and
	// still count as a tap on release.
	DragDeadZone float64 `yaml:"drag_dead_zone"`
}

// DefaultViewConfig returns the stock view constants.
func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		LogicalLeft:  -1,
		LogicalRight: 1,
		Max:          Rect{Left: -2, Right: 2, Bottom: -2, Top: 2},
		MinScale:     0.8,
		MaxScale:     2.0,
		DragDeadZone: defaultDragDeadZone,
	}
}

const defaultDragDeadZone = 4.0 // device pixels

// View chains device pixels (origin top-left, Y down) to screen space
// (origin centered, Y up, logical units) to view space (after pan/zoom).
// DeviceToScreen is fixed until the next Resize; the ViewMatrix is mutated by
// zoom and pan calls only.
type View struct {
	cfg            ViewConfig
	width, height  float64
	deviceToScreen Matrix44
	viewMatrix     *ViewMatrix
	touch          touchState
}

// NewView creates a view with the given constants. Call Resize before use.
func NewView(cfg ViewConfig) *View {
	if cfg.DragDeadZone <= 0 {
		cfg.DragDeadZone = defaultDragDeadZone
	}
	return &View{
		cfg:            cfg,
		deviceToScreen: Identity(),
		viewMatrix:     NewViewMatrix(),
	}
}

// Resize rebuilds DeviceToScreen and the view bounds for a canvas of
// width x height device pixels. Zero or negative sizes are ignored. The
// current pan/zoom is kept and re-clamped.
func (v *View) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.width, v.height = float64(width), float64(height)

	ratio := v.height / v.width
	left, right := v.cfg.LogicalLeft, v.cfg.LogicalRight
	screenW := math.Abs(left - right)

	v.deviceToScreen = Identity().
		ScaledRelative(screenW/v.width, -screenW/v.width).
		TranslatedRelative(-v.width*0.5, -v.height*0.5)

	vm := v.viewMatrix
	vm.SetScreenRect(Rect{Left: left, Right: right, Bottom: -ratio, Top: ratio})
	vm.SetMaxScale(v.cfg.MaxScale)
	vm.SetMinScale(v.cfg.MinScale)
	vm.SetMaxScreenRect(v.cfg.Max)
	vm.AdjustScale(0, 0, 1)
}

// Size returns the canvas size in device pixels.
func (v *View) Size() (float64, float64) { return v.width, v.height }

// AspectRatio returns width / height, or 1 before the first Resize.
func (v *View) AspectRatio() float64 {
	if v.height == 0 {
		return 1
	}
	return v.width / v.height
}

// ViewMatrix returns the mutable pan/zoom transform.
func (v *View) ViewMatrix() *ViewMatrix { return v.viewMatrix }

// DeviceToScreenMatrix returns a copy of the device-to-screen transform.
func (v *View) DeviceToScreenMatrix() Matrix44 { return v.deviceToScreen }

// DeviceToScreen maps device pixels to screen space.
func (v *View) DeviceToScreen(x, y float64) (float64, float64) {
	return v.deviceToScreen.TransformX(x), v.deviceToScreen.TransformY(y)
}

// ScreenToDevice maps screen space back to device pixels.
func (v *View) ScreenToDevice(x, y float64) (float64, float64) {
	return v.deviceToScreen.InvertTransformX(x), v.deviceToScreen.InvertTransformY(y)
}

// ScreenToView maps screen space to view space through the inverse pan/zoom.
func (v *View) ScreenToView(x, y float64) (float64, float64) {
	return v.viewMatrix.ScreenToView(x, y)
}

// DeviceToView maps device pixels to view space.
func (v *View) DeviceToView(x, y float64) (float64, float64) {
	return v.viewMatrix.ScreenToView(v.DeviceToScreen(x, y))
}

// ViewToDevice maps view space to device pixels.
func (v *View) ViewToDevice(x, y float64) (float64, float64) {
	return v.ScreenToDevice(v.viewMatrix.ViewToScreen(x, y))
}

// Projection returns the per-frame base projection: Y scaled by the aspect
// ratio, then the pan/zoom applied to points first. Each call returns a new
// value; callers hand out copies per figure.
func (v *View) Projection() Matrix44 {
	return Identity().WithScale(1, v.AspectRatio()).Mul(v.viewMatrix.Matrix())
}

// ZoomAt scales the view by factor about a device-space anchor.
func (v *View) ZoomAt(deviceX, deviceY, factor float64) {
	sx, sy := v.DeviceToScreen(deviceX, deviceY)
	v.viewMatrix.AdjustScale(sx, sy, factor)
}

// PanBy pans the view by a device-space delta.
func (v *View) PanBy(dx, dy float64) {
	sx0, sy0 := v.DeviceToScreen(0, 0)
	sx1, sy1 := v.DeviceToScreen(dx, dy)
	v.viewMatrix.AdjustTranslate(sx1-sx0, sy1-sy0)
}

package marionette

import "github.com/hajimehoshi/ebiten/v2"

// Model is the engine's handle to one loaded figure. Deformation, physics
// and rendering happen behind it; the host only drives it.
type Model interface {
	MotionPlayer

	// Update advances the figure by dt seconds.
	Update(dt float64)
	// Draw renders the figure with projection mapping view space to clip
	// space. The projection is the caller's own copy.
	Draw(target *ebiten.Image, projection Matrix44)
	// HitTest reports whether view-space (x, y) lies in the named hit area.
	HitTest(area string, x, y float64) bool
	// FinishedMotions appends the handles of clips that reached their
	// natural end since the previous call and returns the extended slice.
	FinishedMotions(dst []MotionHandle) []MotionHandle

	Expressions() []string
	SetExpression(name string)
	// SetDragging sets the look-at target in view space; (0, 0) is neutral.
	SetDragging(x, y float64)
	// Release frees engine resources. The model must not be used afterwards.
	Release()
}

// ModelFactory turns a parsed manifest into a live model.
type ModelFactory interface {
	NewModel(ids *IDManager, manifest *Manifest) (Model, error)
}

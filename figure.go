package marionette

import "math/rand/v2"

// Figure is the host-side owner of one model slot. The model arrives
// asynchronously; until then every per-frame call is a no-op.
type Figure struct {
	dir        string
	file       string
	generation uint64

	model    Model
	motions  *MotionScheduler
	rng      *rand.Rand
	loadErr  error
	released bool

	finishedBuf []MotionHandle
}

func newFigure(dir, file string, generation uint64, rng *rand.Rand) *Figure {
	return &Figure{dir: dir, file: file, generation: generation, rng: rng}
}

// Dir returns the resource directory the figure was loaded from.
func (f *Figure) Dir() string { return f.dir }

// File returns the manifest file name.
func (f *Figure) File() string { return f.file }

// Generation returns the scene generation the figure belongs to.
func (f *Figure) Generation() uint64 { return f.generation }

// Loaded reports whether the model is attached and usable.
func (f *Figure) Loaded() bool { return f.model != nil && !f.released }

// Released reports whether Release has been called.
func (f *Figure) Released() bool { return f.released }

// LoadErr returns the asset error, if loading failed.
func (f *Figure) LoadErr() error { return f.loadErr }

// Model returns the attached model, or nil.
func (f *Figure) Model() Model {
	if f.released {
		return nil
	}
	return f.model
}

// Motions returns the figure's scheduler, or nil before the model loads.
func (f *Figure) Motions() *MotionScheduler { return f.motions }

// attach binds a freshly loaded model.
func (f *Figure) attach(m Model) {
	f.model = m
	f.motions = NewMotionScheduler(m, f.rng)
}

// StartRandomMotion asks the scheduler to play a random clip from group.
// Unloaded figures reject every request.
func (f *Figure) StartRandomMotion(group string, priority Priority, onFinish func(MotionEvent)) (MotionHandle, bool) {
	if !f.Loaded() {
		return InvalidMotionHandle, false
	}
	return f.motions.RequestPlay(MotionRequest{Group: group, Priority: priority, OnFinish: onFinish})
}

// SetRandomExpression applies one of the model's expressions at random and
// returns its name.
func (f *Figure) SetRandomExpression() string {
	if !f.Loaded() {
		return ""
	}
	names := f.model.Expressions()
	if len(names) == 0 {
		return ""
	}
	name := names[f.rng.IntN(len(names))]
	f.model.SetExpression(name)
	return name
}

// SetDragging forwards a view-space look-at target.
func (f *Figure) SetDragging(x, y float64) {
	if f.Loaded() {
		f.model.SetDragging(x, y)
	}
}

// HitTest asks the model about a named area.
func (f *Figure) HitTest(area string, x, y float64) bool {
	return f.Loaded() && f.model.HitTest(area, x, y)
}

// update advances the model and feeds natural completions to the scheduler.
func (f *Figure) update(dt float64) {
	if !f.Loaded() {
		return
	}
	f.model.Update(dt)
	f.finishedBuf = f.model.FinishedMotions(f.finishedBuf[:0])
	for _, h := range f.finishedBuf {
		f.motions.Finish(h)
	}
}

// Release frees the model and forgets all motion state. Safe to call twice.
func (f *Figure) Release() {
	if f.released {
		return
	}
	f.released = true
	if f.motions != nil {
		f.motions.Reset()
	}
	if f.model != nil {
		f.model.Release()
		f.model = nil
	}
}

package marionette

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrSceneIndex is returned by ChangeScene for indices outside Config.Scenes.
var ErrSceneIndex = errors.New("scene index out of range")

// Stage owns the figures of the current scene. It forwards per-frame update
// and draw calls and routes view-space taps and drags to figures. Figures of
// two scene generations never coexist: ChangeScene releases every figure
// before spawning the next scene's.
type Stage struct {
	fw      *Framework
	cfg     *Config
	view    *View
	loader  *AssetLoader
	factory ModelFactory
	sink    EventSink
	rng     *rand.Rand

	figures    []*Figure
	sceneIndex int
	generation uint64

	debug bool
	stats frameStats
}

// NewStage wires a stage. It does not load anything until ChangeScene.
func NewStage(fw *Framework, cfg *Config, view *View, loader *AssetLoader, factory ModelFactory) *Stage {
	return &Stage{
		fw:      fw,
		cfg:     cfg,
		view:    view,
		loader:  loader,
		factory: factory,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		debug:   cfg.Debug,
	}
}

// SetEventSink sets the optional event bridge.
func (s *Stage) SetEventSink(sink EventSink) { s.sink = sink }

// SetRand replaces the random source used for clip and expression choice.
// Figures spawned afterwards use it.
func (s *Stage) SetRand(rng *rand.Rand) { s.rng = rng }

// SetDebugMode toggles debug logging of taps, hits and frame stats.
func (s *Stage) SetDebugMode(enabled bool) { s.debug = enabled }

// SceneIndex returns the index of the current scene.
func (s *Stage) SceneIndex() int { return s.sceneIndex }

// Generation returns the current scene generation; it increases on every
// ChangeScene.
func (s *Stage) Generation() uint64 { return s.generation }

// Figures returns the registry. The returned slice MUST NOT be mutated.
func (s *Stage) Figures() []*Figure { return s.figures }

// Figure returns the figure at index i, or nil when out of range.
func (s *Stage) Figure(i int) *Figure {
	if i < 0 || i >= len(s.figures) {
		return nil
	}
	return s.figures[i]
}

// ChangeScene releases every figure and spawns the figure of scene index.
// Its assets load asynchronously; the figure is inert until they arrive.
func (s *Stage) ChangeScene(index int) error {
	if index < 0 || index >= len(s.cfg.Scenes) {
		s.fw.Logf(LogLevelWarning, "[APP]scene index %d out of range [0, %d)", index, len(s.cfg.Scenes))
		return fmt.Errorf("%w: %d", ErrSceneIndex, index)
	}
	s.sceneIndex = index
	if s.debug {
		s.fw.Logf(LogLevelInfo, "[APP]model index: %d", index)
	}

	s.ReleaseAllFigures()
	s.generation++

	dir, file := s.cfg.ManifestPath(index)
	s.Spawn(dir, file)
	s.emit(Event{Type: EventSceneChanged, Figure: -1, Scene: index})
	return nil
}

// NextScene advances to the following scene, wrapping around.
func (s *Stage) NextScene() {
	_ = s.ChangeScene((s.sceneIndex + 1) % len(s.cfg.Scenes))
}

// Spawn registers a new figure in the current generation and requests its
// assets.
func (s *Stage) Spawn(dir, file string) *Figure {
	f := newFigure(dir, file, s.generation, s.rng)
	s.figures = append(s.figures, f)
	s.loader.Request(f)
	return f
}

// ReleaseAllFigures releases every figure explicitly and empties the
// registry.
func (s *Stage) ReleaseAllFigures() {
	for i, f := range s.figures {
		f.Release()
		s.figures[i] = nil
	}
	s.figures = s.figures[:0]
}

// Update applies finished asset loads, advances every figure by dt seconds,
// and dispatches natural motion completions.
func (s *Stage) Update(dt float64) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.loader.Drain(s.applyLoad)

	// Callbacks may change the scene; iterate over a snapshot and skip
	// figures released along the way.
	snapshot := append([]*Figure(nil), s.figures...)
	for i, f := range snapshot {
		if f.Released() {
			continue
		}
		f.update(dt)
		if f.motions == nil {
			continue
		}
		idx := i
		f.motions.Dispatch(func(e MotionEvent) {
			s.emit(Event{
				Type: EventMotionFinished, Figure: idx, Scene: s.sceneIndex,
				Group: e.Group, Handle: e.Handle, Priority: e.Priority,
			})
		})
		if s.cfg.IdleMotions && f.Loaded() && f.motions.IsIdle() {
			s.startMotion(idx, f, MotionGroupIdle, PriorityIdle)
		}
	}

	if s.debug {
		s.stats.updateTime = time.Since(t0)
	}
}

// applyLoad attaches a finished load to its figure, or drops it when the
// figure has been released or belongs to an earlier scene generation.
func (s *Stage) applyLoad(r loadResult) {
	f := r.figure
	idx := s.indexOf(f)
	if f.Released() || f.generation != s.generation || idx < 0 {
		s.fw.Logf(LogLevelDebug, "discarding stale load of %s", f.file)
		return
	}
	if r.err != nil {
		s.failLoad(idx, f, r.err)
		return
	}
	if !s.fw.IsInitialized() {
		s.fw.Logf(LogLevelWarning, "building %s while the framework is not initialized", f.file)
	}
	m, err := s.factory.NewModel(s.fw.IDs(), r.manifest)
	if err != nil {
		s.failLoad(idx, f, fmt.Errorf("create model %s: %w", f.file, err))
		return
	}
	f.attach(m)
	s.fw.Logf(LogLevelInfo, "loaded %s", f.file)
	s.emit(Event{Type: EventFigureLoaded, Figure: idx, Scene: s.sceneIndex})
}

func (s *Stage) failLoad(idx int, f *Figure, err error) {
	f.loadErr = err
	s.fw.Logf(LogLevelError, "%v", err)
	s.emit(Event{Type: EventLoadFailed, Figure: idx, Scene: s.sceneIndex, Err: err})
}

func (s *Stage) indexOf(f *Figure) int {
	for i, g := range s.figures {
		if g == f {
			return i
		}
	}
	return -1
}

// Draw renders every loaded figure. The base projection is computed once;
// each figure receives its own copy.
func (s *Stage) Draw(target *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	projection := s.view.Projection()
	for _, f := range s.figures {
		if !f.Loaded() {
			continue
		}
		p := projection
		f.model.Draw(target, p)
	}

	if s.debug {
		s.stats.drawTime = time.Since(t0)
		s.stats.figures = len(s.figures)
		s.stats.pendingLoads = s.loader.Pending()
		s.logStats()
	}
}

// OnTap routes a view-space tap. Figures are tested in registration order,
// Head before Body, and the first match wins. With no match, the fallback
// regions classify the tap for the primary figure. Reports whether a motion
// was requested.
func (s *Stage) OnTap(x, y float64) bool {
	if s.debug {
		s.fw.Logf(LogLevelInfo, "[APP]tap point: {x: %.2f y: %.2f}", x, y)
	}

	snapshot := append([]*Figure(nil), s.figures...)
	for i, f := range snapshot {
		if !f.Loaded() {
			continue
		}
		switch {
		case f.HitTest(HitAreaHead, x, y):
			s.logHit(HitAreaHead)
			s.emit(Event{Type: EventHit, Figure: i, Scene: s.sceneIndex, Area: HitAreaHead, X: x, Y: y})
			f.SetRandomExpression()
			s.startMotion(i, f, MotionGroupTapHead, PriorityNormal)
			return true
		case f.HitTest(HitAreaBody, x, y):
			s.logHit(HitAreaBody)
			s.emit(Event{Type: EventHit, Figure: i, Scene: s.sceneIndex, Area: HitAreaBody, X: x, Y: y})
			s.startMotion(i, f, MotionGroupTapBody, PriorityNormal)
			return true
		}
	}

	region, ok := s.Classify(x, y)
	if !ok {
		return false
	}
	primary := s.Figure(0)
	if primary == nil || !primary.Loaded() {
		return false
	}
	s.logHit(region.Name)
	s.emit(Event{Type: EventHit, Figure: 0, Scene: s.sceneIndex, Area: region.Name, X: x, Y: y})
	_, started := s.startMotion(0, primary, region.Group, PriorityNormal)
	return started
}

// Classify returns the first fallback region containing view-space (x, y).
func (s *Stage) Classify(x, y float64) (Region, bool) {
	for _, r := range s.cfg.Regions {
		if r.Rect.Contains(x, y) {
			return r, true
		}
	}
	return Region{}, false
}

// OnDrag forwards a view-space look-at target to every loaded figure.
// (0, 0) returns them to neutral.
func (s *Stage) OnDrag(x, y float64) {
	for _, f := range s.figures {
		f.SetDragging(x, y)
	}
}

func (s *Stage) startMotion(idx int, f *Figure, group string, priority Priority) (MotionHandle, bool) {
	h, ok := f.StartRandomMotion(group, priority, s.motionFinished)
	if ok {
		s.emit(Event{
			Type: EventMotionStarted, Figure: idx, Scene: s.sceneIndex,
			Group: group, Handle: h, Priority: priority,
		})
	}
	return h, ok
}

func (s *Stage) motionFinished(e MotionEvent) {
	s.fw.Logf(LogLevelDebug, "Motion finished: %s[%d] (%s)", e.Group, e.Index, e.Priority)
}

func (s *Stage) logHit(area string) {
	if s.debug {
		s.fw.Logf(LogLevelInfo, "[APP]hit area: [%s]", area)
	}
}

func (s *Stage) emit(e Event) {
	if s.sink != nil {
		s.sink.EmitEvent(e)
	}
}

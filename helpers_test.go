package marionette

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func approxEqual(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

const epsilon = 1e-9

// --- fake core ---

type fakeCore struct {
	version uint32
	logFn   LogFunc
}

func (c *fakeCore) Version() uint32           { return c.version }
func (c *fakeCore) SetLogFunction(fn LogFunc) { c.logFn = fn }
func (c *fakeCore) LogFunction() LogFunc      { return c.logFn }

// --- fake model ---

type startCall struct {
	group    string
	index    int
	priority Priority
}

type fakeModel struct {
	manifest *Manifest
	offsetX  float64

	next     MotionHandle
	starts   []startCall
	stopped  []MotionHandle
	finished []MotionHandle

	expression string
	dragX      float64
	dragY      float64

	updates  int
	draws    int
	releases int
}

var (
	fakeHead = Rect{Left: -0.2, Right: 0.2, Bottom: 0.2, Top: 0.8}
	fakeBody = Rect{Left: -0.3, Right: 0.3, Bottom: -0.9, Top: 0.1}
)

func (m *fakeModel) MotionCount(group string) int { return m.manifest.MotionCount(group) }

func (m *fakeModel) StartMotion(group string, index int, priority Priority) MotionHandle {
	m.next++
	m.starts = append(m.starts, startCall{group, index, priority})
	return m.next
}

func (m *fakeModel) StopMotion(h MotionHandle) { m.stopped = append(m.stopped, h) }

// complete simulates the engine playing h to its end.
func (m *fakeModel) complete(h MotionHandle) { m.finished = append(m.finished, h) }

func (m *fakeModel) FinishedMotions(dst []MotionHandle) []MotionHandle {
	dst = append(dst, m.finished...)
	m.finished = m.finished[:0]
	return dst
}

func (m *fakeModel) Update(float64)               { m.updates++ }
func (m *fakeModel) Draw(*ebiten.Image, Matrix44) { m.draws++ }

func (m *fakeModel) HitTest(area string, x, y float64) bool {
	if _, ok := m.manifest.HitArea(area); !ok {
		return false
	}
	x -= m.offsetX
	switch area {
	case HitAreaHead:
		return fakeHead.Contains(x, y)
	case HitAreaBody:
		return fakeBody.Contains(x, y)
	}
	return false
}

func (m *fakeModel) Expressions() []string {
	var names []string
	for _, e := range m.manifest.Expressions {
		names = append(names, e.Name)
	}
	return names
}

func (m *fakeModel) SetExpression(name string) { m.expression = name }
func (m *fakeModel) SetDragging(x, y float64)  { m.dragX, m.dragY = x, y }
func (m *fakeModel) Release()                  { m.releases++ }

func (m *fakeModel) lastStart() startCall {
	if len(m.starts) == 0 {
		return startCall{}
	}
	return m.starts[len(m.starts)-1]
}

// --- fake factory ---

type fakeFactory struct {
	models []*fakeModel
	err    error
}

func (f *fakeFactory) NewModel(ids *IDManager, m *Manifest) (Model, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, h := range m.HitAreas {
		ids.Get(h.ID)
	}
	fm := &fakeModel{manifest: m, offsetX: m.Layout["CenterX"]}
	f.models = append(f.models, fm)
	return fm, nil
}

// --- fake manifest reader ---

type fakeReader struct {
	mu        sync.Mutex
	manifests map[string]*Manifest
	gate      chan struct{}
	calls     int
}

func (r *fakeReader) ReadManifest(ctx context.Context, dir, file string) (*Manifest, error) {
	r.mu.Lock()
	r.calls++
	gate := r.gate
	m, ok := r.manifests[dir]
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !ok {
		return nil, fmt.Errorf("no manifest for %s", dir)
	}
	cp := *m
	return &cp, nil
}

// testManifest returns a manifest with Idle, TapHead and TapBody clips,
// both named hit areas and two expressions.
func testManifest(dir string) *Manifest {
	return &Manifest{
		Dir:          dir,
		Moc:          dir + ".moc3",
		MotionGroups: []string{MotionGroupIdle, MotionGroupTapHead, MotionGroupTapBody},
		Motions: map[string][]MotionRef{
			MotionGroupIdle:    {{File: "idle_0.motion3.json"}, {File: "idle_1.motion3.json"}},
			MotionGroupTapHead: {{File: "head.motion3.json"}},
			MotionGroupTapBody: {{File: "body_0.motion3.json"}, {File: "body_1.motion3.json"}},
		},
		HitAreas: []HitAreaRef{
			{ID: "HitAreaHead", Name: HitAreaHead},
			{ID: "HitAreaBody", Name: HitAreaBody},
		},
		Expressions: []ExpressionRef{{Name: "smile"}, {Name: "angry"}},
		Layout:      map[string]float64{},
	}
}

// --- event capture ---

type captureSink struct {
	events []Event
}

func (c *captureSink) EmitEvent(e Event) { c.events = append(c.events, e) }

func (c *captureSink) ofType(t EventType) []Event {
	var out []Event
	for _, e := range c.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// --- stage harness ---

type logCapture struct {
	mu    sync.Mutex
	lines []string
}

func (l *logCapture) log(msg string) {
	l.mu.Lock()
	l.lines = append(l.lines, msg)
	l.mu.Unlock()
}

func newTestFramework(logs *logCapture) *Framework {
	fw := NewFramework(&fakeCore{version: PackVersion(5, 0, 0)})
	opt := &Option{LogFunction: func(string) {}, LoggingLevel: LogLevelVerbose}
	if logs != nil {
		opt.LogFunction = logs.log
	}
	fw.Start(opt)
	fw.Initialize()
	return fw
}

type stageHarness struct {
	stage   *Stage
	fw      *Framework
	cfg     *Config
	view    *View
	loader  *AssetLoader
	reader  *fakeReader
	factory *fakeFactory
	sink    *captureSink
}

func newStageHarness(t *testing.T, scenes ...string) *stageHarness {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Scenes = scenes
	cfg.Debug = false
	cfg.IdleMotions = false

	reader := &fakeReader{manifests: make(map[string]*Manifest)}
	for _, s := range scenes {
		reader.manifests[s] = testManifest(s)
	}
	loader := NewAssetLoader(reader)
	t.Cleanup(loader.Close)

	fw := newTestFramework(nil)
	view := NewView(cfg.View)
	view.Resize(800, 600)
	factory := &fakeFactory{}
	sink := &captureSink{}

	s := NewStage(fw, cfg, view, loader, factory)
	s.SetEventSink(sink)
	s.SetRand(rand.New(rand.NewPCG(1, 2)))

	return &stageHarness{
		stage: s, fw: fw, cfg: cfg, view: view, loader: loader,
		reader: reader, factory: factory, sink: sink,
	}
}

// settle waits for in-flight loads and applies them.
func (h *stageHarness) settle() {
	h.loader.Wait()
	h.stage.Update(0)
}

func (h *stageHarness) model(i int) *fakeModel {
	f := h.stage.Figure(i)
	if f == nil || f.Model() == nil {
		return nil
	}
	return f.Model().(*fakeModel)
}

package marionette

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// SketchVersion is the packed version SketchCore reports.
var SketchVersion = PackVersion(5, 0, 0)

// sketchFillShader fills the destination rect with a uniform premultiplied
// color.
var sketchFillShader = []byte(`//kage:unit pixels

package main

var Color vec4

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	return Color
}
`)

const sketchFillProgram = "sketch-fill"

// SketchCore is an in-process engine that evaluates figures as flat
// placeholder silhouettes. Motions are timed from the manifest's motion
// files and finish naturally; hit areas are fixed head and body boxes. It
// exists so the viewer and tests run without a native model runtime.
type SketchCore struct {
	logFn     LogFunc
	shaders   *ShaderCache
	shaderErr error
	next      MotionHandle
}

// NewSketchCore returns a core drawing through shaders. A nil cache draws
// with vector fills only.
func NewSketchCore(shaders *ShaderCache) *SketchCore {
	return &SketchCore{shaders: shaders}
}

// Version implements Core.
func (c *SketchCore) Version() uint32 { return SketchVersion }

// SetLogFunction implements Core.
func (c *SketchCore) SetLogFunction(fn LogFunc) { c.logFn = fn }

// LogFunction implements Core.
func (c *SketchCore) LogFunction() LogFunc { return c.logFn }

func (c *SketchCore) nextHandle() MotionHandle {
	c.next++
	return c.next
}

// Sketch hit boxes in model space, before Layout offsets.
var (
	sketchHeadBox = Rect{Left: -0.25, Right: 0.25, Bottom: 0.15, Top: 0.75}
	sketchBodyBox = Rect{Left: -0.35, Right: 0.35, Bottom: -0.95, Top: 0.15}
)

var sketchPalette = []Color{
	{R: 0.95, G: 0.75, B: 0.80, A: 1},
	{R: 0.70, G: 0.85, B: 1.00, A: 1},
	{R: 0.80, G: 1.00, B: 0.75, A: 1},
	{R: 1.00, G: 0.90, B: 0.60, A: 1},
	{R: 0.85, G: 0.75, B: 1.00, A: 1},
}

// NewModel implements ModelFactory.
func (c *SketchCore) NewModel(ids *IDManager, m *Manifest) (Model, error) {
	if m == nil {
		return nil, fmt.Errorf("sketch: nil manifest")
	}
	sm := &sketchModel{
		core:     c,
		manifest: m,
		hitBoxes: make(map[string]sketchHitBox),
		params:   make(map[*ID]float64),
		tint:     ColorWhite,
		offsetX:  m.Layout["CenterX"],
		offsetY:  m.Layout["CenterY"],
	}
	sm.paramAngleX = ids.Get("ParamAngleX")
	sm.paramAngleY = ids.Get("ParamAngleY")
	sm.paramBodyAngleX = ids.Get("ParamBodyAngleX")
	for _, h := range m.HitAreas {
		var box Rect
		switch h.Name {
		case HitAreaHead:
			box = sketchHeadBox
		case HitAreaBody:
			box = sketchBodyBox
		default:
			continue
		}
		sm.hitBoxes[h.Name] = sketchHitBox{id: ids.Get(h.ID), rect: box}
	}
	for _, e := range m.Expressions {
		sm.expressions = append(sm.expressions, e.Name)
	}
	return sm, nil
}

type sketchHitBox struct {
	id   *ID
	rect Rect
}

type sketchMotion struct {
	handle MotionHandle
	group  string
	tween  *gween.Tween
	loop   bool
}

type sketchModel struct {
	core     *SketchCore
	manifest *Manifest

	paramAngleX     *ID
	paramAngleY     *ID
	paramBodyAngleX *ID
	params          map[*ID]float64
	hitBoxes        map[string]sketchHitBox

	offsetX, offsetY float64

	motion   *sketchMotion
	sway     float64
	finished []MotionHandle

	expressions []string
	expression  string
	tint        Color

	dragX, dragY float64
	lookX, lookY float64

	released bool
}

// defaultMotionSeconds is used for clips whose duration is unknown.
const defaultMotionSeconds = 1.0

func (m *sketchModel) MotionCount(group string) int {
	if m.released {
		return 0
	}
	return m.manifest.MotionCount(group)
}

func (m *sketchModel) StartMotion(group string, index int, _ Priority) MotionHandle {
	clips := m.manifest.Motions[group]
	if m.released || index < 0 || index >= len(clips) {
		return InvalidMotionHandle
	}
	ref := clips[index]
	d := ref.Duration
	if d <= 0 {
		d = defaultMotionSeconds
	}
	m.motion = &sketchMotion{
		handle: m.core.nextHandle(),
		group:  group,
		tween:  gween.New(0, 1, float32(d), ease.InOutSine),
		loop:   ref.Loop,
	}
	return m.motion.handle
}

func (m *sketchModel) StopMotion(h MotionHandle) {
	if m.motion != nil && m.motion.handle == h {
		m.motion = nil
		m.sway = 0
	}
}

func (m *sketchModel) FinishedMotions(dst []MotionHandle) []MotionHandle {
	dst = append(dst, m.finished...)
	m.finished = m.finished[:0]
	return dst
}

func (m *sketchModel) Update(dt float64) {
	if m.released {
		return
	}
	if mo := m.motion; mo != nil {
		val, done := mo.tween.Update(float32(dt))
		m.sway = math.Sin(float64(val)*2*math.Pi) * 0.05
		if done {
			if mo.loop {
				mo.tween.Reset()
			} else {
				m.finished = append(m.finished, mo.handle)
				m.motion = nil
				m.sway = 0
			}
		}
	}

	k := math.Min(1, dt*8)
	m.lookX += (m.dragX - m.lookX) * k
	m.lookY += (m.dragY - m.lookY) * k
	m.params[m.paramAngleX] = m.lookX * 30
	m.params[m.paramAngleY] = m.lookY * 30
	m.params[m.paramBodyAngleX] = m.sway * 200
}

func (m *sketchModel) HitTest(area string, x, y float64) bool {
	if m.released {
		return false
	}
	box, ok := m.hitBoxes[area]
	if !ok {
		return false
	}
	return box.rect.Contains(x-m.offsetX, y-m.offsetY)
}

func (m *sketchModel) Expressions() []string { return m.expressions }

func (m *sketchModel) SetExpression(name string) {
	for i, e := range m.expressions {
		if e == name {
			m.expression = name
			m.tint = sketchPalette[i%len(sketchPalette)]
			return
		}
	}
}

func (m *sketchModel) SetDragging(x, y float64) {
	m.dragX, m.dragY = x, y
}

func (m *sketchModel) Release() {
	m.released = true
	m.motion = nil
	m.finished = nil
}

// Draw maps model space through projection to clip space and then to the
// target's pixels.
func (m *sketchModel) Draw(target *ebiten.Image, projection Matrix44) {
	if m.released || target == nil {
		return
	}
	b := target.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	toPixel := func(x, y float64) (float64, float64) {
		cx, cy := projection.TransformPoint(x+m.offsetX, y+m.offsetY)
		return (cx + 1) / 2 * w, (1 - cy) / 2 * h
	}

	body := sketchBodyBox
	x0, y0 := toPixel(body.Left+m.sway, body.Top)
	x1, y1 := toPixel(body.Right+m.sway, body.Bottom)
	m.fillRect(target, x0, y0, x1-x0, y1-y0, m.tint)

	hx, hy := toPixel((sketchHeadBox.Left+sketchHeadBox.Right)/2+m.sway+m.lookX*0.05,
		(sketchHeadBox.Bottom+sketchHeadBox.Top)/2+m.lookY*0.05)
	ex, _ := toPixel(sketchHeadBox.Right, 0)
	cx, _ := toPixel((sketchHeadBox.Left+sketchHeadBox.Right)/2, 0)
	vector.DrawFilledCircle(target, float32(hx), float32(hy), float32(math.Abs(ex-cx)), m.tint.toRGBA(), true)
}

func (m *sketchModel) fillRect(target *ebiten.Image, x, y, w, h float64, c Color) {
	if w <= 0 || h <= 0 {
		return
	}
	if m.core.shaders != nil && m.core.shaderErr == nil {
		if sh, err := m.core.shaders.Program(sketchFillProgram, sketchFillShader); err == nil {
			rgba := c.toRGBA()
			opts := &ebiten.DrawRectShaderOptions{}
			opts.GeoM.Translate(x, y)
			opts.Uniforms = map[string]any{
				"Color": []float32{
					float32(rgba.R) / 255, float32(rgba.G) / 255,
					float32(rgba.B) / 255, float32(rgba.A) / 255,
				},
			}
			target.DrawRectShader(int(w), int(h), sh, opts)
			return
		} else {
			// Compile once; stay on vector fills afterwards.
			m.core.shaderErr = err
			if fn := m.core.logFn; fn != nil {
				fn(err.Error())
			}
		}
	}
	vector.DrawFilledRect(target, float32(x), float32(y), float32(w), float32(h), c.toRGBA(), true)
}

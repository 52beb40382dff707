package marionette

import (
	"errors"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// wheelZoomStep is the zoom factor applied per wheel notch.
const wheelZoomStep = 1.1

// resetZoomSeconds is how long the R key takes to return to scale 1.
const resetZoomSeconds = 0.25

// pointerState tracks the single pointer the viewer reacts to: the mouse,
// the first touch, or injected events.
type pointerState struct {
	down         bool
	lastX, lastY float64
}

// App wires the framework, view and stage into an ebiten.Game.
type App struct {
	cfg     *Config
	fw      *Framework
	view    *View
	loader  *AssetLoader
	stage   *Stage
	shaders *ShaderCache

	pointer     pointerState
	touchIDs    []ebiten.TouchID
	touchActive bool
	pinching    bool

	injectQueue     []syntheticPointerEvent
	runner          *ScriptRunner
	screenshotQueue []string

	fps        *fpsOverlay
	caption    *CaptionFont
	captionOff bool

	width, height int
	err           error
	released      bool
}

// NewApp starts and initializes a framework around core, builds the view
// and stage from cfg, and loads the first scene. The shader cache is
// registered as a renderer static so Release frees it.
func NewApp(cfg *Config, core Core, factory ModelFactory, reader ManifestReader, shaders *ShaderCache) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if core == nil {
		return nil, errors.New("marionette: nil core")
	}
	if factory == nil {
		return nil, errors.New("marionette: nil model factory")
	}
	if reader == nil {
		return nil, errors.New("marionette: nil manifest reader")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fw := NewFramework(core)
	fw.Start(&Option{LogFunction: DefaultLogFunction, LoggingLevel: cfg.LogLevel})
	fw.Initialize()
	if shaders != nil {
		fw.RegisterStatic(shaders)
	}

	view := NewView(cfg.View)
	view.Resize(cfg.Window.Width, cfg.Window.Height)

	loader := NewAssetLoader(reader)
	a := &App{
		cfg:     cfg,
		fw:      fw,
		view:    view,
		loader:  loader,
		stage:   NewStage(fw, cfg, view, loader, factory),
		shaders: shaders,
		width:   cfg.Window.Width,
		height:  cfg.Window.Height,
	}
	if cfg.ShowFPS {
		a.fps = &fpsOverlay{}
	}
	if err := a.stage.ChangeScene(0); err != nil {
		a.Release()
		return nil, fmt.Errorf("load first scene: %w", err)
	}
	return a, nil
}

// Framework returns the app's framework.
func (a *App) Framework() *Framework { return a.fw }

// View returns the app's view.
func (a *App) View() *View { return a.view }

// Stage returns the app's stage.
func (a *App) Stage() *Stage { return a.stage }

// Update implements ebiten.Game.
func (a *App) Update() error {
	a.tick(1.0/float64(ebiten.TPS()), a.pollInput)
	return a.err
}

// tick advances one frame. poll reads real input and is skipped on frames
// that consume an injected event.
func (a *App) tick(dt float64, poll func()) {
	if a.runner != nil {
		a.runner.step(a)
	}
	if !a.processInjectedInput() && poll != nil {
		poll()
	}
	a.view.ViewMatrix().Update(float32(dt))
	a.stage.Update(dt)
	if a.fps != nil {
		a.fps.update(dt)
	}
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(a.cfg.ClearColor.toRGBA())
	a.stage.Draw(screen)
	if a.cfg.DebugTouch && a.pointer.down {
		vector.DrawFilledCircle(screen, float32(a.pointer.lastX), float32(a.pointer.lastY), 6,
			Color{1, 0.3, 0.3, 0.8}.toRGBA(), true)
	}
	if a.fps != nil {
		a.fps.draw(screen)
	}
	if a.cfg.Debug {
		a.drawCaption(screen)
	}
	a.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The view follows the outside size.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width, a.height = outsideWidth, outsideHeight
		a.view.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Release frees every figure, stops pending loads and disposes the
// framework. Safe to call more than once.
func (a *App) Release() {
	if a.released {
		return
	}
	a.released = true
	a.stage.ReleaseAllFigures()
	a.loader.Close()
	a.fw.Dispose()
}

// pollInput reads keyboard, wheel, touch and mouse state from ebiten.
func (a *App) pollInput() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		a.err = ebiten.Termination
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		a.stage.NextScene()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		a.view.ViewMatrix().ZoomTo(0, 0, 1, resetZoomSeconds, nil)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		a.Screenshot("manual")
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		mx, my := ebiten.CursorPosition()
		a.view.ZoomAt(float64(mx), float64(my), math.Pow(wheelZoomStep, wy))
	}

	a.touchIDs = ebiten.AppendTouchIDs(a.touchIDs[:0])
	if len(a.touchIDs) > 0 || a.touchActive {
		a.processTouches()
		return
	}

	mx, my := ebiten.CursorPosition()
	a.processPointer(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

// processTouches drives the pointer from the first touch and pinches with
// the first two.
func (a *App) processTouches() {
	ids := a.touchIDs
	if len(ids) >= 2 {
		x1, y1 := ebiten.TouchPosition(ids[0])
		x2, y2 := ebiten.TouchPosition(ids[1])
		a.view.PinchMoved(float64(x1), float64(y1), float64(x2), float64(y2))
		a.pinching = true
	} else if a.pinching {
		a.view.PinchEnded()
		a.pinching = false
	}

	if len(ids) == 0 {
		a.touchActive = false
		a.processPointer(a.pointer.lastX, a.pointer.lastY, false)
		return
	}
	a.touchActive = true
	x, y := ebiten.TouchPosition(ids[0])
	a.processPointer(float64(x), float64(y), true)
}

// processPointer turns a device-space pointer sample into press, drag and
// release handling. Releases always return figures to a neutral look-at;
// releases that stayed inside the dead zone are routed as taps.
func (a *App) processPointer(x, y float64, pressed bool) {
	p := &a.pointer
	switch {
	case pressed && !p.down:
		p.down = true
		a.view.TouchesBegan(x, y)
	case pressed && p.down:
		if x == p.lastX && y == p.lastY {
			break
		}
		if vx, vy, ok := a.view.TouchesMoved(x, y); ok {
			a.stage.OnDrag(vx, vy)
		}
	case !pressed && p.down:
		p.down = false
		vx, vy, tap := a.view.TouchesEnded(x, y)
		a.stage.OnDrag(0, 0)
		if tap {
			a.stage.OnTap(vx, vy)
		}
	}
	p.lastX, p.lastY = x, y
}

// RunConfig holds window settings for Run. Zero values fall back to the
// app's Config.Window.
type RunConfig struct {
	Title         string
	Width, Height int
}

// Run opens a window and runs app until it is closed or Escape is pressed.
// The app is released when the loop ends.
func Run(app *App, rc RunConfig) error {
	win := app.cfg.Window
	if rc.Title == "" {
		rc.Title = win.Title
	}
	if rc.Width <= 0 || rc.Height <= 0 {
		rc.Width, rc.Height = win.Width, win.Height
	}
	ebiten.SetWindowTitle(rc.Title)
	ebiten.SetWindowSize(rc.Width, rc.Height)
	if win.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	err := ebiten.RunGame(app)
	app.Release()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

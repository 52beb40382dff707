package marionette

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a viewer script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Scene  int     `json:"scene,omitempty"`
	Factor float64 `json:"factor,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences injected input, scene changes, zooms and
// screenshots across ticks for unattended runs. Attach it with
// App.SetScriptRunner.
//
// Actions: tap, drag, wait, scene, next_scene, zoom, screenshot.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	err       error
}

// LoadScript parses a JSON script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "tap", "drag", "wait", "scene", "next_scene", "zoom", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// SetScriptRunner attaches a runner. Its step runs at the start of every
// tick, before input.
func (a *App) SetScriptRunner(r *ScriptRunner) {
	a.runner = r
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool { return r.done }

// Err returns the first error a step produced, such as a bad scene index.
func (r *ScriptRunner) Err() error { return r.err }

func (r *ScriptRunner) step(a *App) {
	if r.done {
		return
	}
	if len(a.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		a.Screenshot(st.Label)
	case "tap":
		a.InjectTap(st.X, st.Y)
	case "drag":
		a.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	case "scene":
		if err := a.stage.ChangeScene(st.Scene); err != nil && r.err == nil {
			r.err = fmt.Errorf("script step %d: %w", r.cursor-1, err)
		}
	case "next_scene":
		a.stage.NextScene()
	case "zoom":
		if st.Factor > 0 {
			a.view.ZoomAt(st.X, st.Y, st.Factor)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(a.injectQueue) == 0 {
		r.done = true
	}
}

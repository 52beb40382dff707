package marionette

import (
	"testing"
)

func newSketchModel(t *testing.T, m *Manifest) (*SketchCore, *sketchModel, *IDManager) {
	t.Helper()
	core := NewSketchCore(nil)
	ids := newIDManager()
	model, err := core.NewModel(ids, m)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return core, model.(*sketchModel), ids
}

func TestSketchCoreInfo(t *testing.T) {
	core := NewSketchCore(nil)
	if core.Version() != SketchVersion {
		t.Errorf("Version = %#x", core.Version())
	}
	var got string
	core.SetLogFunction(func(s string) { got = s })
	core.LogFunction()("hello")
	if got != "hello" {
		t.Error("log function not stored")
	}
	if _, err := core.NewModel(newIDManager(), nil); err == nil {
		t.Error("nil manifest should fail")
	}
}

func TestSketchModelInternsIDs(t *testing.T) {
	_, _, ids := newSketchModel(t, testManifest("Sketch"))
	for _, name := range []string{"ParamAngleX", "ParamAngleY", "ParamBodyAngleX", "HitAreaHead", "HitAreaBody"} {
		if !ids.IsRegistered(name) {
			t.Errorf("%s not interned", name)
		}
	}
}

func TestSketchHitTest(t *testing.T) {
	m := testManifest("Sketch")
	_, model, _ := newSketchModel(t, m)
	tests := []struct {
		area string
		x, y float64
		want bool
	}{
		{HitAreaHead, 0, 0.5, true},
		{HitAreaHead, 0, 0, false},
		{HitAreaBody, 0, -0.5, true},
		{HitAreaBody, 0.5, -0.5, false},
		{"Tail", 0, 0, false},
	}
	for _, tt := range tests {
		if got := model.HitTest(tt.area, tt.x, tt.y); got != tt.want {
			t.Errorf("HitTest(%s, %v, %v) = %v, want %v", tt.area, tt.x, tt.y, got, tt.want)
		}
	}

	// Undeclared areas never hit; layout shifts the boxes.
	m2 := testManifest("Shifted")
	m2.HitAreas = m2.HitAreas[1:]
	m2.Layout["CenterX"] = 0.5
	_, shifted, _ := newSketchModel(t, m2)
	if shifted.HitTest(HitAreaHead, 0.5, 0.5) {
		t.Error("Head is not declared")
	}
	if !shifted.HitTest(HitAreaBody, 0.5, -0.5) || shifted.HitTest(HitAreaBody, 0, -0.5) {
		t.Error("body box should follow CenterX")
	}
}

func TestSketchMotionFinishesNaturally(t *testing.T) {
	m := testManifest("Sketch")
	m.Motions[MotionGroupTapHead][0].Duration = 0.5
	_, model, _ := newSketchModel(t, m)

	h := model.StartMotion(MotionGroupTapHead, 0, PriorityNormal)
	if h == InvalidMotionHandle {
		t.Fatal("StartMotion failed")
	}
	model.Update(0.2)
	if got := model.FinishedMotions(nil); len(got) != 0 {
		t.Fatalf("finished early: %v", got)
	}
	model.Update(0.4)
	got := model.FinishedMotions(nil)
	if len(got) != 1 || got[0] != h {
		t.Fatalf("finished = %v, want [%v]", got, h)
	}
	if again := model.FinishedMotions(nil); len(again) != 0 {
		t.Error("completions are reported once")
	}
}

func TestSketchMotionDefaultDuration(t *testing.T) {
	_, model, _ := newSketchModel(t, testManifest("Sketch"))
	h := model.StartMotion(MotionGroupIdle, 1, PriorityIdle)
	model.Update(defaultMotionSeconds / 2)
	if len(model.FinishedMotions(nil)) != 0 {
		t.Fatal("finished early")
	}
	model.Update(defaultMotionSeconds)
	if got := model.FinishedMotions(nil); len(got) != 1 || got[0] != h {
		t.Errorf("finished = %v", got)
	}
}

func TestSketchLoopNeverFinishes(t *testing.T) {
	m := testManifest("Sketch")
	m.Motions[MotionGroupIdle][0].Duration = 0.25
	m.Motions[MotionGroupIdle][0].Loop = true
	_, model, _ := newSketchModel(t, m)

	model.StartMotion(MotionGroupIdle, 0, PriorityIdle)
	for i := 0; i < 20; i++ {
		model.Update(0.1)
	}
	if got := model.FinishedMotions(nil); len(got) != 0 {
		t.Errorf("looping clip reported %v", got)
	}
}

func TestSketchStopMotion(t *testing.T) {
	_, model, _ := newSketchModel(t, testManifest("Sketch"))
	a := model.StartMotion(MotionGroupTapBody, 0, PriorityNormal)
	b := model.StartMotion(MotionGroupTapBody, 1, PriorityNormal)
	if a == b {
		t.Fatal("handles must be unique")
	}
	model.StopMotion(a) // stale: ignored
	model.StopMotion(b)
	model.Update(5)
	if got := model.FinishedMotions(nil); len(got) != 0 {
		t.Errorf("stopped clip reported %v", got)
	}
	if model.StartMotion(MotionGroupTapBody, 5, PriorityNormal) != InvalidMotionHandle {
		t.Error("out of range index should fail")
	}
}

func TestSketchSchedulerIntegration(t *testing.T) {
	m := testManifest("Sketch")
	m.Motions[MotionGroupTapHead][0].Duration = 0.3
	_, model, _ := newSketchModel(t, m)

	f := newFigure("Sketch", "Sketch.model3.json", 1, nil)
	f.attach(model)
	done := 0
	if _, ok := f.StartRandomMotion(MotionGroupTapHead, PriorityNormal, func(MotionEvent) { done++ }); !ok {
		t.Fatal("request rejected")
	}
	for i := 0; i < 5; i++ {
		f.update(0.1)
		f.Motions().Dispatch(nil)
	}
	if done != 1 || !f.Motions().IsIdle() {
		t.Errorf("done = %d, idle = %v", done, f.Motions().IsIdle())
	}
}

func TestSketchExpression(t *testing.T) {
	_, model, _ := newSketchModel(t, testManifest("Sketch"))
	if len(model.Expressions()) != 2 {
		t.Fatalf("Expressions = %v", model.Expressions())
	}
	model.SetExpression("angry")
	if model.expression != "angry" || model.tint != sketchPalette[1] {
		t.Errorf("expression = %q, tint = %+v", model.expression, model.tint)
	}
	model.SetExpression("unknown")
	if model.expression != "angry" {
		t.Error("unknown expression should be ignored")
	}
}

func TestSketchLookAt(t *testing.T) {
	_, model, _ := newSketchModel(t, testManifest("Sketch"))
	model.SetDragging(1, -1)
	for i := 0; i < 60; i++ {
		model.Update(1.0 / 30)
	}
	if !approxEqual(model.lookX, 1, 1e-3) || !approxEqual(model.lookY, -1, 1e-3) {
		t.Errorf("look = (%v, %v)", model.lookX, model.lookY)
	}
	if !approxEqual(model.params[model.paramAngleX], 30, 0.1) {
		t.Errorf("ParamAngleX = %v", model.params[model.paramAngleX])
	}
}

func TestSketchRelease(t *testing.T) {
	_, model, _ := newSketchModel(t, testManifest("Sketch"))
	model.StartMotion(MotionGroupIdle, 0, PriorityIdle)
	model.Release()
	if model.MotionCount(MotionGroupIdle) != 0 {
		t.Error("released model has no motions")
	}
	if model.StartMotion(MotionGroupIdle, 0, PriorityIdle) != InvalidMotionHandle {
		t.Error("released model cannot start motions")
	}
	if model.HitTest(HitAreaHead, 0, 0.5) {
		t.Error("released model never hits")
	}
	model.Update(1)
	model.Draw(nil, Identity())
}

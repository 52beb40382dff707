package marionette

import "math"

// touchState tracks the primary pointer and an optional two-finger pinch,
// all in device pixels.
type touchState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool
	pinched  bool

	pinch pinchState
}

type pinchState struct {
	active   bool
	prevDist float64
	prevCX   float64
	prevCY   float64
}

// TouchesBegan starts tracking a pointer press at device (x, y).
func (v *View) TouchesBegan(x, y float64) {
	v.touch.down = true
	v.touch.dragging = false
	v.touch.pinched = false
	v.touch.startX, v.touch.startY = x, y
	v.touch.lastX, v.touch.lastY = x, y
	v.touch.pinch = pinchState{}
}

// TouchesMoved updates the pointer position and returns the view-space drag
// target. ok is false when no press is being tracked.
func (v *View) TouchesMoved(x, y float64) (viewX, viewY float64, ok bool) {
	if !v.touch.down {
		return 0, 0, false
	}
	v.touch.lastX, v.touch.lastY = x, y
	if !v.touch.dragging {
		dx := x - v.touch.startX
		dy := y - v.touch.startY
		if dx*dx+dy*dy > v.cfg.DragDeadZone*v.cfg.DragDeadZone {
			v.touch.dragging = true
		}
	}
	viewX, viewY = v.DeviceToView(x, y)
	return viewX, viewY, true
}

// TouchesEnded stops tracking and returns the view-space release point.
// tap is true when the pointer never left the drag dead zone and no pinch
// happened during the press.
func (v *View) TouchesEnded(x, y float64) (viewX, viewY float64, tap bool) {
	wasDown := v.touch.down
	v.touch.lastX, v.touch.lastY = x, y
	v.touch.down = false
	tap = wasDown && !v.touch.dragging && !v.touch.pinched
	v.touch.pinched = false
	v.touch.pinch = pinchState{}
	viewX, viewY = v.DeviceToView(x, y)
	return viewX, viewY, tap
}

// TouchesCancelled drops any tracked press without producing a tap.
func (v *View) TouchesCancelled() {
	v.touch = touchState{}
}

// Touching reports whether a press is being tracked.
func (v *View) Touching() bool { return v.touch.down }

// Dragging reports whether the tracked press has left the dead zone.
func (v *View) Dragging() bool { return v.touch.dragging }

// PinchMoved feeds two device-space pointer positions. The first call of a
// gesture only records them; later calls zoom by the distance ratio about the
// pinch center and pan by the center's movement. Both go through the clamped
// ViewMatrix mutators.
func (v *View) PinchMoved(x1, y1, x2, y2 float64) {
	p := &v.touch.pinch
	dist := math.Hypot(x2-x1, y2-y1)
	cx, cy := (x1+x2)/2, (y1+y2)/2

	v.touch.pinched = true
	if !p.active {
		*p = pinchState{active: true, prevDist: dist, prevCX: cx, prevCY: cy}
		return
	}

	if p.prevDist > 0 && dist > 0 {
		v.ZoomAt(cx, cy, dist/p.prevDist)
	}
	v.PanBy(cx-p.prevCX, cy-p.prevCY)

	p.prevDist = dist
	p.prevCX, p.prevCY = cx, cy
}

// PinchEnded finishes a two-finger gesture. The press that carried it is
// still not reported as a tap on release.
func (v *View) PinchEnded() {
	v.touch.pinch = pinchState{}
}

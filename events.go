package marionette

// EventType identifies a kind of stage event.
type EventType uint8

const (
	EventSceneChanged   EventType = iota // a new scene's figure was spawned
	EventFigureLoaded                    // a figure's model became usable
	EventLoadFailed                      // a figure's assets could not be loaded
	EventHit                             // a tap landed in a figure's hit area
	EventMotionStarted                   // a motion request was admitted
	EventMotionFinished                  // an admitted motion played to its end
)

// String implements fmt.Stringer.
func (t EventType) String() string {
	switch t {
	case EventSceneChanged:
		return "scene-changed"
	case EventFigureLoaded:
		return "figure-loaded"
	case EventLoadFailed:
		return "load-failed"
	case EventHit:
		return "hit"
	case EventMotionStarted:
		return "motion-started"
	case EventMotionFinished:
		return "motion-finished"
	default:
		return "unknown"
	}
}

// Event carries stage activity to an optional EventSink.
type Event struct {
	Type EventType
	// Figure is the registry index, -1 when not tied to a figure.
	Figure int
	Scene  int
	// Area is the hit area or fallback region name (EventHit).
	Area string
	X, Y float64
	// Motion fields (EventMotionStarted, EventMotionFinished).
	Group    string
	Handle   MotionHandle
	Priority Priority
	Err      error
}

// EventSink receives stage events, e.g. to bridge them into an ECS.
type EventSink interface {
	EmitEvent(event Event)
}

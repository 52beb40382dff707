package marionette

import (
	"fmt"
	"math/rand/v2"
)

// Priority orders motion requests. A request may replace the playing motion
// only if its priority is greater than or equal to the current one.
type Priority uint8

const (
	PriorityNone   Priority = iota // sentinel: nothing is playing; never playable
	PriorityIdle                   // background idle loops
	PriorityNormal                 // user-triggered reactions
	PriorityForce                  // must play regardless of what is running
)

// String implements fmt.Stringer.
func (p Priority) String() string {
	switch p {
	case PriorityNone:
		return "none"
	case PriorityIdle:
		return "idle"
	case PriorityNormal:
		return "normal"
	case PriorityForce:
		return "force"
	default:
		return fmt.Sprintf("Priority(%d)", p)
	}
}

// MotionHandle identifies one started clip. Handles are issued by the engine
// and never reused within a model; InvalidMotionHandle means "absent".
type MotionHandle uint64

// InvalidMotionHandle is the zero handle.
const InvalidMotionHandle MotionHandle = 0

// MotionRequest asks a scheduler to play a random clip from Group.
type MotionRequest struct {
	Group    string
	Priority Priority
	// OnFinish runs exactly once if the clip plays to its natural end.
	// It never runs for a clip that was replaced.
	OnFinish func(MotionEvent)
}

// MotionEvent describes a clip that finished naturally.
type MotionEvent struct {
	Handle   MotionHandle
	Group    string
	Index    int
	Priority Priority
}

// MotionPlayer is the part of the engine's figure handle the scheduler drives.
type MotionPlayer interface {
	MotionCount(group string) int
	StartMotion(group string, index int, priority Priority) MotionHandle
	StopMotion(handle MotionHandle)
}

type finishedMotion struct {
	event    MotionEvent
	onFinish func(MotionEvent)
}

// MotionScheduler decides which clip owns a figure's playback. It holds the
// priority and handle of the admitted clip; completions reported for any
// other handle are ignored.
type MotionScheduler struct {
	player MotionPlayer
	rng    *rand.Rand

	current     Priority
	active      MotionHandle
	activeGroup string
	activeIndex int
	onFinish    func(MotionEvent)

	finished []finishedMotion
}

// NewMotionScheduler returns an idle scheduler driving player. A nil rng
// uses a randomly seeded source.
func NewMotionScheduler(player MotionPlayer, rng *rand.Rand) *MotionScheduler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &MotionScheduler{player: player, rng: rng}
}

// CurrentPriority returns the priority of the admitted clip, or PriorityNone.
func (s *MotionScheduler) CurrentPriority() Priority { return s.current }

// Active returns the admitted clip's handle, or InvalidMotionHandle.
func (s *MotionScheduler) Active() MotionHandle { return s.active }

// ActiveGroup returns the admitted clip's group name.
func (s *MotionScheduler) ActiveGroup() string { return s.activeGroup }

// IsIdle reports whether nothing is playing.
func (s *MotionScheduler) IsIdle() bool { return s.current == PriorityNone }

// RequestPlay admits or rejects req. Rejected requests leave the playing
// clip untouched. On admission the playing clip is stopped without a
// completion, a clip is chosen uniformly at random from the group, and its
// handle is returned.
func (s *MotionScheduler) RequestPlay(req MotionRequest) (MotionHandle, bool) {
	if req.Priority == PriorityNone || s.player == nil {
		return InvalidMotionHandle, false
	}
	if req.Priority < s.current {
		return InvalidMotionHandle, false
	}
	n := s.player.MotionCount(req.Group)
	if n <= 0 {
		return InvalidMotionHandle, false
	}

	if s.active != InvalidMotionHandle {
		s.player.StopMotion(s.active)
	}
	s.clear()

	index := s.rng.IntN(n)
	h := s.player.StartMotion(req.Group, index, req.Priority)
	if h == InvalidMotionHandle {
		return InvalidMotionHandle, false
	}

	s.current = req.Priority
	s.active = h
	s.activeGroup = req.Group
	s.activeIndex = index
	s.onFinish = req.OnFinish
	return h, true
}

// Finish records that the engine played handle to its natural end. Only the
// admitted clip is accepted; stale and duplicate reports return false and
// change nothing. Callbacks are deferred to Dispatch.
func (s *MotionScheduler) Finish(handle MotionHandle) bool {
	if handle == InvalidMotionHandle || handle != s.active {
		return false
	}
	s.finished = append(s.finished, finishedMotion{
		event: MotionEvent{
			Handle:   handle,
			Group:    s.activeGroup,
			Index:    s.activeIndex,
			Priority: s.current,
		},
		onFinish: s.onFinish,
	})
	s.clear()
	return true
}

// Pending returns the number of completions waiting for Dispatch.
func (s *MotionScheduler) Pending() int { return len(s.finished) }

// Dispatch drains recorded completions, running each request's OnFinish once
// and then forward (if non-nil). Callbacks may issue new requests.
func (s *MotionScheduler) Dispatch(forward func(MotionEvent)) int {
	n := 0
	for len(s.finished) > 0 {
		f := s.finished[0]
		s.finished[0] = finishedMotion{}
		s.finished = s.finished[1:]
		if f.onFinish != nil {
			f.onFinish(f.event)
		}
		if forward != nil {
			forward(f.event)
		}
		n++
	}
	s.finished = s.finished[:0]
	return n
}

// Reset forgets the admitted clip and any undispatched completions without
// running callbacks. Used when the figure is released.
func (s *MotionScheduler) Reset() {
	s.clear()
	s.finished = nil
}

func (s *MotionScheduler) clear() {
	s.current = PriorityNone
	s.active = InvalidMotionHandle
	s.activeGroup = ""
	s.activeIndex = 0
	s.onFinish = nil
}

package engine

import "github.com/hazyhaar/proofwatch/correction"

// State is the debounce/check machine state.
type State int

const (
	StateIdle       State = iota // no pending timer
	StateDebouncing              // timer armed
	StateChecking                // request in flight
)

func (s State) String() string {
	switch s {
	case StateDebouncing:
		return "debouncing"
	case StateChecking:
		return "checking"
	default:
		return "idle"
	}
}

// session is the process-wide correction session: one focused editable
// element, at most one pending timer, at most one logical current check.
// Element references are identity handles (node IDs), never owning
// references. All fields are owned by the engine loop goroutine.
type session struct {
	state State

	// active is the element currently tracked. Set when an edit schedules
	// a check, cleared when the tooltip is torn down.
	active string

	// current is the correction being displayed, mutated as individual
	// changes are accepted, destroyed when the tooltip hides.
	current *correction.Result

	// dismissed marks an element whose outstanding corrections the user
	// explicitly rejected. Cleared the moment new input arrives there.
	dismissed string

	// applying guards against the diff applier's own writes being
	// classified as user input.
	applying bool

	// generation invalidates in-flight responses: any result carrying an
	// older generation is discarded without touching session state.
	generation uint64

	// lastLogged deduplicates classification logging per element.
	lastLogged string
}

// teardown resets the session when the tooltip is hidden. The dismissal
// marker deliberately survives: it is cleared only by new input on the
// dismissed element.
func (s *session) teardown() {
	s.current = nil
	s.active = ""
	s.state = StateIdle
	s.generation++
}

// Snapshot is a read-only view of the session for admin surfaces.
type Snapshot struct {
	State            string `json:"state"`
	ActiveElement    string `json:"active_element,omitempty"`
	DismissedElement string `json:"dismissed_element,omitempty"`
	TooltipVisible   bool   `json:"tooltip_visible"`
	PendingChanges   int    `json:"pending_changes"`
	Generation       uint64 `json:"generation"`
}

func (s *session) snapshot() *Snapshot {
	snap := &Snapshot{
		State:            s.state.String(),
		ActiveElement:    s.active,
		DismissedElement: s.dismissed,
		TooltipVisible:   s.current != nil,
		Generation:       s.generation,
	}
	if s.current != nil {
		snap.PendingChanges = len(s.current.Changes)
	}
	return snap
}

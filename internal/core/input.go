package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the game to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone      Action = iota
	ActionUp               // W, K, Up arrow
	ActionDown             // S, J, Down arrow
	ActionLeft             // A, H, Left arrow
	ActionRight            // D, L, Right arrow
	ActionConfirm          // Enter, Space - dismiss death/win screens
	ActionRetry            // R - restart the current level
	ActionNextLevel        // N - jump to the next level
	ActionPrevLevel        // P - jump to the previous level
	ActionMute             // M - toggle audio
	ActionBack             // B, Escape - back to menu
	ActionQuit             // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionRetry:
		return "Retry"
	case ActionNextLevel:
		return "NextLevel"
	case ActionPrevLevel:
		return "PrevLevel"
	case ActionMute:
		return "Mute"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Direction returns the movement direction for directional actions.
func (a Action) Direction() (Direction, bool) {
	switch a {
	case ActionUp:
		return DirUp, true
	case ActionDown:
		return DirDown, true
	case ActionLeft:
		return DirLeft, true
	case ActionRight:
		return DirRight, true
	default:
		return DirNone, false
	}
}

// InputFrame represents the input state during one simulation tick.
// Directional presses are kept in arrival order; other actions are a set.
type InputFrame struct {
	Actions    map[Action]bool
	Directions []Direction
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
	if d, ok := a.Direction(); ok {
		f.Directions = append(f.Directions, d)
	}
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Directions = f.Directions[:0]
}

// Direction is a grid movement intent.
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// String returns the lowercase name used by level descriptors.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Delta returns the (dcol, drow) offset for one step. Up decreases the row.
func (d Direction) Delta() (dc, dr int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// ParseDirection converts "up", "down", "left" or "right".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return DirUp, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	case "right":
		return DirRight, true
	default:
		return DirNone, false
	}
}

// DefaultIntentCapacity is the number of directions buffered ahead of the player.
const DefaultIntentCapacity = 2

// IntentQueue is a small FIFO of pending directions.
// Pushes beyond capacity are dropped.
type IntentQueue struct {
	buf []Direction
	cap int
}

// NewIntentQueue creates a queue holding at most capacity directions.
func NewIntentQueue(capacity int) *IntentQueue {
	if capacity < 1 {
		capacity = DefaultIntentCapacity
	}
	return &IntentQueue{buf: make([]Direction, 0, capacity), cap: capacity}
}

// Push enqueues d. Returns false if the queue is full.
func (q *IntentQueue) Push(d Direction) bool {
	if d == DirNone || len(q.buf) >= q.cap {
		return false
	}
	q.buf = append(q.buf, d)
	return true
}

// Pop removes and returns the oldest direction, or DirNone if empty.
func (q *IntentQueue) Pop() Direction {
	if len(q.buf) == 0 {
		return DirNone
	}
	d := q.buf[0]
	copy(q.buf, q.buf[1:])
	q.buf = q.buf[:len(q.buf)-1]
	return d
}

// Len returns the number of pending directions.
func (q *IntentQueue) Len() int {
	return len(q.buf)
}

// Flush drops every pending direction.
func (q *IntentQueue) Flush() {
	q.buf = q.buf[:0]
}

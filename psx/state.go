package psx

// Button identifies one of the 16 digital buttons by its wire bit index.
type Button uint8

const (
	ButtonSelect Button = iota
	ButtonL3
	ButtonR3
	ButtonStart
	ButtonUp
	ButtonRight
	ButtonDown
	ButtonLeft
	ButtonL2
	ButtonR2
	ButtonL1
	ButtonR1
	ButtonTriangle
	ButtonCircle
	ButtonCross
	ButtonSquare

	ButtonCount = 16
)

var buttonNames = [ButtonCount]string{
	"SELECT", "L3", "R3", "START", "UP", "RIGHT", "DOWN", "LEFT",
	"L2", "R2", "L1", "R1", "TRIANGLE", "CIRCLE", "CROSS", "SQUARE",
}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return "UNKNOWN"
}

// ButtonByName resolves a wire name ("CROSS", "L1", ...) back to its Button.
// ok is false for names not in the table.
func ButtonByName(name string) (b Button, ok bool) {
	for i, n := range buttonNames {
		if n == name {
			return Button(i), true
		}
	}
	return 0, false
}

// Event is one edge-triggered button transition.
type Event struct {
	Button  Button
	Pressed bool // false means released
}

func (e Event) String() string {
	if e.Pressed {
		return e.Button.String() + " pressed"
	}
	return e.Button.String() + " released"
}

// State is the latest decoded controller reading. Fields the negotiated type
// does not return stay at their neutral values.
type State struct {
	Buttons   uint16 // bit set means pressed
	RightX    uint8
	RightY    uint8
	LeftX     uint8
	LeftY     uint8
	Pressures [PressureCount]uint8
}

// NeutralState returns a State with nothing pressed and both sticks centered.
func NeutralState() State {
	return State{
		RightX: StickNeutral, RightY: StickNeutral,
		LeftX: StickNeutral, LeftY: StickNeutral,
	}
}

// IsPressed reports whether a button is down in this state.
func (s State) IsPressed(b Button) bool {
	return s.Buttons&(1<<uint(b)) != 0
}

// apply folds one decoded reading into the state. Analog fields are replaced
// only when the reading actually carried them; otherwise they keep their
// neutral values so that unsupported fields never look like changes.
func (s *State) apply(r Reading) {
	s.Buttons = r.Buttons
	if r.HasSticks {
		s.RightX, s.RightY = r.RightX, r.RightY
		s.LeftX, s.LeftY = r.LeftX, r.LeftY
	}
	if r.HasPressures {
		s.Pressures = r.Pressures
	}
}

// diffButtons emits one Event per changed bit, in ascending bit order so the
// event sequence is deterministic for identical inputs.
func diffButtons(prev, cur uint16) []Event {
	changed := prev ^ cur
	if changed == 0 {
		return nil
	}
	var events []Event
	for i := 0; i < ButtonCount; i++ {
		mask := uint16(1) << uint(i)
		if changed&mask == 0 {
			continue
		}
		events = append(events, Event{Button: Button(i), Pressed: cur&mask != 0})
	}
	return events
}

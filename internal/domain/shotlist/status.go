package shotlist

type Status string

const (
	StatusDefault  Status = "default"
	StatusUnsure   Status = "unsure"
	StatusWIP      Status = "wip"
	StatusAnimated Status = "animated"
)

var Statuses = []Status{StatusDefault, StatusUnsure, StatusWIP, StatusAnimated}

func (s Status) Valid() bool {
	switch s {
	case StatusDefault, StatusUnsure, StatusWIP, StatusAnimated:
		return true
	}
	return false
}

// Next is the primary action: unsure -> default -> wip -> animated, and
// animated stays animated.
func (s Status) Next() Status {
	switch s {
	case StatusUnsure:
		return StatusDefault
	case StatusDefault:
		return StatusWIP
	case StatusWIP, StatusAnimated:
		return StatusAnimated
	}
	return s
}

// ToggleUnsure is the secondary action.
func (s Status) ToggleUnsure() Status {
	switch s {
	case StatusAnimated, StatusUnsure:
		return StatusDefault
	default:
		return StatusUnsure
	}
}

// freezesNumber reports whether entering s pins an auto-numbered shot.
func (s Status) freezesNumber() bool {
	return s == StatusWIP || s == StatusAnimated
}

// Transition is the outcome of a status change. Pin is set when the change
// also freezes the shot's current number.
type Transition struct {
	Status Status
	Pin    *int
}

// Cycle advances status one step. When the shot moves into wip or animated
// while unlocked, the transition carries autoNumber as a pin so reordering
// siblings later does not renumber it.
func Cycle(current Status, lockedNumber *int, autoNumber int) Transition {
	next := current.Next()
	t := Transition{Status: next}
	if next.freezesNumber() && lockedNumber == nil {
		n := autoNumber
		t.Pin = &n
	}
	return t
}

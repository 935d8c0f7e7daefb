package purchase

import "errors"

var (
	ErrInvalidStatus     = errors.New("invalid purchase status")
	ErrIllegalTransition = errors.New("illegal purchase status transition")
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusRefunded  Status = "REFUNDED"
)

func NewStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return Status(s), nil
	default:
		return Status(""), ErrInvalidStatus
	}
}

func (s Status) String() string {
	return string(s)
}

// transitions is the single source of truth for the purchase state machine.
// FAILED and REFUNDED are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusCompleted, StatusFailed},
	StatusCompleted: {StatusRefunded},
	StatusFailed:    {},
	StatusRefunded:  {},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

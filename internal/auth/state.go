package auth

import "fmt"

// MaxAttempts is the number of failed logins after which EnsureToken gives up.
const MaxAttempts = 3

// State is a step of the token acquisition flow
type State int

const (
	StateNoToken State = iota
	StatePrompting
	StateRetrying
	StateFatal
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateNoToken:
		return "no-token"
	case StatePrompting:
		return "prompting"
	case StateRetrying:
		return "retrying"
	case StateFatal:
		return "fatal"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event is an input to the token acquisition flow
type Event int

const (
	EventTokenFound Event = iota
	EventTokenMissing
	EventLoginSucceeded
	EventLoginFailed
)

// Status is the flow's current state plus the number of failed logins so far
type Status struct {
	State    State
	Failures int
}

// Transition returns the status that follows s after ev. Events that do not
// apply to the current state leave it unchanged; Fatal and Authenticated are
// terminal.
func Transition(s Status, ev Event) Status {
	switch s.State {
	case StateNoToken:
		switch ev {
		case EventTokenFound:
			return Status{State: StateAuthenticated}
		case EventTokenMissing:
			return Status{State: StatePrompting}
		}
	case StatePrompting, StateRetrying:
		switch ev {
		case EventLoginSucceeded:
			return Status{State: StateAuthenticated, Failures: s.Failures}
		case EventLoginFailed:
			failures := s.Failures + 1
			if failures >= MaxAttempts {
				return Status{State: StateFatal, Failures: failures}
			}
			return Status{State: StateRetrying, Failures: failures}
		}
	}
	return s
}

// Message returns the diagnostic shown on entering s and whether it belongs
// on stderr. States that need no message return "".
func Message(s Status) (text string, isError bool) {
	switch s.State {
	case StatePrompting:
		return "Auth cookie expired or not found! Please enter credentials.", false
	case StateRetrying:
		return "Could not retrieve auth cookie! Ensure you've entered the correct credentials.", true
	case StateFatal:
		return fmt.Sprintf("Could not retrieve auth cookie after %d attempts!", s.Failures), true
	default:
		return "", false
	}
}

// Package conversation contains the multi-turn dialogue handlers. A handler
// drives one conversation with a single user: it consumes the user's message,
// moves its state machine and produces the reply text. Handlers form a closed
// set of kinds so the dispatcher can branch on the tag instead of inspecting
// runtime types.
package conversation

// Kind tags the conversation variants.
type Kind int

const (
	KindSetup Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindSetup:
		return "setup"
	default:
		return "unknown"
	}
}

// State enumerates the dialogue states across all handler kinds. StateDone is
// the shared terminal marker: a handler in StateDone has finished and its
// accumulated data is ready for extraction.
type State int

const (
	StateBegin State = iota
	StateConfirmName
	StateChangeName
	StateSetUpUsers
	StateConfirmUsers
	StateDone
)

// Handler is one in-progress conversation.
type Handler interface {
	Kind() Kind

	State() State

	// Respond consumes one user message, advances the state machine and
	// returns the reply text.
	Respond(input string) string
}

package conversation

import (
	"fmt"
	"strings"

	domainerrors "botto/internal/domain/errors"
)

// Each dialogue state carries the text template sent when the conversation
// enters it. The misspellings are deliberate: these strings are the wire
// texts users already know.
const (
	promptBegin        = "Hello! You are now the root user. What's your name?"
	promptConfirmName  = "Hello, %s! Is this correct? (yes/no)"
	promptChangeName   = "Ok, what is it then?"
	promptSetUpUsers   = "Great! Now tell us who your roommates are. (Seperated by commas)"
	promptConfirmUsers = "Are %s your roommates? (yes/no)"
	promptChangeUsers  = "Ok, who are they then?"
	promptDone         = "All set!"

	answerMustBeYesNo = "Answer must be 'yes' or 'no'"
	duplicateUsers    = "There are douplicates in the users. Please provide a unique list of users."
)

// SetupResult is the data accumulated by a finished setup conversation.
type SetupResult struct {
	RootName  string
	Roommates []string
}

// SetupHandler drives the one-time onboarding dialogue with the first user
// that contacts the bot. Once terminal, it yields the root user's name and
// the roommate names via Result.
type SetupHandler struct {
	state State
	data  setupData
}

type setupData struct {
	rootName  string
	roommates []string
}

func NewSetupHandler() *SetupHandler {
	return &SetupHandler{
		state: StateBegin,
		data: setupData{
			rootName:  "root",
			roommates: nil,
		},
	}
}

func (h *SetupHandler) Kind() Kind {
	return KindSetup
}

func (h *SetupHandler) State() State {
	return h.state
}

func (h *SetupHandler) Respond(input string) string {
	state, data, response := setupStep(h.state, h.data, input)
	h.state = state
	h.data = data

	return response
}

// Result returns the accumulated setup data. Calling it before the dialogue
// reached StateDone is a programming error.
func (h *SetupHandler) Result() (SetupResult, error) {
	if h.state != StateDone {
		return SetupResult{}, &domainerrors.ErrConversationNotReady{Kind: KindSetup.String()}
	}

	return SetupResult{
		RootName:  h.data.rootName,
		Roommates: h.data.roommates,
	}, nil
}

// setupStep is the pure transition function of the setup dialogue:
// (state, data, input) -> (state, data, response).
//
//nolint:exhaustive // StateDone has no outgoing transitions
func setupStep(state State, data setupData, input string) (State, setupData, string) {
	switch state {
	case StateBegin:
		return StateConfirmName, data, promptBegin

	case StateConfirmName:
		data.rootName = strings.TrimSpace(input)
		return StateChangeName, data, fmt.Sprintf(promptConfirmName, data.rootName)

	case StateChangeName:
		switch strings.ToLower(input) {
		case "yes":
			return StateSetUpUsers, data, promptSetUpUsers
		case "no":
			return StateConfirmName, data, promptChangeName
		default:
			return state, data, answerMustBeYesNo
		}

	case StateSetUpUsers:
		roommates := splitNames(input)
		if hasDuplicates(append(append([]string{}, roommates...), data.rootName)) {
			return state, data, duplicateUsers
		}

		data.roommates = roommates

		return StateConfirmUsers, data, fmt.Sprintf(promptConfirmUsers, strings.Join(roommates, ", "))

	case StateConfirmUsers:
		switch strings.ToLower(input) {
		case "yes":
			return StateDone, data, promptDone
		case "no":
			data.roommates = nil
			return StateSetUpUsers, data, promptChangeUsers
		default:
			return state, data, answerMustBeYesNo
		}

	default:
		return state, data, ""
	}
}

// splitNames takes the comma-separated roommate list verbatim apart from a
// trim on each entry. Empty entries from stray commas are not rejected here;
// only the duplicate check guards the list.
func splitNames(input string) []string {
	parts := strings.Split(input, ",")
	names := make([]string, 0, len(parts))

	for _, part := range parts {
		names = append(names, strings.TrimSpace(part))
	}

	return names
}

func hasDuplicates(names []string) bool {
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		if _, ok := seen[name]; ok {
			return true
		}

		seen[name] = struct{}{}
	}

	return false
}

package service

import (
	"botto/internal/domain/models"
)

const (
	exitResponse = "Exited"

	unknownCommandResponse = "That is not a valid command. Type /help for a list of commands."

	helpCommands = `/help - Display this message
/exit - Exit current operation
/shopping_list - Display shopping list
/add_item - Add item to shopping list
/disaster - Something is untidy? Complain by calling a disaster.`

	extendedCommands = `

/setup_cleaning - Set up cleaning schedule
/change_username - Change users name
/remove_user - Remove user
/add_user - Add user`
)

// Route delivers one message to a user: /exit always detaches the current
// conversation, an attached handler consumes everything else, and only idle
// users fall through to the command table.
func Route(user *models.User, content string) string {
	if content == "/exit" {
		user.Handler = nil
		return exitResponse
	}

	if user.Handler != nil {
		return user.Handler.Respond(content)
	}

	switch content {
	case "/help":
		return helpText(user)
	default:
		return unknownCommandResponse
	}
}

func helpText(user *models.User) string {
	// TODO: confirm whether this check should be flipped: right now
	// non-admins receive the management commands and admins do not.
	// Users rely on the current texts, so it stays until confirmed.
	if user.IsAdmin {
		return helpCommands
	}

	return helpCommands + extendedCommands
}

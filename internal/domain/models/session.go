package models

// Session is the process-local working set: the registered users, the queue
// of not-yet-dispatched messages and the inactive roster. It is owned by the
// single poll cycle and reconstructed from the user directory at startup and
// after any directory mutation.
type Session struct {
	Users         []*User
	InactiveUsers []*User
	Messages      []Message
}

func NewSession(users []*User) *Session {
	return &Session{
		Users:         users,
		InactiveUsers: make([]*User, 0),
		Messages:      make([]Message, 0),
	}
}

// Reload replaces the roster, keeping live conversation handlers attached to
// the users that survived the reload.
func (s *Session) Reload(users []*User) {
	for _, fresh := range users {
		for _, old := range s.Users {
			if fresh.SameName(old) && old.Handler != nil {
				fresh.Handler = old.Handler
			}
		}
	}

	s.Users = users
}

// FindByChatID resolves a chat id to the first registered user bound to it.
// Chat ids are expected unique per user.
func (s *Session) FindByChatID(chatID int64) *User {
	for _, user := range s.Users {
		if user.ChatID != nil && *user.ChatID == chatID {
			return user
		}
	}

	return nil
}

// FindByName resolves a user by its identity key.
func (s *Session) FindByName(name string) *User {
	for _, user := range s.Users {
		if user.Name == name {
			return user
		}
	}

	return nil
}

// Enqueue appends admitted messages to the pending queue.
func (s *Session) Enqueue(messages ...Message) {
	s.Messages = append(s.Messages, messages...)
}

// ClearMessages retires the whole queue, processed or not.
func (s *Session) ClearMessages() {
	s.Messages = s.Messages[:0]
}

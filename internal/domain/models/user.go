package models

import (
	"crypto/rand"
	"fmt"

	"botto/internal/conversation"
)

const (
	tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	tokenLength   = 6
)

// User is one member of the household. Identity is the name, not the struct
// value: two User values with the same name are the same entity.
type User struct {
	Name    string `json:"name"`
	ChatID  *int64 `json:"chat_id"`
	IsAdmin bool   `json:"is_admin"`
	Token   string `json:"token"`

	// Handler is the user's in-progress conversation, nil when idle.
	// At most one live handler per user; it is detached on completion
	// or on an explicit /exit.
	Handler conversation.Handler `json:"-"`
}

func (u *User) String() string {
	chatID := int64(0)
	if u.ChatID != nil {
		chatID = *u.ChatID
	}

	return fmt.Sprintf("User(name=%s, chat_id=%d, is_admin=%t)", u.Name, chatID, u.IsAdmin)
}

// SameName reports whether both values name the same user.
func (u *User) SameName(other *User) bool {
	return other != nil && u.Name == other.Name
}

// GenerateToken returns a fresh 6-character lowercase alphanumeric token.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}

	return string(buf), nil
}

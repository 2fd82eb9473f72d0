package errors

import (
	"fmt"
)

// ErrConversationNotReady is a programming error: a conversation's result was
// extracted before the dialogue reached its terminal state. It is never shown
// to the chat user.
type ErrConversationNotReady struct {
	Kind string
}

func (e *ErrConversationNotReady) Error() string {
	return fmt.Sprintf("conversation %q has not reached its terminal state", e.Kind)
}

func (e *ErrConversationNotReady) Is(target error) bool {
	_, ok := target.(*ErrConversationNotReady)
	return ok
}

type ErrUserNotFound struct {
	Name string
}

func (e *ErrUserNotFound) Error() string {
	return "user not found: " + e.Name
}

func (e *ErrUserNotFound) Is(target error) bool {
	_, ok := target.(*ErrUserNotFound)
	return ok
}

type ErrUserAlreadyExists struct {
	Name string
}

func (e *ErrUserAlreadyExists) Error() string {
	return "user already exists: " + e.Name
}

func (e *ErrUserAlreadyExists) Is(target error) bool {
	_, ok := target.(*ErrUserAlreadyExists)
	return ok
}

// ErrMissingBotToken is the only startup-fatal condition: the process cannot
// authenticate against the gateway without a token.
type ErrMissingBotToken struct{}

func (e *ErrMissingBotToken) Error() string {
	return "BOT_TOKEN environment variable is not set"
}

func (e *ErrMissingBotToken) Is(target error) bool {
	_, ok := target.(*ErrMissingBotToken)
	return ok
}

// ErrInvalidBotToken marks a 404 from the gateway: the configured token does
// not identify a bot.
type ErrInvalidBotToken struct{}

func (e *ErrInvalidBotToken) Error() string {
	return "telegram gateway rejected the bot token"
}

func (e *ErrInvalidBotToken) Is(target error) bool {
	_, ok := target.(*ErrInvalidBotToken)
	return ok
}

type ErrUnknownDBAccessType struct {
	AccessType string
}

func (e *ErrUnknownDBAccessType) Error() string {
	return fmt.Sprintf("unknown database access type: %s", e.AccessType)
}

type ErrBuildSQLQuery struct {
	Operation string
	Cause     error
}

func (e *ErrBuildSQLQuery) Error() string {
	return fmt.Sprintf("failed to build SQL query for %s: %v", e.Operation, e.Cause)
}

func (e *ErrBuildSQLQuery) Unwrap() error {
	return e.Cause
}

type ErrSQLExecution struct {
	Operation string
	Cause     error
}

func (e *ErrSQLExecution) Error() string {
	return fmt.Sprintf("failed to execute SQL query for %s: %v", e.Operation, e.Cause)
}

func (e *ErrSQLExecution) Unwrap() error {
	return e.Cause
}

type ErrSQLScan struct {
	Entity string
	Cause  error
}

func (e *ErrSQLScan) Error() string {
	return fmt.Sprintf("failed to scan %s: %v", e.Entity, e.Cause)
}

func (e *ErrSQLScan) Unwrap() error {
	return e.Cause
}

type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}

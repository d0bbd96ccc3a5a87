package workflow

import (
	"context"
	"errors"
)

// WorkflowID is a unique identifier for a workflow.
type WorkflowID string

// FieldKind selects how a field is collected from the user.
type FieldKind int

const (
	// KindText asks for a free-text answer.
	KindText FieldKind = iota
	// KindDate offers the inline calendar; typed dates are accepted too.
	KindDate
)

// FieldSpec describes one field a workflow collects.
type FieldSpec struct {
	// Key identifies the field inside the session; it doubles as the step id.
	Key string

	// Prompt is shown when the field is requested.
	Prompt string

	// Invalid is shown when validation rejects an answer.
	Invalid string

	Kind     FieldKind
	Validate func(string) bool
}

// Definition is the ordered field list and prompt assembly for one workflow.
type Definition struct {
	ID     WorkflowID
	Fields []FieldSpec

	// BuildPrompt assembles the completion prompt once every field is present.
	BuildPrompt func(fields map[string]string) string

	// FormatResult optionally wraps the generated text before delivery.
	FormatResult func(fields map[string]string, text string) string

	// Finish, when set, produces the result text locally instead of going
	// through the completion client. BuildPrompt and FormatResult are
	// ignored for such workflows.
	Finish func(ctx context.Context, chatID int64, fields map[string]string) (string, error)
}

// InlineButton is a platform-agnostic inline keyboard button.
type InlineButton struct {
	Text string
	Data string
}

// Messenger is the outbound port to the chat platform. Send methods return
// the platform message id so follow-up edits can target it.
type Messenger interface {
	SendText(chatID int64, text string) (int64, error)
	EditText(chatID, messageID int64, text string) error
	SendInline(chatID int64, text string, rows [][]InlineButton) (int64, error)
	EditInline(chatID, messageID int64, text string, rows [][]InlineButton) error
}

// Completer turns an assembled prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// StateStorage handles conversation sessions.
type StateStorage interface {
	// Save persists a session, overwriting any previous one for the chat.
	Save(ctx context.Context, state *UserState) error

	// Load retrieves the session for a chat. A missing session yields
	// (nil, nil); a stale one is dropped and yields (nil, ErrSessionExpired).
	Load(ctx context.Context, chatID int64) (*UserState, error)

	// Delete removes the session for a chat.
	Delete(ctx context.Context, chatID int64) error
}

var (
	// ErrNoActiveWorkflow signals that a text answer arrived for a chat with
	// no pending step; the router should treat the text as menu input.
	ErrNoActiveWorkflow = errors.New("no active workflow")

	// ErrBusy signals that a handler is already running for the chat.
	ErrBusy = errors.New("request already in progress")

	// ErrSessionExpired signals that the stored session outlived its TTL.
	ErrSessionExpired = errors.New("session expired")
)

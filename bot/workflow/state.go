package workflow

import "time"

// PickerState tracks a calendar selection in progress. A zero Year or Month
// means that part has not been chosen yet.
type PickerState struct {
	Year  int `json:"year" bson:"year"`
	Month int `json:"month" bson:"month"`
}

// UserState is the conversation session for one chat.
type UserState struct {
	ChatID      int64             `json:"chat_id" bson:"chat_id"`
	WorkflowID  WorkflowID        `json:"workflow_id" bson:"workflow_id"`
	CurrentStep string            `json:"current_step" bson:"current_step"`
	Fields      map[string]string `json:"fields" bson:"fields"`
	Picker      *PickerState      `json:"picker" bson:"picker"`
	UpdatedAt   time.Time         `json:"updated_at" bson:"updated_at"`
}

// NewUserState creates a session positioned at the first step of a workflow.
func NewUserState(chatID int64, workflowID WorkflowID, firstStep string) *UserState {
	return &UserState{
		ChatID:      chatID,
		WorkflowID:  workflowID,
		CurrentStep: firstStep,
		Fields:      make(map[string]string),
		UpdatedAt:   time.Now(),
	}
}

// Get retrieves a collected field value.
func (s *UserState) Get(key string) string {
	return s.Fields[key]
}

// Set stores a collected field value.
func (s *UserState) Set(key, value string) {
	if s.Fields == nil {
		s.Fields = make(map[string]string)
	}
	s.Fields[key] = value
}

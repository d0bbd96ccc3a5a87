package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"AstroBot/internal/lib/sl"
)

// User-facing notices shared by every workflow.
const (
	MsgBusy           = "⏳ Подождите, запрос обрабатывается..."
	MsgSessionExpired = "⌛ Сессия истекла. Начните заново через меню."
	MsgComposing      = "✨ Читаем знаки судьбы, это может занять до минуты..."
	MsgFailed         = "⚠️ Не удалось получить ответ звёзд. Попробуйте начать заново."
	MsgCancelled      = "❌ Ввод отменён. Выберите раздел в меню."
)

// Budget for one completed workflow submission, covering every retry and
// the fallback call inside the completion client.
const completionBudget = 150 * time.Second

// Sequencer drives workflows one field at a time: it validates answers,
// advances the current step and, once every field is present, assembles the
// completion prompt and delivers the generated text.
type Sequencer struct {
	definitions map[WorkflowID]*Definition
	storage     StateStorage
	completer   Completer
	log         *slog.Logger
}

// NewSequencer creates a sequencer over the given session storage and
// completion client.
func NewSequencer(storage StateStorage, completer Completer, log *slog.Logger) *Sequencer {
	return &Sequencer{
		definitions: make(map[WorkflowID]*Definition),
		storage:     storage,
		completer:   completer,
		log:         log.With(sl.Module("sequencer")),
	}
}

// Register adds a workflow definition to the sequencer.
func (s *Sequencer) Register(def *Definition) {
	if len(def.Fields) == 0 {
		panic(fmt.Sprintf("workflow %s has no fields", def.ID))
	}
	s.definitions[def.ID] = def
	s.log.Info("registered workflow",
		slog.String("workflow_id", string(def.ID)),
		slog.Int("fields", len(def.Fields)),
	)
}

// Begin starts a workflow for a chat, replacing any session in progress,
// and prompts for the first field.
func (s *Sequencer) Begin(ctx context.Context, m Messenger, chatID int64, id WorkflowID) error {
	def, ok := s.definitions[id]
	if !ok {
		return fmt.Errorf("workflow not found: %s", id)
	}

	state := NewUserState(chatID, id, def.Fields[0].Key)
	if err := s.storage.Save(ctx, state); err != nil {
		return fmt.Errorf("saving initial state: %w", err)
	}

	s.log.Info("starting workflow",
		slog.Int64("chat_id", chatID),
		slog.String("workflow_id", string(id)),
	)
	return s.promptField(ctx, m, state, def.Fields[0])
}

// Cancel drops the session for a chat and confirms to the user.
func (s *Sequencer) Cancel(ctx context.Context, m Messenger, chatID int64) error {
	if err := s.storage.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("deleting state: %w", err)
	}
	_, err := m.SendText(chatID, MsgCancelled)
	return err
}

// SubmitAnswer validates a text answer against the current step. Invalid
// input re-prompts the same field without advancing. A valid final answer
// triggers the completion call; the session is cleared on success and on
// terminal failure alike. Returns ErrNoActiveWorkflow when the chat has no
// pending step so the router can treat the text as menu input.
func (s *Sequencer) SubmitAnswer(ctx context.Context, m Messenger, chatID int64, text string) error {
	state, def, err := s.activeSession(ctx, m, chatID)
	if err != nil || state == nil {
		return err
	}

	spec, idx, ok := s.currentField(def, state)
	if !ok {
		// Step pointer no longer matches the definition; drop the session.
		_ = s.storage.Delete(ctx, chatID)
		return ErrNoActiveWorkflow
	}

	text = strings.TrimSpace(text)
	if !spec.Validate(text) {
		state.UpdatedAt = time.Now()
		if err := s.storage.Save(ctx, state); err != nil {
			return fmt.Errorf("saving state: %w", err)
		}
		if _, err := m.SendText(chatID, spec.Invalid); err != nil {
			return err
		}
		return s.promptField(ctx, m, state, spec)
	}

	state.Set(spec.Key, text)
	state.Picker = nil
	state.UpdatedAt = time.Now()

	if idx+1 < len(def.Fields) {
		next := def.Fields[idx+1]
		state.CurrentStep = next.Key
		if err := s.storage.Save(ctx, state); err != nil {
			return fmt.Errorf("saving state after transition: %w", err)
		}
		s.log.Debug("advancing to field",
			slog.Int64("chat_id", chatID),
			slog.String("field", next.Key),
		)
		return s.promptField(ctx, m, state, next)
	}

	if err := s.storage.Save(ctx, state); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return s.complete(ctx, m, state, def)
}

// activeSession loads the chat's session and resolves its definition.
// Expired sessions notify the user and come back as (nil, nil, nil);
// missing sessions come back as ErrNoActiveWorkflow.
func (s *Sequencer) activeSession(ctx context.Context, m Messenger, chatID int64) (*UserState, *Definition, error) {
	state, err := s.storage.Load(ctx, chatID)
	if errors.Is(err, ErrSessionExpired) {
		s.log.Info("session expired", slog.Int64("chat_id", chatID))
		_, _ = m.SendText(chatID, MsgSessionExpired)
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading state: %w", err)
	}
	if state == nil || state.WorkflowID == "" {
		return nil, nil, ErrNoActiveWorkflow
	}

	def, ok := s.definitions[state.WorkflowID]
	if !ok {
		_ = s.storage.Delete(ctx, chatID)
		return nil, nil, ErrNoActiveWorkflow
	}
	return state, def, nil
}

func (s *Sequencer) currentField(def *Definition, state *UserState) (FieldSpec, int, bool) {
	for i, f := range def.Fields {
		if f.Key == state.CurrentStep {
			return f, i, true
		}
	}
	return FieldSpec{}, 0, false
}

// promptField asks the user for a field. Date fields render the calendar;
// everything else is a plain text prompt.
func (s *Sequencer) promptField(ctx context.Context, m Messenger, state *UserState, spec FieldSpec) error {
	if spec.Kind == KindDate {
		if state.Picker == nil {
			state.Picker = &PickerState{}
			if err := s.storage.Save(ctx, state); err != nil {
				return fmt.Errorf("saving state: %w", err)
			}
		}
		_, err := m.SendInline(state.ChatID, spec.Prompt, YearRows(DefaultYearPage()))
		return err
	}
	_, err := m.SendText(state.ChatID, spec.Prompt)
	return err
}

// complete assembles the prompt, calls the completion client and delivers
// the outcome. The session is cleared before the user sees the result so a
// terminal failure never leaves the chat stuck mid-workflow.
func (s *Sequencer) complete(ctx context.Context, m Messenger, state *UserState, def *Definition) error {
	loadingID, err := m.SendText(state.ChatID, MsgComposing)
	if err != nil {
		s.log.Warn("sending loading message", slog.Int64("chat_id", state.ChatID), sl.Err(err))
	}

	cctx, cancel := context.WithTimeout(ctx, completionBudget)
	defer cancel()

	var text string
	if def.Finish != nil {
		text, err = def.Finish(cctx, state.ChatID, state.Fields)
	} else {
		text, err = s.completer.Complete(cctx, def.BuildPrompt(state.Fields))
	}

	if derr := s.storage.Delete(ctx, state.ChatID); derr != nil {
		s.log.Error("clearing completed session", slog.Int64("chat_id", state.ChatID), sl.Err(derr))
	}

	if err != nil {
		s.log.Error("completion failed",
			slog.Int64("chat_id", state.ChatID),
			slog.String("workflow_id", string(state.WorkflowID)),
			sl.Err(err),
		)
		s.deliver(m, state.ChatID, loadingID, MsgFailed)
		return nil
	}

	s.log.Info("workflow completed",
		slog.Int64("chat_id", state.ChatID),
		slog.String("workflow_id", string(state.WorkflowID)),
		slog.Int("text_length", len(text)),
	)

	if def.FormatResult != nil {
		text = def.FormatResult(state.Fields, text)
	}
	s.deliver(m, state.ChatID, loadingID, text)
	return nil
}

// deliver edits the loading message in place, falling back to a fresh
// message when editing is not possible.
func (s *Sequencer) deliver(m Messenger, chatID, messageID int64, text string) {
	if messageID != 0 {
		if err := m.EditText(chatID, messageID, text); err == nil {
			return
		}
	}
	if _, err := m.SendText(chatID, text); err != nil {
		s.log.Error("delivering result", slog.Int64("chat_id", chatID), sl.Err(err))
	}
}

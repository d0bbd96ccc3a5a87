package telegram

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"AstroBot/bot/workflow"
	"AstroBot/internal/lib/sl"
)

// Messenger sends and edits Telegram messages on behalf of the workflow
// engine. All outgoing text goes through MarkdownV2 sanitization with a
// plain-text resend fallback.
type Messenger struct {
	log *slog.Logger
	api *tgbotapi.Bot
}

func NewMessenger(api *tgbotapi.Bot, log *slog.Logger) *Messenger {
	return &Messenger{
		log: log.With(sl.Module("messenger")),
		api: api,
	}
}

func (m *Messenger) SendText(chatId int64, text string) (int64, error) {
	text = prepare(text)
	sanitized := sanitize(text, false)
	if sanitized == "" {
		m.log.With(slog.Int64("id", chatId)).Debug("empty message")
		return 0, fmt.Errorf("empty message")
	}

	msg, err := m.api.SendMessage(chatId, sanitized, &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		m.log.With(slog.Int64("id", chatId)).Warn("sending message", sl.Err(err))
		msg, err = m.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
		if err != nil {
			m.log.With(slog.Int64("id", chatId)).Error("sending safe message", sl.Err(err))
			return 0, err
		}
	}
	return msg.MessageId, nil
}

func (m *Messenger) EditText(chatId, messageId int64, text string) error {
	text = prepare(text)
	sanitized := sanitize(text, false)
	if sanitized == "" {
		return fmt.Errorf("empty message")
	}

	_, _, err := m.api.EditMessageText(sanitized, &tgbotapi.EditMessageTextOpts{
		ChatId:    chatId,
		MessageId: messageId,
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		m.log.With(slog.Int64("id", chatId)).Warn("editing message", sl.Err(err))
		_, _, err = m.api.EditMessageText(text, &tgbotapi.EditMessageTextOpts{
			ChatId:    chatId,
			MessageId: messageId,
		})
	}
	return err
}

func (m *Messenger) SendInline(chatId int64, text string, rows [][]workflow.InlineButton) (int64, error) {
	msg, err := m.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
		ReplyMarkup: inlineMarkup(rows),
	})
	if err != nil {
		m.log.With(slog.Int64("id", chatId)).Error("sending inline message", sl.Err(err))
		return 0, err
	}
	return msg.MessageId, nil
}

func (m *Messenger) EditInline(chatId, messageId int64, text string, rows [][]workflow.InlineButton) error {
	_, _, err := m.api.EditMessageText(text, &tgbotapi.EditMessageTextOpts{
		ChatId:      chatId,
		MessageId:   messageId,
		ReplyMarkup: inlineMarkup(rows),
	})
	if err != nil {
		m.log.With(slog.Int64("id", chatId)).Warn("editing inline message", sl.Err(err))
	}
	return err
}

// SendPhoto delivers a generated image by URL with an optional caption.
func (m *Messenger) SendPhoto(chatId int64, url, caption string) error {
	_, err := m.api.SendPhoto(chatId, tgbotapi.InputFileByURL(url), &tgbotapi.SendPhotoOpts{
		Caption: caption,
	})
	if err != nil {
		m.log.With(slog.Int64("id", chatId)).Warn("sending photo", sl.Err(err))
	}
	return err
}

func inlineMarkup(rows [][]workflow.InlineButton) tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.InlineKeyboardButton{
				Text:         b.Text,
				CallbackData: b.Data,
			})
		}
		keyboard = append(keyboard, buttons)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}

func prepare(text string) string {
	// ChatGPT uses ** for bold text, so we need to replace it
	text = strings.ReplaceAll(text, "**", "*")
	text = strings.ReplaceAll(text, "![", "[")
	return text
}

func sanitize(input string, preserveLinks bool) string {
	// Define a list of reserved characters that need to be escaped
	reservedChars := "\\`_{}#+-.!|()[]"
	if preserveLinks {
		reservedChars = "\\`_{}#+-.!|"
	}

	sanitized := strings.Builder{}
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			sanitized.WriteString("\\")
		}
		sanitized.WriteRune(char)
	}

	return sanitized.String()
}

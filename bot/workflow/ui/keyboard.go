package ui

import (
	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"AstroBot/bot/workflow"
	"AstroBot/entity"
	"AstroBot/internal/service/divination"
)

// Menu button labels. The reply keyboard routes plain text back into
// the command handlers, so the labels double as routing keys.
const (
	MenuNatal         = "🌌 Натальная карта"
	MenuCompatibility = "❤️ Совместимость"
	MenuNumerology    = "🔢 Нумерология"
	MenuHoroscope     = "🌠 Гороскоп"
	MenuFortune       = "🥠 Предсказание"
	MenuTarot         = "🃏 Карта Таро"
	MenuDaily         = "📜 Послание на день"
	MenuSubscribe     = "🔔 Подписка"
	MenuProfile       = "👤 Профиль"
)

func MainMenu() *tgbotapi.ReplyKeyboardMarkup {
	return &tgbotapi.ReplyKeyboardMarkup{
		Keyboard: [][]tgbotapi.KeyboardButton{
			{{Text: MenuNatal}, {Text: MenuCompatibility}},
			{{Text: MenuNumerology}, {Text: MenuHoroscope}},
			{{Text: MenuFortune}, {Text: MenuTarot}},
			{{Text: MenuDaily}},
			{{Text: MenuSubscribe}, {Text: MenuProfile}},
		},
		ResizeKeyboard: true,
	}
}

// ZodiacRows lays the twelve signs out three per row. The action becomes
// part of the callback token, so the same grid serves both the one-off
// horoscope and the subscription flow.
func ZodiacRows(action string) [][]workflow.InlineButton {
	rows := make([][]workflow.InlineButton, 0, 4)
	row := make([]workflow.InlineButton, 0, 3)
	for _, sign := range entity.Signs {
		row = append(row, workflow.InlineButton{
			Text: sign,
			Data: workflow.BuildCallback(workflow.ZodiacPrefix, action, sign),
		})
		if len(row) == 3 {
			rows = append(rows, row)
			row = make([]workflow.InlineButton, 0, 3)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func FortuneRows() [][]workflow.InlineButton {
	rows := make([][]workflow.InlineButton, 0, len(divination.FortuneCategories))
	for _, category := range divination.FortuneCategories {
		rows = append(rows, []workflow.InlineButton{{
			Text: category,
			Data: workflow.BuildCallback(workflow.FortunePrefix, "pick", category),
		}})
	}
	return rows
}

func TarotRows() [][]workflow.InlineButton {
	return [][]workflow.InlineButton{{{
		Text: "🃏 Вытянуть карту",
		Data: workflow.BuildCallback(workflow.TarotPrefix, "draw"),
	}}}
}

// DailyRows offers to regenerate the daily message in place.
func DailyRows() [][]workflow.InlineButton {
	return [][]workflow.InlineButton{{{
		Text: "🔄 Новое послание",
		Data: workflow.BuildCallback(workflow.DailyPrefix, "new"),
	}}}
}

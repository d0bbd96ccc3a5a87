package natal

import (
	"fmt"

	"AstroBot/bot/workflow"
	"AstroBot/internal/lib/validate"
)

// Workflow ID
const (
	WorkflowID workflow.WorkflowID = "natal_chart"
)

// Field keys
const (
	KeyName       = "name"
	KeyBirthDate  = "birth_date"
	KeyBirthTime  = "birth_time"
	KeyBirthPlace = "birth_place"
)

const (
	invalidName = "⚠️ Имя и место могут содержать только буквы, пробелы и дефисы (до 50 символов)."
	invalidDate = "⚠️ Неверный формат! Введите дату в формате ДД.ММ.ГГГГ, например: 12.05.1990"
	invalidTime = "⚠️ Неверный формат! Введите время в формате ЧЧ:ММ, например: 14:30"
)

// Definition builds the natal chart workflow: name, birth date, birth time
// and birth place, then a single completion call.
func Definition() *workflow.Definition {
	return &workflow.Definition{
		ID: WorkflowID,
		Fields: []workflow.FieldSpec{
			{
				Key:      KeyName,
				Prompt:   "🌌 Составим натальную карту!\nВведите имя:",
				Invalid:  invalidName,
				Validate: validate.Name,
			},
			{
				Key:      KeyBirthDate,
				Prompt:   "📅 Выберите дату рождения:",
				Invalid:  invalidDate,
				Kind:     workflow.KindDate,
				Validate: validate.Date,
			},
			{
				Key:      KeyBirthTime,
				Prompt:   "⏰ Введите время рождения в формате ЧЧ:ММ:",
				Invalid:  invalidTime,
				Validate: validate.Time,
			},
			{
				Key:      KeyBirthPlace,
				Prompt:   "🏙 Введите место рождения (город):",
				Invalid:  invalidName,
				Validate: validate.Name,
			},
		},
		BuildPrompt:  buildPrompt,
		FormatResult: formatResult,
	}
}

func buildPrompt(fields map[string]string) string {
	return fmt.Sprintf(
		"Составь детальный анализ натальной карты для %s. "+
			"Дата рождения: %s, Время: %s, Место: %s. "+
			"Опиши 1) Психологический портрет, 2) Жизненное предназначение, "+
			"3) Основные планеты (Солнце, Луна, Асцендент), 4) Советы для гармонии в жизни. "+
			"Не используй Markdown-форматирование (например, ###, **, *, # и т.д.).",
		fields[KeyName], fields[KeyBirthDate], fields[KeyBirthTime], fields[KeyBirthPlace],
	)
}

func formatResult(fields map[string]string, text string) string {
	return fmt.Sprintf(
		"🌌 *Анализ натальной карты для %s*\n"+
			"__________________________\n"+
			"%s\n"+
			"__________________________\n"+
			"✨ *Совет:* Используйте знания натальной карты для развития!",
		fields[KeyName], text,
	)
}

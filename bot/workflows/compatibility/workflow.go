package compatibility

import (
	"fmt"

	"AstroBot/bot/workflow"
	"AstroBot/internal/lib/validate"
)

// Workflow ID
const (
	WorkflowID workflow.WorkflowID = "compatibility"
)

// Field keys, scoped by person index.
const (
	KeyName1  = "p1_name"
	KeyDate1  = "p1_birth_date"
	KeyTime1  = "p1_birth_time"
	KeyPlace1 = "p1_birth_place"
	KeyName2  = "p2_name"
	KeyDate2  = "p2_birth_date"
	KeyTime2  = "p2_birth_time"
	KeyPlace2 = "p2_birth_place"
)

const (
	invalidName = "⚠️ Имя и место могут содержать только буквы, пробелы и дефисы (до 50 символов)."
	invalidDate = "⚠️ Неверный формат! Введите дату в формате ДД.ММ.ГГГГ, например: 12.05.1990"
	invalidTime = "⚠️ Неверный формат! Введите время в формате ЧЧ:ММ, например: 14:30"
)

// Definition builds the compatibility workflow: the four birth fields for
// person one, the same four for person two, then one completion call over
// both sets.
func Definition() *workflow.Definition {
	return &workflow.Definition{
		ID: WorkflowID,
		Fields: []workflow.FieldSpec{
			{
				Key:      KeyName1,
				Prompt:   "💞 Рассчитаем совместимость по натальным картам!\nВведите имя первого человека:",
				Invalid:  invalidName,
				Validate: validate.Name,
			},
			{
				Key:      KeyDate1,
				Prompt:   "📅 Выберите дату рождения первого человека:",
				Invalid:  invalidDate,
				Kind:     workflow.KindDate,
				Validate: validate.Date,
			},
			{
				Key:      KeyTime1,
				Prompt:   "⏰ Введите время рождения первого человека (ЧЧ:ММ):",
				Invalid:  invalidTime,
				Validate: validate.Time,
			},
			{
				Key:      KeyPlace1,
				Prompt:   "🏙 Введите место рождения первого человека:",
				Invalid:  invalidName,
				Validate: validate.Name,
			},
			{
				Key:      KeyName2,
				Prompt:   "👤 Теперь второй человек.\nВведите имя:",
				Invalid:  invalidName,
				Validate: validate.Name,
			},
			{
				Key:      KeyDate2,
				Prompt:   "📅 Выберите дату рождения второго человека:",
				Invalid:  invalidDate,
				Kind:     workflow.KindDate,
				Validate: validate.Date,
			},
			{
				Key:      KeyTime2,
				Prompt:   "⏰ Введите время рождения второго человека (ЧЧ:ММ):",
				Invalid:  invalidTime,
				Validate: validate.Time,
			},
			{
				Key:      KeyPlace2,
				Prompt:   "🏙 Введите место рождения второго человека:",
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
		"Составь астрологический анализ совместимости для %s (%s, %s, %s) "+
			"и %s (%s, %s, %s). "+
			"Опиши совпадения в натальных картах, судьбоносные аспекты и советы для гармонии. "+
			"Не используй Markdown-форматирование (например, ###, **, *, # и т.д.).",
		fields[KeyName1], fields[KeyDate1], fields[KeyTime1], fields[KeyPlace1],
		fields[KeyName2], fields[KeyDate2], fields[KeyTime2], fields[KeyPlace2],
	)
}

func formatResult(fields map[string]string, text string) string {
	return fmt.Sprintf(
		"🔮 *Астрологическая совместимость %s и %s*\n"+
			"__________________________\n"+
			"%s\n"+
			"__________________________\n"+
			"✨ *Совет:* Используйте астрологию для гармонии в паре!",
		fields[KeyName1], fields[KeyName2], text,
	)
}

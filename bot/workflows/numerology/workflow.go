package numerology

import (
	"fmt"

	"AstroBot/bot/workflow"
	"AstroBot/internal/lib/validate"
)

// Workflow ID
const (
	WorkflowID workflow.WorkflowID = "numerology"
)

// Field keys
const (
	KeyBirthDate = "birth_date"
)

// Definition builds the numerology workflow: a single birth date, folded
// into the life-path number that seeds the interpretation prompt.
func Definition() *workflow.Definition {
	return &workflow.Definition{
		ID: WorkflowID,
		Fields: []workflow.FieldSpec{
			{
				Key:      KeyBirthDate,
				Prompt:   "🔢 Выберите вашу дату рождения:",
				Invalid:  "⚠️ Неверный формат! Введите дату в формате ДД.ММ.ГГГГ, например: 12.05.1990",
				Kind:     workflow.KindDate,
				Validate: validate.Date,
			},
		},
		BuildPrompt:  buildPrompt,
		FormatResult: formatResult,
	}
}

// LifePath folds every digit of a DD.MM.YYYY date into a single digit 1-9.
func LifePath(birthDate string) int {
	sum := 0
	for _, r := range birthDate {
		if r >= '0' && r <= '9' {
			sum += int(r - '0')
		}
	}
	for sum >= 10 {
		next := 0
		for sum > 0 {
			next += sum % 10
			sum /= 10
		}
		sum = next
	}
	return sum
}

func buildPrompt(fields map[string]string) string {
	return fmt.Sprintf(
		"Напиши эзотерическое толкование числа судьбы %d. "+
			"Опиши ключевые качества личности, предназначение и кармический смысл этого числа. "+
			"Добавь мистическую символику и советы по гармонизации энергии. "+
			"Не используй Markdown-форматирование (например, ###, **, *, # и т.д.).",
		LifePath(fields[KeyBirthDate]),
	)
}

func formatResult(fields map[string]string, text string) string {
	return fmt.Sprintf(
		"🔢 *Ваше число судьбы: %d*\n"+
			"__________________________\n"+
			"%s\n"+
			"__________________________\n"+
			"✨ Это число символизирует вашу основную жизненную энергию.",
		LifePath(fields[KeyBirthDate]), text,
	)
}

package profile

import (
	"context"
	"fmt"

	"AstroBot/bot/workflow"
	"AstroBot/entity"
	"AstroBot/internal/lib/validate"
)

// Workflow ID
const (
	WorkflowID workflow.WorkflowID = "set_profile"
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

// Saver persists a completed profile.
type Saver func(p *entity.Profile) error

// Definition builds the profile capture workflow. It collects the same
// birth data as the natal chart but persists it instead of asking the
// model anything.
func Definition(save Saver) *workflow.Definition {
	return &workflow.Definition{
		ID: WorkflowID,
		Fields: []workflow.FieldSpec{
			{
				Key:      KeyName,
				Prompt:   "👤 Заполним профиль!\nВведите имя:",
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
				Prompt:   "🌍 Введите место рождения:",
				Invalid:  invalidName,
				Validate: validate.Name,
			},
		},
		Finish: func(ctx context.Context, chatID int64, fields map[string]string) (string, error) {
			p := &entity.Profile{
				ChatId:     chatID,
				Name:       fields[KeyName],
				BirthDate:  fields[KeyBirthDate],
				BirthTime:  fields[KeyBirthTime],
				BirthPlace: fields[KeyBirthPlace],
			}
			if err := save(p); err != nil {
				return "", fmt.Errorf("saving profile: %w", err)
			}

			text := fmt.Sprintf("✅ Профиль сохранён!\n\n👤 %s\n📅 %s, ⏰ %s\n🌍 %s",
				p.Name, p.BirthDate, p.BirthTime, p.BirthPlace)
			if sign, ok := entity.SignFromDate(p.BirthDate); ok {
				text += fmt.Sprintf("\n♈ Ваш знак зодиака: %s", sign)
			}
			return text, nil
		},
	}
}

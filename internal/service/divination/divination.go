package divination

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"AstroBot/internal/lib/sl"
)

// Completer turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator renders a tarot card illustration.
type ImageGenerator interface {
	GenerateCardImage(ctx context.Context, card string) (string, error)
}

// FortuneCategories lists the supported fortune themes.
var FortuneCategories = []string{"деньги", "удача", "отношения", "здоровье"}

var tarotCards = []string{
	"Шут", "Маг", "Верховная Жрица", "Императрица", "Император",
	"Иерофант", "Влюбленные", "Колесница", "Справедливость", "Отшельник",
	"Колесо Фортуны", "Сила", "Повешенный", "Смерть", "Умеренность",
	"Дьявол", "Башня", "Звезда", "Луна", "Солнце", "Суд", "Мир",
}

// Service produces the one-shot readings: daily horoscopes, fortunes and
// tarot draws.
type Service struct {
	gpt    Completer
	images ImageGenerator
	log    *slog.Logger
}

// NewService creates the divination service. images may be nil; tarot then
// delivers text only.
func NewService(gpt Completer, images ImageGenerator, log *slog.Logger) *Service {
	return &Service{
		gpt:    gpt,
		images: images,
		log:    log.With(sl.Module("divination")),
	}
}

// Horoscope generates a horoscope for a zodiac sign. An empty date means
// today.
func (s *Service) Horoscope(ctx context.Context, sign, date string) (string, error) {
	if date == "" {
		date = time.Now().Format("02.01.2006")
	}

	prompt := fmt.Sprintf(
		"Ты — потомственный астролог, владеющий древними тайнами звёзд и планет. "+
			"Сотвори волшебное предсказание судьбы для знака %s на %s. "+
			"Опиши как танец планет и созвездий влияет на энергетические потоки этого знака. "+
			"Раскрой мистическую суть дня через отношения с тремя сферами: любовь, успех и здоровье. "+
			"Заверши гороскоп загадочным пророчеством или мудрой метафорой. "+
			"Пиши на русском языке. Не используй Markdown-форматирование (например, ###, **, *, # и т.д.).",
		sign, date,
	)

	text, err := s.gpt.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("horoscope for %s: %w", sign, err)
	}
	return fmt.Sprintf("🔮 *Гороскоп для %s на %s*\n\n%s", sign, date, text), nil
}

// IsFortuneCategory reports whether the category is supported.
func IsFortuneCategory(category string) bool {
	for _, c := range FortuneCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Fortune generates an esoteric prediction for one of the fortune themes.
func (s *Service) Fortune(ctx context.Context, category string) (string, error) {
	if !IsFortuneCategory(category) {
		return "", fmt.Errorf("unknown fortune category: %s", category)
	}

	prompt := fmt.Sprintf(
		"Сделай мистическое предсказание по теме %s. "+
			"Добавь эзотерические советы, символику и важные знаки судьбы. "+
			"Не используй Markdown-форматирование (например, ###, **, *, # и т.д.).",
		category,
	)

	text, err := s.gpt.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("fortune for %s: %w", category, err)
	}
	return fmt.Sprintf(
		"🔮 *Предсказание: %s*\n"+
			"__________________________\n"+
			"%s\n"+
			"__________________________\n"+
			"💡 *Совет:* Примите знаки судьбы и следуйте интуиции!",
		category, text,
	), nil
}

// DrawTarot picks a random major arcana card, asks for its interpretation
// and, when an image generator is wired, renders the card. A failed image
// is not an error; imageURL is simply empty.
func (s *Service) DrawTarot(ctx context.Context) (card, interpretation, imageURL string, err error) {
	card = tarotCards[rand.Intn(len(tarotCards))]

	prompt := fmt.Sprintf(
		"Вытащи карту Таро: %s. Опиши её значение в четырех сферах:\n"+
			"1) Судьба\n2) Любовь\n3) Карьера\n4) Духовное развитие.\n"+
			"Добавь эзотерические детали и совет. "+
			"Не используй Markdown-форматирование (например, ###, **, *, # и т.д.).",
		card,
	)

	interpretation, err = s.gpt.Complete(ctx, prompt)
	if err != nil {
		return "", "", "", fmt.Errorf("tarot interpretation: %w", err)
	}

	if s.images != nil {
		url, imgErr := s.images.GenerateCardImage(ctx, card)
		if imgErr != nil {
			s.log.Warn("tarot image generation failed", slog.String("card", card), sl.Err(imgErr))
		} else {
			imageURL = url
		}
	}
	return card, interpretation, imageURL, nil
}

// DailyMessage generates a short inspirational message for the day.
func (s *Service) DailyMessage(ctx context.Context) (string, error) {
	prompt := "Дайте краткое вдохновляющее послание на день в стиле эзотерики, не длиннее 100 слов. " +
		"Не используй Markdown-форматирование (например, ###, **, *, # и т.д.)."

	text, err := s.gpt.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("daily message: %w", err)
	}
	return fmt.Sprintf("📜 *Послание на день*\n\n%s", text), nil
}

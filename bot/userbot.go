package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"

	"AstroBot/bot/telegram"
	"AstroBot/bot/workflow"
	"AstroBot/bot/workflow/ui"
	"AstroBot/bot/workflows/compatibility"
	"AstroBot/bot/workflows/natal"
	"AstroBot/bot/workflows/numerology"
	profileflow "AstroBot/bot/workflows/profile"
	"AstroBot/entity"
	"AstroBot/internal/lib/sl"
	"AstroBot/internal/service/divination"
)

// Storage persists subscriptions and birth profiles.
type Storage interface {
	UpsertSubscription(sub *entity.Subscription) error
	DeleteSubscription(chatId int64) error
	UpsertProfile(profile *entity.Profile) error
	GetProfile(chatId int64) (*entity.Profile, error)
}

const msgMenuHint = "Выберите раздел в меню или используйте команды бота."

// UserBot is the Telegram bot for general users. It routes commands and
// menu presses to workflows and one-shot divination handlers, with a
// per-chat guard so each user runs one request at a time.
type UserBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	botUsername string
	adminId     int64
	messenger   *telegram.Messenger
	sequencer   *workflow.Sequencer
	guard       *workflow.Guard
	divination  *divination.Service
	storage     Storage
}

// NewUserBot creates a new user bot instance.
func NewUserBot(botName, apiKey string, adminId int64, log *slog.Logger) (*UserBot, error) {
	bot := &UserBot{
		log:         log.With(sl.Module("userbot")),
		botUsername: botName,
		adminId:     adminId,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	bot.api = api
	bot.messenger = telegram.NewMessenger(api, log)
	bot.guard = workflow.NewGuard(log)

	return bot, nil
}

// SendMessage forwards a service notice to the admin chat. It satisfies
// the logger notifier interface.
func (b *UserBot) SendMessage(msg string) {
	if b.adminId == 0 {
		return
	}
	_, _ = b.messenger.SendText(b.adminId, msg)
}

// Messenger exposes the sanitizing message sender.
func (b *UserBot) Messenger() *telegram.Messenger {
	return b.messenger
}

// SetSequencer sets the workflow sequencer for the bot.
func (b *UserBot) SetSequencer(sequencer *workflow.Sequencer) {
	b.sequencer = sequencer
}

// SetDivination sets the one-shot divination service.
func (b *UserBot) SetDivination(service *divination.Service) {
	b.divination = service
}

// SetStorage sets the subscription and profile storage.
func (b *UserBot) SetStorage(storage Storage) {
	b.storage = storage
}

// Start begins polling for updates and handling them.
func (b *UserBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(bot *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			log.Println("an error occurred while handling update:", err.Error())
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	dispatcher.AddHandler(handlers.NewCommand("start", b.handleStart))
	dispatcher.AddHandler(handlers.NewCommand("cancel", b.handleCancel))
	dispatcher.AddHandler(handlers.NewCommand("natal_chart", b.workflowCommand(natal.WorkflowID)))
	dispatcher.AddHandler(handlers.NewCommand("compatibility", b.workflowCommand(compatibility.WorkflowID)))
	dispatcher.AddHandler(handlers.NewCommand("numerology", b.workflowCommand(numerology.WorkflowID)))
	dispatcher.AddHandler(handlers.NewCommand("set_profile", b.handleSetProfile))
	dispatcher.AddHandler(handlers.NewCommand("get_profile", b.handleGetProfile))
	dispatcher.AddHandler(handlers.NewCommand("horoscope", b.handleHoroscopeMenu))
	dispatcher.AddHandler(handlers.NewCommand("fortune", b.handleFortuneMenu))
	dispatcher.AddHandler(handlers.NewCommand("tarot", b.handleTarotMenu))
	dispatcher.AddHandler(handlers.NewCommand("daily_message", b.handleDailyMessage))
	dispatcher.AddHandler(handlers.NewCommand("subscribe", b.handleSubscribe))
	dispatcher.AddHandler(handlers.NewCommand("unsubscribe", b.handleUnsubscribe))
	dispatcher.AddHandler(handlers.NewCallback(anyCallback, b.handleCallback))
	dispatcher.AddHandler(handlers.NewMessage(message.Text, b.handleMessage))

	err := updater.StartPolling(b.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	b.log.Info("user bot started", slog.String("username", b.botUsername))

	// Idle, to keep updates coming in
	updater.Idle()

	return nil
}

func anyCallback(cq *tgbotapi.CallbackQuery) bool {
	return cq.Data != ""
}

// handleStart greets the user and shows the main menu.
func (b *UserBot) handleStart(bot *tgbotapi.Bot, ctx *ext.Context) error {
	chatID := ctx.EffectiveChat.Id

	text := "✨ Добро пожаловать! Я астрологический бот.\n\n" +
		"Я составляю натальные карты, проверяю совместимость, считаю число судьбы, " +
		"читаю гороскопы и раскладываю Таро. Выберите раздел в меню."

	_, err := bot.SendMessage(chatID, text, &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.MainMenu(),
	})
	return err
}

// handleCancel drops the active workflow session, if any. The guard keeps
// the cancel from racing a submission that is mid-flight for the same chat.
func (b *UserBot) handleCancel(bot *tgbotapi.Bot, ctx *ext.Context) error {
	chatID := ctx.EffectiveChat.Id
	err := b.guard.Do(chatID, func() error {
		return b.sequencer.Cancel(context.Background(), b.messenger, chatID)
	})
	return b.reportBusy(chatID, err)
}

// workflowCommand starts the given workflow under the per-chat guard.
func (b *UserBot) workflowCommand(id workflow.WorkflowID) handlers.Response {
	return func(bot *tgbotapi.Bot, ctx *ext.Context) error {
		chatID := ctx.EffectiveChat.Id
		err := b.guard.Do(chatID, func() error {
			return b.sequencer.Begin(context.Background(), b.messenger, chatID, id)
		})
		return b.reportBusy(chatID, err)
	}
}

func (b *UserBot) handleHoroscopeMenu(bot *tgbotapi.Bot, ctx *ext.Context) error {
	_, err := b.messenger.SendInline(ctx.EffectiveChat.Id,
		"🌠 Выберите знак зодиака:", ui.ZodiacRows("pick"))
	return err
}

func (b *UserBot) handleFortuneMenu(bot *tgbotapi.Bot, ctx *ext.Context) error {
	_, err := b.messenger.SendInline(ctx.EffectiveChat.Id,
		"🥠 О чём хотите узнать?", ui.FortuneRows())
	return err
}

func (b *UserBot) handleTarotMenu(bot *tgbotapi.Bot, ctx *ext.Context) error {
	_, err := b.messenger.SendInline(ctx.EffectiveChat.Id,
		"🃏 Карты Таро готовы ответить.", ui.TarotRows())
	return err
}

// handleDailyMessage delivers the one-shot inspirational message with a
// refresh button underneath.
func (b *UserBot) handleDailyMessage(bot *tgbotapi.Bot, ctx *ext.Context) error {
	chatID := ctx.EffectiveChat.Id
	err := b.guard.Do(chatID, func() error {
		messageID, err := b.messenger.SendText(chatID, workflow.MsgComposing)
		if err != nil {
			return err
		}
		text, err := b.divination.DailyMessage(context.Background())
		if err != nil {
			_ = b.messenger.EditText(chatID, messageID, workflow.MsgFailed)
			return err
		}
		return b.messenger.EditInline(chatID, messageID, text, ui.DailyRows())
	})
	return b.reportBusy(chatID, err)
}

// handleSubscribe signs the user up for the daily horoscope. When the
// profile already holds a birth date the sign is derived from it,
// otherwise the zodiac grid is offered.
func (b *UserBot) handleSubscribe(bot *tgbotapi.Bot, ctx *ext.Context) error {
	chatID := ctx.EffectiveChat.Id
	if b.storage == nil {
		_, err := b.messenger.SendText(chatID, "⚠️ Подписки временно недоступны.")
		return err
	}

	if p, err := b.storage.GetProfile(chatID); err == nil && p != nil {
		if sign, ok := entity.SignFromDate(p.BirthDate); ok {
			return b.subscribe(chatID, sign)
		}
	}

	_, err := b.messenger.SendInline(chatID,
		"🔔 Выберите знак зодиака для ежедневного гороскопа:", ui.ZodiacRows("sub"))
	return err
}

func (b *UserBot) handleUnsubscribe(bot *tgbotapi.Bot, ctx *ext.Context) error {
	chatID := ctx.EffectiveChat.Id
	if b.storage == nil {
		_, err := b.messenger.SendText(chatID, "⚠️ Подписки временно недоступны.")
		return err
	}

	if err := b.storage.DeleteSubscription(chatID); err != nil {
		b.log.Error("deleting subscription", slog.Int64("chat_id", chatID), sl.Err(err))
		_, err = b.messenger.SendText(chatID, workflow.MsgFailed)
		return err
	}
	_, err := b.messenger.SendText(chatID, "🔕 Вы отписаны от ежедневного гороскопа.")
	return err
}

func (b *UserBot) subscribe(chatID int64, sign string) error {
	sub := &entity.Subscription{ChatId: chatID, Zodiac: sign}
	if err := b.storage.UpsertSubscription(sub); err != nil {
		b.log.Error("upserting subscription", slog.Int64("chat_id", chatID), sl.Err(err))
		_, err = b.messenger.SendText(chatID, workflow.MsgFailed)
		return err
	}
	_, err := b.messenger.SendText(chatID,
		fmt.Sprintf("🔔 Вы подписаны на ежедневный гороскоп (%s). Он приходит каждое утро в 08:00.", sign))
	return err
}

func (b *UserBot) handleSetProfile(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if b.storage == nil {
		_, err := b.messenger.SendText(ctx.EffectiveChat.Id, "⚠️ Профили временно недоступны.")
		return err
	}
	return b.workflowCommand(profileflow.WorkflowID)(bot, ctx)
}

func (b *UserBot) handleGetProfile(bot *tgbotapi.Bot, ctx *ext.Context) error {
	chatID := ctx.EffectiveChat.Id
	if b.storage == nil {
		_, err := b.messenger.SendText(chatID, "⚠️ Профили временно недоступны.")
		return err
	}

	p, err := b.storage.GetProfile(chatID)
	if err != nil {
		b.log.Error("loading profile", slog.Int64("chat_id", chatID), sl.Err(err))
		_, err = b.messenger.SendText(chatID, workflow.MsgFailed)
		return err
	}
	if p == nil {
		_, err = b.messenger.SendText(chatID, "👤 Профиль пока не заполнен. Используйте /set_profile.")
		return err
	}

	text := fmt.Sprintf("👤 *%s*\n📅 %s, ⏰ %s\n🌍 %s", p.Name, p.BirthDate, p.BirthTime, p.BirthPlace)
	if sign, ok := entity.SignFromDate(p.BirthDate); ok {
		text += fmt.Sprintf("\n♈ Знак зодиака: %s", sign)
	}
	_, err = b.messenger.SendText(chatID, text)
	return err
}

// handleCallback routes inline button presses by their data prefix.
func (b *UserBot) handleCallback(bot *tgbotapi.Bot, ctx *ext.Context) error {
	cq := ctx.CallbackQuery
	chatID := ctx.EffectiveChat.Id
	messageID := cq.Message.GetMessageId()
	data := cq.Data

	var err error
	switch {
	case workflow.IsCalendarCallback(data):
		err = b.guard.Do(chatID, func() error {
			return b.sequencer.HandleCalendar(context.Background(), b.messenger, chatID, messageID, data)
		})
	case strings.HasPrefix(data, workflow.ZodiacPrefix):
		err = b.handleZodiacCallback(chatID, messageID, data)
	case strings.HasPrefix(data, workflow.FortunePrefix):
		err = b.handleFortuneCallback(chatID, messageID, data)
	case strings.HasPrefix(data, workflow.TarotPrefix):
		err = b.handleTarotCallback(chatID, messageID, data)
	case strings.HasPrefix(data, workflow.DailyPrefix):
		err = b.handleDailyCallback(chatID, messageID, data)
	default:
		b.log.Debug("unknown callback", slog.String("data", data))
	}

	if errors.Is(err, workflow.ErrBusy) {
		_, _ = cq.Answer(bot, &tgbotapi.AnswerCallbackQueryOpts{
			Text:      workflow.MsgBusy,
			ShowAlert: true,
		})
		return nil
	}
	if err != nil {
		b.log.Error("callback error",
			slog.Int64("chat_id", chatID),
			slog.String("data", data),
			sl.Err(err),
		)
	}

	_, _ = cq.Answer(bot, nil)
	return nil
}

func (b *UserBot) handleZodiacCallback(chatID, messageID int64, data string) error {
	cb := workflow.ParseCallback(workflow.ZodiacPrefix, data)
	if cb == nil || !entity.IsZodiacSign(cb.Value) {
		return nil
	}

	switch cb.Action {
	case "sub":
		if b.storage == nil {
			return nil
		}
		return b.subscribe(chatID, cb.Value)
	case "pick":
		return b.guard.Do(chatID, func() error {
			_ = b.messenger.EditText(chatID, messageID, workflow.MsgComposing)
			text, err := b.divination.Horoscope(context.Background(), cb.Value, "")
			if err != nil {
				_ = b.messenger.EditText(chatID, messageID, workflow.MsgFailed)
				return err
			}
			return b.messenger.EditText(chatID, messageID, text)
		})
	}
	return nil
}

func (b *UserBot) handleFortuneCallback(chatID, messageID int64, data string) error {
	cb := workflow.ParseCallback(workflow.FortunePrefix, data)
	if cb == nil || cb.Action != "pick" || !divination.IsFortuneCategory(cb.Value) {
		return nil
	}

	return b.guard.Do(chatID, func() error {
		_ = b.messenger.EditText(chatID, messageID, workflow.MsgComposing)
		text, err := b.divination.Fortune(context.Background(), cb.Value)
		if err != nil {
			_ = b.messenger.EditText(chatID, messageID, workflow.MsgFailed)
			return err
		}
		return b.messenger.EditText(chatID, messageID, text)
	})
}

func (b *UserBot) handleTarotCallback(chatID, messageID int64, data string) error {
	cb := workflow.ParseCallback(workflow.TarotPrefix, data)
	if cb == nil || cb.Action != "draw" {
		return nil
	}

	return b.guard.Do(chatID, func() error {
		_ = b.messenger.EditText(chatID, messageID, workflow.MsgComposing)
		card, interpretation, imageURL, err := b.divination.DrawTarot(context.Background())
		if err != nil {
			_ = b.messenger.EditText(chatID, messageID, workflow.MsgFailed)
			return err
		}
		text := fmt.Sprintf("🃏 *%s*\n\n%s", card, interpretation)
		if err := b.messenger.EditText(chatID, messageID, text); err != nil {
			return err
		}
		if imageURL != "" {
			_ = b.messenger.SendPhoto(chatID, imageURL, card)
		}
		return nil
	})
}

func (b *UserBot) handleDailyCallback(chatID, messageID int64, data string) error {
	cb := workflow.ParseCallback(workflow.DailyPrefix, data)
	if cb == nil || cb.Action != "new" {
		return nil
	}

	return b.guard.Do(chatID, func() error {
		_ = b.messenger.EditText(chatID, messageID, workflow.MsgComposing)
		text, err := b.divination.DailyMessage(context.Background())
		if err != nil {
			_ = b.messenger.EditText(chatID, messageID, workflow.MsgFailed)
			return err
		}
		return b.messenger.EditInline(chatID, messageID, text, ui.DailyRows())
	})
}

// handleMessage feeds text into the active workflow; when no workflow is
// pending the text is matched against the main menu.
func (b *UserBot) handleMessage(bot *tgbotapi.Bot, ctx *ext.Context) error {
	chatID := ctx.EffectiveChat.Id
	text := ctx.EffectiveMessage.Text

	err := b.guard.Do(chatID, func() error {
		return b.sequencer.SubmitAnswer(context.Background(), b.messenger, chatID, text)
	})
	if errors.Is(err, workflow.ErrNoActiveWorkflow) {
		return b.routeMenu(bot, ctx, text)
	}
	return b.reportBusy(chatID, err)
}

func (b *UserBot) routeMenu(bot *tgbotapi.Bot, ctx *ext.Context, text string) error {
	chatID := ctx.EffectiveChat.Id

	switch strings.TrimSpace(text) {
	case ui.MenuNatal:
		return b.workflowCommand(natal.WorkflowID)(bot, ctx)
	case ui.MenuCompatibility:
		return b.workflowCommand(compatibility.WorkflowID)(bot, ctx)
	case ui.MenuNumerology:
		return b.workflowCommand(numerology.WorkflowID)(bot, ctx)
	case ui.MenuHoroscope:
		return b.handleHoroscopeMenu(bot, ctx)
	case ui.MenuFortune:
		return b.handleFortuneMenu(bot, ctx)
	case ui.MenuTarot:
		return b.handleTarotMenu(bot, ctx)
	case ui.MenuDaily:
		return b.handleDailyMessage(bot, ctx)
	case ui.MenuSubscribe:
		return b.handleSubscribe(bot, ctx)
	case ui.MenuProfile:
		return b.handleGetProfile(bot, ctx)
	}

	_, err := bot.SendMessage(chatID, msgMenuHint, &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.MainMenu(),
	})
	return err
}

// reportBusy swallows ErrBusy after telling the user to wait.
func (b *UserBot) reportBusy(chatID int64, err error) error {
	if errors.Is(err, workflow.ErrBusy) {
		_, _ = b.messenger.SendText(chatID, workflow.MsgBusy)
		return nil
	}
	return err
}

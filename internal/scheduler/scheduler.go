package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"AstroBot/entity"
	"AstroBot/internal/config"
	"AstroBot/internal/lib/sl"
	"AstroBot/internal/service/divination"
)

// SubscriptionLister reads the current daily horoscope subscribers.
type SubscriptionLister interface {
	ListSubscriptions() ([]entity.Subscription, error)
}

// Sender delivers the broadcast text to a chat.
type Sender interface {
	SendText(chatID int64, text string) (int64, error)
}

// Scheduler broadcasts the daily horoscope to subscribers on a cron
// schedule. One horoscope is generated per zodiac sign and fanned out to
// every subscriber of that sign.
type Scheduler struct {
	log        *slog.Logger
	cron       *cron.Cron
	spec       string
	subs       SubscriptionLister
	divination *divination.Service
	sender     Sender
}

func New(conf *config.Config, subs SubscriptionLister, service *divination.Service, sender Sender, log *slog.Logger) *Scheduler {
	return &Scheduler{
		log:        log.With(sl.Module("scheduler")),
		cron:       cron.New(),
		spec:       conf.Scheduler.CronSpec,
		subs:       subs,
		divination: service,
		sender:     sender,
	}
}

// Start registers the broadcast job and launches the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.Broadcast); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started", slog.String("cron", s.spec))
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Broadcast generates today's horoscope per sign and sends it to every
// subscriber. Delivery failures are logged and skipped; one dead chat
// must not stall the rest of the run.
func (s *Scheduler) Broadcast() {
	subscriptions, err := s.subs.ListSubscriptions()
	if err != nil {
		s.log.Error("listing subscriptions", sl.Err(err))
		return
	}
	if len(subscriptions) == 0 {
		s.log.Debug("no subscribers, skipping broadcast")
		return
	}

	bySign := make(map[string][]int64)
	for _, sub := range subscriptions {
		bySign[sub.Zodiac] = append(bySign[sub.Zodiac], sub.ChatId)
	}

	s.log.Info("broadcasting daily horoscope",
		slog.Int("subscribers", len(subscriptions)),
		slog.Int("signs", len(bySign)),
	)

	for sign, chats := range bySign {
		text, err := s.divination.Horoscope(context.Background(), sign, "")
		if err != nil {
			s.log.Error("generating horoscope", slog.String("sign", sign), sl.Err(err))
			continue
		}
		for _, chatID := range chats {
			if _, err := s.sender.SendText(chatID, text); err != nil {
				s.log.Warn("sending daily horoscope",
					slog.Int64("chat_id", chatID),
					sl.Err(err),
				)
			}
		}
	}
}

package main

import (
	"flag"
	"log/slog"

	"AstroBot/ai/gpt"
	"AstroBot/bot"
	"AstroBot/bot/workflow"
	"AstroBot/bot/workflows/compatibility"
	"AstroBot/bot/workflows/natal"
	"AstroBot/bot/workflows/numerology"
	profileflow "AstroBot/bot/workflows/profile"
	"AstroBot/entity"
	"AstroBot/internal/config"
	repository "AstroBot/internal/database"
	"AstroBot/internal/http-server/api"
	"AstroBot/internal/lib/logger"
	"AstroBot/internal/lib/sl"
	"AstroBot/internal/scheduler"
	"AstroBot/internal/service/divination"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	// Initialize Telegram bot if enabled
	var userBot *bot.UserBot
	if conf.Telegram.Enabled {
		var err error
		userBot, err = bot.NewUserBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", slog.String("error", err.Error()))
		} else {
			// Set up Telegram handler for the logger
			lg = logger.SetupTelegramHandler(lg, userBot, slog.LevelError)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
		}
	}

	lg.Info("starting astrobot", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	}

	gptClient := gpt.New(conf, lg)
	lg.With(
		sl.Secret("openai_key", conf.OpenAI.ApiKey),
		slog.String("model", conf.OpenAI.Model),
		slog.String("fallback", conf.OpenAI.FallbackModel),
	).Info("completion client initialized")

	divinationService := divination.NewService(gptClient, gptClient, lg)

	sequencer := workflow.NewSequencer(workflow.NewMemoryStateStorage(), gptClient, lg)
	sequencer.Register(natal.Definition())
	sequencer.Register(compatibility.Definition())
	sequencer.Register(numerology.Definition())
	if db != nil {
		sequencer.Register(profileflow.Definition(func(p *entity.Profile) error {
			return db.UpsertProfile(p)
		}))
	}

	if userBot != nil {
		userBot.SetSequencer(sequencer)
		userBot.SetDivination(divinationService)
		if db != nil {
			userBot.SetStorage(db)
		}

		go func() {
			if err := userBot.Start(); err != nil {
				lg.Error("telegram bot error", slog.String("error", err.Error()))
			}
		}()
	}

	if conf.Scheduler.Enabled && db != nil && userBot != nil {
		daily := scheduler.New(conf, db, divinationService, userBot.Messenger(), lg)
		if err := daily.Start(); err != nil {
			lg.Error("scheduler start", sl.Err(err))
		}
	}

	if !conf.Listen.Enabled || db == nil {
		lg.Info("api server disabled")
		select {}
	}

	// *** blocking start with http server ***
	err = api.New(conf, lg, db)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}

package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env-default:""`
		AdminId int64  `yaml:"admin_id" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"AstroBot"`
		Enabled bool   `yaml:"enabled" env-default:"true"`
	} `yaml:"telegram"`
	OpenAI struct {
		ApiKey        string `yaml:"api_key" env-default:""`
		BaseURL       string `yaml:"base_url" env-default:"https://api.openai.com/v1"`
		Model         string `yaml:"model" env-default:"gpt-4o"`
		FallbackModel string `yaml:"fallback_model" env-default:"gpt-4o-mini"`
		MaxTokens     int    `yaml:"max_tokens" env-default:"2000"`
	} `yaml:"openai"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:""`
	} `yaml:"mongo"`
	Scheduler struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		CronSpec string `yaml:"cron_spec" env-default:"0 8 * * *"`
	} `yaml:"scheduler"`
	Listen struct {
		Enabled bool   `yaml:"enabled" env-default:"false"`
		BindIP  string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port    string `yaml:"port" env-default:"9100"`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}

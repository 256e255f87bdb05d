package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig describes the bot configuration.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	TZ     string `envconfig:"TZ" default:"Asia/Kolkata"`
	Port   int    `envconfig:"PORT" default:"3000"`

	Telegram struct {
		Token       string `envconfig:"TG_BOT_TOKEN"`
		AdminID     int64  `envconfig:"TG_ADMIN_ID"`
		AdminHandle string `envconfig:"TG_ADMIN_HANDLE"`
		PollTimeout int    `envconfig:"TG_POLL_TIMEOUT" default:"30"`
	} `envconfig:""`

	Storage struct {
		ContactFile  string `envconfig:"CONTACT_FILE" default:"contacts.csv"`
		ReferralFile string `envconfig:"REFERRAL_FILE" default:"referrals.json"`
	} `envconfig:""`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	Cleanup struct {
		LinkDeleteAfter    time.Duration `envconfig:"LINK_DELETE_AFTER" default:"30s"`
		ContactDeleteAfter time.Duration `envconfig:"CONTACT_DELETE_AFTER" default:"1s"`
	} `envconfig:""`
}

// Load reads the config from the environment.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DefaultCapacity applies to memorials that have no explicit capacity.
const DefaultCapacity = 60

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	DatabaseDriver                string        `mapstructure:"DATABASE_DRIVER"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH"`
	DatabaseDSN                   string        `mapstructure:"DATABASE_DSN"`
	DefaultCapacity               int           `mapstructure:"DEFAULT_CAPACITY"`
	AdminToken                    string        `mapstructure:"ADMIN_TOKEN"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	EnableCORS                    bool          `mapstructure:"ENABLE_CORS"`
	CORSOrigin                    string        `mapstructure:"CORS_ORIGIN"`
	RedisAddr                     string        `mapstructure:"REDIS_ADDR"`
	SummaryCacheTTL               time.Duration `mapstructure:"SUMMARY_CACHE_TTL"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	LogLevel                      string        `mapstructure:"LOG_LEVEL"`
	LogFormat                     string        `mapstructure:"LOG_FORMAT"`
}

func LoadConfig() *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_PATH", "memorial.db")
	viper.SetDefault("DEFAULT_CAPACITY", DefaultCapacity)
	viper.SetDefault("ENABLE_CORS", true)
	viper.SetDefault("CORS_ORIGIN", "https://etterglod.no")
	viper.SetDefault("SUMMARY_CACHE_TTL", 30*time.Second)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")

	viper.BindEnv("DATABASE_DSN")
	viper.BindEnv("ADMIN_TOKEN")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatal().Err(err).Msg("Unable to decode config")
	}

	if config.DefaultCapacity < 0 {
		log.Warn().Int("default_capacity", config.DefaultCapacity).Msg("Negative DEFAULT_CAPACITY, using built-in default")
		config.DefaultCapacity = DefaultCapacity
	}
	if config.JWTSecret == "" {
		// Sessions are then signed with the admin token itself.
		config.JWTSecret = config.AdminToken
	}

	return &config
}

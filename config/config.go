package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Attempt  Attempt
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Attempt holds exam-attempt policy knobs.
type Attempt struct {
	// GraceSeconds is how far past the exam time limit a submission is still
	// accepted without being flagged late.
	GraceSeconds int
	// StaleAfterMinutes is the default age before an in_progress attempt is
	// eligible for the abandonment sweep.
	StaleAfterMinutes int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("ATTEMPT_GRACE_SECONDS", 30)
	viper.SetDefault("ATTEMPT_STALE_AFTER_MINUTES", 720)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Attempt.GraceSeconds = viper.GetInt("ATTEMPT_GRACE_SECONDS")
	config.Attempt.StaleAfterMinutes = viper.GetInt("ATTEMPT_STALE_AFTER_MINUTES")

	log.Info().Interface("config", config).Msg("Config loaded")
	return &config, nil
}

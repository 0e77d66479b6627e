package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Environment struct {
	Environment    string
	ServerAddress  string
	DatabaseURL    string
	MigrationsPath string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL string
	MQTTClientID  string

	TickInterval  time.Duration
	CheckInterval time.Duration
	PresenceTTL   time.Duration
}

// LoadEnvironment reads and validates env vars. A .env file is optional.
func LoadEnvironment() Environment {
	_ = godotenv.Load()

	env := Environment{
		Environment:    os.Getenv("APP_ENV"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ServerAddress:  os.Getenv("SERVER_ADDRESS"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBrokerURL: os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:  os.Getenv("MQTT_CLIENT_ID"),

		TickInterval:  durationEnv("TICK_INTERVAL", 100*time.Millisecond),
		CheckInterval: durationEnv("SCHEDULE_CHECK_INTERVAL", 60*time.Second),
		PresenceTTL:   durationEnv("PRESENCE_TTL", 90*time.Second),
	}

	if env.ServerAddress == "" {
		env.ServerAddress = ":8080"
	}
	if env.MigrationsPath == "" {
		env.MigrationsPath = "./migrations"
	}
	if env.MQTTBrokerURL == "" {
		env.MQTTBrokerURL = "tcp://0.0.0.0:1883"
	}
	if env.MQTTClientID == "" {
		env.MQTTClientID = "signage-server"
	}

	if env.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}
	if env.RedisAddress == "" {
		log.Fatal().Msg("REDIS_ADDRESS is required")
	}
	return env
}

func durationEnv(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatal().Str("var", name).Str("value", v).Msg("invalid duration")
	}
	return d
}

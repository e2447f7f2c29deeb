package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	DbDriver    string
	DbDsn       string
	HttpAddr    string
	TgToken     string
	LogLevel    string
	LogFormat   string
	PreviewRows int
}

var (
	config *Config
	once   sync.Once
)

// GetConfig возвращает singleton экземпляр конфигурации
func GetConfig() *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("cannot load .env file")
		}
		config = FromEnv()
	})
	return config
}

// FromEnv reads the configuration from the process environment without
// touching .env files.
func FromEnv() *Config {
	return &Config{
		DbDriver:    getEnv("DB_DRIVER", DriverSQLite),
		DbDsn:       getEnv("DB_DSN", "ocorrencias.db"),
		HttpAddr:    getEnv("HTTP_ADDR", ":8005"),
		TgToken:     os.Getenv("TG_TOKEN"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "console"),
		PreviewRows: getEnvInt("PREVIEW_ROWS", 10),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer, using default")
		return fallback
	}
	return n
}

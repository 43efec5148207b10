package config

import (
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	LogLevel      logrus.Level
	DBBusyTimeout time.Duration
}

func LoadConfig() *Config {
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}

	busyTimeout := 5 * time.Second
	if ms := os.Getenv("DB_BUSY_TIMEOUT_MS"); ms != "" {
		if parsed, err := strconv.Atoi(ms); err == nil && parsed >= 0 {
			busyTimeout = time.Duration(parsed) * time.Millisecond
		}
	}

	return &Config{
		LogLevel:      logLevel,
		DBBusyTimeout: busyTimeout,
	}
}

// NewLogger builds the operator-facing logger used by every stage of the import.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

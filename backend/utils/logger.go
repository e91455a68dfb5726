package utils

import (
	"log"
	"os"
)

// LoggerConfig defines configuration for the logger
type LoggerConfig struct {
	// Output stream (os.Stdout, a file, etc.)
	Output *os.File
}

// InitLogger initializes and returns the application logger
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	return log.New(cfg.Output, "[LMS] ", log.LstdFlags|log.LUTC)
}

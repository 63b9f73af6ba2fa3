package config

import "notebook/pkg/logger"

// LoggingConfig содержит настройки логгера.
type LoggingConfig struct {
	Level string `yaml:"level" env:"NOTEBOOK_LOG_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"NOTEBOOK_LOG_MODE" env-default:"production"`
}

// GetEnvironment возвращает режим работы логгера.
func (c *LoggingConfig) GetEnvironment() logger.Environment {
	if c.Mode == "development" {
		return logger.Development
	}
	return logger.Production
}

package config

import "time"

// ShutdownConfig содержит таймаут корректного завершения в секундах.
type ShutdownConfig struct {
	Timeout int `yaml:"timeout" env:"NOTEBOOK_SHUTDOWN_TIMEOUT" env-default:"5"`
}

// GetTimeout возвращает таймаут как time.Duration.
func (c *ShutdownConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

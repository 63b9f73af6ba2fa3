package config

import "time"

// SessionConfig - параметры cookie сессии.
type SessionConfig struct {
	Secret     string        `yaml:"secret" env:"NOTEBOOK_SESSION_SECRET"`
	TTL        time.Duration `yaml:"ttl" env:"NOTEBOOK_SESSION_TTL" env-default:"24h"`
	CookieName string        `yaml:"cookie_name" env:"NOTEBOOK_SESSION_COOKIE" env-default:"notebook_session"`
	Secure     bool          `yaml:"secure" env:"NOTEBOOK_SESSION_SECURE" env-default:"false"`
}

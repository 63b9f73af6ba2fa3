package config

// AdminConfig - начальный пароль ADMIN, применяется только при его отсутствии.
type AdminConfig struct {
	Password   string `yaml:"password" env:"NOTEBOOK_ADMIN_PASSWORD" env-default:"admin"`
	BcryptCost int    `yaml:"bcrypt_cost" env:"NOTEBOOK_BCRYPT_COST" env-default:"10"`
}

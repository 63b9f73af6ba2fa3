package config

// Драйверы хранилища записей.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// StorageConfig выбирает хранилище записей.
type StorageConfig struct {
	Driver     string `yaml:"driver" env:"NOTEBOOK_STORAGE_DRIVER" env-default:"sqlite"`
	SQLitePath string `yaml:"sqlite_path" env:"NOTEBOOK_SQLITE_PATH" env-default:"notebook.db"`
}

package config

// Драйверы пула файлов.
const (
	FilePoolLocal = "local"
	FilePoolS3    = "s3"
)

// FilePoolConfig описывает хранилище загруженных файлов.
type FilePoolConfig struct {
	Driver    string   `yaml:"driver" env:"NOTEBOOK_FILE_POOL_DRIVER" env-default:"local"`
	UploadDir string   `yaml:"upload_dir" env:"NOTEBOOK_UPLOAD_DIR" env-default:"uploads"`
	S3        S3Config `yaml:"s3"`
}

// S3Config - параметры S3-совместимого бакета.
type S3Config struct {
	Endpoint     string `yaml:"endpoint" env:"NOTEBOOK_S3_ENDPOINT"`
	Region       string `yaml:"region" env:"NOTEBOOK_S3_REGION" env-default:"us-east-1"`
	AccessKey    string `yaml:"access_key" env:"NOTEBOOK_S3_ACCESS_KEY"`
	SecretKey    string `yaml:"secret_key" env:"NOTEBOOK_S3_SECRET_KEY"`
	Bucket       string `yaml:"bucket" env:"NOTEBOOK_S3_BUCKET"`
	KeyPrefix    string `yaml:"key_prefix" env:"NOTEBOOK_S3_KEY_PREFIX" env-default:"uploads/"`
	UsePathStyle bool   `yaml:"use_path_style" env:"NOTEBOOK_S3_PATH_STYLE" env-default:"true"`
}

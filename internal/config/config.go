package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the application configuration, read from the environment.
type Config struct {
	Env        string `env:"APP_ENV" env-default:"development"`
	Port       int    `env:"PORT" env-default:"8080"`
	CORSOrigin string `env:"CORS_ORIGIN" env-default:"http://localhost:3000"`
	Mongo      MongoConfig
	Token      TokenConfig
	S3         S3Config
}

// MongoConfig holds the document database connection settings.
type MongoConfig struct {
	URI      string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DB" env-default:"shopnest"`
}

// TokenConfig holds the JWT signing secrets and lifetimes. Access and
// refresh tokens use distinct secrets so a refresh token can never pass
// as an access token.
type TokenConfig struct {
	AccessSecret  string        `env:"ACCESS_TOKEN_SECRET" env-required:"true"`
	RefreshSecret string        `env:"REFRESH_TOKEN_SECRET" env-required:"true"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL" env-default:"240h"`
}

// S3Config holds the object storage settings for image uploads.
type S3Config struct {
	Endpoint      string `env:"S3_ENDPOINT" env-default:""`
	Region        string `env:"S3_REGION" env-default:"us-east-1"`
	Bucket        string `env:"S3_BUCKET" env-required:"true"`
	AccessKey     string `env:"S3_ACCESS_KEY" env-required:"true"`
	SecretKey     string `env:"S3_SECRET_KEY" env-required:"true"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL" env-required:"true"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether the app runs in production mode. Cookies
// are only marked Secure in production so local HTTP development works.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

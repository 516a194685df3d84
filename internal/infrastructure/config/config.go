package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo  MongoConfig
	Redis  RedisConfig
	S3     S3Config
	OpenAI OpenAIConfig
	OAuth  OAuthConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=civix"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// S3Config targets any S3-compatible blob store (MinIO in development).
type S3Config struct {
	Endpoint  string `env:"S3_ENDPOINT"`
	Region    string `env:"S3_REGION,  default=us-east-1"`
	Bucket    string `env:"S3_BUCKET,  default=civix-attachments"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	// PublicBaseURL is the base under which uploaded objects are served.
	// Defaults to <Endpoint>/<Bucket> when empty.
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

type OpenAIConfig struct {
	APIKey string `env:"OPENAI_API_KEY"`
	Model  string `env:"OPENAI_MODEL, default=gpt-4o-mini"`
}

type OAuthConfig struct {
	ClientID     string `env:"OAUTH_CLIENT_ID"`
	ClientSecret string `env:"OAUTH_CLIENT_SECRET"`
	RedirectURL  string `env:"OAUTH_REDIRECT_URL, default=http://localhost:8080/auth/oauth/callback"`
	AuthURL      string `env:"OAUTH_AUTH_URL,     default=https://accounts.google.com/o/oauth2/auth"`
	TokenURL     string `env:"OAUTH_TOKEN_URL,    default=https://oauth2.googleapis.com/token"`
	UserInfoURL  string `env:"OAUTH_USERINFO_URL, default=https://openidconnect.googleapis.com/v1/userinfo"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

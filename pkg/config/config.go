package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port               string        `mapstructure:"PORT"`
	GRPCPort           string        `mapstructure:"GRPC_PORT"`
	ServiceName        string        `mapstructure:"SERVICE_NAME"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	LogFormat          string        `mapstructure:"LOG_FORMAT"`
	PublicBaseURL      string        `mapstructure:"PUBLIC_BASE_URL"`
	ReactionRateLimit  int           `mapstructure:"REACTION_RATE_LIMIT"`
	ReactionRateWindow time.Duration `mapstructure:"REACTION_RATE_WINDOW"`
	RabbitMQURL        string        `mapstructure:"RABBITMQ_URL"`
	AuditSink          string        `mapstructure:"AUDIT_SINK"`
	PostgresUsername   string        `mapstructure:"POSTGRES_USERNAME"`
	PostgresPassword   string        `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDatabase   string        `mapstructure:"POSTGRES_DATABASE"`
	PostgresSSLMode    string        `mapstructure:"POSTGRES_SSLMODE"`
	PostgresHost       string        `mapstructure:"POSTGRES_HOST"`
	PostgresPort       string        `mapstructure:"POSTGRES_PORT"`
	AWSEndpoint        string        `mapstructure:"AWS_ENDPOINT"`
	AWSBucket          string        `mapstructure:"AWS_BUCKET"`
	AWSDefaultRegion   string        `mapstructure:"AWS_DEFAULT_REGION"`
	AWSAccessKey       string        `mapstructure:"AWS_ACCESS_KEY"`
	AWSSecretKey       string        `mapstructure:"AWS_SECRET_KEY"`
}

var keys = []string{
	"PORT",
	"GRPC_PORT",
	"SERVICE_NAME",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"PUBLIC_BASE_URL",
	"REACTION_RATE_LIMIT",
	"REACTION_RATE_WINDOW",
	"RABBITMQ_URL",
	"AUDIT_SINK",
	"POSTGRES_USERNAME",
	"POSTGRES_PASSWORD",
	"POSTGRES_DATABASE",
	"POSTGRES_SSLMODE",
	"POSTGRES_HOST",
	"POSTGRES_PORT",
	"AWS_ENDPOINT",
	"AWS_BUCKET",
	"AWS_DEFAULT_REGION",
	"AWS_ACCESS_KEY",
	"AWS_SECRET_KEY",
}

// Read loads .env from the working directory if present, then lets the
// environment override it.
func Read() *AppConfig {
	return ReadFile(".env")
}

func ReadFile(path string) *AppConfig {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()

	bindEnvVariables(v)
	setDefaults(v)

	var appConfig AppConfig
	err := v.Unmarshal(&appConfig)
	if err != nil {
		panic(fmt.Errorf("fatal error unmarshalling config: %w", err))
	}

	return &appConfig
}

// PostgresDSN is the URL form used by both sqlx and the migrator.
func (c *AppConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUsername, c.PostgresPassword,
		c.PostgresHost, c.PostgresPort,
		c.PostgresDatabase, c.PostgresSSLMode,
	)
}

func bindEnvVariables(v *viper.Viper) {
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("SERVICE_NAME", "lostfound")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("REACTION_RATE_LIMIT", 30)
	v.SetDefault("REACTION_RATE_WINDOW", "1m")
	v.SetDefault("AUDIT_SINK", "postgres")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
}

package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	LogFile           string `mapstructure:"LOG_FILE"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	NodeID            int64  `mapstructure:"NODE_ID"`

	// Bearer token for /discts/admin. Empty disables admin access.
	AdminToken string `mapstructure:"ADMIN_TOKEN"`

	// Record store selection: "dynamodb", "mongo" or "memory".
	StoreDriver string `mapstructure:"STORE_DRIVER"`

	// DynamoDB configuration.
	AWSRegion          string `mapstructure:"AWS_REGION"`
	AWSAccessKey       string `mapstructure:"AWS_ACCESS_KEY"`
	AWSSecretAccessKey string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	AWSSessionToken    string `mapstructure:"AWS_SESSION_TOKEN"`
	DynamoDBEndpoint   string `mapstructure:"DYNAMODB_ENDPOINT"`
	ProductsTable      string `mapstructure:"PRODUCTS_TABLE"`
	InvoicesTable      string `mapstructure:"INVOICES_TABLE"`

	// MongoDB configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration. An empty address disables idempotency replay.
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	RedisIdempotencyDB int           `mapstructure:"REDIS_IDEMPOTENCY_DB"`
	RedisQueueDB       int           `mapstructure:"REDIS_QUEUE_DB"`
	IdempotencyTTL     time.Duration `mapstructure:"IDEMPOTENCY_TTL"`

	// Maintenance job.
	JobRunner            string `mapstructure:"JOB_RUNNER"`
	CleanupSchedule      string `mapstructure:"CLEANUP_SCHEDULE"`
	InvoiceRetentionDays int    `mapstructure:"INVOICE_RETENTION_DAYS"`
	Timezone             string `mapstructure:"TIMEZONE"`

	// Prediction gateway.
	PredictionInterpreter string        `mapstructure:"PREDICTION_INTERPRETER"`
	PredictionScript      string        `mapstructure:"PREDICTION_SCRIPT"`
	PredictionTimeout     time.Duration `mapstructure:"PREDICTION_TIMEOUT"`
}

var AppConfig Config

// LoadConfig reads .env, config.yaml and the environment, in that order of
// precedence (environment wins), and returns the resulting configuration.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, skipping")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return &AppConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "5000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("NODE_ID", 1)
	v.SetDefault("ADMIN_TOKEN", "")

	v.SetDefault("STORE_DRIVER", "dynamodb")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("AWS_SESSION_TOKEN", "")
	v.SetDefault("DYNAMODB_ENDPOINT", "")
	v.SetDefault("PRODUCTS_TABLE", "discts")
	v.SetDefault("INVOICES_TABLE", "invoices")

	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "discts")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_IDEMPOTENCY_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("IDEMPOTENCY_TTL", "24h")

	v.SetDefault("JOB_RUNNER", "local")
	v.SetDefault("CLEANUP_SCHEDULE", "0 0 * * *")
	v.SetDefault("INVOICE_RETENTION_DAYS", 60)
	v.SetDefault("TIMEZONE", "Local")

	v.SetDefault("PREDICTION_INTERPRETER", "python3")
	v.SetDefault("PREDICTION_SCRIPT", "scripts/prediction_script.py")
	v.SetDefault("PREDICTION_TIMEOUT", "30s")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

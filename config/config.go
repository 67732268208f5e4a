package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	DbHost     string
	DbPort     string
	DbUser     string
	DbPassword string
	DbName     string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	SendGridAPIKey   string
	MailFromName     string
	MailFromAddress  string
	MailTemplateFile string

	SlackWebhookURL string

	// AdminBaseURL is used to build links into the admin UI from chat
	// alerts. Plain configuration, no site lookup involved.
	AdminBaseURL string

	LogLevel     string
	DispatchSpec string
)

func LoadConfig() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	DbHost = getEnv("DB_HOST", "localhost")
	DbPort = getEnv("DB_PORT", "5432")
	DbUser = getEnv("DB_USER", "postgres")
	DbPassword = getEnv("DB_PASSWORD", "password")
	DbName = getEnv("DB_NAME", "casework")

	MinioEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "minioadmin")
	MinioSecretKey = getEnv("MINIO_SECRET_KEY", "minioadmin")
	MinioBucket = getEnv("MINIO_BUCKET", "casework")
	MinioUseSSL, _ = strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))

	SendGridAPIKey = getEnv("SENDGRID_API_KEY", "")
	MailFromName = getEnv("MAIL_FROM_NAME", "Casework Desk")
	MailFromAddress = getEnv("MAIL_FROM_ADDRESS", "no-reply@casework.local")
	MailTemplateFile = getEnv("MAIL_TEMPLATE_FILE", "templates.yaml")

	SlackWebhookURL = getEnv("SLACK_WEBHOOK_URL", "")
	AdminBaseURL = getEnv("ADMIN_BASE_URL", "http://localhost:8000")

	LogLevel = getEnv("LOG_LEVEL", "info")
	DispatchSpec = getEnv("DISPATCH_SPEC", "@every 15s")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

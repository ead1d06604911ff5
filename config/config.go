package config

import (
	"os"
	"strconv"
)

// Config holds everything the process reads from the environment. Components
// that need a secret or a transport get it from here at construction time
// instead of reading the environment themselves.
type Config struct {
	Port     string
	MongoURI string
	DBName   string

	JWTSecret     string
	NGOSignupCode string

	RedisAddr     string
	RedisPassword string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	UploadDir string
}

// Load reads configuration from the environment. Missing optional values get
// defaults; missing SMTP/Redis values disable those features downstream.
func Load() Config {
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))

	return Config{
		Port:     getEnv("PORT", "8080"),
		MongoURI: os.Getenv("MONGODB_URI"),
		DBName:   getEnv("DB_NAME", "civiclens"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		NGOSignupCode: os.Getenv("NGO_SIGNUP_CODE"),

		RedisAddr:     os.Getenv("REDIS_ADDRESS"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     smtpPort,
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

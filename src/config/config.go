package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is read from the environment once at process start and passed
// into component constructors. It is never mutated afterwards.
type Config struct {
	ServerAddr string

	DatabaseHost     string
	DatabasePort     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	DatabaseSSLMode  string
	DatabaseTimezone string

	JWTSecret string
	JWTExpiry time.Duration

	PayPalClientID     string
	PayPalClientSecret string
	PayPalBaseURL      string
	PayPalTimeout      time.Duration

	RedisURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	MailFromName string

	ImagesBucket      string
	MaxPropertyImages int

	AppHost string
}

func Load() *Config {
	cfg := &Config{
		ServerAddr:         getenv("SERVER_ADDR", ":8080"),
		DatabaseHost:       os.Getenv("DATABASE_HOST"),
		DatabasePort:       getenv("DATABASE_PORT", "5432"),
		DatabaseUser:       os.Getenv("DATABASE_USER"),
		DatabasePassword:   os.Getenv("DATABASE_PASSWORD"),
		DatabaseName:       os.Getenv("DATABASE_NAME"),
		DatabaseSSLMode:    getenv("DATABASE_SSLMODE", "disable"),
		DatabaseTimezone:   getenv("DATABASE_TIMEZONE", "UTC"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTExpiry:          getduration("JWT_EXPIRY", 24*time.Hour),
		PayPalClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		PayPalBaseURL:      getenv("PAYPAL_BASE_URL", "https://api.sandbox.paypal.com"),
		PayPalTimeout:      getduration("PAYPAL_TIMEOUT", 10*time.Second),
		RedisURL:           os.Getenv("REDIS_HOST"),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPPort:           getint("SMTP_PORT", 587),
		SMTPUsername:       os.Getenv("SMTP_USERNAME"),
		SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
		MailFrom:           os.Getenv("MAIL_FROM"),
		MailFromName:       getenv("MAIL_FROM_NAME", "PG Made Eazy"),
		ImagesBucket:       os.Getenv("S3_IMAGES_BUCKET"),
		MaxPropertyImages:  getint("PROPERTY_MAX_IMAGES", 5),
		AppHost:            os.Getenv("APP_HOST"),
	}
	return cfg
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DatabaseHost, c.DatabaseUser, c.DatabasePassword, c.DatabaseName,
		c.DatabasePort, c.DatabaseSSLMode, c.DatabaseTimezone,
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getduration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

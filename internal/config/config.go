package config

import (
	"os"
	"strconv"
	"time"
)

// Get returns the environment value for key, or fallback when unset/empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetInt returns the environment value for key parsed as an integer, or
// fallback when unset or unparsable.
func GetInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// Service holds the environment-derived configuration. It is read-only
// after process start; credentials are validated by the adapters that use
// them, not here, so a misconfigured deployment fails per request rather
// than at boot.
type Service struct {
	RouteServiceClientID     string
	RouteServiceClientSecret string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	AdminPassword    string
	SessionTimeout   time.Duration
	MaxMessageLength int
}

// FromEnv reads the service configuration from the environment.
func FromEnv() *Service {
	return &Service{
		RouteServiceClientID:     os.Getenv("EASYROUTES_CLIENT_ID"),
		RouteServiceClientSecret: os.Getenv("EASYROUTES_CLIENT_SECRET"),
		TwilioAccountSID:         os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:          os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:         os.Getenv("TWILIO_FROM_NUMBER"),
		AdminPassword:            Get("ADMIN_PASSWORD", "admin123"),
		SessionTimeout:           time.Duration(GetInt("SESSION_TIMEOUT", 60)) * time.Minute,
		MaxMessageLength:         GetInt("MAX_MESSAGE_LENGTH", 160),
	}
}

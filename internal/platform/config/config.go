package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Realtime notification channel
	WSAllowedOrigins []string
	WSReconnectDelay time.Duration
	WSUpstreamURL    string

	// Rate limiting for auth endpoints, in ulule/limiter format (e.g. "5-M")
	AuthRateLimit string

	// Notification store capacity; oldest entries are evicted beyond this
	NotificationStoreSize int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "bizbooks-backend")
	viper.SetDefault("WS_ALLOWED_ORIGINS", "")
	viper.SetDefault("WS_RECONNECT_DELAY", "5s")
	viper.SetDefault("WS_UPSTREAM_URL", "")
	viper.SetDefault("AUTH_RATE_LIMIT", "5-M")
	viper.SetDefault("NOTIFICATION_STORE_SIZE", 500)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET is using the default insecure key. THIS IS NOT FOR PRODUCTION.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	originsStr := viper.GetString("WS_ALLOWED_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.WSAllowedOrigins = append(cfg.WSAllowedOrigins, trimmed)
			}
		}
	}

	reconnectStr := viper.GetString("WS_RECONNECT_DELAY")
	reconnectDelay, err := time.ParseDuration(reconnectStr)
	if err != nil {
		reconnectDelay = 5 * time.Second
		log.Printf("Warning: Invalid value for WS_RECONNECT_DELAY ('%s'). Defaulting to %s.\n", reconnectStr, reconnectDelay.String())
	}
	cfg.WSReconnectDelay = reconnectDelay
	cfg.WSUpstreamURL = viper.GetString("WS_UPSTREAM_URL")

	cfg.AuthRateLimit = viper.GetString("AUTH_RATE_LIMIT")

	cfg.NotificationStoreSize = viper.GetInt("NOTIFICATION_STORE_SIZE")
	if cfg.NotificationStoreSize <= 0 {
		cfg.NotificationStoreSize = 500
	}

	return cfg, nil
}

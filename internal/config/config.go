package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Gateway and model settings are optional:
// without a gateway secret the pay-now flow is disabled, and without
// model artifacts the risk scorer degrades to a neutral score.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	GatewayBaseURL    string // payment gateway API base URL
	GatewaySecretKey  string // payment gateway secret ("Key ..." auth); empty disables payments
	PaymentReturnURL  string // URL the gateway redirects customers back to
	PaymentSessionTTL int    // pending payment session TTL in minutes
	ModelDir          string // directory holding risk model artifacts; empty disables scoring
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		GatewayBaseURL:    getenv("GATEWAY_BASE_URL", "https://dev.khalti.com/api/v2"),
		GatewaySecretKey:  os.Getenv("GATEWAY_SECRET_KEY"),
		PaymentReturnURL:  getenv("PAYMENT_RETURN_URL", "http://localhost:8080/v1/payments/callback"),
		PaymentSessionTTL: envInt("PAYMENT_SESSION_TTL_MIN", 60),
		ModelDir:          os.Getenv("MODEL_DIR"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

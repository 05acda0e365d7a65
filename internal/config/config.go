package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable: strings for identifiers, secrets and URLs, ints
// for costs. The identity, messaging and agent settings point at external
// collaborators; the service key is the static shared secret that grants
// trusted backend callers an alternate authentication path.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	AuthSecret      string // HS256 secret shared with the identity provider for token verification
	ServiceKey      string // static shared secret for service-to-service callers
	IdentityURL     string // base URL of the identity provider admin API
	IdentityAPIKey  string // API key for the identity provider admin API
	MessagingURL    string // endpoint of the outbound messaging service
	MessagingAPIKey string // API key for the messaging service
	AgentURL        string // endpoint of the agent data-processing API
	AgentAPIKey     string // API key for the agent API
	BcryptCost      int    // bcrypt cost for validation-answer hashing
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		AuthSecret:      must("AUTH_TOKEN_SECRET"),
		ServiceKey:      must("SERVICE_API_KEY"),
		IdentityURL:     must("IDENTITY_API_URL"),
		IdentityAPIKey:  must("IDENTITY_API_KEY"),
		MessagingURL:    must("MESSAGING_API_URL"),
		MessagingAPIKey: must("MESSAGING_API_KEY"),
		AgentURL:        must("AGENT_API_URL"),
		AgentAPIKey:     must("AGENT_API_KEY"),
		BcryptCost:      mustInt("BCRYPT_COST"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

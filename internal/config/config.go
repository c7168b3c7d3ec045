package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Strings are used for identifiers, hosts and
// secrets; ints and bools for limits and toggles.
type Config struct {
	Env     string // application environment (e.g. "dev", "prod")
	Port    string // HTTP port to listen on
	Verbose bool   // when true, services log debug detail for outbound calls

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	// Hosted auth provider (Supabase).  All credential handling is
	// delegated there; this service only holds the project URL and key.
	SupabaseURL string // project base URL, e.g. https://xyz.supabase.co
	SupabaseKey string // service API key sent on every auth call

	// Hotel API (Amadeus).  Hostname selects the sandbox or production
	// environment; the client id/secret drive the client-credentials grant.
	AmadeusHost         string // e.g. test.api.amadeus.com or api.amadeus.com
	AmadeusClientID     string // OAuth client id
	AmadeusClientSecret string // OAuth client secret

	// Phone-verification tokens are issued by an external service and
	// validated here against a shared secret.  Issuer and audience are
	// optional constraints; an empty value disables the check.
	PhoneJWTSecret   string // HS256 shared secret (required at call time, not at boot)
	PhoneJWTIssuer   string // expected iss claim, optional
	PhoneJWTAudience string // expected aud claim, optional

	Chat ChatConfig // chat feature limits, reserved for the chat rollout
}

// ChatConfig carries the chat-feature limits.  These are part of the
// deployed configuration surface but no component in this service reads
// them yet; they are parsed here so a misconfigured value fails loudly at
// boot instead of at feature launch.
type ChatConfig struct {
	Enabled          bool // feature flag
	UnverifiedMsgCap int  // daily message cap for unauthenticated users
	VerifiedMsgCap   int  // daily message cap for phone-verified users
	VariationCap     int  // max regenerations per message
	RetentionDays    int  // how long chat history is kept
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:     must("APP_ENV"),  // environment (dev/test/prod)
		Port:    must("APP_PORT"), // port to bind the HTTP server
		Verbose: envBoolVar("VERBOSE_LOGGING", false),

		DBUser: must("DB_USER"),      // database user
		DBPass: os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost: must("DB_HOST"),      // database host
		DBPort: must("DB_PORT"),      // database port
		DBName: must("DB_NAME"),      // database name

		SupabaseURL: must("SUPABASE_URL"), // hosted auth base URL
		SupabaseKey: must("SUPABASE_KEY"), // hosted auth API key

		AmadeusHost:         must("AMADEUS_HOST"),          // sandbox vs production host
		AmadeusClientID:     must("AMADEUS_CLIENT_ID"),     // OAuth client id
		AmadeusClientSecret: must("AMADEUS_CLIENT_SECRET"), // OAuth client secret

		// The phone secret is deliberately not required at boot: the
		// verification service reports a missing key as its own error
		// condition, so deployments without the phone feature still start.
		PhoneJWTSecret:   os.Getenv("PHONE_JWT_SECRET"),
		PhoneJWTIssuer:   os.Getenv("PHONE_JWT_ISSUER"),
		PhoneJWTAudience: os.Getenv("PHONE_JWT_AUDIENCE"),

		Chat: ChatConfig{
			Enabled:          envBoolVar("CHAT_ENABLED", false),
			UnverifiedMsgCap: envIntVar("CHAT_UNVERIFIED_MSG_CAP", 5),
			VerifiedMsgCap:   envIntVar("CHAT_VERIFIED_MSG_CAP", 50),
			VariationCap:     envIntVar("CHAT_VARIATION_CAP", 3),
			RetentionDays:    envIntVar("CHAT_RETENTION_DAYS", 30),
		},
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

// envBoolVar reads an optional boolean environment variable, returning the
// default when unset or unparsable.
func envBoolVar(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return def
}

// envIntVar reads an optional integer environment variable, returning the
// default when unset or unparsable.
func envIntVar(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

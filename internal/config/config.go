package config // package config loads application configuration from environment variables

import (
	"os"      // os provides access to environment variables
	"strings" // strings normalises driver and level names

	"github.com/joho/godotenv"       // godotenv reads a local .env file into the environment
	"github.com/labstack/gommon/log" // log reports configuration errors and halts execution
)

// Supported values for DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBDriver     string // database driver: mysql, postgres or sqlite
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	DBSSLMode    string // postgres sslmode
	DBDSN        string // full DSN; overrides the individual DB_* fields
	JWTSecret    string // secret used to verify bearer tokens; empty disables auth
	AccessTTLMin int    // lifetime of tokens minted by the CLI, in minutes
	AMQPURL      string // RabbitMQ URL; empty disables reservation events
	LogLevel     string // debug, info, warn or error
}

// Load reads configuration values from the environment and returns a
// Config.  A .env file in the working directory is applied first when
// present; variables already set in the environment win.  Required
// variables are enforced by must() and missing values cause the program
// to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // a missing .env is fine

	cfg := Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBDriver:     strings.ToLower(envStr("DB_DRIVER", DriverMySQL)),
		DBDSN:        os.Getenv("DB_DSN"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBSSLMode:    envStr("DB_SSLMODE", "disable"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 60),
		AMQPURL:      amqpURL(),
		LogLevel:     strings.ToLower(envStr("LOG_LEVEL", "info")),
	}

	switch cfg.DBDriver {
	case DriverMySQL, DriverPostgres:
		// Individual connection settings are only required when no DSN
		// was supplied.
		if cfg.DBDSN == "" {
			cfg.DBUser = must("DB_USER")
			cfg.DBHost = must("DB_HOST")
			cfg.DBPort = must("DB_PORT")
			cfg.DBName = must("DB_NAME")
		}
	case DriverSQLite:
		if cfg.DBDSN == "" {
			cfg.DBDSN = "reservations.db"
		}
	default:
		log.Fatalf("unsupported DB_DRIVER: %q", cfg.DBDriver)
	}
	return cfg
}

// Level maps the configured level name onto a gommon log level.
// Unknown names fall back to INFO.
func (c Config) Level() log.Lvl {
	switch c.LogLevel {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}

func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port     string
	LogLevel string

	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string
	MigrateOnStart   bool

	JWTSecret  string
	BcryptCost int

	OperatorWorkers int

	AMQPURL      string
	AMQPExchange string
}

// ProcessEnvironmentVariables loads .env (when present) and the process
// environment on top of the defaults, then validates the result.
func ProcessEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("godotenv.Load: %w", err)
	}

	env := FromEnvironment()
	if err := env.Validate(); err != nil {
		return nil, err
	}

	return env, nil
}

// FromEnvironment reads the configuration without validating it.
func FromEnvironment() *Config {
	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		Port:             "9446",
		LogLevel:         "info",
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		BcryptCost:       10,
		OperatorWorkers:  4,
		AMQPExchange:     "finance.events",
	}

	env.Port = getEnv("PORT", env.Port)
	env.LogLevel = getEnv("LOG_LEVEL", env.LogLevel)
	env.PostgresAddress = getEnv("POSTGRES_ADDRESS", env.PostgresAddress)
	env.PostgresPort = getEnv("POSTGRES_PORT", env.PostgresPort)
	env.PostgresDB = getEnv("POSTGRES_DB", env.PostgresDB)
	env.PostgresUsername = getEnv("POSTGRES_USERNAME", env.PostgresUsername)
	env.PostgresPassword = getEnv("POSTGRES_PASSWORD", env.PostgresPassword)
	env.MigrateOnStart = getEnvBool("MIGRATE_ON_START", false)

	env.JWTSecret = os.Getenv("JWT_SECRET")
	env.BcryptCost = getEnvInt("BCRYPT_COST", env.BcryptCost)

	env.OperatorWorkers = getEnvInt("OPERATOR_WORKERS", env.OperatorWorkers)

	env.AMQPURL = os.Getenv("AMQP_URL")
	env.AMQPExchange = getEnv("AMQP_EXCHANGE", env.AMQPExchange)

	return &env
}

// PostgresURL builds the lib/pq connection string.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     c.PostgresAddress + ":" + c.PostgresPort,
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Validate returns every configuration problem in a single error.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET must be set")
	}

	// bcrypt.MinCost and bcrypt.MaxCost
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		problems = append(problems, fmt.Sprintf("invalid bcrypt cost %d: must be between 4 and 31", c.BcryptCost))
	}

	if c.OperatorWorkers < 1 {
		problems = append(problems, fmt.Sprintf("invalid operator workers %d: must be at least 1", c.OperatorWorkers))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); len(value) != 0 {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); len(value) != 0 {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); len(value) != 0 {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

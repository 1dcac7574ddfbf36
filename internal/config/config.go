package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// DebugModeEnv is the environment variable for debug mode.
	DebugModeEnv = "DEBUG_MODE"

	// SourceEnv selects the input collaborator: "csv" or "postgres".
	SourceEnv = "SOURCE"

	// DBHostEnv is the environment variable for database host.
	DBHostEnv = "DB_HOST"

	// DBPortEnv is the environment variable for database port.
	DBPortEnv = "DB_PORT"

	// DBUserEnv is the environment variable for database user.
	DBUserEnv = "DB_USER"

	// DBPassEnv is the environment variable for database password.
	DBPassEnv = "DB_PASS"

	// DBNameEnv is the environment variable for database name.
	DBNameEnv = "DB_NAME"

	// AppointmentsCSVEnv is the path to the appointment CSV file.
	AppointmentsCSVEnv = "APPOINTMENTS_CSV"

	// UsersCSVEnv is the path to the user CSV file.
	UsersCSVEnv = "USERS_CSV"

	// AddressesCSVEnv is the path to the address CSV file.
	AddressesCSVEnv = "ADDRESSES_CSV"

	// MappedAddressesCSVEnv is the path to the mapped address CSV file
	// (zip + coordinates). Optional: geo aggregates are skipped without it.
	MappedAddressesCSVEnv = "MAPPED_ADDRESSES_CSV"

	// TimeLayoutEnv overrides the day-first source timestamp layout.
	TimeLayoutEnv = "TIME_LAYOUT"

	// OutputDirEnv is the directory the exporter writes CSV tables to.
	OutputDirEnv = "OUTPUT_DIR"

	// MetricsServerPortEnv is the environment variable for metrics server port.
	MetricsServerPortEnv = "METRICS_SERVER_PORT"

	// WatchModeEnv keeps the service running, re-executing the pipeline
	// on refresh requests from the SQS queue.
	WatchModeEnv = "WATCH_MODE"

	// EnvFilePath is the environment variable for .env file path (only for local/test environment).
	EnvFilePath = "ENV_PATH"

	// DefaultEnvFilePath is the default path to the .env file.
	DefaultEnvFilePath = ".env"

	// AWSRegionEnv is the environment variable for AWS region.
	AWSRegionEnv = "AWS_REGION"

	// AWSEndpointEnv is the environment variable for AWS endpoint.
	AWSEndpointEnv = "AWS_ENDPOINT"

	// SQSQueueURLEnv is the environment variable for SQS queue URL.
	SQSQueueURLEnv = "SQS_QUEUE_URL"

	// SourceCSV and SourcePostgres are the valid SourceEnv values.
	SourceCSV      = "csv"
	SourcePostgres = "postgres"

	// DefaultTimeLayout parses the source's day-first timestamps.
	DefaultTimeLayout = "02-01-2006 15:04"
)

var (
	// ErrMissingConfig is returned when required configuration values are missing.
	ErrMissingConfig = errors.New("missing config data")

	// ErrInvalidSource is returned when SOURCE is neither csv nor postgres.
	ErrInvalidSource = errors.New("source must be csv or postgres")
)

// Config represents the application configuration.
type Config struct {
	DebugMode     bool
	Source        string
	Database      DB
	CSV           CSVFiles
	TimeLayout    string
	OutputDir     string
	MetricsServer Server
	WatchMode     bool
	AWS           AWSConfig
}

// AWSConfig represents AWS-specific configuration settings.
type AWSConfig struct {
	Region      string
	Endpoint    string
	SQSQueueURL string
}

// DB represents database configuration settings.
type DB struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

// CSVFiles holds the flat-file source paths.
type CSVFiles struct {
	Appointments    string
	Users           string
	Addresses       string
	MappedAddresses string
}

// Server represents server configuration settings.
type Server struct {
	Port string
}

func allNonEmpty(keyValues map[string]string) error {
	for key, value := range keyValues {
		if value == "" {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("error", "value is empty"))
			return fmt.Errorf("%w for key: %s", ErrMissingConfig, key)
		}
	}
	return nil
}

func allNumbers(keyValues map[string]string) error {
	for key, value := range keyValues {
		_, err := strconv.Atoi(value)
		if err != nil {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("value", value), slog.String("error", err.Error()))
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Source {
	case SourceCSV:
		if err := allNonEmpty(map[string]string{
			AppointmentsCSVEnv: c.CSV.Appointments,
			UsersCSVEnv:        c.CSV.Users,
			AddressesCSVEnv:    c.CSV.Addresses,
		}); err != nil {
			return fmt.Errorf("csv source configuration incomplete: %w", err)
		}
	case SourcePostgres:
		if err := allNonEmpty(map[string]string{
			DBHostEnv: c.Database.Host,
			DBUserEnv: c.Database.User,
			DBNameEnv: c.Database.Name,
		}); err != nil {
			return fmt.Errorf("database configuration incomplete: %w", err)
		}
		if err := allNumbers(map[string]string{
			DBPortEnv: c.Database.Port,
		}); err != nil {
			return fmt.Errorf("invalid port number: %w", err)
		}
	default:
		return fmt.Errorf("%w, got %q", ErrInvalidSource, c.Source)
	}

	if err := allNonEmpty(map[string]string{
		OutputDirEnv:         c.OutputDir,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("output configuration incomplete: %w", err)
	}
	if err := allNumbers(map[string]string{
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	// The queue is only reached in watch mode; a one-shot run may omit it.
	if c.WatchMode {
		if err := allNonEmpty(map[string]string{
			SQSQueueURLEnv: c.AWS.SQSQueueURL,
		}); err != nil {
			return fmt.Errorf("AWS configuration incomplete: %w", err)
		}
	}

	return nil
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

// ApplyEnvFile loads environment variables from the specified .env files.
func ApplyEnvFile(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables and validates it.
func LoadFromEnv() (*Config, error) {
	envPath := os.Getenv(EnvFilePath)
	if envPath == "" {
		envPath = DefaultEnvFilePath
	}
	err := ApplyEnvFile(envPath)
	if err != nil {
		// just log the error, maybe all envs are set in another way
		slog.Info("failed to load from .env", slog.Any("err", err))
	}

	layout := os.Getenv(TimeLayoutEnv)
	if layout == "" {
		layout = DefaultTimeLayout
	}

	conf := &Config{
		DebugMode: getEnvAsBool(DebugModeEnv, false),
		Source:    os.Getenv(SourceEnv),
		Database: DB{
			Host:     os.Getenv(DBHostEnv),
			User:     os.Getenv(DBUserEnv),
			Password: os.Getenv(DBPassEnv),
			Name:     os.Getenv(DBNameEnv),
			Port:     os.Getenv(DBPortEnv),
		},
		CSV: CSVFiles{
			Appointments:    os.Getenv(AppointmentsCSVEnv),
			Users:           os.Getenv(UsersCSVEnv),
			Addresses:       os.Getenv(AddressesCSVEnv),
			MappedAddresses: os.Getenv(MappedAddressesCSVEnv),
		},
		TimeLayout: layout,
		OutputDir:  os.Getenv(OutputDirEnv),
		MetricsServer: Server{
			Port: os.Getenv(MetricsServerPortEnv),
		},
		WatchMode: getEnvAsBool(WatchModeEnv, false),
		AWS: AWSConfig{
			Region:      os.Getenv(AWSRegionEnv),
			Endpoint:    os.Getenv(AWSEndpointEnv),
			SQSQueueURL: os.Getenv(SQSQueueURLEnv),
		},
	}

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "BIDGOAT"

const (
	EnvInput        = "BIDGOAT_INPUT"
	EnvControlSheet = "BIDGOAT_CONTROL_SHEET"
	EnvTestSheet    = "BIDGOAT_TEST_SHEET"
	EnvMetric       = "BIDGOAT_METRIC"
	EnvAlpha        = "BIDGOAT_ALPHA"
	EnvConfidence   = "BIDGOAT_CONFIDENCE"
	EnvHeadRows     = "BIDGOAT_HEAD_ROWS"
	EnvFormat       = "BIDGOAT_FORMAT"
	EnvDBPath       = "BIDGOAT_DB_PATH"
	EnvLogLevel     = "BIDGOAT_LOG_LEVEL"
	EnvLogFormat    = "BIDGOAT_LOG_FORMAT"
	EnvPort         = "BIDGOAT_PORT"
)

// Config is the run configuration. Command-line flags are applied on top
// of it before Validate is called.
type Config struct {
	Input        string  `envconfig:"BIDGOAT_INPUT" default:"ab_testing.xlsx" validate:"required"`
	ControlSheet string  `envconfig:"BIDGOAT_CONTROL_SHEET" default:"Control Group" validate:"required"`
	TestSheet    string  `envconfig:"BIDGOAT_TEST_SHEET" default:"Test Group" validate:"required"`
	Metric       string  `envconfig:"BIDGOAT_METRIC" default:"Purchase" validate:"required"`
	Alpha        float64 `envconfig:"BIDGOAT_ALPHA" default:"0.05" validate:"gt=0,lt=1"`
	Confidence   float64 `envconfig:"BIDGOAT_CONFIDENCE" default:"0.95" validate:"gt=0,lt=1"`
	HeadRows     int     `envconfig:"BIDGOAT_HEAD_ROWS" default:"5" validate:"gte=0"`
	Format       string  `envconfig:"BIDGOAT_FORMAT" default:"text" validate:"oneof=text json yaml"`
	DBPath       string  `envconfig:"BIDGOAT_DB_PATH" default:"./bidgoat.db" validate:"required"`
	LogLevel     string  `envconfig:"BIDGOAT_LOG_LEVEL" default:"info"`
	LogFormat    string  `envconfig:"BIDGOAT_LOG_FORMAT" default:"console" validate:"oneof=console json"`
	Port         int     `envconfig:"BIDGOAT_PORT" default:"8080" validate:"gte=0,lte=65535"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	// A missing .env is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks value ranges. Field names in the error use the
// environment variable that sets them.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("validating config: %w", err)
	}

	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fmt.Sprintf("%s %s", envName(fe.StructField()), validationMessage(fe)))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func envName(field string) string {
	switch field {
	case "Input":
		return EnvInput
	case "ControlSheet":
		return EnvControlSheet
	case "TestSheet":
		return EnvTestSheet
	case "Metric":
		return EnvMetric
	case "Alpha":
		return EnvAlpha
	case "Confidence":
		return EnvConfidence
	case "HeadRows":
		return EnvHeadRows
	case "Format":
		return EnvFormat
	case "DBPath":
		return EnvDBPath
	case "LogFormat":
		return EnvLogFormat
	case "Port":
		return EnvPort
	default:
		return field
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return "is invalid"
	}
}

package config

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultPort            = "3000"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultOutboundTimeout = 30 * time.Second
	DefaultMongoDatabase   = "VoiceRelay"
	DefaultMongoTimeout    = 2 * time.Second
	DefaultGreetingText    = "Please leave a message after the tone, then press #."
	DefaultGoodbyeText     = "Thank you for your message. Goodbye."
)

// Config is built once at startup and handed to every component that needs it.
type Config struct {
	Port      string `validate:"required,numeric"`
	LogLevel  string
	LogFormat string `validate:"oneof=json text"`

	// PublicBaseURL is the externally reachable base of this service. When empty
	// callback URLs are rebuilt from the inbound request.
	PublicBaseURL   string        `validate:"omitempty,url"`
	OutboundTimeout time.Duration `validate:"gt=0"`

	Nexmo NexmoConfig
	AWS   AWSConfig
	NCCO  NCCOConfig
	Mongo MongoConfig
}

type NexmoConfig struct {
	ApplicationID  string `validate:"required"`
	PrivateKeyPath string `validate:"required"`
	PrivateKey     *rsa.PrivateKey
}

type AWSConfig struct {
	AccessKeyID     string `validate:"required"`
	SecretAccessKey string `validate:"required"`
	Region          string `validate:"required"`
	Bucket          string `validate:"required"`
	RecordingFolder string `validate:"required"`
}

type NCCOConfig struct {
	GreetingText string `validate:"required"`
	GoodbyeText  string `validate:"required"`
}

// MongoConfig enables the call session journal when URI is set. Timeout bounds
// each journal write so a slow database cannot hold up a webhook.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration `validate:"gt=0"`
}

func (m MongoConfig) Enabled() bool {
	return m.URI != ""
}

// LoadEnv loads a .env file into the process environment. A missing file is not
// an error; values may come from the real environment instead.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads the configuration from the environment, validates it and parses
// the Nexmo private key. Any problem is returned so the caller can refuse to
// start.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("LOG_LEVEL", DefaultLogLevel)
	v.SetDefault("LOG_FORMAT", DefaultLogFormat)
	v.SetDefault("OUTBOUND_TIMEOUT", DefaultOutboundTimeout)
	v.SetDefault("NCCO_GREETING_TEXT", DefaultGreetingText)
	v.SetDefault("NCCO_GOODBYE_TEXT", DefaultGoodbyeText)
	v.SetDefault("MONGODB_DATABASE", DefaultMongoDatabase)
	v.SetDefault("MONGODB_TIMEOUT", DefaultMongoTimeout)

	cfg := &Config{
		Port:            v.GetString("PORT"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       strings.ToLower(v.GetString("LOG_FORMAT")),
		PublicBaseURL:   strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		OutboundTimeout: v.GetDuration("OUTBOUND_TIMEOUT"),
		Nexmo: NexmoConfig{
			ApplicationID:  v.GetString("NEXMO_APPLICATION_ID"),
			PrivateKeyPath: v.GetString("NEXMO_APPLICATION_PRIVATE_KEY_PATH"),
		},
		AWS: AWSConfig{
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			Region:          v.GetString("AWS_REGION"),
			Bucket:          v.GetString("AWS_S3_BUCKET_NAME"),
			RecordingFolder: strings.Trim(v.GetString("AWS_S3_RECORDING_FOLDER_NAME"), "/"),
		},
		NCCO: NCCOConfig{
			GreetingText: v.GetString("NCCO_GREETING_TEXT"),
			GoodbyeText:  v.GetString("NCCO_GOODBYE_TEXT"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  v.GetDuration("MONGODB_TIMEOUT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	key, err := loadPrivateKey(cfg.Nexmo.PrivateKeyPath)
	if err != nil {
		return nil, err
	}
	cfg.Nexmo.PrivateKey = key

	return cfg, nil
}

// Validate reports every missing or malformed value at once.
func (c *Config) Validate() error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	problems := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		problems = append(problems, fmt.Sprintf("%s (%s)", envName(fe.Namespace()), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read NEXMO_APPLICATION_PRIVATE_KEY_PATH: %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Nexmo private key %s: %w", path, err)
	}
	return key, nil
}

var envNames = map[string]string{
	"Config.Port":                 "PORT",
	"Config.LogFormat":            "LOG_FORMAT",
	"Config.PublicBaseURL":        "PUBLIC_BASE_URL",
	"Config.OutboundTimeout":      "OUTBOUND_TIMEOUT",
	"Config.Nexmo.ApplicationID":  "NEXMO_APPLICATION_ID",
	"Config.Nexmo.PrivateKeyPath": "NEXMO_APPLICATION_PRIVATE_KEY_PATH",
	"Config.AWS.AccessKeyID":      "AWS_ACCESS_KEY_ID",
	"Config.AWS.SecretAccessKey":  "AWS_SECRET_ACCESS_KEY",
	"Config.AWS.Region":           "AWS_REGION",
	"Config.AWS.Bucket":           "AWS_S3_BUCKET_NAME",
	"Config.AWS.RecordingFolder":  "AWS_S3_RECORDING_FOLDER_NAME",
	"Config.NCCO.GreetingText":    "NCCO_GREETING_TEXT",
	"Config.NCCO.GoodbyeText":     "NCCO_GOODBYE_TEXT",
}

func envName(namespace string) string {
	if name, ok := envNames[namespace]; ok {
		return name
	}
	return namespace
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"stravamcp/internal/logger"
	"stravamcp/internal/models"
)

const (
	ModeSingle = "single"
	ModeMulti  = "multi"

	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

const (
	defaultListenAddr      = "localhost:8080"
	defaultLoggingLevel    = logger.LevelInfo
	defaultLoggingFormat   = logger.FormatText
	defaultCredentialsFile = ".strava_credentials"
)

type Config struct {
	// single: one athlete, tokens in a local credentials file
	// multi: many athletes, tokens in the session store
	Mode string

	// Session store backend, multi user mode only
	Store string

	// Default logging level and format
	LogLevel  string
	LogFormat string

	// Address on which the service will be run
	ListenAddr string

	// Dotenv file holding the athlete's tokens, single user mode
	CredentialsFile string

	// Database to connect to, postgres store only
	DatabaseDSN string

	// Secret key to sign session bearers, multi user mode
	SecretKey string

	// OAuth application credentials, multi user mode
	// Single user mode reads them from the credentials file instead
	ClientID     string
	ClientSecret string

	// How long an unused session stays valid
	SessionTTL time.Duration

	// Upstream API base url override, useful against a stub
	UpstreamBaseURL string

	// OAuth token endpoint override, follows UpstreamBaseURL stubs
	UpstreamTokenURL string
}

func NewConfig() *Config {
	return &Config{
		Mode:            ModeSingle,
		Store:           StoreMemory,
		LogLevel:        defaultLoggingLevel,
		LogFormat:       defaultLoggingFormat,
		ListenAddr:      defaultListenAddr,
		CredentialsFile: defaultCredentialsFile,
		SessionTTL:      models.DefaultSessionTTL,
	}
}

// Load variables from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}
	setDuration := func(o *time.Duration) func(value string) {
		return func(value string) {
			if value == "" {
				return
			}
			if d, err := time.ParseDuration(value); err == nil {
				*o = d
			}
		}
	}

	envMap := map[string]func(string){
		"MODE":                 setString(&c.Mode),
		"SESSION_STORE":        setString(&c.Store),
		"RUN_ADDRESS":          setString(&c.ListenAddr),
		"DATABASE_URI":         setString(&c.DatabaseDSN),
		"SECRET_KEY":           setString(&c.SecretKey),
		"LOG_LEVEL":            setString(&c.LogLevel),
		"LOG_FORMAT":           setString(&c.LogFormat),
		"STRAVA_CLIENT_ID":     setString(&c.ClientID),
		"STRAVA_CLIENT_SECRET": setString(&c.ClientSecret),
		"CREDENTIALS_FILE":     setString(&c.CredentialsFile),
		"SESSION_TTL":          setDuration(&c.SessionTTL),
		"STRAVA_API_BASE_URL":  setString(&c.UpstreamBaseURL),
		"STRAVA_TOKEN_URL":     setString(&c.UpstreamTokenURL),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("stravamcp", pflag.ContinueOnError)

	fs.StringVarP(&c.Mode, "mode", "m", c.Mode, "Run mode (single, multi)")
	fs.StringVar(&c.Store, "store", c.Store, "Session store backend (memory, postgres)")
	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key to sign session bearers")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Logging format (text, json)")
	fs.StringVarP(&c.CredentialsFile, "credentials", "c", c.CredentialsFile, "Credentials file path")
	fs.DurationVar(&c.SessionTTL, "session-ttl", c.SessionTTL, "Session time to live")
	fs.StringVar(&c.UpstreamBaseURL, "api-base-url", c.UpstreamBaseURL, "Upstream API base url override")
	fs.StringVar(&c.UpstreamTokenURL, "token-url", c.UpstreamTokenURL, "OAuth token endpoint override")

	return fs.Parse(args)
}

func (c *Config) Validate() error {
	switch c.Mode {
	case ModeSingle:
		if c.CredentialsFile == "" {
			return errors.New("credentials file must be set in single user mode")
		}
	case ModeMulti:
		if c.SecretKey == "" {
			return errors.New("secret key must be set in multi user mode")
		}
		if c.ClientID == "" || c.ClientSecret == "" {
			return errors.New("client id and client secret must be set in multi user mode")
		}
		switch c.Store {
		case StoreMemory:
		case StorePostgres:
			if c.DatabaseDSN == "" {
				return errors.New("database dsn must be set for the postgres store")
			}
		default:
			return fmt.Errorf("unknown session store %q", c.Store)
		}
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}

	return nil
}

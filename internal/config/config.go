// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables and an
// optional JSON file.
//
// Precedence, lowest first: built-in defaults, JSON file, flags, environment.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// MinSecretLen is the minimum accepted length of the token signing secret.
const MinSecretLen = 32

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"port"`

	// DatabaseDSN holds the PostgreSQL connection string. When empty the
	// server keeps its data in memory.
	DatabaseDSN string `json:"database_dsn"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// SecretKeyFile names a file holding the token signing secret.
	SecretKeyFile string `json:"secret_key_file"`

	// Revocable enables the per-user session check on every request.
	Revocable bool `json:"revocable_sessions"`

	// AllowedOrigins is a comma-separated CORS allow list.
	AllowedOrigins string `json:"allowed_origins"`

	// LogLevel is passed to the zap logger.
	LogLevel string `json:"log_level"`

	MaxOpenConns    int      `json:"db_max_open_conns"`
	MaxIdleConns    int      `json:"db_max_idle_conns"`
	ConnMaxLifetime Duration `json:"db_conn_max_lifetime"`

	// CleanupInterval is how often lists without an owner are purged.
	CleanupInterval Duration `json:"cleanup_interval"`
	// OrphanRetention is the minimum age of a purged list.
	OrphanRetention Duration `json:"orphan_retention"`

	// TLSCertFile and TLSKeyFile switch the server to HTTPS when both are set.
	TLSCertFile string `json:"tls_cert_file"`
	TLSKeyFile  string `json:"tls_key_file"`

	// secretKey is taken from SECRET_KEY and never serialized.
	secretKey string
}

// Duration is a time.Duration that decodes from JSON strings such as "30m"
// as well as from integer nanoseconds.
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		d.Duration = time.Duration(val)
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

func defaults() *Options {
	return &Options{
		Port:            "localhost:8080",
		Config:          "config.json",
		Revocable:       true,
		LogLevel:        "info",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: Duration{30 * time.Minute},
		CleanupInterval: Duration{time.Hour},
		OrphanRetention: Duration{24 * time.Hour},
	}
}

// Parse reads os.Args and the environment. Invalid input is fatal.
func Parse() *Options {
	opts, err := ParseArgs(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("error while parsing configuration: %v", err)
	}
	return opts
}

// ParseArgs builds Options from args and the getenv lookup.
func ParseArgs(args []string, getenv func(string) string) (*Options, error) {
	options := defaults()

	fs := flag.NewFlagSet("listkeeper", flag.ContinueOnError)
	fs.StringVar(&options.Port, "a", options.Port, "run on ip:port server")
	fs.StringVar(&options.DatabaseDSN, "d", options.DatabaseDSN, "db address")
	fs.StringVar(&options.Config, "config", options.Config, "path to config file")
	fs.StringVar(&options.Config, "c", options.Config, "path to config file (shorthand)")
	fs.StringVar(&options.SecretKeyFile, "k", options.SecretKeyFile, "path to token signing secret")
	fs.BoolVar(&options.Revocable, "revocable", options.Revocable, "check session ids on every request")
	fs.StringVar(&options.AllowedOrigins, "cors", options.AllowedOrigins, "comma-separated allowed CORS origins")
	fs.StringVar(&options.LogLevel, "l", options.LogLevel, "log level")
	fs.IntVar(&options.MaxOpenConns, "db-max-open", options.MaxOpenConns, "max open db connections")
	fs.IntVar(&options.MaxIdleConns, "db-max-idle", options.MaxIdleConns, "max idle db connections")
	fs.DurationVar(&options.ConnMaxLifetime.Duration, "db-conn-lifetime", options.ConnMaxLifetime.Duration, "max db connection lifetime")
	fs.DurationVar(&options.CleanupInterval.Duration, "cleanup-interval", options.CleanupInterval.Duration, "orphan list cleanup interval")
	fs.DurationVar(&options.OrphanRetention.Duration, "orphan-retention", options.OrphanRetention.Duration, "minimum age of purged orphan lists")
	fs.StringVar(&options.TLSCertFile, "tls-cert", options.TLSCertFile, "TLS certificate file")
	fs.StringVar(&options.TLSKeyFile, "tls-key", options.TLSKeyFile, "TLS key file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			if err := options.overlayJSON(fs); err != nil {
				return nil, err
			}
		}
	}

	if err := options.applyEnv(getenv); err != nil {
		return nil, err
	}
	return options, nil
}

// overlayJSON applies the config file to every option not set by a flag.
func (o *Options) overlayJSON(fs *flag.FlagSet) error {
	data, err := os.ReadFile(o.Config)
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}

	fromFile := *o
	if err := json.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	pick := func(name string, apply func()) {
		if !set[name] {
			apply()
		}
	}
	pick("a", func() { o.Port = fromFile.Port })
	pick("d", func() { o.DatabaseDSN = fromFile.DatabaseDSN })
	pick("k", func() { o.SecretKeyFile = fromFile.SecretKeyFile })
	pick("revocable", func() { o.Revocable = fromFile.Revocable })
	pick("cors", func() { o.AllowedOrigins = fromFile.AllowedOrigins })
	pick("l", func() { o.LogLevel = fromFile.LogLevel })
	pick("db-max-open", func() { o.MaxOpenConns = fromFile.MaxOpenConns })
	pick("db-max-idle", func() { o.MaxIdleConns = fromFile.MaxIdleConns })
	pick("db-conn-lifetime", func() { o.ConnMaxLifetime = fromFile.ConnMaxLifetime })
	pick("cleanup-interval", func() { o.CleanupInterval = fromFile.CleanupInterval })
	pick("orphan-retention", func() { o.OrphanRetention = fromFile.OrphanRetention })
	pick("tls-cert", func() { o.TLSCertFile = fromFile.TLSCertFile })
	pick("tls-key", func() { o.TLSKeyFile = fromFile.TLSKeyFile })
	return nil
}

func (o *Options) applyEnv(getenv func(string) string) error {
	if v := getenv("SERVER_ADDRESS"); v != "" {
		o.Port = v
	}
	if v := getenv("DATABASE_DSN"); v != "" {
		o.DatabaseDSN = v
	}
	if v := getenv("SECRET_KEY_FILE"); v != "" {
		o.SecretKeyFile = v
	}
	if v := getenv("REVOCABLE_SESSIONS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("REVOCABLE_SESSIONS: %w", err)
		}
		o.Revocable = b
	}
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		o.AllowedOrigins = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		o.LogLevel = v
	}
	if v := getenv("TLS_CERT_FILE"); v != "" {
		o.TLSCertFile = v
	}
	if v := getenv("TLS_KEY_FILE"); v != "" {
		o.TLSKeyFile = v
	}
	o.secretKey = getenv("SECRET_KEY")
	return nil
}

// Origins returns AllowedOrigins split on commas, without blanks.
func (o *Options) Origins() []string {
	var out []string
	for _, s := range strings.Split(o.AllowedOrigins, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ErrWeakSecret is returned when the signing secret is missing or short.
var ErrWeakSecret = errors.New("secret key must be at least 32 bytes")

// Secret returns the token signing secret: the trimmed content of
// SecretKeyFile when set, else the SECRET_KEY environment variable.
func (o *Options) Secret() ([]byte, error) {
	var secret []byte
	if o.SecretKeyFile != "" {
		data, err := os.ReadFile(o.SecretKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read secret key file: %w", err)
		}
		secret = []byte(strings.TrimSpace(string(data)))
	} else {
		secret = []byte(o.secretKey)
	}
	if len(secret) < MinSecretLen {
		return nil, ErrWeakSecret
	}
	return secret, nil
}

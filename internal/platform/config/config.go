// Package config loads typed server configuration from ONBOARD_* environment
// variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	platformstrings "onboard/pkg/platform/strings"
)

const (
	EnvDevelopment = "dev"
	EnvProduction  = "prod"

	devSigningKey = "dev-secret-key-change-in-production"
)

// Config is the full server configuration.
type Config struct {
	Environment  string
	Server       Server
	Database     Database
	Redis        Redis
	Auth         Auth
	Kafka        Kafka
	Registration Registration
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Database configures the Postgres connection pool. An empty URL selects the
// in-memory stores.
type Database struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Redis configures the session store. An empty URL keeps sessions in memory.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Auth struct {
	JWTSigningKey string
	Issuer        string
	Audience      string
	SessionTTL    time.Duration
}

// Kafka configures outbox publishing. Without brokers, events are logged.
type Kafka struct {
	Brokers      []string
	Topic        string
	PollInterval time.Duration
	BatchSize    int
}

type Registration struct {
	RepresentativePolicy string
	StoreTimeout         time.Duration
	SeedRegistry         bool
}

// New returns a viper instance reading ONBOARD_* variables with defaults
// applied. Dashes in keys map to underscores in the environment.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("ONBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("addr", ":8080")
	v.SetDefault("log-level", "info")
	v.SetDefault("shutdown-timeout", 10*time.Second)

	v.SetDefault("database-url", "")
	v.SetDefault("database-max-open-conns", 25)
	v.SetDefault("database-max-idle-conns", 5)
	v.SetDefault("database-conn-max-lifetime", 30*time.Minute)

	v.SetDefault("redis-url", "")
	v.SetDefault("redis-pool-size", 10)
	v.SetDefault("redis-min-idle-conns", 2)
	v.SetDefault("redis-dial-timeout", 5*time.Second)
	v.SetDefault("redis-read-timeout", 3*time.Second)
	v.SetDefault("redis-write-timeout", 3*time.Second)

	v.SetDefault("jwt-signing-key", "")
	v.SetDefault("jwt-issuer", "onboard")
	v.SetDefault("jwt-audience", "onboard-api")
	v.SetDefault("session-ttl", time.Hour)

	v.SetDefault("kafka-brokers", "")
	v.SetDefault("kafka-topic", "onboard.organizations")
	v.SetDefault("outbox-poll-interval", 2*time.Second)
	v.SetDefault("outbox-batch-size", 50)

	v.SetDefault("representative-policy", "any")
	v.SetDefault("store-timeout", 5*time.Second)
	v.SetDefault("seed-registry", true)
	return v
}

// Load builds a validated Config from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: strings.ToLower(v.GetString("env")),
		Server: Server{
			Addr:            v.GetString("addr"),
			LogLevel:        v.GetString("log-level"),
			ShutdownTimeout: v.GetDuration("shutdown-timeout"),
		},
		Database: Database{
			URL:             v.GetString("database-url"),
			MaxOpenConns:    v.GetInt("database-max-open-conns"),
			MaxIdleConns:    v.GetInt("database-max-idle-conns"),
			ConnMaxLifetime: v.GetDuration("database-conn-max-lifetime"),
		},
		Redis: Redis{
			URL:          v.GetString("redis-url"),
			PoolSize:     v.GetInt("redis-pool-size"),
			MinIdleConns: v.GetInt("redis-min-idle-conns"),
			DialTimeout:  v.GetDuration("redis-dial-timeout"),
			ReadTimeout:  v.GetDuration("redis-read-timeout"),
			WriteTimeout: v.GetDuration("redis-write-timeout"),
		},
		Auth: Auth{
			JWTSigningKey: v.GetString("jwt-signing-key"),
			Issuer:        v.GetString("jwt-issuer"),
			Audience:      v.GetString("jwt-audience"),
			SessionTTL:    v.GetDuration("session-ttl"),
		},
		Kafka: Kafka{
			Brokers:      platformstrings.SplitList(v.GetString("kafka-brokers"), ","),
			Topic:        v.GetString("kafka-topic"),
			PollInterval: v.GetDuration("outbox-poll-interval"),
			BatchSize:    v.GetInt("outbox-batch-size"),
		},
		Registration: Registration{
			RepresentativePolicy: strings.ToLower(strings.TrimSpace(v.GetString("representative-policy"))),
			StoreTimeout:         v.GetDuration("store-timeout"),
			SeedRegistry:         v.GetBool("seed-registry"),
		},
	}
	if cfg.Auth.JWTSigningKey == "" && cfg.IsDevelopment() {
		cfg.Auth.JWTSigningKey = devSigningKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		errs = append(errs, fmt.Errorf("unknown environment %q", c.Environment))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.Auth.JWTSigningKey == "" {
		errs = append(errs, errors.New("jwt signing key is required outside dev"))
	}
	if !c.IsDevelopment() && c.Database.URL == "" {
		errs = append(errs, errors.New("database url is required outside dev"))
	}
	switch c.Registration.RepresentativePolicy {
	case "any", "caller":
	default:
		errs = append(errs, fmt.Errorf("unknown representative policy %q", c.Registration.RepresentativePolicy))
	}
	if c.Registration.StoreTimeout <= 0 {
		errs = append(errs, errors.New("store timeout must be positive"))
	}
	if c.Kafka.BatchSize <= 0 {
		errs = append(errs, errors.New("outbox batch size must be positive"))
	}
	return errors.Join(errs...)
}

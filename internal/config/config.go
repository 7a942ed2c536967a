package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvDBConnection = "DB_CONNECTION"
	EnvJWTSecret    = "JWT_SECRET"
	EnvJWTExpiry    = "JWT_EXPIRY"
	EnvHTTPPort     = "HTTP_PORT"
	EnvRedisAddr    = "REDIS_ADDR"
)

// Defaults applied when the config file omits a value.
const (
	DefaultPort             = 8080
	DefaultHelmetFee        = 100000
	DefaultBonusSchedule    = "5 0 * * *"
	DefaultAlertSchedule    = "0 * * * *"
	DefaultPayrollWorkers   = 4
	DefaultCommission       = 15
	DefaultLongParkingHours = 12
	DefaultSubscriptionDays = 7
	DefaultLogLevel         = "info"
	DefaultLogMaxSizeMB     = 50
	DefaultLogMaxBackups    = 5
	DefaultSettingsPoll     = 2 * time.Second
	defaultJWTExpiry        = 30 * 24 * time.Hour
	defaultLockRedisPrefix  = "parkwash:lock"
	defaultDotEnvPath       = ".env"
	defaultConfigPath       = "./config.yaml"
)

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// LoadDotEnv loads variables from a .env file without overriding the process
// environment. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{defaultDotEnvPath}
	}
	for _, p := range paths {
		if _, errStat := os.Stat(p); errStat != nil {
			continue
		}
		if errLoad := godotenv.Load(p); errLoad != nil {
			return fmt.Errorf("load %s: %w", p, errLoad)
		}
	}
	return nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = defaultConfigPath
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// ErrMissingDatabaseDSN indicates no database DSN is present in the config file.
var ErrMissingDatabaseDSN = errors.New("missing database dsn (set `database-dsn` or `database.dsn` in config file)")

// JWTConfig holds JWT secret and expiry settings.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// LoggingConfig controls log level, format and optional file rotation.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	JSON       bool   `yaml:"json"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max-size-mb"`
	MaxBackups int    `yaml:"max-backups"`
}

// BillingConfig holds parking pricing defaults.
type BillingConfig struct {
	HelmetFee   int64                     `yaml:"helmet-fee"`
	FreeMinutes map[string]map[string]int `yaml:"free-minutes"`
}

// PayrollConfig holds commission batch settings.
type PayrollConfig struct {
	BonusSchedule     string `yaml:"bonus-schedule"`
	Concurrency       int    `yaml:"concurrency"`
	DefaultCommission int    `yaml:"default-commission"`
}

// RedisLockConfig configures the Redis lock backend.
type RedisLockConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// LocksConfig configures keyed locks.
type LocksConfig struct {
	Redis RedisLockConfig `yaml:"redis"`
}

// AlertsConfig holds the thresholds of the log alerts.
type AlertsConfig struct {
	Schedule         string `yaml:"schedule"`
	LongParkingHours int    `yaml:"long-parking-hours"`
	SubscriptionDays int    `yaml:"subscription-days"`
}

// Config is the full service configuration.
type Config struct {
	DatabaseDSN string `yaml:"database-dsn"`
	Database    struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	HTTP struct {
		Port int `yaml:"port"`
	} `yaml:"http"`
	JWT      JWTConfig     `yaml:"jwt"`
	Logging  LoggingConfig `yaml:"logging"`
	Billing  BillingConfig `yaml:"billing"`
	Payroll  PayrollConfig `yaml:"payroll"`
	Locks    LocksConfig   `yaml:"locks"`
	Alerts   AlertsConfig  `yaml:"alerts"`
	Settings struct {
		PollInterval time.Duration `yaml:"poll-interval"`
	} `yaml:"settings"`
}

// DSN returns the configured database DSN.
func (c *Config) DSN() string {
	if dsn := strings.TrimSpace(c.DatabaseDSN); dsn != "" {
		return dsn
	}
	return strings.TrimSpace(c.Database.DSN)
}

// Load reads the YAML config at configPath, applies environment overrides and
// fills defaults. A missing file yields the defaults.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}
	data, errRead := os.ReadFile(configPath)
	switch {
	case errRead == nil:
		if errUnmarshal := yaml.Unmarshal(data, cfg); errUnmarshal != nil {
			return nil, fmt.Errorf("parse config file: %w", errUnmarshal)
		}
	case errors.Is(errRead, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config file: %w", errRead)
	}
	if errEnv := cfg.applyEnv(); errEnv != nil {
		return nil, errEnv
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		c.DatabaseDSN = dsn
	}
	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		c.JWT.Secret = secret
	}
	if expiryRaw := strings.TrimSpace(os.Getenv(EnvJWTExpiry)); expiryRaw != "" {
		if expiry, errParse := time.ParseDuration(expiryRaw); errParse == nil && expiry > 0 {
			c.JWT.Expiry = expiry
		}
	}
	if portRaw := strings.TrimSpace(os.Getenv(EnvHTTPPort)); portRaw != "" {
		port, errParse := strconv.Atoi(portRaw)
		if errParse != nil {
			return fmt.Errorf("invalid %s: %w", EnvHTTPPort, errParse)
		}
		c.HTTP.Port = port
	}
	if addr := strings.TrimSpace(os.Getenv(EnvRedisAddr)); addr != "" {
		c.Locks.Redis.Addr = addr
		c.Locks.Redis.Enabled = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = DefaultPort
	}
	if c.JWT.Expiry <= 0 {
		c.JWT.Expiry = defaultJWTExpiry
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = DefaultLogMaxBackups
	}
	if c.Billing.HelmetFee <= 0 {
		c.Billing.HelmetFee = DefaultHelmetFee
	}
	if strings.TrimSpace(c.Payroll.BonusSchedule) == "" {
		c.Payroll.BonusSchedule = DefaultBonusSchedule
	}
	if c.Payroll.Concurrency <= 0 {
		c.Payroll.Concurrency = DefaultPayrollWorkers
	}
	if c.Payroll.DefaultCommission <= 0 || c.Payroll.DefaultCommission > 100 {
		c.Payroll.DefaultCommission = DefaultCommission
	}
	if strings.TrimSpace(c.Locks.Redis.Prefix) == "" {
		c.Locks.Redis.Prefix = defaultLockRedisPrefix
	}
	if strings.TrimSpace(c.Alerts.Schedule) == "" {
		c.Alerts.Schedule = DefaultAlertSchedule
	}
	if c.Alerts.LongParkingHours <= 0 {
		c.Alerts.LongParkingHours = DefaultLongParkingHours
	}
	if c.Alerts.SubscriptionDays <= 0 {
		c.Alerts.SubscriptionDays = DefaultSubscriptionDays
	}
	if c.Settings.PollInterval <= 0 {
		c.Settings.PollInterval = DefaultSettingsPoll
	}
}

// LoadDatabaseDSN reads the database DSN from the YAML config file.
func LoadDatabaseDSN(configPath string) (string, error) {
	cfg, errLoad := Load(configPath)
	if errLoad != nil {
		return "", errLoad
	}
	if dsn := cfg.DSN(); dsn != "" {
		return dsn, nil
	}
	return "", ErrMissingDatabaseDSN
}

// LoadJWTConfig loads JWT settings from the YAML config file.
func LoadJWTConfig(configPath string) (JWTConfig, error) {
	cfg, errLoad := Load(configPath)
	if errLoad != nil {
		return JWTConfig{Expiry: defaultJWTExpiry}, errLoad
	}
	return cfg.JWT, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DataDir           string `envconfig:"RESTO_DATA_DIR" default:"."`
	UsersFile         string `envconfig:"RESTO_USERS_FILE" default:"users.txt"`
	AdminsFile        string `envconfig:"RESTO_ADMINS_FILE" default:"admins.txt"`
	OrdersFile        string `envconfig:"RESTO_ORDERS_FILE" default:"orders.txt"`
	ClientOrdersFile  string `envconfig:"RESTO_CLIENT_ORDERS_FILE" default:"client_orders.txt"`
	NotificationsFile string `envconfig:"RESTO_NOTIFICATIONS_FILE" default:"delivery_notifications.txt"`
	SessionFile       string `envconfig:"RESTO_SESSION_FILE" default:".session"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	JWTSecret     string        `envconfig:"RESTO_JWT_SECRET" default:"dev-secret-change-in-production"`
	SessionTTL    time.Duration `envconfig:"RESTO_SESSION_TTL" default:"12h"`
	HashPasswords bool          `envconfig:"RESTO_HASH_PASSWORDS" default:"false"`
	FirstOrderID  int           `envconfig:"RESTO_FIRST_ORDER_ID" default:"1000"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("RESTO_DATA_DIR is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("RESTO_JWT_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("RESTO_SESSION_TTL must be positive")
	}
	if c.FirstOrderID < 0 {
		return fmt.Errorf("RESTO_FIRST_ORDER_ID must not be negative")
	}
	return nil
}

// Path resolves a data file name against DataDir.
func (c *Config) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

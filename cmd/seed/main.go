package main

import (
	"errors"
	"flag"
	"os"

	"github.com/DhikraCh/resto-management/internal/account"
	"github.com/DhikraCh/resto-management/internal/config"
	"github.com/DhikraCh/resto-management/internal/enum"
	"github.com/DhikraCh/resto-management/internal/logging"
	"github.com/sirupsen/logrus"
)

func main() {
	// CLI flags
	email := flag.String("email", "", "Admin email address")
	password := flag.String("password", "", "Admin password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	// Fall back to environment variables
	if *email == "" {
		*email = os.Getenv("SEED_EMAIL")
	}
	if *password == "" {
		*password = os.Getenv("SEED_PASSWORD")
	}

	// Fall back to defaults
	if *email == "" {
		*email = "admin@gmail.com"
	}
	if *password == "" {
		*password = "admin123"
		log.Warn("Using default password 'admin123'. Change it before going live!")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data dir: %v", err)
	}

	users, err := account.NewDirectory(cfg.Path(cfg.UsersFile), log, account.WithHashedPasswords(cfg.HashPasswords))
	if err != nil {
		log.Fatalf("Failed to open users: %v", err)
	}

	if err := seedAdmin(users, *email, *password, log); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	log.WithField("email", *email).Info("Seed completed successfully")
}

// seedAdmin registers an approved admin unless the account already exists.
func seedAdmin(users *account.Directory, email, password string, log *logrus.Logger) error {
	err := users.Register(email, password, enum.UserRoleAdmin)
	if errors.Is(err, account.ErrEmailTaken) {
		log.Infof("Account '%s' already exists, skipping registration", email)
	} else if err != nil {
		return err
	}
	return users.Approve(email)
}

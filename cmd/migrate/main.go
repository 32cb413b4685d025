package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/shared/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// migrator is the part of *migrate.Migrate the commands use
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
}

func main() {
	dir := flag.String("dir", "migrations", "Directory holding one folder per module")
	module := flag.String("module", "ordering", "Module to migrate")
	command := flag.String("cmd", "up", "up, down, steps <n>, version or force <v>")
	flag.Parse()

	cfg := config.LoadConfig()
	if cfg.DatabaseURL == "" {
		log.Fatal("❌ DATABASE_URL is required to run migrations")
	}

	source := "file://" + filepath.ToSlash(filepath.Join(*dir, *module))
	log.Printf("🔄 Migrating %s from %s", *module, source)
	log.Printf("💾 Database: %s", maskDatabaseURL(cfg.DatabaseURL))

	m, err := migrate.New(source, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to create migrate instance: %v", err)
	}
	defer m.Close()

	if err := run(m, *command, flag.Args()); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run(m migrator, command string, args []string) error {
	switch command {
	case "up":
		log.Println("⬆️  Applying pending migrations...")
		return ignoreNoChange(m.Up())

	case "down":
		log.Println("⬇️  Reverting every migration (drops ledger rows and history)...")
		return ignoreNoChange(m.Down())

	case "steps":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		log.Printf("↕️  Moving %d step(s)...", n)
		return ignoreNoChange(m.Steps(n))

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Println("📌 No migration applied yet")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		log.Printf("📌 Current version: %d (dirty: %t)", version, dirty)
		return nil

	case "force":
		v, err := intArg(args)
		if err != nil {
			return err
		}
		if err := m.Force(v); err != nil {
			return fmt.Errorf("force failed: %w", err)
		}
		log.Printf("✅ Forced version to: %d", v)
		return nil

	default:
		return fmt.Errorf("unknown command: %s (use: up, down, steps, version, force)", command)
	}
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		log.Println("✅ Nothing to migrate")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Println("✅ Migrations completed!")
	return nil
}

func intArg(args []string) (int, error) {
	if len(args) < 1 {
		return 0, errors.New("a number argument is required")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", args[0], err)
	}
	return n, nil
}

// maskDatabaseURL hides the password in a database URL for logging
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		if len(raw) < 20 {
			return "***"
		}
		return raw[:20] + "***"
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}

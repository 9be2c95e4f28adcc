package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lelani/transport-backend/internal/config"
	"github.com/lelani/transport-backend/internal/logger"
)

func main() {
	var migrationDir string
	flag.StringVar(&migrationDir, "path", "migrations", "Path to migration files")
	flag.Usage = printUsage
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "").With().Str("component", "migrate").Logger()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(2)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	m, err := migrate.New("file://"+migrationDir, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("path", migrationDir).Msg("Migration failed to initialize")
	}
	defer m.Close()

	switch args[0] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "reset":
		err = m.Down()
	case "steps":
		var n int
		n, err = intArg(args)
		if err == nil {
			err = m.Steps(n)
		}
	case "force":
		var v int
		v, err = intArg(args)
		if err == nil {
			err = m.Force(v)
		}
	case "version":
		version, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			log.Info().Msg("No migrations applied")
			return
		}
		if verr != nil {
			log.Fatal().Err(verr).Msg("Version failed")
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current schema version")
		return
	default:
		printUsage()
		os.Exit(2)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Str("command", args[0]).Msg("Schema already up to date")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", args[0]).Msg("Migration failed")
	}

	version, dirty, _ := m.Version()
	log.Info().Str("command", args[0]).Uint("version", version).Bool("dirty", dirty).Msg("Migration applied")
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s requires a numeric argument", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid %s argument %q: %w", args[0], args[1], err)
	}
	return n, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate [flags] <command>")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  up              apply all pending migrations")
	fmt.Fprintln(os.Stderr, "  down            roll back the last migration")
	fmt.Fprintln(os.Stderr, "  reset           roll back every migration")
	fmt.Fprintln(os.Stderr, "  steps <n>       apply (n > 0) or roll back (n < 0) n migrations")
	fmt.Fprintln(os.Stderr, "  force <version> mark the schema as clean at version")
	fmt.Fprintln(os.Stderr, "  version         print the current schema version")
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

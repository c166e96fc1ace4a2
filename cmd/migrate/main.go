package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/grambazaar/storefront-backend/pkg/config"
	"github.com/grambazaar/storefront-backend/pkg/db"
	"github.com/grambazaar/storefront-backend/pkg/logger"
	"github.com/grambazaar/storefront-backend/pkg/migrate"
)

type options struct {
	cmd     string
	dir     string
	name    string
	version string
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "migration command: up|down|status|version|create|validate")
	flag.StringVar(&opts.dir, "dir", "", "read migrations from this directory instead of the embedded set ("+migrate.SourceDir+" for create)")
	flag.StringVar(&opts.name, "name", "", "migration name (for create)")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s failed: %v\n", opts.cmd, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) (err error) {
	// offline commands need neither config nor a database
	switch opts.cmd {
	case "create":
		if opts.name == "" {
			return errors.New("missing -name for create")
		}
		dir := opts.dir
		if dir == "" {
			dir = migrate.SourceDir
		}
		path, err := migrate.Scaffold(dir, opts.name, time.Now())
		if err != nil {
			return err
		}
		fmt.Println("created migration:", path)
		return nil
	case "validate":
		if err := migrate.Validate(source(opts.dir)); err != nil {
			return err
		}
		fmt.Println("migration validation passed")
		return nil
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Console:     cfg.App.ConsoleLogs(),
	})
	ctx = logg.WithFields(ctx, map[string]any{
		"env": cfg.App.Env,
		"cmd": opts.cmd,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	sqlDB, err := dbClient.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	runner, err := migrate.NewRunner(sqlDB, source(opts.dir))
	if err != nil {
		return err
	}

	logg.Info(ctx, "migrate.start")
	switch opts.cmd {
	case "up":
		var applied int
		applied, err = runner.Up(ctx)
		ctx = logg.WithField(ctx, "applied", applied)
	case "down":
		err = runner.Down(ctx)
	case "status":
		var versions []migrate.Version
		versions, err = runner.Status(ctx)
		for _, v := range versions {
			state := "pending"
			if v.Applied {
				state = "applied"
			}
			fmt.Printf("%-8s %d %s\n", state, v.Version, v.Path)
		}
	case "version":
		if opts.version == "" {
			return errors.New("missing -version for version command")
		}
		target, parseErr := strconv.ParseInt(opts.version, 10, 64)
		if parseErr != nil {
			return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", opts.version, parseErr)
		}
		err = runner.To(ctx, target)
	default:
		return fmt.Errorf("unknown -cmd value %q", opts.cmd)
	}
	if err != nil {
		return err
	}
	logg.Info(ctx, "migrate.done")
	return nil
}

// source picks the embedded migrations unless a directory override is given.
func source(dir string) fs.FS {
	if dir == "" {
		return migrate.Migrations()
	}
	return os.DirFS(dir)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/setlist/internal/shared"
)

// SetupDatabase creates the config file if it is missing, then initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if !cmd.IsSet("config") && r.configPath != "" {
		path = r.configPath
	}
	config := r.ensureConfig(path)

	r.logger.Info("initializing database", "path", config.Database.Path)
	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	statuses, err := shared.Migrations(db)
	if err != nil {
		return err
	}
	r.logger.Info("setup complete", "database", config.Database.Path, "migrations", len(statuses))
	return r.writePlain("✓ Database ready at %s (%d migrations applied)\n", config.Database.Path, len(statuses))
}

// ensureConfig loads path, writing the embedded template there first when no file exists.
// Any failure falls back to the defaults.
func (r *Runner) ensureConfig(path string) *shared.Config {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			return shared.DefaultConfig()
		}
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "path", path, "error", err)
		return shared.DefaultConfig()
	}
	return config
}

// SetupStatus lists the embedded migrations and whether each has been applied.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	statuses, err := shared.Migrations(db)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		rows = append(rows, []string{strconv.Itoa(s.Version), s.Name, state})
	}
	return r.writeTable([]string{"Version", "Name", "State"}, rows, 0)
}

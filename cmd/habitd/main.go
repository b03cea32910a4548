package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/habitbuilder/internal/config"
	"github.com/habitbuilder/internal/logging"
)

var version = "dev"

var CLI struct {
	Version  kong.VersionFlag
	EnvFile  string `help:"Environment file loaded before reading variables." default:".env" type:"path"`
	Database string `help:"SQLite database path, overrides DATABASE_PATH."`

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API." default:"1"`
	Migrate MigrateCmd `cmd:"" help:"Create or update the habit and habit_user tables."`
	Seed    SeedCmd    `cmd:"" help:"Insert sample users and habits."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("habitd"),
		kong.Description("Habit and user management API"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	cfg := config.Load(CLI.EnvFile)
	if CLI.Database != "" {
		cfg.DatabasePath = CLI.Database
	}

	app := &appContext{
		cfg:    cfg,
		logger: logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}),
	}

	if err := ctx.Run(app); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

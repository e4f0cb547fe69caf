package main

import (
	"context"
	"fmt"

	"github.com/elee1766/convo/src/storage"
)

// MigrateCmd manages database migrations
type MigrateCmd struct {
	Up     MigrateUpCmd     `cmd:"" help:"Run pending migrations"`
	Status MigrateStatusCmd `cmd:"" help:"Show migration status"`
}

// MigrateUpCmd runs pending migrations
type MigrateUpCmd struct {
	DBPath string `type:"path" help:"Database path (defaults to config)"`
}

// Run executes the migrate up command
func (c *MigrateUpCmd) Run(ctx context.Context, cli *CLI) error {
	db, err := openMigrationDB(ctx, cli, c.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	versions, err := db.AppliedVersions(ctx)
	if err != nil {
		return err
	}
	current := 0
	if len(versions) > 0 {
		current = versions[len(versions)-1]
	}
	fmt.Printf("Database %s is at version %d\n", db.Path(), current)
	return nil
}

// MigrateStatusCmd shows migration status
type MigrateStatusCmd struct {
	DBPath string `type:"path" help:"Database path (defaults to config)"`
}

// Run executes the migrate status command
func (c *MigrateStatusCmd) Run(ctx context.Context, cli *CLI) error {
	db, err := openMigrationDB(ctx, cli, c.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	versions, err := db.AppliedVersions(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Database: %s\n", db.Path())
	for _, v := range versions {
		fmt.Printf("  applied %03d\n", v)
	}
	return nil
}

// openMigrationDB opens the database, which applies pending migrations.
func openMigrationDB(ctx context.Context, cli *CLI, path string) (*storage.DB, error) {
	if path == "" {
		manager, err := loadConfig(cli)
		if err != nil {
			return nil, err
		}
		path = manager.GetConfig().Storage.DatabasePath
	}

	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/margdarshak/margdarshak"
	"github.com/margdarshak/margdarshak/db/zombiezen"
	"github.com/margdarshak/margdarshak/migrations"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config file (optional, defaults apply)")
	dbFile := flag.String("dbfile", "margdarshak.db", "path to the SQLite database file")
	flag.Parse()

	if err := run(*configPath, *dbFile); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath, dbFile string) error {
	pool, err := margdarshak.NewZombiezenPool(dbFile)
	if err != nil {
		return err
	}
	defer pool.Close()

	conn, err := pool.Take(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get connection for migrations: %w", err)
	}
	err = zombiezen.ApplyMigrations(conn, migrations.Schema())
	pool.Put(conn)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	_, srv, err := margdarshak.New(
		configPath,
		margdarshak.WithZombiezenPool(pool),
		margdarshak.WithRouterHttprouter(),
		margdarshak.WithCacheRistretto(),
		margdarshak.WithPhusLogger(nil),
	)
	if err != nil {
		return err
	}

	srv.Run()
	return nil
}

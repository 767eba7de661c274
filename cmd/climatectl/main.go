package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ibaloyan/ClimateAnalysis/internal/config"
	"github.com/ibaloyan/ClimateAnalysis/internal/db"
	"github.com/ibaloyan/ClimateAnalysis/internal/logging"
	"github.com/ibaloyan/ClimateAnalysis/internal/migrate"
)

const usage = `usage: %s <command>
  migrate  create the store if needed and apply pending schema migrations
  check    open the store read-only and report row counts
`

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(cfg, version, "climatectl"))

	if err := run(context.Background(), cfg, os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, cmd string) error {
	var (
		conn *sql.DB
		err  error
	)
	switch cmd {
	case "migrate":
		conn, err = db.OpenWritable(ctx, cfg)
	case "check":
		conn, err = db.Open(ctx, cfg)
	default:
		return errors.New("unknown command")
	}
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			slog.Error("db close", "err", closeErr)
		}
	}()

	switch cmd {
	case "migrate":
		n, err := migrate.Run(ctx, conn)
		if err != nil {
			return err
		}
		fmt.Printf("migrations applied: %d\n", n)
	case "check":
		if err := migrate.Verify(ctx, conn); err != nil {
			return err
		}
		for _, table := range []string{"station", "measurement"} {
			var n int
			if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
				return fmt.Errorf("count %s: %w", table, err)
			}
			fmt.Printf("%s: %d rows\n", table, n)
		}
	}
	return nil
}

// Command loadfixtures seeds the database from the CSV files shipped under
// the fixtures directory. It is safe to run repeatedly: rows are upserted on
// their natural keys.
package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"reviewhub/internal/config"
	"reviewhub/internal/fixtures"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("could not open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("could not reach database: %v", err)
	}

	loader := fixtures.NewLoader(db, cfg.FixturesDir, logger)
	if err := loader.Load(ctx); err != nil {
		log.Fatalf("fixtures load failed: %v", err)
	}
	logger.Info("fixtures loaded", "dir", cfg.FixturesDir)
}

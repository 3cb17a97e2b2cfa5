package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/threadscope/threadscope/config"
	"github.com/threadscope/threadscope/internal/clients"
	"github.com/threadscope/threadscope/internal/ingest"
	"github.com/threadscope/threadscope/internal/logging"
	"github.com/threadscope/threadscope/internal/store"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	country := flag.String("country", "us", "App Store country code")
	pages := flag.Int("pages", 3, "number of RSS pages to fetch")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <app-id>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	dsn, err := config.DatabaseFromEnv()
	if err != nil {
		slog.Error("Startup configuration invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	pg, err := clients.NewPostgresClient(ctx, dsn)
	if err != nil {
		slog.Error("Database unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pg.Close()

	if err := store.NewStore(pg.DB, false).InitSchema(ctx); err != nil {
		slog.Error("Schema init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ingester := ingest.NewAppStoreIngester(pg.DB)
	inserted, err := ingester.Ingest(ctx, flag.Arg(0), *country, *pages)
	if err != nil {
		slog.Error("Review ingest failed",
			slog.Int("inserted_before_failure", inserted),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}

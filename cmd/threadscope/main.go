package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/threadscope/threadscope/config"
	"github.com/threadscope/threadscope/internal/logging"
	"github.com/threadscope/threadscope/internal/pipeline"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	mode := flag.String("mode", "search", "search: discover threads for the keyword; url: process one URL directly")
	clearDB := flag.Bool("clear-db", false, "delete all stored posts and comments before the run")
	limit := flag.Int("limit", 0, "max candidate URLs per run (0 = default)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <keyword | url>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	if *mode != "search" && *mode != "url" {
		fmt.Fprintf(os.Stderr, "unknown mode %q (want search or url)\n", *mode)
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("Startup configuration invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}

	opts := pipeline.Options{
		Keyword: flag.Arg(0),
		Mode:    *mode,
		ClearDB: *clearDB,
		Limit:   *limit,
	}

	if err := pipeline.Run(context.Background(), cfg, opts); err != nil {
		slog.Error("Pipeline run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mr1hm/go-disaster-dashboard/internal/config"
	"github.com/mr1hm/go-disaster-dashboard/internal/ingestion"
	"github.com/mr1hm/go-disaster-dashboard/internal/logging"
	"github.com/mr1hm/go-disaster-dashboard/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	file := flag.String("file", cfg.Data.File, "workbook (.xlsx) or .csv to import")
	sheet := flag.String("sheet", cfg.Data.Sheet, "workbook sheet; defaults to the first")
	flag.Parse()

	if *file == "" {
		logging.Fatalf("no input file: pass -file or set DATA_FILE")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
		logging.Fatalf("Failed to create database directory: %v", err)
	}
	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mgr := ingestion.NewManager(cfg, db, nil)
	res, err := mgr.Import(ctx, *file, *sheet)
	if err != nil {
		slog.Error("import failed", "file", *file, "error", err)
		db.Close()
		os.Exit(1)
	}

	total, err := db.Count(ctx)
	if err != nil {
		slog.Warn("could not count records", "error", err)
	}
	slog.Info("database ready", "path", cfg.DB.Path, "records", total, "added", res.Added)
}

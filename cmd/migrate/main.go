package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyperflash/contact-api/internal/config"
	"github.com/hyperflash/contact-api/internal/logging"
	"github.com/hyperflash/contact-api/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)   apply pending PostgreSQL migrations
  fresh       drop all tables, then apply every migration in order
  purge       delete expired kv_entries rows
  dynamodb    create the DynamoDB table and enable TTL if missing`)
	os.Exit(1)
}

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)
	ctx := context.Background()

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	if cmd == "dynamodb" {
		runEnsureDynamoTable(ctx, cfg.KV, logger)
		return
	}

	pool, err := storage.NewPool(ctx, cfg.KV.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	migrationDir := findMigrationDir()

	switch cmd {
	case "":
		runIncremental(ctx, pool, migrationDir)
	case "fresh":
		runDropAll(ctx, pool, migrationDir)
		runIncremental(ctx, pool, migrationDir)
	case "purge":
		runPurge(ctx, pool)
	default:
		usage()
	}
}

func findMigrationDir() string {
	dir := "migrations"
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = "../migrations"
	}
	return dir
}

// collectUpFiles は .up.sql ファイル名をソート済みで返す
func collectUpFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Fatal("read migrations dir failed", "error", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files
}

func ensureSchemaMigrations(ctx context.Context, pool *pgxpool.Pool) {
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		logging.Fatal("create schema_migrations failed", "error", err)
	}
}

// ---------------------------------------------------------------------------
// (default) pending migrations
// ---------------------------------------------------------------------------
func runIncremental(ctx context.Context, pool *pgxpool.Pool, dir string) {
	ensureSchemaMigrations(ctx, pool)

	applied := 0
	for _, filename := range collectUpFiles(dir) {
		name := strings.TrimSuffix(filename, ".up.sql")

		var exists bool
		if err := pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", name).Scan(&exists); err != nil {
			logging.Fatal("check migration failed", "migration", name, "error", err)
		}
		if exists {
			continue
		}

		sql, err := os.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			logging.Fatal("read migration failed", "migration", name, "error", err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			logging.Fatal("migration failed", "migration", name, "error", err)
		}
		if _, err := pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			logging.Fatal("record migration failed", "migration", name, "error", err)
		}
		applied++
		slog.Info("migration completed", "migration", name)
	}

	if applied == 0 {
		slog.Info("all migrations already applied")
	} else {
		slog.Info("migrations completed", "count", applied)
	}
}

// ---------------------------------------------------------------------------
// drop everything
// ---------------------------------------------------------------------------
func runDropAll(ctx context.Context, pool *pgxpool.Pool, dir string) {
	slog.Info("dropping all tables")
	sql, err := os.ReadFile(filepath.Join(dir, "000_drop_all.sql"))
	if err != nil {
		logging.Fatal("read 000_drop_all.sql failed", "error", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		logging.Fatal("drop all failed", "error", err)
	}
	slog.Info("all tables dropped")
}

// ---------------------------------------------------------------------------
// expired row cleanup (PostgreSQL has no native TTL)
// ---------------------------------------------------------------------------
func runPurge(ctx context.Context, pool *pgxpool.Pool) {
	n, err := storage.NewPostgresStore(pool).PurgeExpired(ctx)
	if err != nil {
		logging.Fatal("purge failed", "error", err)
	}
	slog.Info("expired entries purged", "count", n)
}

func runEnsureDynamoTable(ctx context.Context, kv config.KV, logger *slog.Logger) {
	s, err := storage.NewDynamoStore(ctx, storage.DynamoConfig{
		Table:     kv.DynamoDBTable,
		Region:    kv.DynamoDBRegion,
		Endpoint:  kv.DynamoDBEndpoint,
		AccessKey: kv.AWSAccessKey,
		SecretKey: kv.AWSSecretKey,
	}, logger)
	if err != nil {
		logging.Fatal("dynamodb init failed", "error", err)
	}
	if err := s.EnsureTable(ctx); err != nil {
		logging.Fatal("ensure table failed", "table", kv.DynamoDBTable, "error", err)
	}
}

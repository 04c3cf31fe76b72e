package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cintyy73/template-todo-list/internal/config"
	"github.com/cintyy73/template-todo-list/internal/logging"
	"github.com/cintyy73/template-todo-list/internal/storage"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Applies the PostgreSQL schema used by STORE_DRIVER=postgres.
bolt, sqlite and local stores need no migration.

Commands:
  (default)   差分マイグレーションを適用
  down        最後に適用したマイグレーションを取り消す
  reset       全テーブルを DROP し、集約スキーマで再作成
  fresh       全テーブルを DROP し、全マイグレーションを順番に適用`)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		// migrate only needs DATABASE_URL; a store driver mismatch is not fatal here
		cfg = config.Default()
		cfg.Store.DSN = os.Getenv("DATABASE_URL")
	}
	logging.Setup(cfg.LoggingOptions())

	if cfg.Store.DSN == "" {
		logging.Fatal("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := storage.NewPool(ctx, cfg.Store.DSN)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	migrationDir := findMigrationDir()

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "":
		runIncremental(ctx, pool, migrationDir)
	case "down":
		runDown(ctx, pool, migrationDir)
	case "reset":
		runDropAll(ctx, pool, migrationDir)
		runConsolidated(ctx, pool, migrationDir)
	case "fresh":
		runDropAll(ctx, pool, migrationDir)
		runIncremental(ctx, pool, migrationDir)
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
	return upFiles(entries)
}

func upFiles(entries []os.DirEntry) []string {
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files
}

// execer is the subset of *pgxpool.Pool the bookkeeping helpers need.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func ensureSchemaMigrations(ctx context.Context, db execer) error {
	_, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

// markApplied records every migration in files without running it.
func markApplied(ctx context.Context, db execer, files []string) error {
	for _, filename := range files {
		name := strings.TrimSuffix(filename, ".up.sql")
		_, err := db.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT DO NOTHING", name)
		if err != nil {
			return fmt.Errorf("mark %s applied: %w", name, err)
		}
	}
	return nil
}

func execFile(ctx context.Context, db execer, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sql))
	return err
}

// ---------------------------------------------------------------------------
// (default) 差分マイグレーション
// ---------------------------------------------------------------------------
func runIncremental(ctx context.Context, pool *pgxpool.Pool, dir string) {
	if err := ensureSchemaMigrations(ctx, pool); err != nil {
		logging.Fatal("prepare migrations failed", "error", err)
	}

	files := collectUpFiles(dir)
	applied := 0
	for i, filename := range files {
		name := strings.TrimSuffix(filename, ".up.sql")

		var exists bool
		err := pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", name).Scan(&exists)
		if err != nil {
			logging.Fatal("check migration failed", "migration", name, "error", err)
		}
		if exists {
			continue
		}

		if err := execFile(ctx, pool, filepath.Join(dir, filename)); err != nil {
			logging.Fatal("migration failed", "migration", name, "error", err)
		}
		if _, err := pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			logging.Fatal("record migration failed", "migration", name, "error", err)
		}
		applied++
		slog.Info("migration completed", "number", i+1, "migration", name)
	}

	if applied == 0 {
		slog.Info("all migrations already applied")
	} else {
		slog.Info("migrations completed", "count", applied)
	}
}

// ---------------------------------------------------------------------------
// 直近のマイグレーションを取り消す
// ---------------------------------------------------------------------------
func runDown(ctx context.Context, pool *pgxpool.Pool, dir string) {
	if err := ensureSchemaMigrations(ctx, pool); err != nil {
		logging.Fatal("prepare migrations failed", "error", err)
	}

	var name string
	err := pool.QueryRow(ctx, "SELECT name FROM schema_migrations ORDER BY name DESC LIMIT 1").Scan(&name)
	if err != nil {
		slog.Info("nothing to roll back")
		return
	}

	if err := execFile(ctx, pool, filepath.Join(dir, name+".down.sql")); err != nil {
		logging.Fatal("rollback failed", "migration", name, "error", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM schema_migrations WHERE name=$1", name); err != nil {
		logging.Fatal("unrecord migration failed", "migration", name, "error", err)
	}
	slog.Info("migration rolled back", "migration", name)
}

// ---------------------------------------------------------------------------
// 全テーブル DROP
// ---------------------------------------------------------------------------
func runDropAll(ctx context.Context, pool *pgxpool.Pool, dir string) {
	slog.Info("dropping all tables")
	if err := execFile(ctx, pool, filepath.Join(dir, "000_drop_all.sql")); err != nil {
		logging.Fatal("drop all failed", "error", err)
	}
	slog.Info("all tables dropped")
}

// ---------------------------------------------------------------------------
// 集約スキーマで再作成
// ---------------------------------------------------------------------------
func runConsolidated(ctx context.Context, pool *pgxpool.Pool, dir string) {
	slog.Info("applying consolidated schema")
	if err := execFile(ctx, pool, filepath.Join(dir, "000_consolidated.sql")); err != nil {
		logging.Fatal("consolidated apply failed", "error", err)
	}

	// 全マイグレーションを適用済みとして記録
	if err := ensureSchemaMigrations(ctx, pool); err != nil {
		logging.Fatal("prepare migrations failed", "error", err)
	}
	files := collectUpFiles(dir)
	if err := markApplied(ctx, pool, files); err != nil {
		logging.Fatal("record migrations failed", "error", err)
	}
	slog.Info("consolidated schema applied", "migrations_marked", len(files))
}

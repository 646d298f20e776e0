// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/poweratlas/internal/config"
	"github.com/tomtom215/poweratlas/internal/fuel"
	"github.com/tomtom215/poweratlas/internal/logging"
	"github.com/tomtom215/poweratlas/internal/models"
)

// DB wraps the DuckDB connection and provides the facility store operations.
type DB struct {
	conn           *sql.DB
	cfg            *config.DatabaseConfig
	catalog        *fuel.Catalog
	microThreshold float64
}

// Option customizes a DB at construction.
type Option func(*DB)

// WithCatalog seeds fuel_sources from catalog instead of fuel.Default().
func WithCatalog(catalog *fuel.Catalog) Option {
	return func(db *DB) {
		if catalog != nil {
			db.catalog = catalog
		}
	}
}

// WithMicroThreshold sets the capacity (MW) below which a facility is micro.
func WithMicroThreshold(mw float64) Option {
	return func(db *DB) {
		db.microThreshold = mw
	}
}

// New opens (or creates) the database at cfg.Path, creates the schema and
// seeds the fuel catalog. Path ":memory:" opens a private in-memory database.
func New(cfg *config.DatabaseConfig, opts ...Option) (*DB, error) {
	db := &DB{
		cfg:            cfg,
		catalog:        fuel.Default(),
		microThreshold: models.DefaultMicroThresholdMW,
	}
	for _, opt := range opts {
		opt(db)
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	path := cfg.Path
	if path == ":memory:" {
		path = ""
	} else if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}

	connStr := fmt.Sprintf("%s?threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		path, threads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.conn = conn
	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.SeedDemoData {
		ctx, cancel := schemaContext()
		err := db.SeedDemoData(ctx)
		cancel()
		if err != nil {
			closeQuietly(conn)
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", threads).
		Str("fuel_catalog", db.catalog.Version()).
		Float64("micro_threshold_mw", db.microThreshold).
		Msg("Facility store ready")
	return db, nil
}

// configureConnectionPool sizes the pool. An in-memory database is private
// to one connection, so the pool is pinned to a single connection there.
func (db *DB) configureConnectionPool() {
	if db.cfg.Path == ":memory:" {
		db.conn.SetMaxOpenConns(1)
		db.conn.SetMaxIdleConns(1)
		return
	}
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

func (db *DB) initialize() error {
	if err := db.createTables(); err != nil {
		return err
	}
	if err := db.createViews(); err != nil {
		return err
	}
	return db.seedFuelCatalog()
}

// MicroThreshold returns the configured micro facility threshold in MW.
func (db *DB) MicroThreshold() float64 {
	return db.microThreshold
}

// Conn returns the underlying connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping checks that the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Close checkpoints the WAL and closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if db.cfg.Path != ":memory:" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.Checkpoint(ctx); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}
	return db.conn.Close()
}

// Checkpoint forces a WAL checkpoint.
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

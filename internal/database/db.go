package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// Bootstrap creates the four tables the service relies on when they do
// not exist yet: the spot registry, the vehicle ledger, the denormalized
// departure history and the append-only load sample series.  Statements
// are idempotent so the call is safe on every startup.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS spots (
			id INT PRIMARY KEY,
			spot_type VARCHAR(16) NOT NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'free',
			current_vehicle VARCHAR(64) NULL
		)`,
		`CREATE TABLE IF NOT EXISTS vehicles (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			vehicle_id VARCHAR(64) NOT NULL,
			vehicle_type VARCHAR(32) NOT NULL,
			is_ev TINYINT(1) NOT NULL DEFAULT 0,
			entry_time DATETIME NOT NULL,
			exit_time DATETIME NULL,
			spot_id INT NOT NULL,
			cost DOUBLE NULL,
			paid TINYINT(1) NOT NULL DEFAULT 0,
			active_key VARCHAR(64) AS (IF(exit_time IS NULL, vehicle_id, NULL)) STORED,
			UNIQUE KEY uniq_vehicles_active (active_key),
			KEY idx_vehicles_entry (entry_time)
		)`,
		`CREATE TABLE IF NOT EXISTS parking_history (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			vehicle_id VARCHAR(64) NOT NULL,
			vehicle_type VARCHAR(32) NOT NULL,
			spot_id INT NOT NULL,
			entry_time DATETIME NOT NULL,
			exit_time DATETIME NOT NULL,
			duration_minutes DOUBLE NOT NULL,
			cost DOUBLE NOT NULL,
			KEY idx_history_exit (exit_time)
		)`,
		`CREATE TABLE IF NOT EXISTS parking_load_history (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			ts DATETIME NOT NULL,
			occupied_spots INT NOT NULL,
			total_spots INT NOT NULL,
			load_percentage DOUBLE NOT NULL,
			KEY idx_load_ts (ts)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}

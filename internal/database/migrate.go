package database

import (
	"database/sql"
	"fmt"
	"log"
)

func schemaVersion(conn *sql.DB) (int, error) {
	var v int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// migrate applies every migration above the stored user_version and
// returns how many ran. A database written by a newer build is rejected.
func migrate(conn *sql.DB) (int, error) {
	current, err := schemaVersion(conn)
	if err != nil {
		return 0, err
	}
	latest := latestVersion()
	if current > latest {
		return 0, fmt.Errorf("schema version %d is newer than supported version %d", current, latest)
	}

	applied := 0
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		log.Printf("Applying migration %d: %s", m.Version, m.Description)
		if err := apply(conn, m); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

func apply(conn *sql.DB, m Migration) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.Version, err)
	}
	if err := m.Up(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", m.Version, err)
	}

	// user_version cannot be set inside the transaction with this driver;
	// migrations are idempotent DDL so a crash here only repeats the step.
	if _, err := conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("stamping schema version %d: %w", m.Version, err)
	}
	return nil
}

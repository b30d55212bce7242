// Command migrate applies the SQL files under migrations/ to the database
// named by DATABASE_URL. Applied versions are recorded in schema_migrations
// so reruns are no-ops; each pending file runs in its own transaction and
// the first failure stops the run.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("[migrate] DATABASE_URL is required")
	}

	dir := "migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("[migrate] connect: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("[migrate] ping: %v", err)
	}

	if err := run(db, dir); err != nil {
		log.Fatalf("[migrate] %v", err)
	}
}

func run(db *sql.DB, dir string) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    text PRIMARY KEY,
			applied_at timestamptz NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("read applied versions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return fmt.Errorf("scan version: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read applied versions: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	pending := 0
	for _, f := range files {
		if applied[f] {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, f))
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			continue
		}

		if err := apply(db, f, string(data)); err != nil {
			return err
		}
		log.Printf("[migrate] applied %s", f)
		pending++
	}

	if pending == 0 {
		log.Println("[migrate] nothing to apply")
	}
	return nil
}

// apply runs one migration and records its version in the same transaction,
// so a failed statement leaves no record behind.
func apply(db *sql.DB, version, content string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin %s: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(content); err != nil {
		return fmt.Errorf("apply %s: %w", version, err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return fmt.Errorf("record %s: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", version, err)
	}
	return nil
}

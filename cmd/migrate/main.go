package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"

	"pairup/internal/config"

	_ "github.com/lib/pq"
)

func main() {
	dir := flag.String("dir", "migrations", "directory containing .sql migration files")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	log.Println("Connected to database successfully")

	if err := ensureMigrationsTable(db); err != nil {
		log.Fatalf("Failed to prepare schema_migrations table: %v", err)
	}

	files, err := migrationFiles(*dir)
	if err != nil {
		log.Fatalf("Failed to list migration files: %v", err)
	}
	if len(files) == 0 {
		log.Printf("No migration files found in %s", *dir)
		return
	}

	applied := 0
	for _, file := range files {
		name := filepath.Base(file)

		done, err := alreadyApplied(db, name)
		if err != nil {
			log.Fatalf("Failed to check migration %s: %v", name, err)
		}
		if done {
			continue
		}

		// Read migration file
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("Failed to read migration file: %v", err)
		}

		// Execute migration
		log.Printf("Applying migration: %s", name)
		if err := apply(db, name, string(sqlBytes)); err != nil {
			log.Fatalf("Failed to apply migration %s: %v", name, err)
		}
		applied++
	}

	if applied == 0 {
		log.Println("✅ Database is up to date, nothing to apply")
		return
	}
	log.Printf("✅ Applied %d migration(s) successfully!", applied)
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// migrationFiles returns the .sql files in dir in lexical order. Files are
// named NNN_description.sql so lexical order is apply order.
func migrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func alreadyApplied(db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE name = $1", name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// apply runs one migration and records it in the same transaction, so a
// half-applied file is never marked as done.
func apply(db *sql.DB, name, migrationSQL string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(migrationSQL); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: an admin
// account with the given credentials and a starter category. It does
// nothing once any user exists.
func Seed(db *sql.DB, adminEmail, adminPassword string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO users (email, password_hash, name, role)
		VALUES ($1, $2, $3, 'admin')
	`, adminEmail, string(hash), "Admin"); err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO categories (name, slug) VALUES ('General', 'general')
		ON CONFLICT (slug) DO NOTHING
	`); err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default admin user", "email", adminEmail)
	return nil
}

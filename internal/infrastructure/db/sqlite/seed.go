package sqlite

import (
	"database/sql"
	"fmt"
)

// Seed populates an empty database with sample accounts and products for
// local development. Tables that already hold rows are left untouched, so
// running it on every startup is safe.
func Seed(db *sql.DB) error {
	if err := seedUsers(db); err != nil {
		return err
	}
	return seedProducts(db)
}

func seedUsers(db *sql.DB) error {
	var n int64
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}

	samples := []struct {
		username, roles, secretPhrase string
	}{
		{"admin", "admin", "adminpassword"},
		{"user1", "user", "user1password"},
		{"user2", "user", "user2password"},
	}
	for _, s := range samples {
		if _, err := db.Exec(
			"INSERT INTO users (username, roles, secret_phrase, is_active) VALUES (?, ?, ?, 1)",
			s.username, s.roles, s.secretPhrase,
		); err != nil {
			return fmt.Errorf("seed user %s: %w", s.username, err)
		}
	}
	return nil
}

func seedProducts(db *sql.DB) error {
	var n int64
	if err := db.QueryRow("SELECT COUNT(*) FROM products").Scan(&n); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return nil
	}

	samples := []struct {
		name, description string
		price             float64
		stock             int64
	}{
		{"Laptop", "15-inch developer laptop", 1299.99, 10},
		{"Keyboard", "Mechanical keyboard, tenkeyless", 89.50, 42},
		{"Monitor", "27-inch 4K display", 349.00, 17},
	}
	for _, s := range samples {
		if _, err := db.Exec(
			"INSERT INTO products (name, description, price, stock) VALUES (?, ?, ?, ?)",
			s.name, s.description, s.price, s.stock,
		); err != nil {
			return fmt.Errorf("seed product %s: %w", s.name, err)
		}
	}
	return nil
}

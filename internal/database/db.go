package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
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

var schema = []string{
	`CREATE TABLE IF NOT EXISTS seats (
		seat_number SMALLINT UNSIGNED NOT NULL PRIMARY KEY,
		status ENUM('available','booked') NOT NULL DEFAULT 'available',
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		reference CHAR(36) NOT NULL UNIQUE,
		seat_count TINYINT UNSIGNED NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS booking_seats (
		booking_id BIGINT UNSIGNED NOT NULL,
		seat_number SMALLINT UNSIGNED NOT NULL,
		PRIMARY KEY (booking_id, seat_number),
		CONSTRAINT fk_booking_seats_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE
	)`,
}

// Migrate creates the tables when missing and seeds one available row per
// seat.  Existing rows keep their status, so restarting the server does not
// wipe bookings.
func Migrate(ctx context.Context, db *sql.DB, totalSeats int) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if totalSeats <= 0 {
		return nil
	}
	query := `INSERT IGNORE INTO seats (seat_number, status) VALUES ` +
		strings.TrimSuffix(strings.Repeat("(?, 'available'),", totalSeats), ",")
	args := make([]interface{}, 0, totalSeats)
	for n := 1; n <= totalSeats; n++ {
		args = append(args, n)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed seats: %w", err)
	}
	return nil
}

package telco

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteTicketRepo stores tickets as JSON documents in a SQLite table.
// It is the persistent variant of TicketRepo; the schema is created and
// seeded on first open.
type SQLiteTicketRepo struct {
	db *sql.DB
}

// OpenSQLiteTicketRepo opens (creating if needed) the ticket database
// at path and seeds it with the reference tickets when empty.
func OpenSQLiteTicketRepo(path string) (*SQLiteTicketRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ticket database: %w", err)
	}

	repo := &SQLiteTicketRepo{db: db}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteTicketRepo) init() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS tickets (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize ticket schema: %w", err)
	}

	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM tickets").Scan(&count); err != nil {
		return fmt.Errorf("failed to count tickets: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, t := range SeedTickets() {
		if err := r.Put(t); err != nil {
			return fmt.Errorf("failed to seed ticket %s: %w", t.TicketID, err)
		}
	}
	return nil
}

// Get returns the ticket for an ID.
func (r *SQLiteTicketRepo) Get(ticketID string) (*Ticket, bool, error) {
	var data string
	err := r.db.QueryRow("SELECT data FROM tickets WHERE id = ?", ticketID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query ticket: %w", err)
	}

	var ticket Ticket
	if err := json.Unmarshal([]byte(data), &ticket); err != nil {
		return nil, false, fmt.Errorf("failed to decode ticket %s: %w", ticketID, err)
	}
	return &ticket, true, nil
}

// Put stores (or replaces) a ticket under its ID.
func (r *SQLiteTicketRepo) Put(ticket *Ticket) error {
	data, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("failed to encode ticket: %w", err)
	}

	_, err = r.db.Exec(
		"INSERT OR REPLACE INTO tickets (id, data, created_at) VALUES (?, ?, ?)",
		ticket.TicketID, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to store ticket: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (r *SQLiteTicketRepo) Close() error {
	return r.db.Close()
}

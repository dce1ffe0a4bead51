package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"realty-cms/internal/models"
)

// PostgresStore implements Store on PostgreSQL with database/sql.
type PostgresStore struct {
	conn *sql.DB
}

// NewPostgresStore connects to PostgreSQL and creates the properties table
// if it does not exist.
func NewPostgresStore(host, port, user, password, dbname, sslmode string) (*PostgresStore, error) {
	if sslmode == "" {
		sslmode = "disable"
	}
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		return nil, err
	}

	store := &PostgresStore{conn: conn}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (ps *PostgresStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS properties (
		id VARCHAR(64) PRIMARY KEY,
		position INTEGER NOT NULL,
		data JSONB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_properties_position ON properties(position);
	`
	_, err := ps.conn.Exec(query)
	return err
}

func (ps *PostgresStore) LoadAll() ([]models.Property, error) {
	rows, err := ps.conn.Query(`SELECT id, data FROM properties ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		var p models.Property
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to decode property %s: %w", id, err)
		}
		properties = append(properties, p)
	}

	return properties, rows.Err()
}

func (ps *PostgresStore) SaveAll(properties []models.Property) error {
	tx, err := ps.conn.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM properties`); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear properties: %w", err)
	}

	for i, p := range properties {
		data, err := json.Marshal(p)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to encode property %s: %w", p.ID, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO properties (id, position, data) VALUES ($1, $2, $3)`,
			p.ID, i, data,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert property %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

func (ps *PostgresStore) Close() error {
	return ps.conn.Close()
}

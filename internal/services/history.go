package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/nexconsult/courtcase-api/internal/models"
)

// ErrQueryNotFound is returned when a history entry does not exist
var ErrQueryNotFound = errors.New("query not found")

const historySchema = `
CREATE TABLE IF NOT EXISTS queries (
	id                    INTEGER PRIMARY KEY AUTOINCREMENT,
	case_type             TEXT NOT NULL,
	case_number           TEXT NOT NULL,
	case_year             TEXT NOT NULL,
	case_type_status      TEXT NOT NULL DEFAULT '',
	parties               TEXT NOT NULL DEFAULT '',
	listing_date_court_no TEXT NOT NULL DEFAULT '',
	pdf_links             TEXT NOT NULL DEFAULT '[]',
	created_at            INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_queries_created_at ON queries (created_at);
`

// HistoryStore persists successful lookups in SQLite
type HistoryStore struct {
	db     *sql.DB
	logger *logrus.Logger
}

// OpenHistoryStore opens dsn with the sqlite driver and creates the schema
func OpenHistoryStore(ctx context.Context, dsn string, logger *logrus.Logger) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// SQLite allows one writer; in-memory databases are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &HistoryStore{db: db, logger: logger}, nil
}

// Record stores a found outcome and returns its id
func (h *HistoryStore) Record(ctx context.Context, query models.CaseQuery, record models.CaseStatusRecord) (int64, error) {
	links := record.DocumentLinks
	if links == nil {
		links = []string{}
	}
	encoded, err := json.Marshal(links)
	if err != nil {
		return 0, fmt.Errorf("encode document links: %w", err)
	}

	res, err := h.db.ExecContext(ctx, `
		INSERT INTO queries (case_type, case_number, case_year, case_type_status, parties, listing_date_court_no, pdf_links, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		query.CaseType, query.CaseNumber, query.CaseYear,
		record.StatusText, record.Parties, record.ListingDateAndCourt,
		string(encoded), time.Now().UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert query: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert query id: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"component": "history",
		"id":        id,
		"case":      query.Key(),
	}).Debug("Lookup recorded")
	return id, nil
}

const selectQueries = `
	SELECT id, case_type, case_number, case_year, case_type_status, parties, listing_date_court_no, pdf_links, created_at
	FROM queries`

// List returns the most recent entries first
func (h *HistoryStore) List(ctx context.Context, limit int) ([]models.QueryRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.db.QueryContext(ctx, selectQueries+` ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	defer rows.Close()

	out := []models.QueryRecord{}
	for rows.Next() {
		rec, err := scanQuery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	return out, nil
}

// Get returns one entry by id
func (h *HistoryStore) Get(ctx context.Context, id int64) (models.QueryRecord, error) {
	row := h.db.QueryRowContext(ctx, selectQueries+` WHERE id = ?`, id)
	rec, err := scanQuery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.QueryRecord{}, ErrQueryNotFound
	}
	return rec, err
}

// Count returns the number of stored entries
func (h *HistoryStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := h.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count queries: %w", err)
	}
	return n, nil
}

// Health returns history database health status
func (h *HistoryStore) Health() map[string]interface{} {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	}
	return map[string]interface{}{
		"status": "healthy",
	}
}

// Close closes the database
func (h *HistoryStore) Close() error {
	return h.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuery(row rowScanner) (models.QueryRecord, error) {
	var (
		rec       models.QueryRecord
		links     string
		createdAt int64
	)
	err := row.Scan(
		&rec.ID, &rec.CaseType, &rec.CaseNumber, &rec.CaseYear,
		&rec.StatusText, &rec.Parties, &rec.ListingDateAndCourt,
		&links, &createdAt,
	)
	if err != nil {
		return models.QueryRecord{}, err
	}

	rec.DocumentLinks = []string{}
	if err := json.Unmarshal([]byte(links), &rec.DocumentLinks); err != nil {
		return models.QueryRecord{}, fmt.Errorf("decode document links of query %d: %w", rec.ID, err)
	}
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	return rec, nil
}

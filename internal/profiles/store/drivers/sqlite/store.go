package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"

	moderncsqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// Store keeps the items of one logical table in a SQLite database.
type Store struct {
	db    *sql.DB
	table string
}

func NewStore(dsn, table string) (*Store, error) {
	if table == "" {
		return nil, errors.New("sqlite: table name is required")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// An in-memory database only lives as long as its connection.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	return &Store{db: db, table: table}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Get(ctx context.Context, userID string) (domain.Profile, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM items WHERE table_name = ? AND item_key = ?`,
		s.table, userID,
	).Scan(&doc)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	return decode(doc)
}

func (s *Store) PutIfAbsent(ctx context.Context, p domain.Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("sqlite: encode profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO items (table_name, item_key, doc) VALUES (?, ?, ?)`,
		s.table, p.UserID, string(doc),
	)
	if isConstraintViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// UpdateIfExists patches the stored document with json_set. The UPDATE only
// matches an existing row, so a missing item yields no RETURNING row.
func (s *Store) UpdateIfExists(ctx context.Context, userID string, u store.Update) (domain.Profile, error) {
	fields := u.Fields()
	if len(fields) == 0 {
		return domain.Profile{}, store.ErrNothingToUpdate
	}

	setArgs := make([]string, 0, len(fields))
	args := make([]any, 0, 2*len(fields)+2)
	for _, f := range fields {
		raw, err := json.Marshal(domain.StoredValue(f.Value))
		if err != nil {
			return domain.Profile{}, fmt.Errorf("sqlite: encode %s: %w", f.Name, err)
		}
		setArgs = append(setArgs, "?, json(?)")
		args = append(args, jsonPath(f.Name), string(raw))
	}
	args = append(args, s.table, userID)

	query := `UPDATE items SET doc = json_set(doc, ` + strings.Join(setArgs, ", ") + `)
		WHERE table_name = ? AND item_key = ?
		RETURNING doc`

	var doc string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&doc); err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	return decode(doc)
}

func (s *Store) DeleteIfExists(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM items WHERE table_name = ? AND item_key = ?`,
		s.table, userID,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func isConstraintViolation(err error) bool {
	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlitelib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

// jsonPath quotes name as a single object key for json_set.
func jsonPath(name string) string {
	return `$."` + strings.ReplaceAll(name, `"`, `\"`) + `"`
}

func decode(doc string) (domain.Profile, error) {
	var p domain.Profile
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return domain.Profile{}, fmt.Errorf("sqlite: decode profile: %w", err)
	}
	return p, nil
}

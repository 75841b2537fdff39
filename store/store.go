// Package store persists documents in a SQLite database.
//
// Each document is kept as one JSON body. Sections are written back one at a
// time by patching that body in place, so saving a section never rewrites the
// other sections of the document.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	_ "modernc.org/sqlite"

	"github.com/mumtazka/skpgrid/document"
	"github.com/mumtazka/skpgrid/grid"
)

var (
	// ErrNotFound is returned when no document has the requested id.
	ErrNotFound = errors.New("document not found")

	// ErrClosed is returned by operations on a closed Store.
	ErrClosed = errors.New("store closed")
)

// Summary describes a stored document without decoding it.
type Summary struct {
	ID        string
	Title     string
	UpdatedAt time.Time
}

type Option func(*Store)

// WithLogger sets the logger used for schema migrations and writes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock replaces time.Now for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

type Store struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time
}

// Open opens or creates the database at path and brings its schema up to
// date.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := &Store{
		log: slog.New(slog.DiscardHandler),
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", path, err)
	}
	s.db = db
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return ErrClosed
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Save inserts or replaces doc and stamps its UpdatedAt.
func (s *Store) Save(ctx context.Context, doc *document.Document) error {
	if s.db == nil {
		return ErrClosed
	}
	doc.UpdatedAt = s.now().UTC()
	body, err := document.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, body, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			updated_at = excluded.updated_at`,
		doc.ID, doc.Title, string(body), doc.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving document %s: %w", doc.ID, err)
	}
	s.log.Debug("document saved", "id", doc.ID, "bytes", len(body))
	return nil
}

// Load reads and decodes the document with the given id. Legacy section data
// is repaired on the way; the repairs are logged but not written back.
func (s *Store) Load(ctx context.Context, id string) (*document.Document, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", id, err)
	}
	doc, rep, err := document.Decode([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", id, err)
	}
	if rep.Changed() {
		s.log.Info("document repaired on load", "id", id, "report", fmt.Sprintf("%+v", rep))
	}
	return doc, nil
}

// List returns every stored document, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, updated_at FROM documents ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum Summary
			ts  int64
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &ts); err != nil {
			return nil, fmt.Errorf("listing documents: %w", err)
		}
		sum.UpdatedAt = time.Unix(0, ts).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if s.db == nil {
		return ErrClosed
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// SaveSection writes the data of one section into the stored document. The
// key, title and headers of the section and every other section are left as
// stored.
func (s *Store) SaveSection(ctx context.Context, docID, key string, sec *grid.Section) error {
	if s.db == nil {
		return ErrClosed
	}
	data, err := document.MarshalSection(sec)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving section %s/%s: %w", docID, key, err)
	}
	defer tx.Rollback()

	var body string
	err = tx.QueryRowContext(ctx, `SELECT body FROM documents WHERE id = ?`, docID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, docID)
	}
	if err != nil {
		return fmt.Errorf("saving section %s/%s: %w", docID, key, err)
	}

	patched, err := patchSection([]byte(body), key, data)
	if err != nil {
		return fmt.Errorf("saving section %s/%s: %w", docID, key, err)
	}
	now := s.now().UTC()
	patched, err = sjson.SetBytes(patched, "updatedAt", now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving section %s/%s: %w", docID, key, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET body = ?, updated_at = ? WHERE id = ?`,
		string(patched), now.UnixNano(), docID); err != nil {
		return fmt.Errorf("saving section %s/%s: %w", docID, key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving section %s/%s: %w", docID, key, err)
	}
	s.log.Debug("section saved", "doc", docID, "section", key, "bytes", len(data))
	return nil
}

// patchSection replaces the data fields of the section stored under key in
// body with the fields of data.
func patchSection(body []byte, key string, data []byte) ([]byte, error) {
	idx := -1
	for i, k := range gjson.GetBytes(body, "sections.#.key").Array() {
		if k.String() == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", document.ErrUnknownSection, key)
	}
	prefix := fmt.Sprintf("sections.%d.", idx)

	out, err := sjson.DeleteBytes(body, prefix+"merges")
	if err != nil {
		return nil, err
	}
	gjson.ParseBytes(data).ForEach(func(k, v gjson.Result) bool {
		out, err = sjson.SetRawBytes(out, prefix+k.String(), []byte(v.Raw))
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

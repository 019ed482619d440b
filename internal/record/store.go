package record

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/capsulekit/capsule/internal/util"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	namespace  TEXT NOT NULL,
	title      TEXT NOT NULL,
	summary    TEXT NOT NULL DEFAULT '',
	type       TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '{}',
	tags       TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	hit_count  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (namespace, title)
);
CREATE INDEX IF NOT EXISTS idx_records_updated_at ON records(updated_at);
`

// Store is a namespace-scoped, type-tagged record store backed by embedded SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and ensures its schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	// A file-backed SQLite connection pool must be serialized to one writer at a time;
	// the driver multiplexes readers fine but concurrent writers from the same process
	// would otherwise trip SQLITE_BUSY under the hooks' short-lived-process model.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts r by (namespace, title). CreatedAt is preserved across updates; UpdatedAt always
// advances to now (or r.UpdatedAt if it is later; an earlier r.UpdatedAt is ignored, so Save
// cannot backdate a record).
func (s *Store) Save(r *ContextRecord) error {
	ns := util.NormalizeNamespaceSegment(r.Namespace)
	if ns == "" {
		return fmt.Errorf("namespace must not be empty")
	}
	if r.Title == "" {
		return fmt.Errorf("title must not be empty")
	}
	now := time.Now().UTC()

	content, err := json.Marshal(r.Content)
	if err != nil {
		return fmt.Errorf("marshaling content: %w", err)
	}
	tags, err := json.Marshal(r.Tags)
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}

	var existingCreated string
	err = s.db.QueryRow(`SELECT created_at FROM records WHERE namespace = ? AND title = ?`, ns, r.Title).Scan(&existingCreated)
	createdAt := now
	if err == nil {
		if parsed, perr := time.Parse(time.RFC3339Nano, existingCreated); perr == nil {
			createdAt = parsed
		}
	} else if err != sql.ErrNoRows {
		return fmt.Errorf("checking existing record: %w", err)
	}

	updatedAt := now
	if !r.UpdatedAt.IsZero() && r.UpdatedAt.After(now) {
		updatedAt = r.UpdatedAt
	}

	_, err = s.db.Exec(`
		INSERT INTO records (namespace, title, summary, type, content, tags, created_at, updated_at, hit_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT(namespace, title) DO UPDATE SET
			summary = excluded.summary,
			type = excluded.type,
			content = excluded.content,
			tags = excluded.tags,
			updated_at = excluded.updated_at
	`, ns, r.Title, r.Summary, string(r.Type), string(content), string(tags),
		createdAt.Format(time.RFC3339Nano), updatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upserting record: %w", err)
	}

	r.Namespace = ns
	r.CreatedAt = createdAt
	r.UpdatedAt = updatedAt
	return nil
}

// Get fetches the single record at (namespace, title), or nil if absent.
func (s *Store) Get(namespace, title string) (*ContextRecord, error) {
	ns := util.NormalizeNamespaceSegment(namespace)
	row := s.db.QueryRow(`
		SELECT namespace, title, summary, type, content, tags, created_at, updated_at, hit_count
		FROM records WHERE namespace = ? AND title = ?`, ns, title)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// IncrementHit bumps hit_count by one for (namespace, title). Best-effort: a missing row is not
// an error.
func (s *Store) IncrementHit(namespace, title string) error {
	ns := util.NormalizeNamespaceSegment(namespace)
	_, err := s.db.Exec(`UPDATE records SET hit_count = hit_count + 1 WHERE namespace = ? AND title = ?`, ns, title)
	return err
}

// List returns namespace itself plus every descendant at any depth below it, most-recently-updated
// first, up to limit (0 = unlimited).
func (s *Store) List(namespace string, limit int) ([]*ContextRecord, error) {
	ns := util.NormalizeNamespaceSegment(namespace)
	prefix := ns + "/"
	query := `
		SELECT namespace, title, summary, type, content, tags, created_at, updated_at, hit_count
		FROM records WHERE namespace = ? OR namespace LIKE ? ESCAPE '\'
		ORDER BY updated_at DESC`
	args := []interface{}{ns, escapeLike(prefix) + "%"}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Search performs a substring match over title and summary, ordered by hit_count then recency.
func (s *Store) Search(term string, limit int) ([]*ContextRecord, error) {
	like := "%" + escapeLike(strings.ToLower(term)) + "%"
	query := `
		SELECT namespace, title, summary, type, content, tags, created_at, updated_at, hit_count
		FROM records
		WHERE LOWER(title) LIKE ? ESCAPE '\' OR LOWER(summary) LIKE ? ESCAPE '\'
		ORDER BY hit_count DESC, updated_at DESC`
	args := []interface{}{like, like}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// QueryOptions controls ordering/filtering for Query.
type QueryOptions struct {
	OrderBy string // "recent" (default) or "hit_count"
	Limit   int
	Tag     string // optional: only records carrying this tag
}

// Query lists records directly at namespace (not descendants) with flexible ordering/filtering,
// the general-purpose form behind §4.4's `query(namespace, clauses)`.
func (s *Store) Query(namespace string, opts QueryOptions) ([]*ContextRecord, error) {
	ns := util.NormalizeNamespaceSegment(namespace)
	query := `
		SELECT namespace, title, summary, type, content, tags, created_at, updated_at, hit_count
		FROM records WHERE namespace = ?`
	args := []interface{}{ns}
	switch opts.OrderBy {
	case "hit_count":
		query += " ORDER BY hit_count DESC, updated_at DESC"
	default:
		query += " ORDER BY updated_at DESC"
	}
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	recs, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if opts.Tag == "" {
		return recs, nil
	}
	var filtered []*ContextRecord
	for _, r := range recs {
		if r.HasTag(opts.Tag) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// Resolve fetches the COLLECTION at namespace and returns it together with every record at or
// below that namespace, at any depth (the same set List returns), as full records.
func (s *Store) Resolve(namespace string) (*ContextRecord, []*ContextRecord, error) {
	parts := strings.SplitN(util.NormalizeNamespaceSegment(namespace), "/", 2)
	_ = parts
	// The collection record itself lives at its parent's namespace under its own title; callers
	// address it by the namespace path up to and including the collection's own segment.
	parent, title := splitNamespaceTitle(namespace)
	coll, err := s.Get(parent, title)
	if err != nil {
		return nil, nil, err
	}
	children, err := s.List(namespace, 0)
	if err != nil {
		return nil, nil, err
	}
	return coll, children, nil
}

func splitNamespaceTitle(namespace string) (parent, title string) {
	ns := util.NormalizeNamespaceSegment(namespace)
	idx := strings.LastIndex(ns, "/")
	if idx < 0 {
		return "", ns
	}
	return ns[:idx], ns[idx+1:]
}

// Prune deletes every record whose updated_at is strictly before cutoff. Returns the count
// removed.
func (s *Store) Prune(cutoff time.Time) (int, error) {
	res, err := s.db.Exec(`DELETE FROM records WHERE updated_at < ?`, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// All returns every record in the store, most-recently-updated first. Used by the `stats`
// command's session/branch views, which need to scan across namespaces rather than one subtree.
func (s *Store) All() ([]*ContextRecord, error) {
	rows, err := s.db.Query(`
		SELECT namespace, title, summary, type, content, tags, created_at, updated_at, hit_count
		FROM records ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// CountOlderThan reports how many records have updated_at strictly before cutoff, without
// deleting them — the read-only counterpart to Prune used by `prune --dry-run`.
func (s *Store) CountOlderThan(cutoff time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM records WHERE updated_at < ?`, cutoff.UTC().Format(time.RFC3339Nano)).Scan(&n)
	return n, err
}

// CountByType aggregates record counts grouped by type, for the stats surface (§4.4).
func (s *Store) CountByType() (map[Type]int, error) {
	rows, err := s.db.Query(`SELECT type, COUNT(*) FROM records GROUP BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[Type]int{}
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		out[Type(t)] = n
	}
	return out, rows.Err()
}

// TopTitles returns the top-K most frequent titles among records whose namespace ends in
// suffix (e.g. "files" or "subagents"), ordered by hit_count then occurrence count.
func (s *Store) TopTitles(suffix string, k int) ([]struct {
	Title string
	Count int
}, error) {
	rows, err := s.db.Query(`
		SELECT title, COUNT(*) as c, SUM(hit_count) as h
		FROM records WHERE namespace LIKE ? ESCAPE '\'
		GROUP BY title ORDER BY h DESC, c DESC LIMIT ?`, "%"+escapeLike(suffix), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []struct {
		Title string
		Count int
	}
	for rows.Next() {
		var title string
		var count, hits int
		if err := rows.Scan(&title, &count, &hits); err != nil {
			return nil, err
		}
		out = append(out, struct {
			Title string
			Count int
		}{title, count})
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*ContextRecord, error) {
	var r ContextRecord
	var typeStr, content, tags, created, updated string
	if err := row.Scan(&r.Namespace, &r.Title, &r.Summary, &typeStr, &content, &tags, &created, &updated, &r.HitCount); err != nil {
		return nil, err
	}
	r.Type = Type(typeStr)
	if err := json.Unmarshal([]byte(content), &r.Content); err != nil {
		r.Content = map[string]interface{}{}
	}
	if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
		r.Tags = nil
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &r, nil
}

func scanRecords(rows *sql.Rows) ([]*ContextRecord, error) {
	var out []*ContextRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

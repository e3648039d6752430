package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/scidata/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// Metadata keys.
const (
	metaLastBuild     = "last_build"
	metaTotalDatasets = "total_datasets"
	metaBuildID       = "build_id"
)

// orderColumns maps allowed ranking fields to columns. Only these strings
// are ever interpolated into SQL.
var orderColumns = map[string]string{
	"downloads":  "d.downloads",
	"views":      "d.views",
	"n_subjects": "d.n_subjects",
	"size_gb":    "d.size_gb",
	"name":       "d.name",
	"created":    "d.created",
}

// DefaultPath returns ~/.cache/scidata/datasets.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "scidata", "datasets.db"), nil
}

// IndexStore is the SQLite implementation of driven.IndexStore.
// The database is opened on first use.
type IndexStore struct {
	mu   sync.Mutex
	path string
	db   *sql.DB

	now func() time.Time
}

// NewIndexStore creates a store backed by the file at path.
// Nothing is opened or created until the first operation needs it.
func NewIndexStore(path string) *IndexStore {
	return &IndexStore{
		path: path,
		now:  time.Now,
	}
}

// Path returns the database file path.
func (s *IndexStore) Path() string {
	return s.path
}

// Close closes the database connection if one is open.
func (s *IndexStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *IndexStore) closeLocked() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// exists reports whether the database file is present.
func (s *IndexStore) exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// handle returns the open database, opening it if needed. With create false
// a missing file yields (nil, nil) instead of being created.
func (s *IndexStore) handle(create bool) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}
	if !create && !s.exists() {
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return nil, &domain.StoreUnavailableError{Path: s.path, Err: err}
	}

	// WAL lets other processes read while a rebuild writes
	db, err := sql.Open("sqlite", s.path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, &domain.StoreUnavailableError{Path: s.path, Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &domain.StoreUnavailableError{Path: s.path, Err: err}
	}
	if err := migrate(db, migrations.FS); err != nil {
		db.Close()
		return nil, &domain.StoreUnavailableError{Path: s.path, Err: fmt.Errorf("running migrations: %w", err)}
	}

	s.db = db
	return db, nil
}

// migrate applies every embedded NNN_*.up.sql newer than the recorded version.
func migrate(db *sql.DB, fsys fs.FS) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// ReplaceSource upserts records of one source in a single transaction and
// keeps the full-text row of each record in step with it.
func (s *IndexStore) ReplaceSource(ctx context.Context, source domain.SourceName, records []domain.Dataset) error {
	db, err := s.handle(true)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO datasets (
			key, source, id, name, created, modified, n_subjects, size_gb,
			downloads, views, readme, modalities, primary_modality, tasks,
			data_json, indexed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			created = excluded.created,
			modified = excluded.modified,
			n_subjects = excluded.n_subjects,
			size_gb = excluded.size_gb,
			downloads = excluded.downloads,
			views = excluded.views,
			readme = excluded.readme,
			modalities = excluded.modalities,
			primary_modality = excluded.primary_modality,
			tasks = excluded.tasks,
			data_json = excluded.data_json,
			indexed_at = excluded.indexed_at
		RETURNING rowid
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer upsert.Close()

	indexedAt := s.now().UTC().Format(time.RFC3339)

	for i := range records {
		d := records[i]
		d.Source = source

		data, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("marshalling %s: %w", d.Key(), err)
		}
		modalities, err := marshalList(d.Modalities)
		if err != nil {
			return fmt.Errorf("marshalling modalities of %s: %w", d.Key(), err)
		}
		tasks, err := marshalList(d.Tasks)
		if err != nil {
			return fmt.Errorf("marshalling tasks of %s: %w", d.Key(), err)
		}

		var rowid int64
		err = upsert.QueryRowContext(ctx,
			d.Key(), string(source), d.ID, d.Name,
			nullString(d.Created), nullString(d.Modified),
			d.NSubjects, d.SizeGB, d.Downloads, d.Views,
			nullString(d.Readme), modalities, nullString(d.PrimaryModality), tasks,
			string(data), indexedAt,
		).Scan(&rowid)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", d.Key(), err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM datasets_fts WHERE rowid = ?", rowid); err != nil {
			return fmt.Errorf("clear text index for %s: %w", d.Key(), err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO datasets_fts (rowid, key, name, text, tasks) VALUES (?, ?, ?, ?, ?)",
			rowid, d.Key(), d.Name, d.Text(), strings.Join(d.Tasks, " "),
		)
		if err != nil {
			return fmt.Errorf("text index for %s: %w", d.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Search runs a filtered, ranked query. A missing index yields no results.
func (s *IndexStore) Search(ctx context.Context, opts domain.SearchOptions) ([]domain.Dataset, error) {
	opts = opts.WithDefaults()

	db, err := s.handle(false)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return []domain.Dataset{}, nil
	}

	query, args := buildSearchQuery(opts)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	results := []domain.Dataset{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		var d domain.Dataset
		if err := json.Unmarshal([]byte(data), &d); err != nil {
			return nil, fmt.Errorf("decoding row: %w", err)
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

// buildSearchQuery assembles the SQL for opts, which must already carry defaults.
func buildSearchQuery(opts domain.SearchOptions) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if match := ftsQuery(opts.Query); match != "" {
		conditions = append(conditions, "d.rowid IN (SELECT rowid FROM datasets_fts WHERE datasets_fts MATCH ?)")
		args = append(args, match)
	}
	if opts.Source != "" {
		conditions = append(conditions, "d.source = ?")
		args = append(args, string(opts.Source))
	}
	if opts.Modality != "" {
		conditions = append(conditions,
			"(EXISTS (SELECT 1 FROM json_each(d.modalities) WHERE lower(value) = lower(?))"+
				" OR lower(COALESCE(d.primary_modality, '')) = lower(?))")
		args = append(args, opts.Modality, opts.Modality)
	}
	if opts.MinSubjects != nil {
		conditions = append(conditions, "d.n_subjects >= ?")
		args = append(args, *opts.MinSubjects)
	}
	if opts.MaxSubjects != nil {
		conditions = append(conditions, "d.n_subjects <= ?")
		args = append(args, *opts.MaxSubjects)
	}
	if opts.MinDownloads != nil {
		conditions = append(conditions, "d.downloads >= ?")
		args = append(args, *opts.MinDownloads)
	}
	if opts.HasReadme {
		conditions = append(conditions, "d.readme IS NOT NULL AND d.readme != ''")
	}

	var b strings.Builder
	b.WriteString("SELECT d.data_json FROM datasets d")
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}

	column, ok := orderColumns[opts.OrderBy]
	if !ok {
		column = orderColumns[domain.DefaultOrderBy]
	}
	b.WriteString(" ORDER BY " + column + " DESC, d.key ASC LIMIT ? OFFSET ?")
	args = append(args, opts.Limit, opts.Offset)

	return b.String(), args
}

// ftsQuery turns free text into an FTS5 expression: every whitespace
// separated token becomes a quoted phrase, and phrases are ANDed.
func ftsQuery(text string) string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return ""
	}
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = `"` + strings.ReplaceAll(tok, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}

// SaveBuildMetadata records the outcome of a build pass.
func (s *IndexStore) SaveBuildMetadata(ctx context.Context, meta domain.BuildMetadata) error {
	db, err := s.handle(true)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	values := [][2]string{
		{metaLastBuild, meta.LastBuild.UTC().Format(time.RFC3339)},
		{metaTotalDatasets, strconv.Itoa(meta.TotalDatasets)},
		{metaBuildID, meta.BuildID},
	}
	for _, kv := range values {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO metadata (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, kv[0], kv[1])
		if err != nil {
			return fmt.Errorf("saving %s: %w", kv[0], err)
		}
	}
	return tx.Commit()
}

// Stats describes the index. A missing file reports Exists false and is
// not created.
func (s *IndexStore) Stats(ctx context.Context) (*domain.IndexStats, error) {
	db, err := s.handle(false)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return &domain.IndexStats{Exists: false}, nil
	}

	stats := &domain.IndexStats{
		Exists:   true,
		Path:     s.path,
		BySource: make(map[domain.SourceName]int),
	}

	rows, err := db.QueryContext(ctx, "SELECT source, COUNT(*) FROM datasets GROUP BY source")
	if err != nil {
		return nil, fmt.Errorf("counting datasets: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			source string
			count  int
		)
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		stats.BySource[domain.SourceName(source)] = count
		stats.TotalDatasets += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.LastBuild, err = s.metadata(ctx, db, metaLastBuild)
	if err != nil {
		return nil, err
	}
	stats.LastBuildID, err = s.metadata(ctx, db, metaBuildID)
	if err != nil {
		return nil, err
	}

	stats.SizeOnDisk = s.sizeOnDisk()
	return stats, nil
}

// sizeOnDisk counts the database file and its write-ahead log. Committed
// pages stay in the log until a checkpoint copies them back.
func (s *IndexStore) sizeOnDisk() int64 {
	var size int64
	for _, suffix := range []string{"", "-wal"} {
		if info, err := os.Stat(s.path + suffix); err == nil {
			size += info.Size()
		}
	}
	return size
}

func (s *IndexStore) metadata(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value sql.NullString
	err := db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return value.String, nil
}

// Clear closes the database and removes it together with its WAL files.
// Returns whether the database file existed.
func (s *IndexStore) Clear(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.closeLocked(); err != nil {
		return false, fmt.Errorf("closing database: %w", err)
	}

	existed := s.exists()
	for _, p := range []string{s.path, s.path + "-wal", s.path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return existed, fmt.Errorf("removing %s: %w", p, err)
		}
	}
	return existed, nil
}

func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	return string(data), err
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

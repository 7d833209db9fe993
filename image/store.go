package image

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrSnapshotNotFound indicates the requested snapshot doesn't exist.
var ErrSnapshotNotFound = errors.New("image: snapshot not found")

// Store keeps named snapshots in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Entry describes a stored snapshot.
type Entry struct {
	Name     string
	Symbols  int
	Bindings int
	Size     int
	Saved    time.Time
}

// OpenStore opens or creates the snapshot database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("image: opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("image: setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		name     TEXT PRIMARY KEY,
		data     BLOB NOT NULL,
		symbols  INTEGER NOT NULL,
		bindings INTEGER NOT NULL,
		saved_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("image: creating table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores snap under name, replacing any previous snapshot.
func (s *Store) Put(name string, snap *Snapshot) error {
	data, err := Marshal(snap)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO snapshots (name, data, symbols, bindings, saved_at) VALUES (?, ?, ?, ?, ?)",
		name, data, len(snap.Symbols), len(snap.Bindings), time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("image: saving snapshot %s: %w", name, err)
	}
	log.Debugf("stored snapshot %s in %s", name, s.path)
	return nil
}

// Get loads the snapshot stored under name.
func (s *Store) Get(name string) (*Snapshot, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM snapshots WHERE name = ?", name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("image: querying snapshot %s: %w", name, err)
	}
	return Unmarshal(data)
}

// Delete removes the snapshot stored under name.
func (s *Store) Delete(name string) error {
	res, err := s.db.Exec("DELETE FROM snapshots WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("image: deleting snapshot %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

// List returns all stored snapshots ordered by name.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(
		"SELECT name, symbols, bindings, length(data), saved_at FROM snapshots ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("image: listing snapshots: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var saved int64
		if err := rows.Scan(&e.Name, &e.Symbols, &e.Bindings, &e.Size, &saved); err != nil {
			return nil, fmt.Errorf("image: scanning snapshot row: %w", err)
		}
		e.Saved = time.Unix(0, saved)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

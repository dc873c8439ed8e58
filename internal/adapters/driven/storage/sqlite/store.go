package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/hedgehq/sitenodes/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/hedgehq/sitenodes/internal/core/domain"
	"github.com/hedgehq/sitenodes/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.NodeStore = (*Store)(nil)

// Store is the SQLite-backed build-time node store. Node rows persist
// between builds so digest comparison can skip unchanged downstream
// work on rebuild.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store in the given data directory.
// If dataDir is empty, defaults to .sitenodes/ in the working directory.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		dataDir = ".sitenodes"
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "nodes.db")

	// WAL mode: feeds save nodes concurrently.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveNode stores a node, reporting whether anything changed. When the
// stored digest matches, the row is left untouched.
func (s *Store) SaveNode(ctx context.Context, node *domain.Node) (domain.SaveOutcome, error) {
	fieldsJSON, err := json.Marshal(node.Fields)
	if err != nil {
		return 0, fmt.Errorf("marshalling fields: %w", err)
	}

	var existingDigest string
	row := s.db.QueryRowContext(ctx, "SELECT digest FROM nodes WHERE id = ?", node.ID)
	switch err := row.Scan(&existingDigest); {
	case errors.Is(err, sql.ErrNoRows):
		now := time.Now().UTC()
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO nodes (id, type, natural_key, digest, fields, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, node.ID, string(node.Type), node.NaturalKey, node.Digest, string(fieldsJSON), now, now)
		if err != nil {
			return 0, fmt.Errorf("inserting node: %w", err)
		}
		return domain.SaveCreated, nil

	case err != nil:
		return 0, fmt.Errorf("checking node digest: %w", err)

	case existingDigest == node.Digest:
		return domain.SaveUnchanged, nil

	default:
		_, err := s.db.ExecContext(ctx, `
			UPDATE nodes SET type = ?, natural_key = ?, digest = ?, fields = ?, updated_at = ?
			WHERE id = ?
		`, string(node.Type), node.NaturalKey, node.Digest, string(fieldsJSON), time.Now().UTC(), node.ID)
		if err != nil {
			return 0, fmt.Errorf("updating node: %w", err)
		}
		return domain.SaveUpdated, nil
	}
}

// GetNode retrieves a node by ID.
func (s *Store) GetNode(ctx context.Context, id string) (*domain.Node, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, type, natural_key, digest, fields FROM nodes WHERE id = ?
	`, id)
	return scanNode(row)
}

// GetNodeByKey retrieves the node with the given type and natural key.
func (s *Store) GetNodeByKey(ctx context.Context, t domain.NodeType, naturalKey string) (*domain.Node, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, type, natural_key, digest, fields FROM nodes
		WHERE type = ? AND natural_key = ?
	`, string(t), naturalKey)
	return scanNode(row)
}

// ListNodes returns all nodes with the given type tag, ordered by
// natural key.
func (s *Store) ListNodes(ctx context.Context, t domain.NodeType) ([]domain.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, natural_key, digest, fields FROM nodes
		WHERE type = ? ORDER BY natural_key
	`, string(t))
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}
	defer rows.Close()

	var nodes []domain.Node
	for rows.Next() {
		node, err := scanNodeRow(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *node)
	}
	return nodes, rows.Err()
}

// DeleteNode removes a node by ID.
func (s *Store) DeleteNode(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM nodes WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting node: %w", err)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for shared node scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanNode(row *sql.Row) (*domain.Node, error) {
	node, err := scanNodeRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return node, err
}

func scanNodeRow(sc scanner) (*domain.Node, error) {
	var node domain.Node
	var nodeType, fieldsJSON string

	if err := sc.Scan(&node.ID, &nodeType, &node.NaturalKey, &node.Digest, &fieldsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning node: %w", err)
	}

	node.Type = domain.NodeType(nodeType)
	if err := json.Unmarshal([]byte(fieldsJSON), &node.Fields); err != nil {
		return nil, fmt.Errorf("unmarshalling fields: %w", err)
	}

	return &node, nil
}

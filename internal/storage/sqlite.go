package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"doctoolkit/internal/graph"

	_ "github.com/mattn/go-sqlite3"
)

var _ Store = (*SQLiteStore)(nil)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS members (
			code_ref TEXT PRIMARY KEY,
			kind TEXT,
			name TEXT,
			owner TEXT,
			assembly TEXT,
			documented INTEGER,
			extension INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS docs (
			code_ref TEXT PRIMARY KEY,
			summary TEXT,
			xml TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS extensions (
			code_ref TEXT PRIMARY KEY,
			kind TEXT,
			name TEXT,
			extended_type TEXT,
			container TEXT,
			block TEXT,
			static INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS edges (
			from_id TEXT,
			to_id TEXT,
			kind TEXT,
			PRIMARY KEY (from_id, to_id, kind)
		);`,
		`CREATE TABLE IF NOT EXISTS unresolved (
			from_id TEXT,
			target TEXT,
			kind TEXT,
			reason TEXT,
			candidates JSON
		);`,
		`CREATE INDEX IF NOT EXISTS idx_members_owner ON members(owner);`,
		`CREATE INDEX IF NOT EXISTS idx_extensions_type ON extensions(extended_type);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveSnapshot replaces every table with the contents of snap in one
// transaction.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"members", "docs", "extensions", "edges", "unresolved"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	// 1. Save Members
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO members (code_ref, kind, name, owner, assembly, documented, extension)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code_ref) DO UPDATE SET
			kind=excluded.kind,
			name=excluded.name,
			owner=excluded.owner,
			assembly=excluded.assembly,
			documented=excluded.documented,
			extension=excluded.extension
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, m := range snap.Members {
		if _, err := stmt.ExecContext(ctx, m.CodeRef, m.Kind, m.Name, m.Owner, m.Assembly, m.Documented, m.Extension); err != nil {
			return err
		}
	}

	// 2. Save Docs
	docStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO docs (code_ref, summary, xml) VALUES (?, ?, ?)
		ON CONFLICT(code_ref) DO UPDATE SET summary=excluded.summary, xml=excluded.xml
	`)
	if err != nil {
		return err
	}
	defer docStmt.Close()
	for _, d := range snap.Docs {
		if _, err := docStmt.ExecContext(ctx, d.CodeRef, d.Summary, d.XML); err != nil {
			return err
		}
	}

	// 3. Save Extensions
	extStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO extensions (code_ref, kind, name, extended_type, container, block, static)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code_ref) DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer extStmt.Close()
	for _, e := range snap.Extensions {
		if _, err := extStmt.ExecContext(ctx, e.CodeRef, e.Kind, e.Name, e.ExtendedType, e.Container, e.Block, e.Static); err != nil {
			return err
		}
	}

	// 4. Save Edges
	edgeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (from_id, to_id, kind) VALUES (?, ?, ?)
		ON CONFLICT(from_id, to_id, kind) DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer edgeStmt.Close()
	for _, edge := range snap.Edges {
		if _, err := edgeStmt.ExecContext(ctx, edge.From, edge.To, string(edge.Kind)); err != nil {
			return err
		}
	}

	// 5. Save Unresolved
	unresolvedStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO unresolved (from_id, target, kind, reason, candidates) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer unresolvedStmt.Close()
	for _, u := range snap.Unresolved {
		candidates, err := json.Marshal(u.Candidates)
		if err != nil {
			return err
		}
		if _, err := unresolvedStmt.ExecContext(ctx, u.From, u.Target, string(u.Kind), string(u.Reason), candidates); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	var err error

	if snap.Members, err = s.members(ctx); err != nil {
		return nil, err
	}

	docRows, err := s.db.QueryContext(ctx, "SELECT code_ref, summary, xml FROM docs ORDER BY code_ref")
	if err != nil {
		return nil, fmt.Errorf("failed to query docs: %w", err)
	}
	defer docRows.Close()
	for docRows.Next() {
		var d DocRecord
		if err := docRows.Scan(&d.CodeRef, &d.Summary, &d.XML); err != nil {
			return nil, fmt.Errorf("failed to scan doc: %w", err)
		}
		snap.Docs = append(snap.Docs, d)
	}
	if err := docRows.Err(); err != nil {
		return nil, err
	}

	if snap.Extensions, err = s.Extensions(ctx); err != nil {
		return nil, err
	}
	if snap.Edges, err = s.edges(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT from_id, target, kind, reason, candidates FROM unresolved ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query unresolved: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var u graph.Unresolved
		var kind, reason string
		var candidates []byte
		if err := rows.Scan(&u.From, &u.Target, &kind, &reason, &candidates); err != nil {
			return nil, fmt.Errorf("failed to scan unresolved: %w", err)
		}
		u.Kind = graph.RelationKind(kind)
		u.Reason = graph.UnresolvedReason(reason)
		if len(candidates) > 0 {
			_ = json.Unmarshal(candidates, &u.Candidates)
		}
		snap.Unresolved = append(snap.Unresolved, u)
	}
	return snap, rows.Err()
}

func (s *SQLiteStore) LoadGraph(ctx context.Context) (*graph.Graph, error) {
	g := graph.NewGraph()

	// 1. Load Nodes
	members, err := s.members(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		g.Nodes[m.CodeRef] = &graph.Node{Symbol: &graph.Symbol{
			ID:         m.CodeRef,
			Kind:       m.Kind,
			Name:       m.Name,
			Owner:      m.Owner,
			Assembly:   m.Assembly,
			Documented: m.Documented,
			Extension:  m.Extension,
		}}
	}

	// Rebuild name index for lookups
	g.RebuildIndices()

	// 2. Load Edges
	if g.Edges, err = s.edges(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *SQLiteStore) GetDoc(ctx context.Context, codeRef string) (*DocRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT code_ref, summary, xml FROM docs WHERE code_ref = ?", codeRef)

	var d DocRecord
	if err := row.Scan(&d.CodeRef, &d.Summary, &d.XML); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("doc %s: %w", codeRef, ErrNotFound)
		}
		return nil, err
	}
	return &d, nil
}

func (s *SQLiteStore) Extensions(ctx context.Context) ([]ExtensionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code_ref, kind, name, extended_type, container, block, static
		FROM extensions ORDER BY extended_type, name, code_ref`)
	if err != nil {
		return nil, fmt.Errorf("failed to query extensions: %w", err)
	}
	defer rows.Close()

	var out []ExtensionRecord
	for rows.Next() {
		var e ExtensionRecord
		if err := rows.Scan(&e.CodeRef, &e.Kind, &e.Name, &e.ExtendedType, &e.Container, &e.Block, &e.Static); err != nil {
			return nil, fmt.Errorf("failed to scan extension: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) members(ctx context.Context) ([]MemberRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT code_ref, kind, name, owner, assembly, documented, extension FROM members ORDER BY code_ref")
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var out []MemberRecord
	for rows.Next() {
		var m MemberRecord
		if err := rows.Scan(&m.CodeRef, &m.Kind, &m.Name, &m.Owner, &m.Assembly, &m.Documented, &m.Extension); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) edges(ctx context.Context) ([]graph.Edge, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT from_id, to_id, kind FROM edges ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	out := []graph.Edge{}
	for rows.Next() {
		var edge graph.Edge
		var kind string
		if err := rows.Scan(&edge.From, &edge.To, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edge.Kind = graph.RelationKind(kind)
		out = append(out, edge)
	}
	return out, rows.Err()
}

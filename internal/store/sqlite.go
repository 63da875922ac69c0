package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eldtechnologies/agentdesk/internal/models"
)

// SQLiteStore keeps agents in a SQLite database. The default DSN is an
// in-memory database that lives as long as the store.
type SQLiteStore struct {
	db   *sql.DB
	opts options
}

// NewSQLiteStore opens a SQLite store.
// If dsn is empty, defaults to ":memory:".
func NewSQLiteStore(ctx context.Context, dsn string, opts ...Option) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection keeps an in-memory database alive and serializes
	// writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &SQLiteStore{db: db, opts: buildOptions(opts)}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	// seq preserves insertion order. email is indexed but not unique:
	// updates may introduce duplicates, only creates are checked.
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		mobile_number TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_agents_email ON agents(email);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const agentColumns = `id, first_name, last_name, email, mobile_number, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (*models.PropertyAgent, error) {
	agent := &models.PropertyAgent{}
	var createdAt, updatedAt int64
	err := row.Scan(
		&agent.ID,
		&agent.FirstName,
		&agent.LastName,
		&agent.Email,
		&agent.MobileNumber,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	agent.CreatedAt = time.Unix(0, createdAt).UTC()
	agent.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return agent, nil
}

// withTx runs fn in a transaction, committing only if fn succeeds.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func getAgentTx(ctx context.Context, tx *sql.Tx, id string) (*models.PropertyAgent, error) {
	agent, err := scanAgent(tx.QueryRowContext(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get agent: %w", err)
	}
	return agent, nil
}

// Create inserts a new agent unless one with the same email exists.
func (s *SQLiteStore) Create(ctx context.Context, fields models.AgentFields) (*models.PropertyAgent, error) {
	var agent *models.PropertyAgent

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM agents WHERE email = ? LIMIT 1`, fields.Email).Scan(&exists)
		switch {
		case err == nil:
			return ErrConflict
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("check email: %w", err)
		}

		now := s.opts.now().UTC()
		agent = &models.PropertyAgent{
			ID:           s.opts.newID(),
			FirstName:    fields.FirstName,
			LastName:     fields.LastName,
			Email:        fields.Email,
			MobileNumber: fields.MobileNumber,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO agents (`+agentColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, agent.ID, agent.FirstName, agent.LastName, agent.Email, agent.MobileNumber,
			now.UnixNano(), now.UnixNano())
		if err != nil {
			return fmt.Errorf("insert agent: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// List returns all agents in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]models.PropertyAgent, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+agentColumns+` FROM agents ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	agents := make([]models.PropertyAgent, 0)
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, *agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return agents, nil
}

// Get retrieves an agent by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.PropertyAgent, error) {
	agent, err := scanAgent(s.db.QueryRowContext(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get agent: %w", err)
	}
	return agent, nil
}

// Update overwrites the fields present in patch and refreshes updated_at.
// Fields are not re-validated and email uniqueness is not re-checked.
func (s *SQLiteStore) Update(ctx context.Context, id string, patch models.AgentPatch) (*models.PropertyAgent, error) {
	var agent *models.PropertyAgent

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		agent, err = getAgentTx(ctx, tx, id)
		if err != nil {
			return err
		}

		patch.Apply(agent)
		agent.UpdatedAt = nextUpdate(s.opts.now().UTC(), agent.UpdatedAt)

		_, err = tx.ExecContext(ctx, `
			UPDATE agents
			SET first_name = ?, last_name = ?, email = ?, mobile_number = ?, updated_at = ?
			WHERE id = ?
		`, agent.FirstName, agent.LastName, agent.Email, agent.MobileNumber,
			agent.UpdatedAt.UnixNano(), id)
		if err != nil {
			return fmt.Errorf("update agent: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// Delete removes the agent and returns it.
func (s *SQLiteStore) Delete(ctx context.Context, id string) (*models.PropertyAgent, error) {
	var agent *models.PropertyAgent

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		agent, err = getAgentTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM agents WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete agent: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// Count returns the number of stored agents.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count agents: %w", err)
	}
	return count, nil
}

package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"tailorai/internal/infra"
)

// DefaultTable holds the client state when no table name is configured.
const DefaultTable = "tailor_client_state"

// PostgresStore keeps records in a key/value table. Statements carry the
// "--sql <uuid>" marker line so they can run through infra.SQLRunner.
type PostgresStore struct {
	exec  infra.SQLExecutor
	table string
	close func()

	mu    sync.Mutex
	ready bool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore uses exec for every statement. closeFn, when set, is
// called by Close to release the underlying pool.
func NewPostgresStore(exec infra.SQLExecutor, table string, closeFn func()) (*PostgresStore, error) {
	if exec == nil {
		return nil, errors.New("history: sql executor is required")
	}
	table = strings.TrimSpace(table)
	if table == "" {
		table = DefaultTable
	}
	return &PostgresStore{exec: exec, table: pq.QuoteIdentifier(table), close: closeFn}, nil
}

// ensureTable creates the table on first use. A failed attempt is retried by
// the next call.
func (s *PostgresStore) ensureTable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	if _, err := s.exec.Exec(ctx, fmt.Sprintf(qCreateStateTable, s.table)); err != nil {
		return fmt.Errorf("history: create table: %w", err)
	}
	s.ready = true
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.ensureTable(ctx); err != nil {
		return nil, err
	}
	var value []byte
	err := s.exec.QueryRow(ctx, fmt.Sprintf(qSelectState, s.table), key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history: select: %w", err)
	}
	return value, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.ensureTable(ctx); err != nil {
		return err
	}
	_, err := s.exec.Exec(ctx, fmt.Sprintf(qUpsertState, s.table), key, value)
	if err != nil {
		return fmt.Errorf("history: upsert: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if err := s.ensureTable(ctx); err != nil {
		return err
	}
	if _, err := s.exec.Exec(ctx, fmt.Sprintf(qDeleteState, s.table), key); err != nil {
		return fmt.Errorf("history: delete: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

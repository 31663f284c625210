package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Config struct {
	DSN     string        `envconfig:"DSN"`
	Timeout time.Duration `split_words:"true" default:"5s"`
}

// Turn is one appended row. Rows are never read back by the agent.
type Turn struct {
	bun.BaseModel `bun:"table:transcript_turns,alias:tt"`

	ID         uuid.UUID                  `bun:"id,pk,type:uuid"`
	SessionID  uuid.UUID                  `bun:"session_id,type:uuid,notnull"`
	Mode       string                     `bun:"mode,notnull"`
	PairLabel  string                     `bun:"pair_label"`
	UserText   string                     `bun:"user_text,notnull"`
	ResultType string                     `bun:"result_type,notnull"`
	Reply      string                     `bun:"reply"`
	Kind       string                     `bun:"kind,notnull"`
	ToolCalls  []contractx.ToolCallRecord `bun:"tool_calls,type:jsonb"`
	CreatedAt  time.Time                  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type Store interface {
	Append(ctx context.Context, turn *Turn) error
	Close() error
}

// Nop drops every turn.
type Nop struct{}

func (Nop) Append(context.Context, *Turn) error { return nil }

func (Nop) Close() error { return nil }

type PostgresStore struct {
	db      *bun.DB
	timeout time.Duration
	logger  zerolog.Logger
}

// NewDB builds a bun handle without connecting.
func NewDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func NewPostgresStore(db *bun.DB, timeout time.Duration, logger *zerolog.Logger) *PostgresStore {
	s := &PostgresStore{db: db, timeout: timeout, logger: log.Logger}
	if logger != nil {
		s.logger = *logger
	}
	return s
}

// Open returns Nop for an empty DSN. Otherwise it connects and creates the
// table when missing.
func Open(ctx context.Context, cfg Config, logger *zerolog.Logger) (Store, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return Nop{}, nil
	}

	store := NewPostgresStore(NewDB(dsn), cfg.Timeout, logger)
	if err := store.migrate(ctx); err != nil {
		_ = store.db.Close()
		return nil, err
	}
	store.logger.Info().Msg("transcript store ready")
	return store, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("transcript ping: %w", err)
	}
	if _, err := s.CreateTableQuery().Exec(ctx); err != nil {
		return fmt.Errorf("transcript migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateTableQuery() *bun.CreateTableQuery {
	return s.db.NewCreateTable().Model((*Turn)(nil)).IfNotExists()
}

// InsertQuery fills the row id and returns the insert for turn.
func (s *PostgresStore) InsertQuery(turn *Turn) *bun.InsertQuery {
	if turn.ID == uuid.Nil {
		turn.ID = uuid.New()
	}
	if turn.ToolCalls == nil {
		turn.ToolCalls = []contractx.ToolCallRecord{}
	}
	return s.db.NewInsert().Model(turn)
}

func (s *PostgresStore) Append(ctx context.Context, turn *Turn) error {
	if turn == nil {
		return nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.InsertQuery(turn).Exec(ctx); err != nil {
		return fmt.Errorf("transcript append: %w", err)
	}
	s.logger.Debug().Str("session_id", turn.SessionID.String()).Str("kind", turn.Kind).Msg("turn appended")
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

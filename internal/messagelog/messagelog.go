// Package messagelog is an append-only audit trail of chat and call traffic.
// Entries are written as a side effect of the conversational flows and are
// never read back by the service.
package messagelog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	ChannelChat = "chat"
	ChannelSMS  = "sms"
	ChannelCall = "call"

	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

type Entry struct {
	ID        uuid.UUID      `json:"id"`
	Channel   string         `json:"channel"`
	Direction string         `json:"direction"`
	Content   string         `json:"content"`
	Context   map[string]any `json:"context,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Recorder appends one directional unit of communication. Callers treat
// failures as best-effort: they log and move on.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// DB is the subset of pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgRepository struct {
	db DB
}

func NewPgRepository(db DB) *PgRepository {
	return &PgRepository{db: db}
}

func (r *PgRepository) Record(ctx context.Context, e Entry) error {
	id := e.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO message_logs (id, channel, direction, content, context, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`, id, e.Channel, e.Direction, e.Content, e.Context)

	return err
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = sql.ErrNoRows

// BatchRepo records completed generation batches. History only — the
// pipeline itself never reads back from here (no state persists across
// requests by design).
type BatchRepo struct{ DB *sql.DB }

func NewBatchRepo(db *sql.DB) *BatchRepo { return &BatchRepo{DB: db} }

// BatchRow is one completed batch.
type BatchRow struct {
	ID        int64
	CreatedAt time.Time
	ChatID    int64
	Kind      string // "ai" | "bi" | "mcq" | "content"
	Topic     string
	Language  string
	Model     string
	Requested int
	Emitted   int
	Dropped   int
	Fallbacks int
}

// EnsureSchema creates the history table on startup.
func (r *BatchRepo) EnsureSchema(ctx context.Context) error {
	const q = `
create table if not exists mcq_batches (
  id         bigserial primary key,
  created_at timestamptz not null default now(),
  chat_id    bigint not null,
  kind       text not null,
  topic      text,
  language   text,
  model      text,
  requested  int not null default 0,
  emitted    int not null default 0,
  dropped    int not null default 0,
  fallbacks  int not null default 0
);
create index if not exists mcq_batches_chat_created
  on mcq_batches (chat_id, created_at desc)`
	_, err := r.DB.ExecContext(ctx, q)
	return err
}

func (r *BatchRepo) Insert(ctx context.Context, row BatchRow) error {
	const q = `
insert into mcq_batches (
  chat_id, kind, topic, language, model,
  requested, emitted, dropped, fallbacks
) values ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.DB.ExecContext(ctx, q,
		row.ChatID, row.Kind, row.Topic, row.Language, row.Model,
		row.Requested, row.Emitted, row.Dropped, row.Fallbacks,
	)
	return err
}

// Recent returns the latest batches for a chat, newest first.
func (r *BatchRepo) Recent(ctx context.Context, chatID int64, limit int) ([]BatchRow, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
select id, created_at, chat_id, kind,
       coalesce(topic,'') as topic,
       coalesce(language,'') as language,
       coalesce(model,'') as model,
       requested, emitted, dropped, fallbacks
from mcq_batches
where chat_id = $1
order by created_at desc
limit $2`
	rows, err := r.DB.QueryContext(ctx, q, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BatchRow
	for rows.Next() {
		var b BatchRow
		if err := rows.Scan(&b.ID, &b.CreatedAt, &b.ChatID, &b.Kind,
			&b.Topic, &b.Language, &b.Model,
			&b.Requested, &b.Emitted, &b.Dropped, &b.Fallbacks); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// PurgeOlderThan trims old history so the table does not grow unbounded.
func (r *BatchRepo) PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, errors.New("olderThan must be > 0")
	}
	cutoff := time.Now().Add(-olderThan)
	const q = `delete from mcq_batches where created_at < $1`
	res, err := r.DB.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}

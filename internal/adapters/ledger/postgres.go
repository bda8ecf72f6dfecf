package ledger

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	qSchema = `CREATE TABLE IF NOT EXISTS fulfillment_submissions (
    order_id          BIGINT      NOT NULL,
    line_item_id      BIGINT      NOT NULL,
    status            TEXT        NOT NULL DEFAULT 'pending',
    provider_order_id BIGINT,
    reserved_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    submitted_at      TIMESTAMPTZ,
    PRIMARY KEY (order_id, line_item_id)
);`

	qReserve = `INSERT INTO fulfillment_submissions (order_id, line_item_id)
VALUES ($1, $2)
ON CONFLICT (order_id, line_item_id) DO NOTHING;`

	qMarkSubmitted = `UPDATE fulfillment_submissions
SET status = 'submitted', provider_order_id = $3, submitted_at = now()
WHERE order_id = $1 AND line_item_id = $2;`

	qRelease = `DELETE FROM fulfillment_submissions
WHERE order_id = $1 AND line_item_id = $2 AND status = 'pending';`
)

// PostgresLedger persists reservations, so deduplication survives restarts.
// The table doubles as the audit log of every submitted pair.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

func NewPostgresLedger(pool *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{pool: pool}
}

// EnsureSchema creates the submissions table when missing.
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	_, err := l.pool.Exec(ctx, qSchema)
	return err
}

func (l *PostgresLedger) Reserve(ctx context.Context, orderID, itemID int64) (bool, error) {
	ct, err := l.pool.Exec(ctx, qReserve, orderID, itemID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

func (l *PostgresLedger) MarkSubmitted(ctx context.Context, orderID, itemID, providerOrderID int64) error {
	_, err := l.pool.Exec(ctx, qMarkSubmitted, orderID, itemID, providerOrderID)
	return err
}

// Release only frees pending reservations; a submitted pair stays claimed.
func (l *PostgresLedger) Release(ctx context.Context, orderID, itemID int64) error {
	_, err := l.pool.Exec(ctx, qRelease, orderID, itemID)
	return err
}

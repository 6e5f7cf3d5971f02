package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Tx exposes the repos bound to one open database transaction.
// Everything written through a Tx becomes visible to other transactions only
// when WithTx commits.
type Tx interface {
	History() HistoryRepo
	BusLegs() BusLegRepo
	Queries() QueryRepo
	Routes() RouteRepo
	Analytics() AnalyticsRepo
}

// TxManager runs a unit of work inside a single database transaction.
// The service layer depends on this interface so it can be unit-tested with a
// fake that records commits and rollbacks.
type TxManager interface {
	// WithTx begins a transaction at the given isolation level and calls fn.
	// The transaction is committed if fn returns nil and rolled back otherwise,
	// including when fn panics. Errors from fn are wrapped, so callers match
	// them with errors.Is.
	WithTx(ctx context.Context, iso pgx.TxIsoLevel, fn func(Tx) error) error
}

// txBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

type pgTxManager struct {
	pool txBeginner
}

// NewTxManager constructs a TxManager that opens transactions on pool.
func NewTxManager(pool txBeginner) TxManager {
	return &pgTxManager{pool: pool}
}

// WithTx delegates to pgx.BeginTxFunc, whose deferred Rollback is a no-op
// after a successful Commit.
func (m *pgTxManager) WithTx(ctx context.Context, iso pgx.TxIsoLevel, fn func(Tx) error) error {
	err := pgx.BeginTxFunc(ctx, m.pool, pgx.TxOptions{IsoLevel: iso}, func(tx pgx.Tx) error {
		return fn(pgTx{tx: tx})
	})
	if err != nil {
		return fmt.Errorf("repo.TxManager.WithTx: %w", err)
	}
	return nil
}

// pgTx binds every repo to the same pgx.Tx.
type pgTx struct {
	tx pgx.Tx
}

func (t pgTx) History() HistoryRepo     { return NewHistoryRepo(t.tx) }
func (t pgTx) BusLegs() BusLegRepo      { return NewBusLegRepo(t.tx) }
func (t pgTx) Queries() QueryRepo       { return NewQueryRepo(t.tx) }
func (t pgTx) Routes() RouteRepo        { return NewRouteRepo(t.tx) }
func (t pgTx) Analytics() AnalyticsRepo { return NewAnalyticsRepo(t.tx) }

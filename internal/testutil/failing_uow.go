package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync/atomic"

	"github.com/alexanderramin/cadence/internal/db"
)

// FailOnNthExecUoW fails the FailOn-th write of a transaction with Err and
// rolls the transaction back. With Table set only writes to that table
// (plans, placements, checklist_queues, ...) are counted, so a test can say
// "the second placements write" instead of counting every statement the
// service issues. Reads are never counted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	Table  string
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	w := &failingTx{DBTX: tx, failOn: u.FailOn, err: u.Err}
	if u.Table != "" {
		w.table = regexp.MustCompile(`(?i)\b(INTO|UPDATE|FROM)\s+` + regexp.QuoteMeta(u.Table) + `\b`)
	}
	if err := fn(ctx, w); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type failingTx struct {
	db.DBTX
	table  *regexp.Regexp
	writes atomic.Int32
	failOn int32
	err    error
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.table == nil || f.table.MatchString(query) {
		if f.writes.Add(1) == f.failOn {
			return nil, f.err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

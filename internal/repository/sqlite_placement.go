package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

// placementColumns is the canonical SELECT column list for placements.
const placementColumns = `id, plan_id, date, activity_name, hours, kind, status, source,
		checklist_json, created_at`

// SQLitePlacementRepo implements PlacementRepo using a SQLite database.
type SQLitePlacementRepo struct {
	db db.DBTX
}

// NewSQLitePlacementRepo creates a new SQLitePlacementRepo.
func NewSQLitePlacementRepo(conn db.DBTX) *SQLitePlacementRepo {
	return &SQLitePlacementRepo{db: conn}
}

func (r *SQLitePlacementRepo) Create(ctx context.Context, p *domain.ActivityPlacement) error {
	checklistJSON, err := encodeChecklist(p.Checklist)
	if err != nil {
		return err
	}
	query := `INSERT INTO placements (` + placementColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.PlanID,
		formatDate(p.Date),
		p.ActivityName,
		p.Hours,
		string(p.Kind),
		string(p.Status),
		string(p.Source),
		checklistJSON,
		p.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting placement: %w", err)
	}
	return nil
}

// CreateBatch inserts placements in order. Callers wanting all-or-nothing
// semantics run it inside a UnitOfWork.
func (r *SQLitePlacementRepo) CreateBatch(ctx context.Context, placements []*domain.ActivityPlacement) error {
	for i, p := range placements {
		if err := r.Create(ctx, p); err != nil {
			return fmt.Errorf("placement %d of %d: %w", i+1, len(placements), err)
		}
	}
	return nil
}

// ListByPlan returns placements in chronological order. Placements sharing a
// date keep their insertion order, which is the allocator's priority order.
func (r *SQLitePlacementRepo) ListByPlan(ctx context.Context, planID string, from, to time.Time) ([]*domain.ActivityPlacement, error) {
	var where strings.Builder
	where.WriteString("plan_id = ?")
	args := []any{planID}
	if !from.IsZero() {
		where.WriteString(" AND date >= ?")
		args = append(args, formatDate(from))
	}
	if !to.IsZero() {
		where.WriteString(" AND date <= ?")
		args = append(args, formatDate(to))
	}
	query := `SELECT ` + placementColumns + ` FROM placements WHERE ` + where.String() +
		` ORDER BY date, rowid`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing placements: %w", err)
	}
	defer rows.Close()
	return r.scanPlacements(rows)
}

func (r *SQLitePlacementRepo) ListExams(ctx context.Context, planID string) ([]*domain.ActivityPlacement, error) {
	query := `SELECT ` + placementColumns + ` FROM placements
		WHERE plan_id = ? AND source = 'exam' ORDER BY date, rowid`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("listing exams: %w", err)
	}
	defer rows.Close()
	return r.scanPlacements(rows)
}

// DeleteGeneratedFrom removes every generated placement dated on or after
// from. Exam events are never touched.
func (r *SQLitePlacementRepo) DeleteGeneratedFrom(ctx context.Context, planID string, from time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM placements WHERE plan_id = ? AND source = 'generated' AND date >= ?`,
		planID, formatDate(from))
	if err != nil {
		return 0, fmt.Errorf("deleting generated placements: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting generated placements: %w", err)
	}
	return n, nil
}

// DeleteGeneratedOn clears the generated placements of a single day.
func (r *SQLitePlacementRepo) DeleteGeneratedOn(ctx context.Context, planID string, date time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM placements WHERE plan_id = ? AND source = 'generated' AND date = ?`,
		planID, formatDate(date))
	if err != nil {
		return 0, fmt.Errorf("deleting generated placements: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting generated placements: %w", err)
	}
	return n, nil
}

func (r *SQLitePlacementRepo) scanPlacements(rows *sql.Rows) ([]*domain.ActivityPlacement, error) {
	var out []*domain.ActivityPlacement
	for rows.Next() {
		var p domain.ActivityPlacement
		var dateStr, kindStr, statusStr, sourceStr, checklistJSON, createdAtStr string
		err := rows.Scan(
			&p.ID, &p.PlanID, &dateStr, &p.ActivityName, &p.Hours,
			&kindStr, &statusStr, &sourceStr, &checklistJSON, &createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning placement row: %w", err)
		}
		p.Kind = domain.ActivityKind(kindStr)
		p.Status = domain.PlacementStatus(statusStr)
		p.Source = domain.PlacementSource(sourceStr)
		if p.Date, err = parseDate("date", dateStr); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTimestamp("created_at", createdAtStr); err != nil {
			return nil, err
		}
		if p.Checklist, err = decodeChecklist(checklistJSON); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating placements: %w", err)
	}
	return out, nil
}

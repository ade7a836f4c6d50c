package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

const seedVersionKey = "checklist_seed_version"

// SQLiteChecklistQueueRepo implements ChecklistQueueRepo. Each activity's
// queue is one JSON document in checklist_queues.
type SQLiteChecklistQueueRepo struct {
	db db.DBTX
}

// NewSQLiteChecklistQueueRepo creates a new SQLiteChecklistQueueRepo.
func NewSQLiteChecklistQueueRepo(conn db.DBTX) *SQLiteChecklistQueueRepo {
	return &SQLiteChecklistQueueRepo{db: conn}
}

// SeedVersion returns the recorded seed version, or "" if never seeded.
func (r *SQLiteChecklistQueueRepo) SeedVersion(ctx context.Context) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM checklist_meta WHERE key = ?`, seedVersionKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading checklist seed version: %w", err)
	}
	return v, nil
}

func (r *SQLiteChecklistQueueRepo) MarkSeeded(ctx context.Context, version string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO checklist_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		seedVersionKey, version)
	if err != nil {
		return fmt.Errorf("marking checklists seeded: %w", err)
	}
	return nil
}

// GetQueue returns the pending checklists for activity, or nil when the
// activity has no queue.
func (r *SQLiteChecklistQueueRepo) GetQueue(ctx context.Context, activity string) ([][]domain.ChecklistItem, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT queue_json FROM checklist_queues WHERE activity_name = ?`, activity).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading checklist queue: %w", err)
	}
	var queue [][]domain.ChecklistItem
	if err := json.Unmarshal([]byte(raw), &queue); err != nil {
		return nil, fmt.Errorf("decoding checklist queue %q: %w", activity, err)
	}
	return queue, nil
}

func (r *SQLiteChecklistQueueRepo) PutQueue(ctx context.Context, activity string, queue [][]domain.ChecklistItem) error {
	if queue == nil {
		queue = [][]domain.ChecklistItem{}
	}
	b, err := json.Marshal(queue)
	if err != nil {
		return fmt.Errorf("encoding checklist queue %q: %w", activity, err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO checklist_queues (activity_name, queue_json, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(activity_name) DO UPDATE SET queue_json = excluded.queue_json, updated_at = excluded.updated_at`,
		activity, string(b), nowUTC())
	if err != nil {
		return fmt.Errorf("writing checklist queue: %w", err)
	}
	return nil
}

func (r *SQLiteChecklistQueueRepo) ListActivities(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT activity_name FROM checklist_queues ORDER BY activity_name`)
	if err != nil {
		return nil, fmt.Errorf("listing checklist activities: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning checklist activity: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating checklist activities: %w", err)
	}
	return names, nil
}

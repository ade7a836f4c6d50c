package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

// planColumns is the canonical SELECT column list for plans.
const planColumns = `id, user_id, exam_date, start_date, end_date, hours_json,
		adaptive_tutoring, anki_variant, cars, uworld, aamc, balance, created_at, updated_at`

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.PlanConfig) error {
	hoursJSON, err := encodeHours(p.Hours)
	if err != nil {
		return err
	}
	query := `INSERT INTO plans (` + planColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		nullableDate(p.ExamDate),
		formatDate(p.StartDate),
		formatDate(p.EndDate),
		hoursJSON,
		boolToInt(p.Resources.AdaptiveTutoring),
		string(p.Resources.Anki),
		boolToInt(p.Resources.CARS),
		boolToInt(p.Resources.UWorld),
		boolToInt(p.Resources.AAMC),
		string(p.Balance.Normalize()),
		p.CreatedAt.UTC().Format(time.RFC3339),
		p.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.PlanConfig, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`
	return r.scanPlan(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLitePlanRepo) GetByUser(ctx context.Context, userID string) (*domain.PlanConfig, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE user_id = ?`
	return r.scanPlan(r.db.QueryRowContext(ctx, query, userID))
}

func (r *SQLitePlanRepo) Update(ctx context.Context, p *domain.PlanConfig) error {
	hoursJSON, err := encodeHours(p.Hours)
	if err != nil {
		return err
	}
	query := `UPDATE plans SET exam_date = ?, start_date = ?, end_date = ?, hours_json = ?,
		adaptive_tutoring = ?, anki_variant = ?, cars = ?, uworld = ?, aamc = ?, balance = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableDate(p.ExamDate),
		formatDate(p.StartDate),
		formatDate(p.EndDate),
		hoursJSON,
		boolToInt(p.Resources.AdaptiveTutoring),
		string(p.Resources.Anki),
		boolToInt(p.Resources.CARS),
		boolToInt(p.Resources.UWorld),
		boolToInt(p.Resources.AAMC),
		string(p.Balance.Normalize()),
		p.UpdatedAt.UTC().Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating plan: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("plan: %w", ErrNotFound)
	}
	return nil
}

// Delete removes the plan and, through the foreign key, all its placements.
func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) scanPlan(row *sql.Row) (*domain.PlanConfig, error) {
	var p domain.PlanConfig
	var examDateStr sql.NullString
	var startStr, endStr, hoursJSON, ankiStr, balanceStr, createdAtStr, updatedAtStr string
	var adaptive, cars, uworld, aamc int

	err := row.Scan(
		&p.ID, &p.UserID, &examDateStr, &startStr, &endStr, &hoursJSON,
		&adaptive, &ankiStr, &cars, &uworld, &aamc, &balanceStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	p.ExamDate = parseNullableDate(examDateStr)
	p.Resources = domain.ResourceFlags{
		AdaptiveTutoring: intToBool(adaptive),
		Anki:             domain.AnkiVariant(ankiStr),
		CARS:             intToBool(cars),
		UWorld:           intToBool(uworld),
		AAMC:             intToBool(aamc),
	}
	p.Balance = domain.Balance(balanceStr)

	if p.Hours, err = decodeHours(hoursJSON); err != nil {
		return nil, err
	}
	if p.StartDate, err = parseDate("start_date", startStr); err != nil {
		return nil, err
	}
	if p.EndDate, err = parseDate("end_date", endStr); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTimestamp("created_at", createdAtStr); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp("updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return &p, nil
}

// encodeHours stores weekly hours keyed by weekday name.
func encodeHours(h domain.WeeklyHours) (string, error) {
	byName := make(map[string]int, len(h))
	for d, v := range h {
		byName[d.String()] = v
	}
	b, err := json.Marshal(byName)
	if err != nil {
		return "", fmt.Errorf("encoding hours: %w", err)
	}
	return string(b), nil
}

func decodeHours(s string) (domain.WeeklyHours, error) {
	var byName map[string]int
	if err := json.Unmarshal([]byte(s), &byName); err != nil {
		return nil, fmt.Errorf("decoding hours: %w", err)
	}
	hours := make(domain.WeeklyHours, len(byName))
	for name, v := range byName {
		d, err := domain.ParseWeekday(name)
		if err != nil {
			return nil, fmt.Errorf("decoding hours: %w", err)
		}
		hours[d] = v
	}
	return hours, nil
}

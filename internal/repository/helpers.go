package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// parseNullableDate parses a sql.NullString into a calendar day.
// Returns the zero time if the value is NULL, empty, or fails to parse.
func parseNullableDate(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(domain.DateLayout, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullableDate converts a calendar day to a value suitable for SQLite storage.
// The zero time becomes SQL NULL.
func nullableDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return domain.Day(t).Format(domain.DateLayout)
}

func formatDate(t time.Time) string {
	return domain.Day(t).Format(domain.DateLayout)
}

func parseDate(column, s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

func parseTimestamp(column, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// encodeChecklist renders a checklist as a JSON array; nil becomes "[]".
func encodeChecklist(items []domain.ChecklistItem) (string, error) {
	if items == nil {
		items = []domain.ChecklistItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encoding checklist: %w", err)
	}
	return string(b), nil
}

func decodeChecklist(s string) ([]domain.ChecklistItem, error) {
	items := []domain.ChecklistItem{}
	if s == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, fmt.Errorf("decoding checklist: %w", err)
	}
	return items, nil
}

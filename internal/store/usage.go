package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UsageRecord is one subject's activity on one UTC day.
type UsageRecord struct {
	Subject  string    `json:"subject"`
	Day      string    `json:"day"`
	Count    int       `json:"count"`
	LastUsed time.Time `json:"lastUsed"`
}

// TryIncrementUsage adds one unit for subject on day unless the count has
// already reached limit. ok is false when the unit was refused. The check and
// the write are a single statement, so concurrent callers cannot overshoot.
func TryIncrementUsage(ctx context.Context, db *sql.DB, subject, day string, limit int, at time.Time) (n int, ok bool, err error) {
	if limit <= 0 {
		return 0, false, nil
	}
	err = db.QueryRowContext(ctx, `
INSERT INTO usage(subject, day, count, last_used)
VALUES(?, ?, 1, ?)
ON CONFLICT(subject, day) DO UPDATE SET
  count = count + 1,
  last_used = excluded.last_used
WHERE usage.count < ?
RETURNING count;`, subject, day, formatTime(at), limit).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("increment usage: %w", err)
	}
	return n, true, nil
}

// ReleaseUsage gives back one unit taken by TryIncrementUsage.
func ReleaseUsage(ctx context.Context, db *sql.DB, subject, day string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE usage SET count = count - 1 WHERE subject = ? AND day = ? AND count > 0;`,
		subject, day)
	if err != nil {
		return fmt.Errorf("release usage: %w", err)
	}
	return nil
}

// GetUsage returns the record for subject on day (YYYY-MM-DD). A day with no
// activity yields a zero record.
func GetUsage(ctx context.Context, db *sql.DB, subject, day string) (UsageRecord, error) {
	rec := UsageRecord{Subject: subject, Day: day}
	var lastUsed string
	err := db.QueryRowContext(ctx,
		`SELECT count, last_used FROM usage WHERE subject = ? AND day = ?;`, subject, day,
	).Scan(&rec.Count, &lastUsed)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, nil
	}
	if err != nil {
		return UsageRecord{}, err
	}
	rec.LastUsed = parseTime(lastUsed)
	return rec, nil
}

// CleanupUsage deletes records for days strictly before beforeDay.
func CleanupUsage(ctx context.Context, db *sql.DB, beforeDay string) (deleted int64, err error) {
	res, err := db.ExecContext(ctx, `DELETE FROM usage WHERE day < ?;`, beforeDay)
	if err != nil {
		return 0, fmt.Errorf("cleanup usage: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

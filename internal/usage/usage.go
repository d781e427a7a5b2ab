// Package usage enforces the free daily analysis allowance.
package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"resumematch-engine/internal/store"
)

const DefaultDailyLimit = 3

// ErrLimitReached is returned by Reserve when the subject has no units left
// today.
var ErrLimitReached = errors.New("daily usage limit reached")

const dayLayout = "2006-01-02"

// Gate counts units per subject per UTC day. A disabled gate allows
// everything and records nothing.
type Gate struct {
	DB      *sql.DB
	Limit   int
	Enabled bool

	// Now is overridable in tests.
	Now func() time.Time
}

type Status struct {
	Limit     int        `json:"limit"`
	Used      int        `json:"used"`
	Remaining int        `json:"remaining"`
	LastUsed  *time.Time `json:"lastUsed,omitempty"`
}

func (g *Gate) now() time.Time {
	if g.Now != nil {
		return g.Now().UTC()
	}
	return time.Now().UTC()
}

func (g *Gate) limit() int {
	if g.Limit <= 0 {
		return DefaultDailyLimit
	}
	return g.Limit
}

// Day is the bucket key for t.
func Day(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

func (g *Gate) Status(ctx context.Context, subject string) (Status, error) {
	limit := g.limit()
	if !g.Enabled {
		return Status{Limit: limit, Remaining: limit}, nil
	}
	rec, err := store.GetUsage(ctx, g.DB, subject, Day(g.now()))
	if err != nil {
		return Status{}, err
	}
	st := Status{Limit: limit, Used: rec.Count, Remaining: max(limit-rec.Count, 0)}
	if !rec.LastUsed.IsZero() {
		st.LastUsed = &rec.LastUsed
	}
	return st, nil
}

// Reservation is one unit taken from a subject's daily allowance.
type Reservation struct {
	g       *Gate
	subject string
	day     string
	held    bool
}

// Reserve takes one unit for subject today, or fails with ErrLimitReached.
// The limit check and the increment happen in one store statement.
func (g *Gate) Reserve(ctx context.Context, subject string) (*Reservation, error) {
	if !g.Enabled {
		return &Reservation{}, nil
	}
	now := g.now()
	day := Day(now)
	_, ok, err := store.TryIncrementUsage(ctx, g.DB, subject, day, g.limit(), now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLimitReached
	}
	return &Reservation{g: g, subject: subject, day: day, held: true}, nil
}

// Release returns the unit to the day it was taken from. Releasing twice, or
// releasing a reservation from a disabled gate, is a no-op.
func (r *Reservation) Release(ctx context.Context) error {
	if r == nil || !r.held {
		return nil
	}
	r.held = false
	return store.ReleaseUsage(ctx, r.g.DB, r.subject, r.day)
}

// Cleanup drops records older than retentionDays days.
func (g *Gate) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := g.now().AddDate(0, 0, -retentionDays)
	return store.CleanupUsage(ctx, g.DB, Day(cutoff))
}

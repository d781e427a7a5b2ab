package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type EventType string

const (
	EventInterview   EventType = "interview"
	EventApplication EventType = "application"
	EventOffer       EventType = "offer"
	EventRejection   EventType = "rejection"
	EventFollowUp    EventType = "follow-up"
	EventOther       EventType = "other"
)

func (t EventType) Valid() bool {
	switch t {
	case EventInterview, EventApplication, EventOffer, EventRejection, EventFollowUp, EventOther:
		return true
	}
	return false
}

type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AddNote appends a note to the job and bumps its updatedAt.
func AddNote(ctx context.Context, db *sql.DB, userID, jobID, content string) (Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Note{}, fmt.Errorf("%w: note content is required", ErrInvalidJob)
	}
	n := Note{ID: uuid.NewString(), Content: content, CreatedAt: time.Now().UTC()}

	err := withOwnedJob(ctx, db, userID, jobID, n.CreatedAt, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO job_notes(id, job_id, content, created_at) VALUES(?,?,?,?);`,
			n.ID, jobID, n.Content, formatTime(n.CreatedAt))
		return err
	})
	if err != nil {
		return Note{}, err
	}
	return n, nil
}

// AddEvent appends a timeline event to the job. A zero Date means now.
func AddEvent(ctx context.Context, db *sql.DB, userID, jobID string, e Event) (Event, error) {
	if !e.Type.Valid() {
		return Event{}, fmt.Errorf("%w: %q", ErrInvalidEventType, e.Type)
	}
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return Event{}, fmt.Errorf("%w: event title is required", ErrInvalidJob)
	}
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()
	if e.Date.IsZero() {
		e.Date = e.CreatedAt
	}
	e.Date = e.Date.UTC()

	err := withOwnedJob(ctx, db, userID, jobID, e.CreatedAt, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO job_events(id, job_id, type, title, description, date, created_at)
VALUES(?,?,?,?,?,?,?);`,
			e.ID, jobID, string(e.Type), e.Title, e.Description, formatTime(e.Date), formatTime(e.CreatedAt))
		return err
	})
	if err != nil {
		return Event{}, err
	}
	return e, nil
}

// withOwnedJob runs fn in a transaction after touching the job's updated_at,
// failing with ErrNotFound when the user does not own the job.
func withOwnedJob(ctx context.Context, db *sql.DB, userID, jobID string, at time.Time, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE jobs SET updated_at = ? WHERE id = ? AND user_id = ?;`,
		formatTime(at), jobID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func loadChildren(ctx context.Context, db *sql.DB, j *Job) error {
	rows, err := db.QueryContext(ctx,
		`SELECT id, content, created_at FROM job_notes WHERE job_id = ? ORDER BY created_at, id;`, j.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var n Note
		var createdAt string
		if err := rows.Scan(&n.ID, &n.Content, &createdAt); err != nil {
			rows.Close()
			return err
		}
		n.CreatedAt = parseTime(createdAt)
		j.Notes = append(j.Notes, n)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	rows, err = db.QueryContext(ctx, `
SELECT id, type, title, description, date, created_at
FROM job_events WHERE job_id = ? ORDER BY date, created_at;`, j.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var e Event
		var typ, date, createdAt string
		if err := rows.Scan(&e.ID, &typ, &e.Title, &e.Description, &date, &createdAt); err != nil {
			return err
		}
		e.Type = EventType(typ)
		e.Date = parseTime(date)
		e.CreatedAt = parseTime(createdAt)
		j.Events = append(j.Events, e)
	}
	return rows.Err()
}

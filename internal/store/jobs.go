package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusRejected Status = "rejected"
	StatusAccepted Status = "accepted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusArchived, StatusRejected, StatusAccepted:
		return true
	}
	return false
}

// NoScore marks a job whose description has never been analyzed.
const NoScore = -1

const DefaultPageSize = 20

type Job struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	Company         string     `json:"company"`
	Position        string     `json:"position"`
	Location        string     `json:"location"`
	JobDescription  string     `json:"jobDescription"`
	Status          Status     `json:"status"`
	ApplicationDate *time.Time `json:"applicationDate,omitempty"`
	Salary          string     `json:"salary,omitempty"`
	URL             string     `json:"url,omitempty"`
	MatchScore      int        `json:"matchScore"`
	Notes           []Note     `json:"notes"`
	Events          []Event    `json:"events"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// JobPatch carries the fields of an update; nil fields are left alone.
type JobPatch struct {
	Company         *string    `json:"company"`
	Position        *string    `json:"position"`
	Location        *string    `json:"location"`
	JobDescription  *string    `json:"jobDescription"`
	Status          *Status    `json:"status"`
	ApplicationDate *time.Time `json:"applicationDate"`
	Salary          *string    `json:"salary"`
	URL             *string    `json:"url"`
}

type ListJobsOpts struct {
	Limit  int
	Before string // id of the last job of the previous page
}

type JobPage struct {
	Jobs       []Job  `json:"jobs"`
	NextCursor string `json:"nextCursor,omitempty"`
}

const jobColumns = `id, user_id, company, position, location, job_description, status,
  application_date, salary, url, match_score, created_at, updated_at`

// CreateJob inserts j for its UserID. ID, Status, MatchScore and CreatedAt are
// filled in when empty.
func CreateJob(ctx context.Context, db *sql.DB, j Job) (Job, error) {
	j.UserID = strings.TrimSpace(j.UserID)
	j.Company = strings.TrimSpace(j.Company)
	j.Position = strings.TrimSpace(j.Position)
	if j.UserID == "" || j.Company == "" || j.Position == "" {
		return Job{}, fmt.Errorf("%w: user, company and position are required", ErrInvalidJob)
	}
	if j.Status == "" {
		j.Status = StatusActive
	}
	if !j.Status.Valid() {
		return Job{}, fmt.Errorf("%w: %q", ErrInvalidStatus, j.Status)
	}
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now()
	}
	j.CreatedAt = j.CreatedAt.UTC()
	j.MatchScore = NoScore
	j.UpdatedAt = nil
	j.Notes = []Note{}
	j.Events = []Event{}

	_, err := db.ExecContext(ctx, `
INSERT INTO jobs(id, user_id, company, position, location, job_description, status,
  application_date, salary, url, match_score, created_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?);`,
		j.ID, j.UserID, j.Company, j.Position, j.Location, j.JobDescription, string(j.Status),
		nullableTime(j.ApplicationDate), j.Salary, j.URL, j.MatchScore, formatTime(j.CreatedAt))
	if err != nil {
		return Job{}, fmt.Errorf("insert job: %w", err)
	}
	return j, nil
}

// GetJob returns the job with its notes and events. Jobs of other users are
// reported as ErrNotFound.
func GetJob(ctx context.Context, db *sql.DB, userID, id string) (Job, error) {
	row := db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ? AND user_id = ?;`, id, userID)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, err
	}
	if err := loadChildren(ctx, db, &j); err != nil {
		return Job{}, err
	}
	return j, nil
}

// ListJobs returns a page of the user's jobs, newest first.
func ListJobs(ctx context.Context, db *sql.DB, userID string, opts ListJobsOpts) (JobPage, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultPageSize
	}

	args := []any{userID}
	where := "WHERE user_id = ?"
	if opts.Before != "" {
		var createdAt string
		err := db.QueryRowContext(ctx,
			`SELECT created_at FROM jobs WHERE id = ? AND user_id = ?;`, opts.Before, userID,
		).Scan(&createdAt)
		if errors.Is(err, sql.ErrNoRows) {
			return JobPage{}, fmt.Errorf("cursor %q: %w", opts.Before, ErrNotFound)
		}
		if err != nil {
			return JobPage{}, err
		}
		where += " AND (created_at < ? OR (created_at = ? AND id < ?))"
		args = append(args, createdAt, createdAt, opts.Before)
	}
	// one extra row tells whether another page exists
	args = append(args, opts.Limit+1)

	rows, err := db.QueryContext(ctx, `
SELECT `+jobColumns+`
FROM jobs
`+where+`
ORDER BY created_at DESC, id DESC
LIMIT ?;`, args...)
	if err != nil {
		return JobPage{}, err
	}

	jobs := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			rows.Close()
			return JobPage{}, err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return JobPage{}, err
	}
	rows.Close()

	page := JobPage{Jobs: jobs}
	if len(jobs) > opts.Limit {
		page.Jobs = jobs[:opts.Limit]
		page.NextCursor = page.Jobs[opts.Limit-1].ID
	}

	// children are loaded after the rows are closed: the pool has one connection
	for i := range page.Jobs {
		if err := loadChildren(ctx, db, &page.Jobs[i]); err != nil {
			return JobPage{}, err
		}
	}
	return page, nil
}

// AllJobs returns every job of the user, newest first.
func AllJobs(ctx context.Context, db *sql.DB, userID string) ([]Job, error) {
	var out []Job
	opts := ListJobsOpts{Limit: 200}
	for {
		page, err := ListJobs(ctx, db, userID, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Jobs...)
		if page.NextCursor == "" {
			return out, nil
		}
		opts.Before = page.NextCursor
	}
}

func UpdateJob(ctx context.Context, db *sql.DB, userID, id string, p JobPatch) (Job, error) {
	j, err := GetJob(ctx, db, userID, id)
	if err != nil {
		return Job{}, err
	}

	if p.Company != nil {
		j.Company = strings.TrimSpace(*p.Company)
	}
	if p.Position != nil {
		j.Position = strings.TrimSpace(*p.Position)
	}
	if j.Company == "" || j.Position == "" {
		return Job{}, fmt.Errorf("%w: company and position are required", ErrInvalidJob)
	}
	if p.Location != nil {
		j.Location = *p.Location
	}
	if p.JobDescription != nil {
		j.JobDescription = *p.JobDescription
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return Job{}, fmt.Errorf("%w: %q", ErrInvalidStatus, *p.Status)
		}
		j.Status = *p.Status
	}
	if p.ApplicationDate != nil {
		j.ApplicationDate = p.ApplicationDate
	}
	if p.Salary != nil {
		j.Salary = *p.Salary
	}
	if p.URL != nil {
		j.URL = *p.URL
	}
	now := time.Now().UTC()
	j.UpdatedAt = &now

	_, err = db.ExecContext(ctx, `
UPDATE jobs SET company = ?, position = ?, location = ?, job_description = ?, status = ?,
  application_date = ?, salary = ?, url = ?, updated_at = ?
WHERE id = ? AND user_id = ?;`,
		j.Company, j.Position, j.Location, j.JobDescription, string(j.Status),
		nullableTime(j.ApplicationDate), j.Salary, j.URL, formatTime(now), j.ID, userID)
	if err != nil {
		return Job{}, fmt.Errorf("update job: %w", err)
	}
	return j, nil
}

// DeleteJob removes the job along with its notes and events.
func DeleteJob(ctx context.Context, db *sql.DB, userID, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id = ? AND user_id = ?;`, id, userID)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM job_notes WHERE job_id = ?;`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM job_events WHERE job_id = ?;`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// SetMatchScore records the score of the latest analysis of the job.
func SetMatchScore(ctx context.Context, db *sql.DB, userID, id string, score int) error {
	res, err := db.ExecContext(ctx,
		`UPDATE jobs SET match_score = ?, updated_at = ? WHERE id = ? AND user_id = ?;`,
		score, formatTime(time.Now()), id, userID)
	if err != nil {
		return fmt.Errorf("set match score: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(s rowScanner) (Job, error) {
	var (
		j         Job
		status    string
		appDate   sql.NullString
		createdAt string
		updatedAt sql.NullString
	)
	if err := s.Scan(
		&j.ID,
		&j.UserID,
		&j.Company,
		&j.Position,
		&j.Location,
		&j.JobDescription,
		&status,
		&appDate,
		&j.Salary,
		&j.URL,
		&j.MatchScore,
		&createdAt,
		&updatedAt,
	); err != nil {
		return Job{}, err
	}
	j.Status = Status(status)
	j.ApplicationDate = scanNullableTime(appDate)
	j.CreatedAt = parseTime(createdAt)
	j.UpdatedAt = scanNullableTime(updatedAt)
	j.Notes = []Note{}
	j.Events = []Event{}
	return j, nil
}

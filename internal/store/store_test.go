package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "engine.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.Pool
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	v, err := userVersion(db)
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, v)
}

func TestCreateAndGetJob(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	applied := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	created, err := CreateJob(ctx, db, Job{
		UserID:          "u1",
		Company:         " Acme ",
		Position:        "Backend Engineer",
		JobDescription:  "Go, PostgreSQL and Kubernetes",
		ApplicationDate: &applied,
		Salary:          "120k",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Acme", created.Company)
	assert.Equal(t, StatusActive, created.Status)
	assert.Equal(t, NoScore, created.MatchScore)

	got, err := GetJob(ctx, db, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Go, PostgreSQL and Kubernetes", got.JobDescription)
	require.NotNil(t, got.ApplicationDate)
	assert.True(t, applied.Equal(*got.ApplicationDate))
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	assert.Nil(t, got.UpdatedAt)
	assert.Empty(t, got.Notes)
	assert.NotNil(t, got.Events)

	_, err = GetJob(ctx, db, "someone-else", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = GetJob(ctx, db, "u1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateJobValidation(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := CreateJob(ctx, db, Job{UserID: "u1", Company: "Acme"})
	assert.ErrorIs(t, err, ErrInvalidJob)

	_, err = CreateJob(ctx, db, Job{UserID: "u1", Company: "Acme", Position: "SRE", Status: "pending"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateJob(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	j, err := CreateJob(ctx, db, Job{UserID: "u1", Company: "Acme", Position: "SRE", Location: "Remote"})
	require.NoError(t, err)

	rejected := StatusRejected
	pos := "Senior SRE"
	updated, err := UpdateJob(ctx, db, "u1", j.ID, JobPatch{Status: &rejected, Position: &pos})
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, updated.Status)
	assert.Equal(t, "Senior SRE", updated.Position)
	assert.Equal(t, "Remote", updated.Location)
	require.NotNil(t, updated.UpdatedAt)

	got, err := GetJob(ctx, db, "u1", j.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Position, got.Position)
	assert.Equal(t, StatusRejected, got.Status)
	require.NotNil(t, got.UpdatedAt)

	bad := Status("ghosted")
	_, err = UpdateJob(ctx, db, "u1", j.ID, JobPatch{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	empty := " "
	_, err = UpdateJob(ctx, db, "u1", j.ID, JobPatch{Company: &empty})
	assert.ErrorIs(t, err, ErrInvalidJob)

	_, err = UpdateJob(ctx, db, "u2", j.ID, JobPatch{Position: &pos})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotesAndEvents(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	j, err := CreateJob(ctx, db, Job{UserID: "u1", Company: "Acme", Position: "SRE"})
	require.NoError(t, err)

	n, err := AddNote(ctx, db, "u1", j.ID, "Recruiter called")
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)

	_, err = AddNote(ctx, db, "u1", j.ID, "   ")
	assert.ErrorIs(t, err, ErrInvalidJob)

	interview := time.Date(2026, 4, 1, 15, 0, 0, 0, time.UTC)
	e, err := AddEvent(ctx, db, "u1", j.ID, Event{Type: EventInterview, Title: "Onsite", Date: interview})
	require.NoError(t, err)
	assert.True(t, interview.Equal(e.Date))

	_, err = AddEvent(ctx, db, "u1", j.ID, Event{Type: "party", Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidEventType)

	_, err = AddNote(ctx, db, "u2", j.ID, "not mine")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = AddEvent(ctx, db, "u1", "missing", Event{Type: EventOther, Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := GetJob(ctx, db, "u1", j.ID)
	require.NoError(t, err)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "Recruiter called", got.Notes[0].Content)
	require.Len(t, got.Events, 1)
	assert.Equal(t, EventInterview, got.Events[0].Type)
	assert.NotNil(t, got.UpdatedAt)
}

func TestDeleteJob(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	j, err := CreateJob(ctx, db, Job{UserID: "u1", Company: "Acme", Position: "SRE"})
	require.NoError(t, err)
	_, err = AddNote(ctx, db, "u1", j.ID, "note")
	require.NoError(t, err)

	assert.ErrorIs(t, DeleteJob(ctx, db, "u2", j.ID), ErrNotFound)
	require.NoError(t, DeleteJob(ctx, db, "u1", j.ID))
	assert.ErrorIs(t, DeleteJob(ctx, db, "u1", j.ID), ErrNotFound)

	var notes int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM job_notes;`).Scan(&notes))
	assert.Zero(t, notes)
}

func TestListJobsPagination(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := CreateJob(ctx, db, Job{
			UserID:    "u1",
			Company:   "Co",
			Position:  string(rune('A' + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := CreateJob(ctx, db, Job{UserID: "u2", Company: "Other", Position: "Z"})
	require.NoError(t, err)

	page, err := ListJobs(ctx, db, "u1", ListJobsOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Jobs, 2)
	assert.Equal(t, "E", page.Jobs[0].Position)
	assert.Equal(t, "D", page.Jobs[1].Position)
	require.NotEmpty(t, page.NextCursor)

	page, err = ListJobs(ctx, db, "u1", ListJobsOpts{Limit: 2, Before: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, page.Jobs, 2)
	assert.Equal(t, "C", page.Jobs[0].Position)
	assert.Equal(t, "B", page.Jobs[1].Position)

	page, err = ListJobs(ctx, db, "u1", ListJobsOpts{Limit: 2, Before: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, page.Jobs, 1)
	assert.Equal(t, "A", page.Jobs[0].Position)
	assert.Empty(t, page.NextCursor)

	_, err = ListJobs(ctx, db, "u1", ListJobsOpts{Before: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := AllJobs(ctx, db, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	empty, err := ListJobs(ctx, db, "nobody", ListJobsOpts{})
	require.NoError(t, err)
	assert.NotNil(t, empty.Jobs)
	assert.Empty(t, empty.Jobs)
}

func TestSetMatchScore(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	j, err := CreateJob(ctx, db, Job{UserID: "u1", Company: "Acme", Position: "SRE"})
	require.NoError(t, err)

	require.NoError(t, SetMatchScore(ctx, db, "u1", j.ID, 72))
	got, err := GetJob(ctx, db, "u1", j.ID)
	require.NoError(t, err)
	assert.Equal(t, 72, got.MatchScore)

	assert.ErrorIs(t, SetMatchScore(ctx, db, "u2", j.ID, 10), ErrNotFound)
}

func TestUsageCounters(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	rec, err := GetUsage(ctx, db, "u1", "2026-05-04")
	require.NoError(t, err)
	assert.Zero(t, rec.Count)
	assert.True(t, rec.LastUsed.IsZero())

	for want := 1; want <= 3; want++ {
		n, ok, err := TryIncrementUsage(ctx, db, "u1", "2026-05-04", 3, at)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, n)
	}
	_, ok, err := TryIncrementUsage(ctx, db, "u1", "2026-05-04", 3, at)
	require.NoError(t, err)
	assert.False(t, ok, "limit reached")

	_, ok, err = TryIncrementUsage(ctx, db, "u1", "2026-05-03", 3, at)
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = TryIncrementUsage(ctx, db, "u2", "2026-05-04", 3, at)
	require.NoError(t, err)
	assert.True(t, ok)

	rec, err = GetUsage(ctx, db, "u1", "2026-05-04")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Count)
	assert.True(t, at.Equal(rec.LastUsed))

	require.NoError(t, ReleaseUsage(ctx, db, "u1", "2026-05-04"))
	rec, err = GetUsage(ctx, db, "u1", "2026-05-04")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Count)

	deleted, err := CleanupUsage(ctx, db, "2026-05-04")
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	rec, err = GetUsage(ctx, db, "u1", "2026-05-03")
	require.NoError(t, err)
	assert.Zero(t, rec.Count)
}

func TestTryIncrementUsageConcurrent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	var (
		wg      sync.WaitGroup
		granted atomic.Int32
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := TryIncrementUsage(ctx, db, "u1", "2026-05-04", 3, at)
			assert.NoError(t, err)
			if ok {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 3, granted.Load())
	rec, err := GetUsage(ctx, db, "u1", "2026-05-04")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Count)
}

func TestReleaseUsageNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, ReleaseUsage(ctx, db, "nobody", "2026-05-04"))

	_, _, err := TryIncrementUsage(ctx, db, "u1", "2026-05-04", 1, time.Now())
	require.NoError(t, err)
	require.NoError(t, ReleaseUsage(ctx, db, "u1", "2026-05-04"))
	require.NoError(t, ReleaseUsage(ctx, db, "u1", "2026-05-04"))

	rec, err := GetUsage(ctx, db, "u1", "2026-05-04")
	require.NoError(t, err)
	assert.Zero(t, rec.Count)
}

func TestCheckpoint(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, Checkpoint(context.Background(), db))
}

package rank

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumematch-engine/internal/store"
)

type fixedScorer struct {
	scores map[string]int
	calls  atomic.Int32
}

func (s *fixedScorer) Score(j store.Job) (int, []string) {
	s.calls.Add(1)
	return s.scores[j.ID], nil
}

func TestRankOrdersByScoreThenNewest(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jobs := []store.Job{
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base.Add(time.Hour)},
		{ID: "c", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "d", CreatedAt: base.Add(3 * time.Hour)},
	}
	s := &fixedScorer{scores: map[string]int{"a": 50, "b": 90, "c": 50, "d": 10}}

	ranked, err := Rank(context.Background(), s, jobs, 2)
	require.NoError(t, err)

	var ids []string
	for _, r := range ranked {
		ids = append(ids, r.Job.ID)
		assert.NotNil(t, r.MatchedKeywords)
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids)
	assert.EqualValues(t, 4, s.calls.Load())
}

func TestRankCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Rank(ctx, &fixedScorer{}, []store.Job{{ID: "a"}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRankEmpty(t *testing.T) {
	ranked, err := Rank(context.Background(), &fixedScorer{}, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestMatchScorer(t *testing.T) {
	s := NewMatchScorer("Senior developer with Kubernetes, Terraform and PostgreSQL experience")

	score, tags := s.Score(store.Job{JobDescription: "Kubernetes and Terraform required"})
	assert.Equal(t, 100, score)
	assert.Equal(t, []string{"kubernetes", "terraform"}, tags)

	score, tags = s.Score(store.Job{JobDescription: "Kubernetes, Rust"})
	assert.Equal(t, 50, score)
	assert.Equal(t, []string{"kubernetes"}, tags)

	score, _ = s.Score(store.Job{})
	assert.Equal(t, 0, score)
}

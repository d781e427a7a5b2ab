package rank

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"resumematch-engine/internal/store"
)

type Ranked struct {
	Job             store.Job `json:"job"`
	Score           int       `json:"score"`
	MatchedKeywords []string  `json:"matchedKeywords"`
}

// Rank scores jobs with at most workers concurrent scorers and returns them
// best first. Ties keep the newest job first.
func Rank(ctx context.Context, scorer Scorer, jobs []store.Job, workers int) ([]Ranked, error) {
	if workers <= 0 {
		workers = 1
	}
	out := make([]Ranked, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score, tags := scorer.Score(j)
			if tags == nil {
				tags = []string{}
			}
			out[i] = Ranked{Job: j, Score: score, MatchedKeywords: tags}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Job.CreatedAt.After(out[b].Job.CreatedAt)
	})
	return out, nil
}

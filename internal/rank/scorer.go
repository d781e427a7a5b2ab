package rank

import (
	"resumematch-engine/internal/match"
	"resumematch-engine/internal/store"
)

type Scorer interface {
	Score(job store.Job) (score int, tags []string)
}

// MatchScorer scores a stored job's description against one resume. Its tags
// are the matched keywords.
type MatchScorer struct {
	resume match.KeywordSet
}

func NewMatchScorer(resumeText string) MatchScorer {
	return MatchScorer{resume: match.ExtractKeywords(resumeText)}
}

func (s MatchScorer) Score(job store.Job) (int, []string) {
	jobKeywords := match.ExtractKeywords(job.JobDescription)
	matched, _ := match.Match(jobKeywords, s.resume)
	return match.Score(matched.Len(), jobKeywords.Len()), matched.Sorted()
}

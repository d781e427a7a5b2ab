package match

import (
	"fmt"
	"math"
	"strings"
)

type FindingKind string

const (
	Positive FindingKind = "positive"
	Negative FindingKind = "negative"
)

type Finding struct {
	Kind FindingKind `json:"type"`
	Text string      `json:"text"`
}

// Result is the outcome of comparing one resume with one job description.
type Result struct {
	Score       int       `json:"matchScore"`
	Matched     []string  `json:"matchedKeywords"`
	Missing     []string  `json:"missingKeywords"`
	Findings    []Finding `json:"findings"`
	Suggestions []string  `json:"suggestions"`
}

const (
	strongMatchScore   = 80
	needsRevisionScore = 60
)

var (
	missingKeywordSuggestions = []string{
		"Consider adding the missing keywords to your resume where applicable",
		"Customise your resume to better match the job requirements",
		"Use similar terminology as found in the job description",
	}
	lowScoreSuggestions = []string{
		"Your resume might need significant revision to match this job's requirements",
		"Review the job description carefully and highlight relevant experience",
	}
)

// Analyze scores resumeText against jobDescription. It never fails: empty
// input produces a zero score with no keywords.
func Analyze(resumeText, jobDescription string) Result {
	jobKeywords := ExtractKeywords(jobDescription)
	resumeKeywords := ExtractKeywords(resumeText)

	matched, missing := Match(jobKeywords, resumeKeywords)
	return Report(jobKeywords.Len(), matched, missing)
}

// Match splits the job keywords into those found in the resume and those
// that are not. A job keyword is found when some resume keyword contains it,
// is contained by it, or is a near-duplicate spelling of it.
func Match(jobKeywords, resumeKeywords KeywordSet) (matched, missing KeywordSet) {
	matched, missing = KeywordSet{}, KeywordSet{}
	for k := range jobKeywords {
		if foundIn(strings.ToLower(k), resumeKeywords) {
			matched.Add(k)
		} else {
			missing.Add(k)
		}
	}
	return matched, missing
}

func foundIn(k string, resumeKeywords KeywordSet) bool {
	for r := range resumeKeywords {
		r = strings.ToLower(r)
		if strings.Contains(r, k) || strings.Contains(k, r) || Similarity(r, k) > NearDuplicate {
			return true
		}
	}
	return false
}

// Score is the rounded percentage of job keywords matched; zero when the job
// has no keywords.
func Score(matched, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(matched) / float64(total) * 100))
}

// Report builds findings and suggestions from an already computed match.
func Report(total int, matched, missing KeywordSet) Result {
	res := Result{
		Score:       Score(matched.Len(), total),
		Matched:     matched.Sorted(),
		Missing:     missing.Sorted(),
		Findings:    []Finding{},
		Suggestions: []string{},
	}

	if res.Score >= strongMatchScore {
		res.Findings = append(res.Findings, Finding{Kind: Positive, Text: "Strong keyword match with job requirements"})
	}
	if n := matched.Len(); n > 0 {
		res.Findings = append(res.Findings, Finding{Kind: Positive, Text: fmt.Sprintf("Successfully matched %d key skills/requirements", n)})
	}
	if n := missing.Len(); n > 0 {
		res.Findings = append(res.Findings, Finding{Kind: Negative, Text: fmt.Sprintf("Missing %d important keywords from job description", n)})
		res.Suggestions = append(res.Suggestions, missingKeywordSuggestions...)
	}
	if res.Score < needsRevisionScore {
		res.Suggestions = append(res.Suggestions, lowScoreSuggestions...)
	}
	return res
}

// Package ats estimates how well an applicant tracking system would parse a
// resume: which standard sections it can find and which formatting habits
// are likely to trip it up.
package ats

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

type Section struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Confidence int      `json:"confidence"`
	Issues     []string `json:"issues"`
}

type Result struct {
	Sections         []Section `json:"sections"`
	OverallScore     int       `json:"overallScore"`
	FormatIssues     []string  `json:"formatIssues"`
	StructureScore   int       `json:"structureScore"`
	ReadabilityScore int       `json:"readabilityScore"`
	Recommendations  []string  `json:"recommendations"`
}

const (
	decorativeChars    = "│║█"
	maxWordRunes       = 30
	maxSectionRunes    = 1000
	minSections        = 4
	minConfidence      = 70
	decorativePenalty  = 20
	doubleSpacePenalty = 10
	longWordPenalty    = 15
)

// sectionHeadings are looked for in this order.
var sectionHeadings = []string{
	"experience",
	"education",
	"skills",
	"summary",
	"objective",
	"certifications",
	"projects",
}

var headingPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(sectionHeadings))
	for _, h := range sectionHeadings {
		m[h] = regexp.MustCompile(`(?i)\b` + h + `\b`)
	}
	return m
}()

var asciiLetter = regexp.MustCompile(`[A-Za-z]`)

// Simulate runs the parse heuristics over resume text.
func Simulate(text string) Result {
	res := Result{
		Sections:         []Section{},
		FormatIssues:     []string{},
		StructureScore:   100,
		ReadabilityScore: 100,
	}

	if strings.ContainsAny(text, decorativeChars) {
		res.FormatIssues = append(res.FormatIssues, "Detected special characters or text boxes that may not parse correctly")
		res.StructureScore -= decorativePenalty
	}
	if strings.Contains(text, "  ") {
		res.FormatIssues = append(res.FormatIssues, "Multiple spaces detected - may cause parsing issues")
		res.StructureScore -= doubleSpacePenalty
	}

	res.Sections = findSections(text)

	for _, w := range strings.Fields(text) {
		if utf8.RuneCountInString(w) > maxWordRunes {
			res.ReadabilityScore -= longWordPenalty
			res.FormatIssues = append(res.FormatIssues, "Found extremely long words or unbroken strings")
			break
		}
	}

	res.Recommendations = recommendations(res.FormatIssues, res.Sections)
	res.OverallScore = int(math.Round(float64(res.StructureScore+res.ReadabilityScore) / 2))
	return res
}

// findSections accepts a heading only when it appears after the previously
// accepted one, so out-of-order headings are treated as body text.
func findSections(text string) []Section {
	out := []Section{}
	last := -1
	for _, h := range sectionHeadings {
		loc := headingPatterns[h].FindStringIndex(text)
		if loc == nil || loc[0] <= last {
			continue
		}
		start := loc[0]
		end := len(text)
		if nl := strings.IndexByte(text[start:], '\n'); nl >= 0 {
			end = start + nl
		}
		content := text[start:end]
		out = append(out, Section{
			Title:      h,
			Content:    strings.TrimSpace(content),
			Confidence: sectionConfidence(content),
			Issues:     sectionIssues(content),
		})
		last = start
	}
	return out
}

func sectionConfidence(content string) int {
	c := 100
	if utf8.RuneCountInString(content) < 10 {
		c -= 30
	}
	if len(strings.Split(content, "\n")) < 2 {
		c -= 20
	}
	if !asciiLetter.MatchString(content) {
		c -= 50
	}
	return max(0, c)
}

func sectionIssues(content string) []string {
	issues := []string{}
	if strings.Contains(content, "•") {
		issues = append(issues, "Bullet points may not parse correctly in some ATS systems")
	}
	if strings.ContainsAny(content, decorativeChars) {
		issues = append(issues, "Decorative characters detected")
	}
	if utf8.RuneCountInString(content) > maxSectionRunes {
		issues = append(issues, "Section may be too long for effective parsing")
	}
	return issues
}

func recommendations(formatIssues []string, sections []Section) []string {
	var out []string
	if len(formatIssues) > 0 {
		out = append(out,
			"Consider using a simpler format with standard characters",
			"Avoid using text boxes, tables, or columns",
		)
	}
	if len(sections) < minSections {
		out = append(out, "Add clear section headers for Experience, Education, and Skills")
	}
	for _, s := range sections {
		if s.Confidence < minConfidence {
			out = append(out, "Ensure each section has clear content and proper formatting")
			break
		}
	}
	return append(out,
		"Use a single-column layout for better ATS compatibility",
		"Stick to standard section headings",
		"Use common fonts like Arial or Calibri",
	)
}

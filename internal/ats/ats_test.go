package ats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var closingRecommendations = []string{
	"Use a single-column layout for better ATS compatibility",
	"Stick to standard section headings",
	"Use common fonts like Arial or Calibri",
}

func TestSimulateCleanResume(t *testing.T) {
	text := strings.Join([]string{
		"Jane Doe",
		"Experience: Acme Corp, backend engineer 2019-2024",
		"Education: BSc Computer Science",
		"Skills: Go, Kubernetes, PostgreSQL",
		"Projects: open source contributions",
	}, "\n")

	res := Simulate(text)

	require.Len(t, res.Sections, 4)
	titles := make([]string, 0, len(res.Sections))
	for _, s := range res.Sections {
		titles = append(titles, s.Title)
		assert.Equal(t, 80, s.Confidence, "single-line section %q", s.Title)
		assert.Empty(t, s.Issues)
	}
	assert.Equal(t, []string{"experience", "education", "skills", "projects"}, titles)
	assert.Equal(t, "Skills: Go, Kubernetes, PostgreSQL", res.Sections[2].Content)

	assert.Empty(t, res.FormatIssues)
	assert.Equal(t, 100, res.StructureScore)
	assert.Equal(t, 100, res.ReadabilityScore)
	assert.Equal(t, 100, res.OverallScore)
	assert.Equal(t, closingRecommendations, res.Recommendations)
}

func TestSimulateFormattingPenalties(t *testing.T) {
	res := Simulate("Skills │ Go  Rust")

	assert.Equal(t, 70, res.StructureScore)
	assert.Equal(t, 100, res.ReadabilityScore)
	assert.Equal(t, 85, res.OverallScore)
	assert.Len(t, res.FormatIssues, 2)

	require.Len(t, res.Sections, 1)
	assert.Equal(t, []string{"Decorative characters detected"}, res.Sections[0].Issues)

	want := append([]string{
		"Consider using a simpler format with standard characters",
		"Avoid using text boxes, tables, or columns",
		"Add clear section headers for Experience, Education, and Skills",
	}, closingRecommendations...)
	assert.Equal(t, want, res.Recommendations)
}

func TestSimulateLongWordAndWeakSection(t *testing.T) {
	res := Simulate("Summary\n" + strings.Repeat("a", 31))

	assert.Equal(t, 85, res.ReadabilityScore)
	assert.Equal(t, 93, res.OverallScore)
	assert.Contains(t, res.FormatIssues, "Found extremely long words or unbroken strings")

	require.Len(t, res.Sections, 1)
	assert.Equal(t, 50, res.Sections[0].Confidence)
	assert.Contains(t, res.Recommendations, "Ensure each section has clear content and proper formatting")
}

func TestSimulateHeadingsOutOfOrder(t *testing.T) {
	res := Simulate("Skills first\nExperience later")

	require.Len(t, res.Sections, 1)
	assert.Equal(t, "experience", res.Sections[0].Title)
	assert.Equal(t, "Experience later", res.Sections[0].Content)
}

func TestSimulateBulletsAndLongSection(t *testing.T) {
	res := Simulate("Projects • " + strings.Repeat("x ", 600))

	require.Len(t, res.Sections, 1)
	assert.Equal(t, []string{
		"Bullet points may not parse correctly in some ATS systems",
		"Section may be too long for effective parsing",
	}, res.Sections[0].Issues)
}

func TestSimulateEmpty(t *testing.T) {
	res := Simulate("")

	assert.Empty(t, res.Sections)
	assert.Equal(t, 100, res.OverallScore)
	assert.Len(t, res.Recommendations, 4)
}

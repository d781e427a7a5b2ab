package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":                             "",
		"   ":                          "",
		"Node.js, React & Vue!":        "node js react vue",
		"CI/CD\tpipelines\n\nmaintain": "ci cd pipelines maintain",
		"snake_case stays":             "snake_case stays",
		"Über-Entwickler":              "über entwickler",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestExtractKeywordsEmpty(t *testing.T) {
	assert.Equal(t, 0, ExtractKeywords("").Len())
	assert.Equal(t, 0, ExtractKeywords("  ,.;  ").Len())
	assert.NotNil(t, ExtractKeywords("").Sorted())
}

func TestExtractKeywordsFilters(t *testing.T) {
	kw := ExtractKeywords("We want a senior Go engineer who knows Docker and the cloud")

	assert.True(t, kw.Has("senior"), "pattern match")
	assert.True(t, kw.Has("engineer"), "pattern match")
	assert.True(t, kw.Has("docker"), "lexicon match")

	assert.False(t, kw.Has("go"), "too short and a stop word")
	assert.False(t, kw.Has("want"), "stop word")
	assert.False(t, kw.Has("knows"), "not relevant")
	assert.False(t, kw.Has("cloud"), "not relevant on its own")
}

func TestExtractKeywordsPhrases(t *testing.T) {
	kw := ExtractKeywords("Strong problem solving, machine learning and Ruby on Rails. 5+ years of experience.")

	for _, want := range []string{"problem solving", "machine learning", "ruby on rails", "years of experience", "years", "experience", "ruby"} {
		assert.True(t, kw.Has(want), "expected %q in %v", want, kw.Sorted())
	}
	assert.False(t, kw.Has("strong problem"), "arbitrary bigram must not be kept")
}

func TestExtractKeywordsNormalizesLexiconPunctuation(t *testing.T) {
	kw := ExtractKeywords("Built services in Node.js and Vue.js")
	assert.True(t, kw.Has("node js"))
	assert.True(t, kw.Has("vue js"))
}

func TestExtractKeywordsNearDuplicateSkill(t *testing.T) {
	kw := ExtractKeywords("kubernets")
	assert.True(t, kw.Has("kubernets"), "misspelled skill within threshold")

	assert.True(t, InLexicon("kubernets"))
	assert.True(t, InLexicon("javascrpt"))
	assert.False(t, InLexicon("gardening"))
}

func TestExtractKeywordsDeduplicates(t *testing.T) {
	kw := ExtractKeywords("React react REACT, react.")
	assert.Equal(t, []string{"react"}, kw.Sorted())
}

func TestExtractKeywordsLongInput(t *testing.T) {
	text := strings.Repeat("Senior Python developer with Kubernetes and Terraform experience. ", 2000)
	kw := ExtractKeywords(text)
	require.True(t, kw.Has("python"))
	assert.True(t, kw.Has("terraform"))
}

func TestLexiconLoaded(t *testing.T) {
	assert.Greater(t, LexiconSize(), 250)
	assert.True(t, InLexicon("machine learning"))
	assert.True(t, InLexicon("ci cd"))
}

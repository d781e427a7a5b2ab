package match

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	minKeywordRunes = 3
	maxPhraseWords  = 4
)

// KeywordSet is a set of normalized keywords.
type KeywordSet map[string]struct{}

func NewKeywordSet(keywords ...string) KeywordSet {
	s := make(KeywordSet, len(keywords))
	for _, k := range keywords {
		s.Add(k)
	}
	return s
}

func (s KeywordSet) Add(k string) { s[k] = struct{}{} }

func (s KeywordSet) Has(k string) bool {
	_, ok := s[k]
	return ok
}

func (s KeywordSet) Len() int { return len(s) }

// Sorted returns the keywords in lexical order. The result is never nil.
func (s KeywordSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ExtractKeywords pulls relevant single words and 2-4 word phrases out of
// free text. Empty or irrelevant text yields an empty set.
func ExtractKeywords(text string) KeywordSet {
	out := KeywordSet{}
	words := strings.Fields(Normalize(text))
	if len(words) == 0 {
		return out
	}

	lex := lexiconMemo{}
	for _, w := range words {
		if out.Has(w) {
			continue
		}
		if isRelevantWord(w, lex) {
			out.Add(w)
		}
	}

	for i := range words {
		for n := 2; n <= maxPhraseWords && i+n <= len(words); n++ {
			p := strings.Join(words[i:i+n], " ")
			if out.Has(p) {
				continue
			}
			if isProfessionalPhrase(p) || lex.contains(p) {
				out.Add(p)
			}
		}
	}
	return out
}

func isRelevantWord(w string, lex lexiconMemo) bool {
	if utf8.RuneCountInString(w) < minKeywordRunes || isStopWord(w) {
		return false
	}
	return lex.contains(w) || matchesRelevantPattern(w)
}

// lexiconMemo caches near-duplicate lookups for one extraction; resumes repeat
// the same words a lot and each miss scans the whole lexicon.
type lexiconMemo map[string]bool

func (m lexiconMemo) contains(term string) bool {
	if v, ok := m[term]; ok {
		return v
	}
	v := InLexicon(term)
	m[term] = v
	return v
}

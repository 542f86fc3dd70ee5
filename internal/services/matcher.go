package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/cases"
)

// KeywordMatch is the outcome of comparing one résumé with one JD.
type KeywordMatch struct {
	Score              float64
	Matching           []string
	Missing            []string
	MatchCount         int
	JDKeywordCount     int
	ResumeKeywordCount int
}

type Matcher interface {
	ExtractKeywords(text string) map[string]struct{}
	JDKeywords(filename string, modTime time.Time, text string) map[string]struct{}
	Match(resumeText string, jdKeywords map[string]struct{}) KeywordMatch
}

type matcher struct {
	cache *lru.Cache[string, map[string]struct{}]
}

func NewMatcher(cacheSize int) (Matcher, error) {
	if cacheSize <= 0 {
		cacheSize = 64
	}
	cache, err := lru.New[string, map[string]struct{}](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create keyword cache: %w", err)
	}
	return &matcher{cache: cache}, nil
}

// ExtractKeywords folds case, strips punctuation and digits from every token,
// drops stop words and reduces plurals to a base form.
func (m *matcher) ExtractKeywords(text string) map[string]struct{} {
	keywords := make(map[string]struct{})
	// Casers hold state, so each call gets its own.
	for _, token := range strings.Fields(cases.Fold().String(text)) {
		word := strings.Map(func(r rune) rune {
			if unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsDigit(r) {
				return -1
			}
			return r
		}, token)
		if len([]rune(word)) <= 1 || isStopWord(word) {
			continue
		}
		lemma := lemmatize(word)
		if len([]rune(lemma)) <= 1 || isStopWord(lemma) {
			continue
		}
		keywords[lemma] = struct{}{}
	}
	return keywords
}

// JDKeywords caches extraction per JD file version.
func (m *matcher) JDKeywords(filename string, modTime time.Time, text string) map[string]struct{} {
	key := fmt.Sprintf("%s@%d", filename, modTime.UnixNano())
	if kw, ok := m.cache.Get(key); ok {
		return kw
	}
	kw := m.ExtractKeywords(text)
	m.cache.Add(key, kw)
	return kw
}

func (m *matcher) Match(resumeText string, jdKeywords map[string]struct{}) KeywordMatch {
	resumeKeywords := m.ExtractKeywords(resumeText)

	result := KeywordMatch{
		Matching:           []string{},
		Missing:            []string{},
		JDKeywordCount:     len(jdKeywords),
		ResumeKeywordCount: len(resumeKeywords),
	}
	if len(jdKeywords) == 0 {
		return result
	}

	for kw := range jdKeywords {
		if _, ok := resumeKeywords[kw]; ok {
			result.Matching = append(result.Matching, kw)
		} else {
			result.Missing = append(result.Missing, kw)
		}
	}
	sort.Strings(result.Matching)
	sort.Strings(result.Missing)

	result.MatchCount = len(result.Matching)
	result.Score = roundTo(float64(result.MatchCount)/float64(len(jdKeywords))*100, 2)

	return result
}

func isStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

func lemmatize(word string) string {
	switch {
	case len(word) > 4 && strings.HasSuffix(word, "ies"):
		return strings.TrimSuffix(word, "ies") + "y"
	case strings.HasSuffix(word, "sses"):
		return strings.TrimSuffix(word, "es")
	case len(word) > 3 && strings.HasSuffix(word, "s") &&
		!strings.HasSuffix(word, "ss") && !strings.HasSuffix(word, "us") && !strings.HasSuffix(word, "is"):
		return strings.TrimSuffix(word, "s")
	}
	return word
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

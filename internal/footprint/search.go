package footprint

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/runnerr0/recalldoc/internal/romaji"
)

// Tokenize splits a search query on runs of ASCII or ideographic spaces.
func Tokenize(query string) []string {
	tokens := strings.FieldsFunc(query, func(r rune) bool {
		return r == ' ' || r == '　'
	})
	if tokens == nil {
		return []string{}
	}
	return tokens
}

// Matcher tests footprints against every keyword of a query.
type Matcher struct {
	keywords []*regexp.Regexp
}

// NewMatcher compiles one case-insensitive matcher per keyword of query.
// In romaji mode keywords are expanded with romaji.BuildPattern, otherwise
// they are matched literally. Invalid UTF-8 in a keyword is replaced with
// U+FFFD before compiling.
func NewMatcher(query string, romajiMode bool) (*Matcher, error) {
	tokens := Tokenize(query)
	m := &Matcher{keywords: make([]*regexp.Regexp, 0, len(tokens))}
	for _, tok := range tokens {
		var src string
		if romajiMode {
			src = romaji.BuildPattern(tok)
		} else {
			src = regexp.QuoteMeta(strings.ToValidUTF8(tok, string(utf8.RuneError)))
		}
		re, err := regexp.Compile("(?i)" + src)
		if err != nil {
			return nil, fmt.Errorf("compile keyword %q: %w", tok, err)
		}
		m.keywords = append(m.keywords, re)
	}
	return m, nil
}

// Empty reports whether the query had no keywords.
func (m *Matcher) Empty() bool {
	return len(m.keywords) == 0
}

// Match reports whether every keyword occurs in the footprint's search text.
func (m *Matcher) Match(f Footprint) bool {
	text := f.SearchText()
	for _, re := range m.keywords {
		if !re.MatchString(text) {
			return false
		}
	}
	return true
}

// Filter returns the matching footprints in their original order.
func (m *Matcher) Filter(footprints []Footprint) []Footprint {
	if m.Empty() {
		return footprints
	}
	out := make([]Footprint, 0, len(footprints))
	for _, f := range footprints {
		if m.Match(f) {
			out = append(out, f)
		}
	}
	return out
}

// Search filters footprints by query. An empty query returns footprints as
// is; a query that does not compile matches nothing.
func Search(footprints []Footprint, query string, romajiMode bool) []Footprint {
	m, err := NewMatcher(query, romajiMode)
	if err != nil {
		return []Footprint{}
	}
	return m.Filter(footprints)
}

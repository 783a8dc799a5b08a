// Package romaji expands romaji keywords into regular expressions that also
// match the hiragana and katakana spellings of each syllable.
package romaji

import (
	"regexp"
	"strings"
)

// BuildPattern returns a regular expression source that matches keyword as
// typed or with its romaji syllables spelled in hiragana or katakana.
//
// Syllables are segmented greedily, longest first, so "kyo" is one syllable
// rather than "ky" + "o". Runes that start no syllable are kept literally.
// The result carries no anchors or flags.
func BuildPattern(keyword string) string {
	runes := []rune(keyword)
	var b strings.Builder
	for i := 0; i < len(runes); {
		n, entry, ok := longestSyllable(runes[i:])
		if !ok {
			b.WriteString(regexp.QuoteMeta(string(runes[i])))
			i++
			continue
		}
		b.WriteString("(?:")
		b.WriteString(regexp.QuoteMeta(entry.Romaji))
		b.WriteByte('|')
		b.WriteString(regexp.QuoteMeta(entry.Hiragana))
		b.WriteByte('|')
		b.WriteString(regexp.QuoteMeta(entry.Katakana))
		b.WriteByte(')')
		i += n
	}
	return b.String()
}

func longestSyllable(runes []rune) (int, Entry, bool) {
	n := MaxSyllableLen
	if len(runes) < n {
		n = len(runes)
	}
	for ; n > 0; n-- {
		if e, ok := Lookup(strings.ToLower(string(runes[:n]))); ok {
			return n, e, true
		}
	}
	return 0, Entry{}, false
}

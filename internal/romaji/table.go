package romaji

import (
	"fmt"
	"sort"
	"strings"
)

// MaxSyllableLen is the longest romaji key in the table.
const MaxSyllableLen = 3

// Entry is one romaji syllable with its kana spellings.
type Entry struct {
	Romaji   string
	Hiragana string
	Katakana string
}

type pair struct {
	romaji   string
	hiragana string
}

var pairs = []pair{
	// Vowels
	{"a", "あ"}, {"i", "い"}, {"u", "う"}, {"e", "え"}, {"o", "お"},

	// Consonant + vowel
	{"ka", "か"}, {"ki", "き"}, {"ku", "く"}, {"ke", "け"}, {"ko", "こ"},
	{"ga", "が"}, {"gi", "ぎ"}, {"gu", "ぐ"}, {"ge", "げ"}, {"go", "ご"},
	{"sa", "さ"}, {"si", "し"}, {"shi", "し"}, {"su", "す"}, {"se", "せ"}, {"so", "そ"},
	{"za", "ざ"}, {"zi", "じ"}, {"ji", "じ"}, {"zu", "ず"}, {"ze", "ぜ"}, {"zo", "ぞ"},
	{"ta", "た"}, {"ti", "ち"}, {"chi", "ち"}, {"tu", "つ"}, {"tsu", "つ"}, {"te", "て"}, {"to", "と"},
	{"da", "だ"}, {"di", "ぢ"}, {"du", "づ"}, {"de", "で"}, {"do", "ど"},
	{"na", "な"}, {"ni", "に"}, {"nu", "ぬ"}, {"ne", "ね"}, {"no", "の"},
	{"ha", "は"}, {"hi", "ひ"}, {"hu", "ふ"}, {"fu", "ふ"}, {"he", "へ"}, {"ho", "ほ"},
	{"ba", "ば"}, {"bi", "び"}, {"bu", "ぶ"}, {"be", "べ"}, {"bo", "ぼ"},
	{"pa", "ぱ"}, {"pi", "ぴ"}, {"pu", "ぷ"}, {"pe", "ぺ"}, {"po", "ぽ"},
	{"ma", "ま"}, {"mi", "み"}, {"mu", "む"}, {"me", "め"}, {"mo", "も"},
	{"ya", "や"}, {"yu", "ゆ"}, {"yo", "よ"},
	{"ra", "ら"}, {"ri", "り"}, {"ru", "る"}, {"re", "れ"}, {"ro", "ろ"},
	{"wa", "わ"}, {"wo", "を"},
	{"n", "ん"}, {"nn", "ん"},
	{"vu", "ゔ"},

	// Palatalized
	{"kya", "きゃ"}, {"kyu", "きゅ"}, {"kyo", "きょ"},
	{"gya", "ぎゃ"}, {"gyu", "ぎゅ"}, {"gyo", "ぎょ"},
	{"sha", "しゃ"}, {"shu", "しゅ"}, {"sho", "しょ"},
	{"sya", "しゃ"}, {"syu", "しゅ"}, {"syo", "しょ"},
	{"ja", "じゃ"}, {"ju", "じゅ"}, {"jo", "じょ"},
	{"jya", "じゃ"}, {"jyu", "じゅ"}, {"jyo", "じょ"},
	{"zya", "じゃ"}, {"zyu", "じゅ"}, {"zyo", "じょ"},
	{"cha", "ちゃ"}, {"chu", "ちゅ"}, {"cho", "ちょ"},
	{"tya", "ちゃ"}, {"tyu", "ちゅ"}, {"tyo", "ちょ"},
	{"cya", "ちゃ"}, {"cyu", "ちゅ"}, {"cyo", "ちょ"},
	{"dya", "ぢゃ"}, {"dyu", "ぢゅ"}, {"dyo", "ぢょ"},
	{"nya", "にゃ"}, {"nyu", "にゅ"}, {"nyo", "にょ"},
	{"hya", "ひゃ"}, {"hyu", "ひゅ"}, {"hyo", "ひょ"},
	{"bya", "びゃ"}, {"byu", "びゅ"}, {"byo", "びょ"},
	{"pya", "ぴゃ"}, {"pyu", "ぴゅ"}, {"pyo", "ぴょ"},
	{"mya", "みゃ"}, {"myu", "みゅ"}, {"myo", "みょ"},
	{"rya", "りゃ"}, {"ryu", "りゅ"}, {"ryo", "りょ"},

	// Extended sounds
	{"ye", "いぇ"}, {"wi", "うぃ"}, {"we", "うぇ"},
	{"she", "しぇ"}, {"che", "ちぇ"}, {"je", "じぇ"},
	{"fa", "ふぁ"}, {"fi", "ふぃ"}, {"fe", "ふぇ"}, {"fo", "ふぉ"},
	{"va", "ゔぁ"}, {"vi", "ゔぃ"}, {"ve", "ゔぇ"}, {"vo", "ゔぉ"},
	{"tsa", "つぁ"}, {"tse", "つぇ"}, {"tso", "つぉ"},
	{"thi", "てぃ"}, {"thu", "てゅ"}, {"dhi", "でぃ"}, {"dhu", "でゅ"},

	// Small kana
	{"xa", "ぁ"}, {"xi", "ぃ"}, {"xu", "ぅ"}, {"xe", "ぇ"}, {"xo", "ぉ"},
	{"la", "ぁ"}, {"li", "ぃ"}, {"lu", "ぅ"}, {"le", "ぇ"}, {"lo", "ぉ"},
	{"xya", "ゃ"}, {"xyu", "ゅ"}, {"xyo", "ょ"},
	{"lya", "ゃ"}, {"lyu", "ゅ"}, {"lyo", "ょ"},
	{"xtu", "っ"}, {"ltu", "っ"},
	{"xwa", "ゎ"}, {"lwa", "ゎ"},
}

var table = mustBuildTable(pairs)

func buildTable(ps []pair) (map[string]Entry, error) {
	t := make(map[string]Entry, len(ps))
	for _, p := range ps {
		if n := len(p.romaji); n == 0 || n > MaxSyllableLen {
			return nil, fmt.Errorf("romaji: key %q must be 1-%d letters", p.romaji, MaxSyllableLen)
		}
		if p.romaji != strings.ToLower(p.romaji) {
			return nil, fmt.Errorf("romaji: key %q must be lower case", p.romaji)
		}
		if _, dup := t[p.romaji]; dup {
			return nil, fmt.Errorf("romaji: duplicate key %q", p.romaji)
		}
		katakana, err := HiraganaToKatakana(p.hiragana)
		if err != nil {
			return nil, fmt.Errorf("romaji: entry %q: %w", p.romaji, err)
		}
		t[p.romaji] = Entry{Romaji: p.romaji, Hiragana: p.hiragana, Katakana: katakana}
	}
	return t, nil
}

func mustBuildTable(ps []pair) map[string]Entry {
	t, err := buildTable(ps)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the entry for a lower-case romaji syllable.
func Lookup(romaji string) (Entry, bool) {
	e, ok := table[romaji]
	return e, ok
}

// Len returns the number of syllables in the table.
func Len() int {
	return len(table)
}

// Entries returns a copy of the table sorted by romaji.
func Entries() []Entry {
	out := make([]Entry, 0, len(table))
	for _, e := range table {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Romaji < out[j].Romaji })
	return out
}

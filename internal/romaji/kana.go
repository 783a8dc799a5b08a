package romaji

import "fmt"

// katakanaOffset is the distance between the hiragana and katakana blocks.
const katakanaOffset = 0x60

// InvalidInputError reports a code point outside the convertible hiragana range.
type InvalidInputError struct {
	Rune   rune
	Offset int
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("romaji: %q (U+%04X) at byte %d is not convertible hiragana", e.Rune, e.Rune, e.Offset)
}

func isConvertibleHiragana(r rune) bool {
	return (r >= 0x3041 && r <= 0x3094) || r == 0x309D || r == 0x309E
}

// HiraganaToKatakana converts every rune of text to katakana. It fails on the
// first rune outside ぁ..ゔ and the ゝ/ゞ iteration marks.
func HiraganaToKatakana(text string) (string, error) {
	out := make([]rune, 0, len(text)/3)
	for i, r := range text {
		if !isConvertibleHiragana(r) {
			return "", &InvalidInputError{Rune: r, Offset: i}
		}
		out = append(out, r+katakanaOffset)
	}
	return string(out), nil
}

// MustHiraganaToKatakana is like HiraganaToKatakana but panics on invalid input.
func MustHiraganaToKatakana(text string) string {
	s, err := HiraganaToKatakana(text)
	if err != nil {
		panic(err)
	}
	return s
}

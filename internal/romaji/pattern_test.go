package romaji

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, keyword string) *regexp.Regexp {
	t.Helper()
	re, err := regexp.Compile("(?i)" + BuildPattern(keyword))
	require.NoError(t, err, "pattern for %q", keyword)
	return re
}

func TestBuildPattern_Literal(t *testing.T) {
	assert.Equal(t, "", BuildPattern(""))
	assert.Equal(t, "k", BuildPattern("k"))
	assert.Equal(t, `\.\*`, BuildPattern(".*"))
	assert.Equal(t, "漢字", BuildPattern("漢字"))
}

func TestBuildPattern_Syllable(t *testing.T) {
	assert.Equal(t, "(?:a|あ|ア)", BuildPattern("a"))
	assert.Equal(t, "(?:kyo|きょ|キョ)", BuildPattern("kyo"))
	assert.Equal(t, "(?:nya|にゃ|ニャ)ん", BuildPattern("nyaん"))
}

func TestBuildPattern_LongestMatchFirst(t *testing.T) {
	assert.Equal(t, "(?:shi|し|シ)", BuildPattern("shi"))
	assert.Equal(t, "(?:nn|ん|ン)(?:a|あ|ア)", BuildPattern("nna"))
	assert.Equal(t, "(?:tsu|つ|ツ)k", BuildPattern("tsuk"))
}

func TestBuildPattern_UpperCaseInput(t *testing.T) {
	assert.Equal(t, "(?:ka|か|カ)", BuildPattern("KA"))
}

func TestBuildPattern_MatchesAllSpellings(t *testing.T) {
	re := compile(t, "a")
	for _, s := range []string{"a", "あ", "ア", "A"} {
		assert.True(t, re.MatchString(s), s)
	}

	re = compile(t, "kya")
	for _, s := range []string{"kya", "きゃ", "キャ"} {
		assert.True(t, re.MatchString(s), s)
	}
	assert.False(t, re.MatchString("kiya"))
}

func TestBuildPattern_MixedKeyword(t *testing.T) {
	re := compile(t, "tokyo")
	assert.True(t, re.MatchString("tokyo"))
	assert.True(t, re.MatchString("ときょ"))
	assert.True(t, re.MatchString("トキョ"))
	assert.True(t, re.MatchString("toキョ"))
	assert.False(t, re.MatchString("とうきょう"))
}

package footprint

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsert(t *testing.T) {
	tests := []struct {
		name      string
		history   []Footprint
		footprint Footprint
		expected  []Footprint
	}{
		{
			name:      "appends a new footprint to the top when there is no same one",
			history:   []Footprint{{Directories: []string{"foo"}, URL: "https://example.com/foo"}},
			footprint: Footprint{Directories: []string{"bar"}, URL: "https://example.com/bar"},
			expected: []Footprint{
				{Directories: []string{"bar"}, URL: "https://example.com/bar"},
				{Directories: []string{"foo"}, URL: "https://example.com/foo"},
			},
		},
		{
			name: "moves the footprint to the top when there is same one",
			history: []Footprint{
				{Directories: []string{"foo"}, URL: "https://example.com/foo"},
				{Directories: []string{"bar"}, URL: "https://example.com/bar"},
				{Directories: []string{"baz"}, URL: "https://example.com/baz"},
			},
			footprint: Footprint{Directories: []string{"bar"}, URL: "https://example.com/bar"},
			expected: []Footprint{
				{Directories: []string{"bar"}, URL: "https://example.com/bar"},
				{Directories: []string{"foo"}, URL: "https://example.com/foo"},
				{Directories: []string{"baz"}, URL: "https://example.com/baz"},
			},
		},
		{
			name:      "replaces the metadata of the same footprint",
			history:   []Footprint{{Directories: []string{"foo"}, Name: "old", URL: "https://example.com/foo"}},
			footprint: Footprint{Directories: []string{"foo2"}, Name: "new", URL: "https://example.com/foo"},
			expected:  []Footprint{{Directories: []string{"foo2"}, Name: "new", URL: "https://example.com/foo"}},
		},
		{
			name:      "starts an empty history",
			history:   nil,
			footprint: Footprint{Directories: []string{}, Name: "a", URL: "https://example.com/a"},
			expected:  []Footprint{{Directories: []string{}, Name: "a", URL: "https://example.com/a"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Upsert(tc.history, tc.footprint))
		})
	}
}

func TestUpsert_DoesNotModifyInput(t *testing.T) {
	history := []Footprint{
		{Name: "a", URL: "https://example.com/a"},
		{Name: "b", URL: "https://example.com/b"},
	}
	_ = Upsert(history, Footprint{Name: "b2", URL: "https://example.com/b"})

	assert.Equal(t, "a", history[0].Name)
	assert.Equal(t, "b", history[1].Name)
}

func TestUpsert_FrontIsIdempotent(t *testing.T) {
	fp := Footprint{Directories: []string{"x"}, Name: "a", URL: "https://example.com/a"}
	history := []Footprint{fp, {Name: "b", URL: "https://example.com/b"}}

	assert.Equal(t, history, Upsert(history, fp))
}

func TestUpsert_KeepsURLUnique(t *testing.T) {
	var history []Footprint
	for i := 0; i < 20; i++ {
		history = Upsert(history, Footprint{URL: fmt.Sprintf("https://example.com/%d", i%7), Name: fmt.Sprint(i)})
	}
	require.Len(t, history, 7)
	assert.Equal(t, "19", history[0].Name)

	seen := map[string]bool{}
	for _, f := range history {
		assert.False(t, seen[f.URL], "duplicate %s", f.URL)
		seen[f.URL] = true
	}
}

func TestUpsert_ReturnsUpToMaxFootprints(t *testing.T) {
	history := make([]Footprint, 0, MaxFootprints)
	for i := 0; i < MaxFootprints; i++ {
		history = append(history, Footprint{Directories: []string{}, URL: fmt.Sprintf("https://example.com/%d", i)})
	}
	require.Len(t, history, MaxFootprints)

	got := Upsert(history, Footprint{Directories: []string{}, URL: "https://not-example.com"})
	assert.Len(t, got, MaxFootprints)
	assert.Equal(t, "https://not-example.com", got[0].URL)
	assert.Equal(t, fmt.Sprintf("https://example.com/%d", MaxFootprints-2), got[MaxFootprints-1].URL)

	got = Upsert(history, history[MaxFootprints-1])
	assert.Len(t, got, MaxFootprints)
	assert.Equal(t, history[MaxFootprints-1].URL, got[0].URL)
}

func TestDelete(t *testing.T) {
	history := []Footprint{
		{Name: "a", URL: "https://example.com/a"},
		{Name: "b", URL: "https://example.com/b"},
		{Name: "c", URL: "https://example.com/c"},
	}

	got := Delete(history, "https://example.com/b")
	assert.Equal(t, []Footprint{history[0], history[2]}, got)
	assert.Len(t, history, 3)

	assert.Equal(t, history, Delete(history, "https://example.com/none"))
}

func TestIndexOf(t *testing.T) {
	history := []Footprint{{URL: "a"}, {URL: "b"}}
	assert.Equal(t, 1, IndexOf(history, "b"))
	assert.Equal(t, -1, IndexOf(history, "c"))
}

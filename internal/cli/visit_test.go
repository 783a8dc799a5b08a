package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/recalldoc/internal/footprint"
)

func runVisit(t *testing.T, e *env, cmd *VisitCommand) (string, error) {
	t.Helper()
	if cmd.globals == nil {
		cmd.globals = &GlobalFlags{}
	}
	var err error
	out := captureOutput(t, func() {
		err = cmd.executeWithEnv(e)
	})
	return out, err
}

func TestVisit_RecordsPost(t *testing.T) {
	e := newTestEnv(t)

	out, err := runVisit(t, e, &VisitCommand{
		URL:         "https://foo.esa.io/posts/12?ref=top#comment",
		Name:        "Guide",
		Directories: "dev/howto",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded dev/howto/Guide  https://foo.esa.io/posts/12 in esa/foo (1 footprints)")

	history, err := e.repo.LoadFootprints(context.Background(), esaFoo)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, footprint.Footprint{
		Directories: []string{"dev", "howto"},
		Name:        "Guide",
		URL:         "https://foo.esa.io/posts/12",
	}, history[0])
}

func TestVisit_RevisitMovesToFront(t *testing.T) {
	e := newTestEnv(t)
	seedHistory(t, e)

	_, err := runVisit(t, e, &VisitCommand{URL: "https://foo.esa.io/posts/1", Name: "設計 v2"})
	require.NoError(t, err)

	history, err := e.repo.LoadFootprints(context.Background(), esaFoo)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "https://foo.esa.io/posts/1", history[0].URL)
	assert.Equal(t, "設計 v2", history[0].Name)
	assert.Empty(t, history[0].Directories)
}

func TestVisit_CategoryPageNeedsNoName(t *testing.T) {
	e := newTestEnv(t)

	out, err := runVisit(t, e, &VisitCommand{URL: "https://foo.esa.io/#path=/dev/howto"})
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded dev/howto  https://foo.esa.io/#path=/dev/howto")
}

func TestVisit_Errors(t *testing.T) {
	e := newTestEnv(t)

	_, err := runVisit(t, e, &VisitCommand{})
	assert.ErrorContains(t, err, "--url is required")

	_, err = runVisit(t, e, &VisitCommand{URL: "https://foo.esa.io/posts/1"})
	assert.ErrorIs(t, err, footprint.ErrMissingName)

	_, err = runVisit(t, e, &VisitCommand{URL: "https://example.com/posts/1", Name: "x"})
	assert.ErrorIs(t, err, footprint.ErrUnknownSite)

	_, err = runVisit(t, e, &VisitCommand{URL: "https://foo.esa.io/team", Name: "x"})
	assert.ErrorIs(t, err, footprint.ErrUnknownPage)
}

func TestVisit_JSONOutput(t *testing.T) {
	e := newTestEnv(t)

	out, err := runVisit(t, e, &VisitCommand{
		URL:     "https://bar.kibe.la/notes/3",
		Name:    "議事録",
		globals: &GlobalFlags{JSON: true},
	})
	require.NoError(t, err)

	var res visitResultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "kibela", res.Site)
	assert.Equal(t, "bar", res.Team)
	assert.Equal(t, "議事録", res.Footprint.Name)
	assert.Equal(t, 1, res.Total)
}

package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngest_AppliesOverrides(t *testing.T) {
	e := newTestEnv(t)

	cmd := &IngestCommand{Host: "0.0.0.0", Port: 9900, LogLevel: "debug", version: "0.1.0-test"}
	srv, err := cmd.server(e)
	require.NoError(t, err)
	require.NotNil(t, srv)
	assert.Equal(t, "0.0.0.0:9900", e.cfg.Addr())
	assert.Equal(t, "debug", e.cfg.Logging.Level)
}

func TestIngest_RejectsInvalidOverrides(t *testing.T) {
	e := newTestEnv(t)

	_, err := (&IngestCommand{Port: 70000}).server(e)
	assert.ErrorContains(t, err, "out of range")

	_, err = (&IngestCommand{LogLevel: "loud"}).server(e)
	assert.ErrorContains(t, err, "unknown log level")
}

func TestIngest_ServerRecordsVisits(t *testing.T) {
	e := newTestEnv(t)

	srv, err := (&IngestCommand{version: "0.1.0-test"}).server(e)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body := `{"url":"https://foo.esa.io/posts/5","name":"Runbook"}`
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/visits", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.True(t, checkDaemon(strings.TrimPrefix(ts.URL, "http://")))

	var searchOut searchResultJSON
	out := captureOutput(t, func() {
		require.NoError(t, (&SearchCommand{globals: &GlobalFlags{JSON: true}}).executeWithEnv(e, nil))
	})
	require.NoError(t, json.Unmarshal([]byte(out), &searchOut))
	require.Len(t, searchOut.Results, 1)
	assert.Equal(t, "Runbook", searchOut.Results[0].Name)
}

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drake/portal/api"
	"github.com/drake/portal/config"
	"github.com/drake/portal/mockapi"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PORTAL_LOG_SINK", "none")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestParseAssignments(t *testing.T) {
	sets, err := parseAssignments([]string{"a.b=1", "name=x=y", "empty="})
	require.NoError(t, err)
	assert.Equal(t, []assignment{
		{Path: "a.b", Value: "1"},
		{Path: "name", Value: "x=y"},
		{Path: "empty", Value: ""},
	}, sets)

	_, err = parseAssignments([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseAssignments([]string{"=x"})
	assert.Error(t, err)
}

func TestApplyKeepsUnknownFields(t *testing.T) {
	var item api.Item
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"1","custom":{"keep":true},"resourceName":[{"name":"Old"}]}`), &item))

	require.NoError(t, apply(&item, []assignment{
		{Path: "resourceName.0.name", Value: "New"},
		{Path: "score", Value: "42"},
		{Path: "tags", Value: `["a","b"]`},
		{Path: "label", Value: "not json"},
	}))

	assert.Equal(t, "New", item.DisplayName(""))
	assert.Equal(t, int64(42), item.Get("score").Int())
	assert.Equal(t, "b", item.Get("tags.1").String())
	assert.Equal(t, "not json", item.Get("label").String())
	assert.True(t, item.Get("custom.keep").Bool())
}

func TestLineDiff(t *testing.T) {
	before := []byte(`{"a":1,"b":2}`)
	after := []byte(`{"a":1,"b":3}`)

	diff := lineDiff(before, after)
	assert.Contains(t, diff, `  "a": 1,`)
	assert.Contains(t, diff, `-   "b": 2`)
	assert.Contains(t, diff, `+   "b": 3`)

	assert.NotContains(t, lineDiff(before, before), "+ ")
}

func TestRankProjects(t *testing.T) {
	got := rankProjects(mockapi.Projects, "optimization bus")
	require.NotEmpty(t, got)
	assert.Equal(t, "Design internal data bus - Optimization", got[0].Title)

	assert.Equal(t, mockapi.Projects, rankProjects(mockapi.Projects, ""))
}

func TestProjectsCommand(t *testing.T) {
	srv := httptest.NewServer(mockapi.New(nil).Handler())
	defer srv.Close()
	t.Setenv(config.EnvProjectsBaseURL, srv.URL)

	out, err := runCLI(t, "projects")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(mockapi.Projects)+1)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], mockapi.Projects[0].ID)

	out, err = runCLI(t, "destinations", mockapi.Projects[0].ID)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(mockapi.Destinations, "\n")+"\n", out)
}

func TestMappingCommandsNeedBaseURL(t *testing.T) {
	t.Setenv(config.EnvAPIBaseURL, "")
	_, err := runCLI(t, "categories")
	assert.ErrorIs(t, err, api.ErrNoBaseURL)
}

func TestCategoryCommand(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		assert.Equal(t, "/MappingItem/categories/DataHub", r.URL.Path)
		w.Write([]byte(`{"items":[{"_id":"h1","resourceName":[{"name":"Ocean Hub"}]}],"total":5}`))
	}))
	defer srv.Close()
	t.Setenv(config.EnvAPIBaseURL, srv.URL)

	out, err := runCLI(t, "category", "DataHub", "--limit", "1")
	require.NoError(t, err)
	assert.Equal(t, "limit=1", query)
	assert.Equal(t, "h1\tOcean Hub\n1 of 5\n", out)
}

func TestItemSetDryRun(t *testing.T) {
	var patched bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			patched = true
		}
		w.Write([]byte(`{"_id":"h1","resourceName":[{"name":"Ocean Hub"}]}`))
	}))
	defer srv.Close()
	t.Setenv(config.EnvAPIBaseURL, srv.URL)

	out, err := runCLI(t, "item", "set", "h1", "resourceName.0.name=Earth Hub", "--dry-run")
	require.NoError(t, err)
	assert.False(t, patched)
	assert.Contains(t, out, `-       "name": "Ocean Hub"`)
	assert.Contains(t, out, `+       "name": "Earth Hub"`)
}

func TestItemSetPatches(t *testing.T) {
	var body []byte
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			body, _ = io.ReadAll(r.Body)
			auth = r.Header.Get("Authorization")
			w.Write(body)
			return
		}
		w.Write([]byte(`{"_id":"h1","resourceName":[{"name":"Ocean Hub"}],"extra":1}`))
	}))
	defer srv.Close()
	t.Setenv(config.EnvAPIBaseURL, srv.URL)

	_, err := runCLI(t, "item", "set", "h1", "resourceName.0.name=Earth Hub", "--token", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(body, &sent))
	assert.Equal(t, float64(1), sent["extra"])
	assert.Equal(t, "Earth Hub", sent["resourceName"].([]any)[0].(map[string]any)["name"])
}

func TestLoginRequiresPassword(t *testing.T) {
	t.Setenv(EnvPassword, "")
	_, err := runCLI(t, "login", "alice")
	assert.ErrorContains(t, err, EnvPassword)
}

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectsClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", r.URL.Query().Get("userID"))
		io.WriteString(w, `[{"id": "p1", "title": "First", "description": "d", "status": "inbox"}]`)
	})
	mux.HandleFunc("GET /api/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "p1" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, `{"id": "p1", "title": "First"}`)
	})
	mux.HandleFunc("GET /api/projects/{id}/destinations", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"destinations": ["Zenodo", "GitHub"]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	p, err := NewProjects(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	items, err := p.GetProjects(ctx, "42")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, WorkItem{ID: "p1", Title: "First", Description: "d", Status: WorkInbox}, items[0])

	one, err := p.GetProjectDescription(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "First", one.Title)

	_, err = p.GetProjectDescription(ctx, "nope")
	assert.True(t, IsNotFound(err))

	dests, err := p.GetProjectDestinations(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Zenodo", "GitHub"}, dests)
}

func TestNewProjectsDefaultURL(t *testing.T) {
	p, err := NewProjects("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProjectsURL, p.BaseURL())
}

package api

import (
	"context"
	"net/url"
)

// DefaultProjectsURL is where the local mock projects endpoint listens.
const DefaultProjectsURL = "http://localhost:3000"

// ProjectsClient reads the workspace projects endpoint. Pointing it at a real
// backend only needs a different base URL.
type ProjectsClient struct {
	c *Client
}

// NewProjects creates a projects client. Responses are not cached.
func NewProjects(baseURL string, opts ...Option) (*ProjectsClient, error) {
	if baseURL == "" {
		baseURL = DefaultProjectsURL
	}
	c, err := New(baseURL, append(opts, WithCacheSize(0))...)
	if err != nil {
		return nil, err
	}
	return &ProjectsClient{c: c}, nil
}

// BaseURL returns the configured base URL.
func (p *ProjectsClient) BaseURL() string {
	return p.c.BaseURL()
}

// GetProjects lists the active projects, optionally for one user.
func (p *ProjectsClient) GetProjects(ctx context.Context, userID string) ([]WorkItem, error) {
	var q url.Values
	if userID != "" {
		q = url.Values{"userID": {userID}}
	}
	var out []WorkItem
	if err := p.c.getJSON(ctx, "/api/projects", q, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProjectDescription fetches one project.
func (p *ProjectsClient) GetProjectDescription(ctx context.Context, id string) (*WorkItem, error) {
	seg, err := pathSegment(id)
	if err != nil {
		return nil, err
	}
	var out WorkItem
	if err := p.c.getJSON(ctx, "/api/projects/"+seg, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProjectDestinations lists the publication platforms of a project.
func (p *ProjectsClient) GetProjectDestinations(ctx context.Context, id string) ([]string, error) {
	var out struct {
		Destinations []string `json:"destinations"`
	}
	seg, err := pathSegment(id)
	if err != nil {
		return nil, err
	}
	if err := p.c.getJSON(ctx, "/api/projects/"+seg+"/destinations", nil, "", &out); err != nil {
		return nil, err
	}
	return out.Destinations, nil
}

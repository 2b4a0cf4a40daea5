package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

// Cache key prefixes. Each kind of response gets its own namespace so an item
// ID can never collide with a schema name.
const (
	keyCategory = "category:"
	keyItem     = "item:"
	keySchema   = "schema:"
)

// CategoryKey is the cache key of one category page.
func CategoryKey(category string, p PaginationParameter) string {
	offset, limit := p.key()
	return keyCategory + category + "/" + offset + "/" + limit
}

// ItemKey is the cache key of a mapping item.
func ItemKey(id string) string { return keyItem + id }

// SchemaKey is the cache key of a schema.
func SchemaKey(name string) string { return keySchema + name }

// GetCategory lists the mapping items of a category.
func (c *Client) GetCategory(ctx context.Context, category string, p PaginationParameter) (*PaginationResult, error) {
	q := url.Values{}
	if p.Limit != nil {
		q.Set("limit", strconv.Itoa(*p.Limit))
	}
	if p.Offset != nil {
		q.Set("offset", strconv.Itoa(*p.Offset))
	}

	seg, err := pathSegment(category)
	if err != nil {
		return nil, err
	}

	var out PaginationResult
	if err := c.getJSON(ctx, "/MappingItem/categories/"+seg, q, CategoryKey(category, p), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCategories lists the schema names, which double as category names.
func (c *Client) GetCategories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, "/Schema", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetItem fetches one mapping item.
func (c *Client) GetItem(ctx context.Context, id string) (*Item, error) {
	seg, err := pathSegment(id)
	if err != nil {
		return nil, err
	}
	var out Item
	if err := c.getJSON(ctx, "/MappingItem/"+seg, nil, ItemKey(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSchema fetches a JSON schema by name.
func (c *Client) GetSchema(ctx context.Context, schema string) (json.RawMessage, error) {
	seg, err := pathSegment(schema)
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.getJSON(ctx, "/Schema/"+seg, nil, SchemaKey(schema), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search runs a full text search over mapping items.
func (c *Client) Search(ctx context.Context, p SearchParameter) (*PaginationResult, error) {
	q := url.Values{}
	q.Set("searchText", p.SearchText)
	if p.Hub != "" {
		q.Set("hub", p.Hub)
	}

	var out PaginationResult
	if err := c.getJSON(ctx, "/MappingItem/search", q, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate checks item against a schema and returns the server's verdict.
func (c *Client) Validate(ctx context.Context, item *Item, schema string) (json.RawMessage, error) {
	seg, err := pathSegment(schema)
	if err != nil {
		return nil, err
	}
	data, err := c.sendJSON(ctx, http.MethodPost, "/Schema/validate/"+seg, item, "")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// PatchItem updates an existing item and drops its cached copy.
func (c *Client) PatchItem(ctx context.Context, item *Item, token string) (*Item, error) {
	if item.ID == "" {
		return nil, fmt.Errorf("patch item: missing _id")
	}
	seg, err := pathSegment(item.ID)
	if err != nil {
		return nil, err
	}
	data, err := c.sendJSON(ctx, http.MethodPatch, "/MappingItem/"+seg, item, token)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ItemKey(item.ID))
	return decodeItem(data, item)
}

// CreateItem stores a new item.
func (c *Client) CreateItem(ctx context.Context, item *Item, token string) (*Item, error) {
	data, err := c.sendJSON(ctx, http.MethodPost, "/MappingItem", item, token)
	if err != nil {
		return nil, err
	}
	return decodeItem(data, item)
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("username", username); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if err := w.WriteField("password", password); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	data, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        &body,
		contentType: w.FormDataContentType(),
	})
	if err != nil {
		return "", err
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decode login: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("login: no access_token in response")
	}
	return out.AccessToken, nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body any, token string) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}
	return c.do(ctx, request{
		method:      method,
		path:        path,
		body:        bytes.NewReader(payload),
		contentType: "application/json",
		token:       token,
	})
}

// decodeItem decodes a write response. Servers that answer with an empty
// body or a non-item document leave the submitted item as the result.
func decodeItem(data []byte, sent *Item) (*Item, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return sent, nil
	}
	var out Item
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	if out.ID == "" {
		return sent, nil
	}
	return &out, nil
}

package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/isitmyturn/isitmyturn/pkg/session"
	"github.com/isitmyturn/isitmyturn/pkg/turnlist"
)

// Client is a typed HTTP client for the session API. It satisfies the
// session.Store contract, so a syncer.Coordinator can run against a remote
// API instance instead of a database
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ session.Store = (*Client)(nil)

// NewClient creates a client against a base URL like "http://localhost:8080".
// Timeout semantics live entirely in the underlying transport; pass a custom
// httpClient to change them, or nil for a 30 second default
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// CreateSession creates a new session
func (c *Client) CreateSession(ctx context.Context, name, sessionSlug string) (*session.Session, error) {
	body := CreateSessionRequest{Name: name, Slug: sessionSlug}
	resp, err := doRequest[SessionResponse](ctx, c, http.MethodPost, "/api/sessions", body)
	if err != nil {
		return nil, err
	}
	return &session.Session{Slug: resp.Slug, Name: resp.Name}, nil
}

// GetSessionBySlug looks a session up by slug
func (c *Client) GetSessionBySlug(ctx context.Context, sessionSlug string) (*session.Session, error) {
	path := "/api/sessions/" + url.PathEscape(sessionSlug)
	resp, err := doRequest[SessionLookupResponse](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if !resp.Exists {
		return nil, session.ErrSessionNotFound
	}
	return &session.Session{Slug: sessionSlug, Name: resp.Name}, nil
}

// ListItems fetches all items for a session
func (c *Client) ListItems(ctx context.Context, sessionSlug string) ([]turnlist.Item, error) {
	path := "/api/sessions/" + url.PathEscape(sessionSlug) + "/items"
	resp, err := doRequest[ItemsResponse](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// CreateItem saves a new item
func (c *Client) CreateItem(ctx context.Context, item turnlist.Item) error {
	path := "/api/sessions/" + url.PathEscape(item.SessionSlug) + "/items"
	body := CreateItemRequest{ID: item.ID, Name: item.Name, Order: item.Order, List: item.List}
	_, err := doRequest[ItemResponse](ctx, c, http.MethodPost, path, body)
	return err
}

// UpdateItem writes a single item
func (c *Client) UpdateItem(ctx context.Context, sessionSlug string, update session.ItemUpdate) error {
	path := "/api/sessions/" + url.PathEscape(sessionSlug) + "/items/" + url.PathEscape(update.ItemID)
	body := UpdateItemRequest{NewName: update.NewName, NewOrder: update.NewOrder, NewList: update.NewList}
	_, err := doRequest[struct{}](ctx, c, http.MethodPut, path, body)
	return err
}

// UpdateItemsAtomic writes a batch of items all-or-nothing
func (c *Client) UpdateItemsAtomic(ctx context.Context, sessionSlug string, updates []session.ItemUpdate) error {
	path := "/api/sessions/" + url.PathEscape(sessionSlug) + "/items"
	_, err := doRequest[struct{}](ctx, c, http.MethodPut, path, UpdateItemsRequest{Updates: updates})
	return err
}

// DeleteItem removes one item
func (c *Client) DeleteItem(ctx context.Context, sessionSlug, itemID string) error {
	path := "/api/sessions/" + url.PathEscape(sessionSlug) + "/items/" + url.PathEscape(itemID)
	_, err := doRequest[struct{}](ctx, c, http.MethodDelete, path, nil)
	return err
}

// doRequest sends one API call and decodes the response envelope
func doRequest[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope ApiResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return zero, session.ErrSessionNotFound
	}
	if resp.StatusCode >= 400 {
		return zero, fmt.Errorf("api error %d: %s", resp.StatusCode, envelope.Message)
	}

	return envelope.Data, nil
}

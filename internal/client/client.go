// Package client talks to the plots API. It is the CatalogSource behind a
// viewport.Engine and the transport for the operator CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	synchub "masterplan/internal/sync"
	"masterplan/pkg/models"
)

const DefaultBaseURL = "http://localhost:8080"

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string `json:"error"`
	Detail  string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Catalog(ctx context.Context) (models.Catalog, error) {
	var out models.Catalog
	if err := c.doJSON(ctx, http.MethodGet, "/api/plots", nil, &out); err != nil {
		return models.Catalog{}, err
	}
	return out, nil
}

func (c *Client) Plot(ctx context.Context, id string) (models.Plot, error) {
	var out models.Plot
	if err := c.doJSON(ctx, http.MethodGet, "/api/plots/"+url.PathEscape(id), nil, &out); err != nil {
		return models.Plot{}, err
	}
	return out, nil
}

// SavePlots sends the bulk edit the masterplan save button sends.
func (c *Client) SavePlots(ctx context.Context, plots []models.Plot) (models.Catalog, error) {
	var out models.Catalog
	payload := struct {
		Plots []models.Plot `json:"plots"`
	}{Plots: plots}
	if err := c.doJSON(ctx, http.MethodPut, "/api/plots", payload, &out); err != nil {
		return models.Catalog{}, err
	}
	return out, nil
}

// MovePlot sends the single-plot form of the edit.
func (c *Client) MovePlot(ctx context.Context, id string, x, y float64) (models.Catalog, error) {
	var out models.Catalog
	payload := map[string]any{"id": id, "x": x, "y": y}
	if err := c.doJSON(ctx, http.MethodPut, "/api/plots", payload, &out); err != nil {
		return models.Catalog{}, err
	}
	return out, nil
}

// Watch streams sync events from /ws until ctx is done or the connection drops.
func (c *Client) Watch(ctx context.Context, fn func(synchub.PlotsEvent)) error {
	endpoint, err := WebSocketURL(c.BaseURL, "/ws")
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", endpoint, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		var ev synchub.PlotsEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			continue
		}
		if ev.Type == synchub.EventPlotsUpdated {
			fn(ev)
		}
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func WebSocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

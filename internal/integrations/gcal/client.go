package gcal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var ErrNotConfigured = errors.New("calendar client is not configured")

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.httpClient != nil && c.baseURL != "" && c.token != ""
}

func (c *Client) CreateEvent(ctx context.Context, summary string, startsAt time.Time, durationMin int) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}

	payload := map[string]interface{}{
		"summary": summary,
		"start":   map[string]string{"dateTime": startsAt.UTC().Format(time.RFC3339)},
		"end":     map[string]string{"dateTime": startsAt.Add(time.Duration(durationMin) * time.Minute).UTC().Format(time.RFC3339)},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode calendar event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/calendars/primary/events", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build calendar request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call calendar: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("calendar create event status %d", resp.StatusCode)
	}

	var decoded struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode calendar event: %w", err)
	}

	return decoded.ID, nil
}

func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}
	if eventID == "" {
		return fmt.Errorf("calendar event id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/calendars/primary/events/"+url.PathEscape(eventID), nil)
	if err != nil {
		return fmt.Errorf("build calendar request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call calendar: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("calendar delete event status %d", resp.StatusCode)
	}

	return nil
}

package zoom

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

var ErrNotConfigured = errors.New("zoom client is not configured")

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

type Meeting struct {
	ID      string
	JoinURL string
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

func (c *Client) CreateMeeting(ctx context.Context, topic string, startsAt time.Time, durationMin int) (Meeting, error) {
	if !c.Enabled() {
		return Meeting{}, ErrNotConfigured
	}

	payload := map[string]interface{}{
		"topic":      topic,
		"type":       2,
		"start_time": startsAt.UTC().Format(time.RFC3339),
		"duration":   durationMin,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Meeting{}, fmt.Errorf("encode zoom meeting: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/me/meetings", bytes.NewReader(body))
	if err != nil {
		return Meeting{}, fmt.Errorf("build zoom request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Meeting{}, fmt.Errorf("call zoom: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Meeting{}, fmt.Errorf("zoom create meeting status %d", resp.StatusCode)
	}

	var decoded struct {
		ID      json.Number `json:"id"`
		JoinURL string      `json:"join_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Meeting{}, fmt.Errorf("decode zoom meeting: %w", err)
	}

	return Meeting{ID: decoded.ID.String(), JoinURL: decoded.JoinURL}, nil
}

func (c *Client) DeleteMeeting(ctx context.Context, meetingID string) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}
	if meetingID == "" {
		return fmt.Errorf("zoom meeting id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/meetings/"+url.PathEscape(meetingID), nil)
	if err != nil {
		return fmt.Errorf("build zoom request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call zoom: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	// 404 means the meeting is already gone, which is fine for cleanup.
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("zoom delete meeting status %d", resp.StatusCode)
	}

	return nil
}

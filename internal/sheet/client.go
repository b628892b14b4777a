// Package sheet talks to the spreadsheet webhook that is the system of
// record for service periods. The webhook owns all business rules: it
// detects duplicate starts, orphan ends, and computes hours and salary.
package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const displayDateLayout = "02/01/2006 15:04:05"

// Display dates are rendered in the sheet's local time.
var paris = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		return time.UTC
	}
	return loc
}()

type Client struct {
	url    string
	client *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Result is the webhook's reply to a punch. Error is the in-band business
// rejection (already on service for a start, no active service for an end);
// Hours and Salary are only set on a successful end.
type Result struct {
	Error  bool    `json:"error"`
	Hours  float64 `json:"hours"`
	Salary float64 `json:"salary"`
}

type startRequest struct {
	Type        string   `json:"type"`
	UserID      string   `json:"userId"`
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	DisplayDate string   `json:"displayDate"`
	Start       string   `json:"start"`
	Roles       []string `json:"roles"`
}

type endRequest struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	End    string `json:"end"`
}

// SubmitStart records the beginning of a service period. A Result with
// Error set means the user is already on service; a Go error means the
// webhook could not be reached or answered with something unusable.
func (c *Client) SubmitStart(ctx context.Context, userID, name string, at time.Time, roles []string) (*Result, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is required")
	}
	if at.IsZero() {
		return nil, fmt.Errorf("punch instant is required")
	}
	if roles == nil {
		roles = []string{}
	}

	iso := at.UTC().Format(time.RFC3339)
	return c.submit(ctx, startRequest{
		Type:        "start",
		UserID:      userID,
		Name:        name,
		Date:        iso,
		DisplayDate: at.In(paris).Format(displayDateLayout),
		Start:       iso,
		Roles:       roles,
	})
}

// SubmitEnd records the end of a service period. On success the Result
// carries the hours and salary the sheet computed for the closed period.
func (c *Client) SubmitEnd(ctx context.Context, userID, name string, at time.Time) (*Result, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is required")
	}
	if at.IsZero() {
		return nil, fmt.Errorf("punch instant is required")
	}

	return c.submit(ctx, endRequest{
		Type:   "end",
		UserID: userID,
		Name:   name,
		End:    at.UTC().Format(time.RFC3339),
	})
}

// submit posts one punch and decodes the reply. No retries: the webhook's
// idempotency guarantees are unknown, so a failed attempt goes straight
// back to the caller instead of risking a duplicate punch.
func (c *Client) submit(ctx context.Context, payload any) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode punch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach record store: %w", err)
	}
	defer resp.Body.Close()

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode record store response: %w", err)
	}
	return &result, nil
}

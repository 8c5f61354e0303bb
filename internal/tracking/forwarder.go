package tracking

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/raptor1820/georloctesting/internal/models"
)

// Sample is the body posted to the ingest endpoint.
type Sample struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp string  `json:"timestamp"`
}

// Forwarder delivers samples to the location API.
type Forwarder interface {
	Forward(ctx context.Context, s Sample) (models.Location, error)
}

// ForwardError reports a failed forward. StatusCode is zero when the
// request never got a response.
type ForwardError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ForwardError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("forward location: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("forward location: status %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("forward location: status %d", e.StatusCode)
	}
}

func (e *ForwardError) Unwrap() error { return e.Err }

// APIClient talks to the location API over HTTP.
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient returns a client for the API rooted at baseURL. A nil
// client gets a default with a ten second timeout.
func NewAPIClient(baseURL string, client *http.Client) *APIClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Forward posts s and returns the stored record.
func (a *APIClient) Forward(ctx context.Context, s Sample) (models.Location, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return models.Location{}, &ForwardError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/location", bytes.NewReader(body))
	if err != nil {
		return models.Location{}, &ForwardError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return models.Location{}, &ForwardError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return models.Location{}, &ForwardError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	var loc models.Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return models.Location{}, &ForwardError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return loc, nil
}

// Recent fetches the newest stored records, newest first. since is
// ignored when empty.
func (a *APIClient) Recent(ctx context.Context, limit int, since string) (models.LocationPage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if since != "" {
		q.Set("since", since)
	}
	endpoint := a.baseURL + "/api/location"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.LocationPage{}, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return models.LocationPage{}, fmt.Errorf("query locations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.LocationPage{}, fmt.Errorf("query locations: status %d", resp.StatusCode)
	}

	var page models.LocationPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return models.LocationPage{}, fmt.Errorf("decode locations: %w", err)
	}
	return page, nil
}

// Package upstream talks to the remote BookNest REST API: the one-shot room
// catalog fetch and the date-scoped availability query. It owns no state
// beyond the HTTP client.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/mohammadarif-github/BookNest/config"
	"github.com/mohammadarif-github/BookNest/internal/store"
)

const (
	roomListPath     = "/hotel/get_room_list/"
	availabilityPath = "/hotel/room-availability/"
)

// Client fetches room data from the upstream hotel API.
type Client struct {
	baseURL string
	headers map[string]string
	http    *http.Client
}

// NewClient creates an upstream API client from configuration.
func NewClient(cfg *config.UpstreamConfig) *Client {
	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Upstream client will not use a proxy.", cfg.HTTPProxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	return &Client{
		baseURL: cfg.BaseURL,
		headers: cfg.Headers,
		http: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// roomListEnvelope models the documented shape of the room list response.
// Some deployments return a bare array instead; FetchRoomList tolerates both.
type roomListEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    []store.RoomItem `json:"data"`
}

// availabilityEnvelope models the availability query response. Only the room
// IDs inside available_rooms matter; the other fields are ignored.
type availabilityEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		AvailableRooms []struct {
			ID int64 `json:"id"`
		} `json:"available_rooms"`
	} `json:"data"`
}

// FetchRoomList retrieves the full room catalog.
func (c *Client) FetchRoomList(ctx context.Context) ([]store.RoomItem, error) {
	body, err := c.get(ctx, roomListPath, nil)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		// Observed backend variance: a bare array with no envelope.
		var rooms []store.RoomItem
		if err := json.Unmarshal(trimmed, &rooms); err != nil {
			return nil, fmt.Errorf("failed to unmarshal room list array: %w", err)
		}
		return rooms, nil
	}

	var envelope roomListEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room list response: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("room list request was not successful: %s", envelope.Message)
	}
	return envelope.Data, nil
}

// FetchAvailability asks the backend which rooms are free for the exact date
// range and returns their identifiers. Dates must already be validated ISO
// dates (YYYY-MM-DD).
func (c *Client) FetchAvailability(ctx context.Context, checkIn, checkOut string) ([]int64, error) {
	query := url.Values{}
	query.Set("check_in", checkIn)
	query.Set("check_out", checkOut)

	body, err := c.get(ctx, availabilityPath, query)
	if err != nil {
		return nil, err
	}

	var envelope availabilityEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal availability response: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("availability request was not successful: %s", envelope.Message)
	}

	ids := make([]int64, 0, len(envelope.Data.AvailableRooms))
	for _, room := range envelope.Data.AvailableRooms {
		ids = append(ids, room.ID)
	}
	return ids, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

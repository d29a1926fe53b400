package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/antonkarev/notedeck/internal/state"
)

// ErrEmpty is returned by Load when the remote store has no state for this
// identity yet. Callers fall back to the local working copy.
var ErrEmpty = errors.New("remote state empty")

// anonCookie carries the anonymous identity; the server keys stored state
// by its value.
const anonCookie = "anon_id"

// Client talks to the whole-state key-value endpoint. State travels as one
// JSON document per request in both directions.
type Client struct {
	endpoint string
	anonID   string
	http     *http.Client
}

// NewClient creates a Client for the given endpoint and anonymous identity.
func NewClient(endpoint, anonID string) *Client {
	return &Client{
		endpoint: endpoint,
		anonID:   anonID,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Load fetches the stored state. A 404 or an empty body means no state has
// been saved yet and maps to ErrEmpty.
func (c *Client) Load(ctx context.Context) (state.Data, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return state.Data{}, fmt.Errorf("creating load request: %w", err)
	}
	c.attachIdentity(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return state.Data{}, fmt.Errorf("loading remote state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return state.Data{}, ErrEmpty
	}
	if resp.StatusCode != http.StatusOK {
		return state.Data{}, fmt.Errorf("loading remote state: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return state.Data{}, fmt.Errorf("reading remote state: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return state.Data{}, ErrEmpty
	}

	var d state.Data
	if err := json.Unmarshal(body, &d); err != nil {
		return state.Data{}, fmt.Errorf("decoding remote state: %w", err)
	}
	return d, nil
}

// Save stores the full state, replacing whatever the server held.
func (c *Client) Save(ctx context.Context, d state.Data) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.attachIdentity(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("saving remote state: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("saving remote state: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) attachIdentity(req *http.Request) {
	req.AddCookie(&http.Cookie{Name: anonCookie, Value: c.anonID})
}

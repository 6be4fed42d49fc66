// Package directory provides the organization directory client and the
// tenant-name-resolution cache built on top of it.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gateward/gateward/internal/models"
	"github.com/rs/zerolog"
)

// ErrBackendUnavailable is returned when the directory backend cannot
// be reached or answers with a non-success status.
var ErrBackendUnavailable = errors.New("directory backend unavailable")

// Client fetches the current enumeration of top-level organizations
// from the directory backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a directory client against the given base URL.
func NewClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger.With().Str("component", "directory_client").Logger(),
	}
}

// listResponse is the wire shape of the directory listing.
type listResponse struct {
	Organizations []models.OrganizationEntry `json:"organizations"`
}

// ListOrganizations returns the full current list of organizations in
// backend order. Network errors, timeouts and non-2xx responses all
// surface as ErrBackendUnavailable.
func (c *Client) ListOrganizations(ctx context.Context) ([]models.OrganizationEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/organizations", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("directory request failed")
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("directory returned non-success status")
		return nil, fmt.Errorf("%w: status %d", ErrBackendUnavailable, resp.StatusCode)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrBackendUnavailable, err)
	}

	return body.Organizations, nil
}

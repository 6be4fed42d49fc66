// Package identity provides the client for the external identity
// backend that verifies credentials and owns account state.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gateward/gateward/internal/models"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidCredentials is returned when the backend rejects the
	// credentials. The backend deliberately does not say whether the
	// account exists or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrBackendUnavailable is returned when the identity backend
	// cannot be reached or answers with a server error.
	ErrBackendUnavailable = errors.New("identity backend unavailable")
)

// Client verifies credentials against the identity backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates an identity client against the given base URL.
func NewClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger.With().Str("component", "identity_client").Logger(),
	}
}

// verifyRequest is the wire shape of a credential verification call.
// The password is sent to the backend and exists nowhere else.
type verifyRequest struct {
	Login          string `json:"login"`
	OrganizationID string `json:"organization_id,omitempty"`
	Password       string `json:"password"`
}

// VerifyCredentials asks the backend to verify a login (username or
// email) plus password within an organization. Rejections surface as
// ErrInvalidCredentials; network errors, timeouts and 5xx responses as
// ErrBackendUnavailable.
func (c *Client) VerifyCredentials(ctx context.Context, login, orgID, password string) (*models.Principal, error) {
	payload, err := json.Marshal(verifyRequest{
		Login:          login,
		OrganizationID: orgID,
		Password:       password,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/credentials/verify", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("identity request failed")
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// verified below
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusNotFound:
		// The backend answers 404 for unknown logins; treat it as a
		// rejection, not an outage.
		return nil, ErrInvalidCredentials
	default:
		c.logger.Warn().Int("status", resp.StatusCode).Msg("identity returned unexpected status")
		return nil, fmt.Errorf("%w: status %d", ErrBackendUnavailable, resp.StatusCode)
	}

	var principal models.Principal
	if err := json.NewDecoder(resp.Body).Decode(&principal); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrBackendUnavailable, err)
	}
	if principal.ID == "" {
		return nil, fmt.Errorf("%w: response missing principal id", ErrBackendUnavailable)
	}

	return &principal, nil
}

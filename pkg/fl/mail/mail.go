// Package mail provides a lightweight client for an EmailJS-compatible
// transactional email API. Uses raw HTTP calls (no SDK) to minimize
// external dependencies.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when the client has no credentials.
var ErrNotConfigured = errors.New("mail: not configured")

// Sender is the outbound email collaborator. A send attempt has exactly two
// outcomes: acknowledgment (nil) or an opaque error. No retries, no
// cancellation beyond the context.
type Sender interface {
	Send(ctx context.Context, serviceID, templateID string, params map[string]string) error
}

// Client sends templated email through an EmailJS-compatible REST endpoint.
type Client struct {
	Endpoint   string
	PublicKey  string
	httpClient *http.Client
}

// NewClient creates a Client for the given endpoint and public key.
func NewClient(endpoint, publicKey string) *Client {
	return &Client{
		Endpoint:   endpoint,
		PublicKey:  publicKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether the client has everything needed to send.
func (c *Client) Configured() bool {
	return c.Endpoint != "" && c.PublicKey != ""
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send posts one templated message. The params map carries the flat
// string-keyed template variables (sender name, email, subject, body).
func (c *Client) Send(ctx context.Context, serviceID, templateID string, params map[string]string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:      serviceID,
		TemplateID:     templateID,
		UserID:         c.PublicKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("cannot encode send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("cannot build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send rejected: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	return nil
}

// Package ghl delivers translated inbound-call events to GoHighLevel webhook
// URLs. Delivery is best-effort: one attempt, bounded by the client timeout,
// no retry. Callers decide what to do with a failure; the router logs and
// discards it.
package ghl

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Kingmac21-dev/ghl-telecom-middleware/pkg/models"
)

// Sentinel errors for forwarding failures.
var (
	ErrUnreachable = errors.New("ghl webhook unreachable")
	ErrTimeout     = errors.New("ghl webhook timeout")
	ErrRejected    = errors.New("ghl webhook rejected payload")
)

// Forwarder is the interface for delivering inbound payloads to the CRM.
type Forwarder interface {
	ForwardInbound(ctx context.Context, url string, payload models.GHLInboundPayload) error
}

// HTTPClient implements Forwarder over plain HTTP POST.
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a forwarder whose single delivery attempt is bounded
// by timeout. With insecureTLS set, certificate verification is skipped;
// intended for development against self-signed CRM stand-ins only.
func NewHTTPClient(timeout time.Duration, insecureTLS bool) *HTTPClient {
	transport := http.DefaultTransport
	if insecureTLS {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &HTTPClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (c *HTTPClient) ForwardInbound(ctx context.Context, url string, payload models.GHLInboundPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return classifyError(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	return nil
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

// Compile-time check that HTTPClient implements Forwarder.
var _ Forwarder = (*HTTPClient)(nil)

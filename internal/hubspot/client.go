package hubspot

import (
	"context"
	"io"
	"net/http"
	"time"

	"hsforms/internal/types"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const DefaultTimeout = 30 * time.Second

// maxBodyBytes caps how much of a response body is read. Larger bodies are Absent.
var maxBodyBytes int64 = 8 << 20

// Client is the HubSpot HTTP fetcher. It implements ports.Fetcher.
type Client struct {
	http  *http.Client
	token string
}

// NewClient returns a Client sending token when callers don't supply their own.
// A zero timeout means DefaultTimeout.
func NewClient(token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:  &http.Client{Timeout: timeout},
		token: token,
	}
}

// NewClientWithHTTP is NewClient with a caller provided http.Client.
func NewClientWithHTTP(hc *http.Client, token string) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{http: hc, token: token}
}

// Fetch sends an authenticated GET to url. It never fails loudly: a transport error,
// an unreadable body or a panic anywhere on the way yields (types.Response{}, false).
func (c *Client) Fetch(ctx context.Context, url, token string) (resp types.Response, ok bool) {
	logger := log.WithFields(log.Fields{
		"url":        url,
		"request_id": uuid.NewString(),
	})
	logger.Infof("Sending request to %s", url)

	defer func() {
		if r := recover(); r != nil {
			logger.Warnf("request aborted: %v", r)
			resp, ok = types.Response{}, false
		}
	}()

	if token == "" {
		token = c.token
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.WithError(err).Debug("failed to build request")
		return types.Response{}, false
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	r, err := c.http.Do(req)
	if err != nil {
		logger.WithError(err).Debug("request failed")
		return types.Response{}, false
	}
	defer func() {
		_ = r.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		logger.WithError(err).Debug("failed to read response body")
		return types.Response{}, false
	}
	if int64(len(body)) > maxBodyBytes {
		logger.WithField("limit_bytes", maxBodyBytes).Warn("response body too large")
		return types.Response{}, false
	}
	return types.Response{StatusCode: r.StatusCode, Body: body}, true
}

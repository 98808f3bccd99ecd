package earthengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
)

const (
	defaultBaseURL = "https://earthengine.googleapis.com/v1"
	authScope      = "https://www.googleapis.com/auth/earthengine"
)

var (
	requestRetries = 3
	retryDelay     = 5 * time.Second
)

// Client talks to the Earth Engine REST API with a service-account token.
// Cloud masking and index computation happen server-side; the client only
// names the collection, window, cloud ceiling and band.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Project string
}

// NewClient authenticates with a service-account email and private key
// file. Failure here is fatal for the whole run: nothing downstream can
// proceed without the external service.
func NewClient(ctx context.Context, email, keyFile, project string) (*Client, error) {
	if email == "" {
		return nil, fmt.Errorf("missing required environment variable: GEE_SERVICE_ACCOUNT")
	}
	if project == "" {
		return nil, fmt.Errorf("missing required environment variable: GEE_PROJECT")
	}

	keyData, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account key file %s: %v", keyFile, err)
	}

	config, err := google.JWTConfigFromJSON(keyData, authScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %v", err)
	}
	if config.Email == "" {
		config.Email = email
	}

	return &Client{
		HTTP:    config.Client(ctx),
		BaseURL: defaultBaseURL,
		Project: project,
	}, nil
}

// postJSON sends one API request with bounded retry. Auth failures return
// immediately; anything else is retried a fixed number of times and the
// last error is returned, never swallowed.
func (c *Client) postJSON(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %v", err)
	}

	var lastErr error
	for attempt := 1; attempt <= requestRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")

		response, err := c.HTTP.Do(req)
		if err != nil {
			lastErr = err
			fmt.Printf("Attempt %d failed: %v\n", attempt, err)
			time.Sleep(retryDelay)
			continue
		}

		content, readErr := io.ReadAll(response.Body)
		response.Body.Close()

		if response.StatusCode == http.StatusOK {
			if readErr != nil {
				lastErr = fmt.Errorf("failed to read response body: %v", readErr)
				time.Sleep(retryDelay)
				continue
			}
			return content, nil
		}

		if response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("unauthorized access, check the service account credentials: %s", strings.TrimSpace(string(content)))
		}

		lastErr = fmt.Errorf("status %d: %s", response.StatusCode, strings.TrimSpace(string(content)))
		fmt.Printf("Attempt %d failed: %v\n", attempt, lastErr)
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("request failed after %d attempts: %v", requestRetries, lastErr)
}

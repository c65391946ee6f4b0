package Gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"MagicPlanner/Planner"

	log "github.com/sirupsen/logrus"
)

// ErrUnexpectedStatus is returned for any non-2xx backend response.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// Client talks to the backend REST API. Read operations log their failure and
// return a nil result together with the error; mutations log and return the error.
type Client struct {
	baseURL    string
	http       *http.Client
	classifier *Planner.Classifier
}

func NewClient(baseURL string, timeout time.Duration, classifier *Planner.Classifier) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: timeout},
		classifier: classifier,
	}
}

// do sends one request. body is JSON-encoded when non-nil and out is decoded
// from the response when non-nil and the response has a body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: %w %d: %s", method, path, ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s %s: %w", method, path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

// logFailure is the one place gateway failures are reported.
func logFailure(operation string, err error, fields log.Fields) {
	entry := log.WithField("operation", operation)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.WithError(err).Error("Backend request failed")
}

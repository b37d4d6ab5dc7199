package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/NitinReddy01/codejudge-cli/internal/apperrors"
)

// apiClient is the shared JSON helper for everything that rides the
// intercepted transport. By the time a 401 reaches this code the
// transport has already spent its one refresh-and-replay, so here it
// classifies as a persistent authorization failure.
type apiClient struct {
	http    *http.Client
	baseURL string
}

func newAPIClient(client *http.Client, baseURL string) apiClient {
	return apiClient{
		http:    client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *apiClient) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.roundTrip(req, out)
}

func (c *apiClient) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.roundTrip(req, out)
}

func (c *apiClient) roundTrip(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)

		var sentinel error
		if resp.StatusCode == http.StatusUnauthorized {
			sentinel = apperrors.ErrUnauthorized
		}
		return apperrors.NewAPIError(resp.StatusCode, body.Message, sentinel)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

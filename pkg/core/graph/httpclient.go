package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// HTTPClient talks to a graph service exposing a single query endpoint that
// accepts {"statement": "...", "parameters": {...}} and returns a Result.
type HTTPClient struct {
	BaseURL string
	client  *http.Client
}

var _ Searcher = (*HTTPClient)(nil)

type queryRequest struct {
	Statement  string                 `json:"statement"`
	Parameters map[string]interface{} `json:"parameters"`
}

// NewHTTPClient creates a client for the graph service. If baseURL is empty,
// the GRAPH_SERVICE_URL environment variable is used.
func NewHTTPClient(baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = os.Getenv("GRAPH_SERVICE_URL")
	}
	return &HTTPClient{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Query posts the statement and decodes the result rows. Errors from the
// graph boundary are returned as-is; callers own the retry/timeout policy.
func (c *HTTPClient) Query(ctx context.Context, cypher string, params map[string]interface{}) (*Result, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("GRAPH_SERVICE_URL_MISSING: no graph service endpoint configured")
	}

	body, err := json.Marshal(queryRequest{Statement: cypher, Parameters: params})
	if err != nil {
		return nil, fmt.Errorf("GRAPH_MARSHAL_ERROR: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/query", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("GRAPH_REQ_CREATE_ERROR: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GRAPH_API_CALL_ERROR: %v", err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("GRAPH_READ_BODY_ERROR: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GRAPH_API_ERROR: status=%d body=%s", res.StatusCode, string(payload))
	}

	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("GRAPH_UNMARSHAL_ERROR: %v", err)
	}
	return &result, nil
}

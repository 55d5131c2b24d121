package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultPageSize = 100

// Client talks to the Notion REST API. Tokens are per-user integration
// tokens, passed per call rather than held on the client.
type Client struct {
	baseURL    string
	version    string
	httpClient *http.Client
}

func NewClient(baseURL, version string) *Client {
	return &Client{
		baseURL: baseURL,
		version: version,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// RetrieveDatabase fetches a database's schema metadata
func (c *Client) RetrieveDatabase(ctx context.Context, token, databaseID string) (*Database, error) {
	var db Database
	url := fmt.Sprintf("%s/v1/databases/%s", c.baseURL, databaseID)
	if err := c.do(ctx, token, http.MethodGet, url, nil, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// QueryDatabase fetches one page of records. Pass the previous response's
// next_cursor to continue; an empty cursor starts from the beginning.
func (c *Client) QueryDatabase(ctx context.Context, token, databaseID, cursor string, pageSize int) (*QueryResponse, error) {
	if pageSize <= 0 || pageSize > defaultPageSize {
		pageSize = defaultPageSize
	}

	body := map[string]interface{}{
		"page_size": pageSize,
	}
	if cursor != "" {
		body["start_cursor"] = cursor
	}

	var resp QueryResponse
	url := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, databaseID)
	if err := c.do(ctx, token, http.MethodPost, url, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RetrievePage fetches a single record, used by the incremental sync path
func (c *Client) RetrievePage(ctx context.Context, token, pageID string) (*Page, error) {
	var page Page
	url := fmt.Sprintf("%s/v1/pages/%s", c.baseURL, pageID)
	if err := c.do(ctx, token, http.MethodGet, url, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, token, method, url string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Notion-Version", c.version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notion API returned status %d: %s", resp.StatusCode, string(data))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mbpa/rcv-votes/internal/domain"
)

// Client is the API client for the rcv-votes HTTP server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // collection runs are slow by design
		},
	}
}

// GetMemberVotes runs the collection pipeline for a member and returns the
// normalized vote records.
func (c *Client) GetMemberVotes(lastName, state string, congresses []int) ([]domain.VoteRecord, error) {
	path := fmt.Sprintf("/api/v1/members/%s/votes", url.PathEscape(lastName))

	params := url.Values{}
	params.Set("state", state)
	for _, congress := range congresses {
		params.Add("congress", strconv.Itoa(congress))
	}

	var response struct {
		Data  []domain.VoteRecord `json:"data"`
		Count int                 `json:"count"`
	}
	if err := c.get(path, params, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// get performs a GET request and decodes the JSON response
func (c *Client) get(path string, params url.Values, result interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	resp, err := c.httpClient.Get(u)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

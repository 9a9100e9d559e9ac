package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://openapi.naver.com/v1/search/shop.json"

// Client queries the Naver shopping search API for product images.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL, clientID, clientSecret string) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL:      base,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type searchResponse struct {
	Items []struct {
		Title string `json:"title"`
		Image string `json:"image"`
	} `json:"items"`
}

// SearchImageURL looks up a product image. Items whose title contains the
// product name win; otherwise the first result is used. An empty string means
// no match.
func (c *Client) SearchImageURL(ctx context.Context, supplementName string) (string, error) {
	query := url.Values{}
	query.Set("query", supplementName+" 영양제")
	query.Set("display", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build shopping request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("shopping request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("shopping request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read shopping response: %w", err)
	}
	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode shopping response: %w", err)
	}
	if len(parsed.Items) == 0 {
		return "", nil
	}

	needle := strings.ToLower(supplementName)
	for _, item := range parsed.Items {
		title := strings.ToLower(stripMarkup(item.Title))
		if strings.Contains(title, needle) {
			return item.Image, nil
		}
	}
	return parsed.Items[0].Image, nil
}

// stripMarkup removes the <b> highlighting the search API injects.
func stripMarkup(title string) string {
	title = strings.ReplaceAll(title, "<b>", "")
	return strings.ReplaceAll(title, "</b>", "")
}

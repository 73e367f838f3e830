package lark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Result is the normalized outcome of a Lark API call. Every operation
// returns one; the tool layer serializes it back to the caller unchanged.
// Code is the vendor status code, set only on vendor-level failures.
type Result struct {
	Success bool
	Error   string
	Code    int64
	Data    map[string]any
}

func failure(msg string) Result {
	return Result{Success: false, Error: msg}
}

func vendorFailure(code int64, msg string) Result {
	if msg == "" {
		msg = "unknown error"
	}
	return Result{Success: false, Error: msg, Code: code}
}

// Client issues authenticated requests against the Lark API. All operations
// go through invoke, which injects the tenant access token and normalizes
// the vendor response.
type Client struct {
	tokens     *TokenManager
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Lark API client backed by the given token manager
func NewClient(tokens *TokenManager, baseURL string, httpClient *http.Client) *Client {
	return &Client{
		tokens:     tokens,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type apiRequest struct {
	method      string
	path        string
	query       url.Values
	contentType string
	body        io.Reader
}

type apiResponse struct {
	Code int64          `json:"code"`
	Msg  string         `json:"msg"`
	Data map[string]any `json:"data"`
}

// invoke is the single authenticated-request envelope. It obtains a token,
// issues the request, and maps the outcome to a Result. A token failure
// short-circuits: no vendor call is attempted. No retries happen inside one
// invoke; a degraded cache simply triggers a fresh token fetch on the next
// call.
func (c *Client) invoke(ctx context.Context, r apiRequest) Result {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return failure(err.Error())
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return failure(err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure(err.Error())
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return failure(fmt.Sprintf("decode response (HTTP %d): %v", resp.StatusCode, err))
	}

	if body.Code != 0 {
		return vendorFailure(body.Code, body.Msg)
	}

	return Result{Success: true, Data: body.Data}
}

// invokeJSON invokes with a JSON-encoded request body
func (c *Client) invokeJSON(ctx context.Context, method, path string, query url.Values, payload any) Result {
	buf, err := json.Marshal(payload)
	if err != nil {
		return failure(fmt.Sprintf("encode request: %v", err))
	}
	return c.invoke(ctx, apiRequest{
		method:      method,
		path:        path,
		query:       query,
		contentType: "application/json",
		body:        bytes.NewReader(buf),
	})
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the single chokepoint for outbound calls to the clinic backend.
// Every server error shape is mapped into APIError exactly once, here, instead
// of repeating message/error fallback chains at each call site.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 25 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

type tokenKey struct{}

// WithToken carries the bearer token for outbound requests on the context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	if tok, ok := ctx.Value(tokenKey{}).(string); ok {
		return tok
	}
	return ""
}

// Get issues a GET with optional query parameters and decodes the response
// into out when out is non-nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.BaseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &APIError{Err: err}
	}
	return c.do(req, out)
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, body, out)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, body, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return &APIError{Err: err}
		}
	}

	u := c.BaseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return &APIError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// FileUpload is one attachment for a multipart request.
type FileUpload struct {
	Field   string
	Name    string
	Content []byte
}

// PostMultipart sends form fields plus file attachments as multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path string, fields url.Values, files []FileUpload, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for field, values := range fields {
		for _, v := range values {
			if err := w.WriteField(field, v); err != nil {
				return &APIError{Err: err}
			}
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return &APIError{Err: err}
		}
		if _, err := part.Write(f.Content); err != nil {
			return &APIError{Err: err}
		}
	}
	if err := w.Close(); err != nil {
		return &APIError{Err: err}
	}

	u := c.BaseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return &APIError{Err: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if tok := tokenFrom(req.Context()); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &APIError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

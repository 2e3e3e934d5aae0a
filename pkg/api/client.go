package api

// LOYALTY API CLIENT

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// StatusTransportError is returned in place of an HTTP status when the
// backend could not be reached at all (DNS, connect, timeout). It sits
// outside the valid HTTP range so handlers can tell it apart.
const StatusTransportError = -1

// CookieStore persists the per-chat cookie jar between calls.
type CookieStore interface {
	Cookies(ctx context.Context, chatID int64) ([]*http.Cookie, error)
	SetCookies(ctx context.Context, chatID int64, cookies []*http.Cookie) error
}

type Client struct {
	baseURL         *url.URL
	flushCookiesURL string
	cookies         CookieStore
	timeout         time.Duration
	logger          *zap.Logger
}

func NewClient(baseURL, flushCookiesURL string, cookies CookieStore, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &Client{
		baseURL:         u,
		flushCookiesURL: flushCookiesURL,
		cookies:         cookies,
		timeout:         timeout,
		logger:          logger,
	}, nil
}

// Call performs one backend request with the chat's cookie jar attached.
// The jar's resulting state is written back to the store unconditionally,
// even on non-2xx responses, so rotated session cookies are never lost.
//
// The response body is decoded as JSON when possible and degrades to the
// raw text otherwise. Transport failures are reported as
// (StatusTransportError, human-readable message); Call never returns an
// error for them.
func (c *Client) Call(ctx context.Context, chatID int64, method, path string, query url.Values, body any) (int, any) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return StatusTransportError, fmt.Sprintf("cookie jar: %v", err)
	}

	stored, err := c.cookies.Cookies(ctx, chatID)
	if err != nil {
		c.logger.Error("Failed to load session cookies",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	if len(stored) > 0 {
		jar.SetCookies(c.baseURL, stored)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return StatusTransportError, fmt.Sprintf("marshal request: %v", err)
		}
		reqBody = bytes.NewReader(data)
	}

	fullURL := c.baseURL.String() + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), fullURL, reqBody)
	if err != nil {
		return StatusTransportError, fmt.Sprintf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	httpClient := &http.Client{Jar: jar, Timeout: c.timeout}

	resp, err := httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Backend unreachable",
			zap.Int64("chat_id", chatID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return StatusTransportError, fmt.Sprintf("backend unreachable: %v", err)
	}
	defer resp.Body.Close()

	// The jar only reports cookies whose path covers the base URL, which
	// loses cookies issued without a Path on deep endpoints. Overlay the
	// jar's view and the response's Set-Cookie values on the stored set
	// so every rotated cookie survives.
	merged := mergeCookies(stored, jar.Cookies(c.baseURL))
	merged = mergeCookies(merged, resp.Cookies())
	if err := c.cookies.SetCookies(ctx, chatID, merged); err != nil {
		c.logger.Error("Failed to persist session cookies",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Sprintf("read response: %v", err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Not JSON; hand the caller the raw text.
		return resp.StatusCode, string(raw)
	}
	return resp.StatusCode, decoded
}

// mergeCookies overlays fresh cookies on the stored set, keyed by name.
// A fresh cookie with a negative MaxAge deletes its stored counterpart.
func mergeCookies(stored, fresh []*http.Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(stored)+len(fresh))
	index := make(map[string]int, len(stored))
	for _, c := range stored {
		index[c.Name] = len(out)
		out = append(out, c)
	}

	deleted := make(map[string]bool)
	for _, c := range fresh {
		if c.MaxAge < 0 {
			deleted[c.Name] = true
			continue
		}
		if i, ok := index[c.Name]; ok {
			out[i] = c
			continue
		}
		index[c.Name] = len(out)
		out = append(out, c)
	}

	if len(deleted) == 0 {
		return out
	}
	kept := out[:0]
	for _, c := range out {
		if !deleted[c.Name] {
			kept = append(kept, c)
		}
	}
	return kept
}

// FlushCookies hits the server-side cookie flush endpoint used on logout.
// It is deliberately not session-scoped: no jar is attached.
func (c *Client) FlushCookies(ctx context.Context) (int, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.flushCookiesURL, nil)
	if err != nil {
		return StatusTransportError, fmt.Sprintf("create request: %v", err)
	}

	httpClient := &http.Client{Timeout: c.timeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		return StatusTransportError, fmt.Sprintf("backend unreachable: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw)
}

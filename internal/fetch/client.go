package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const maxBodyBytes = 16 << 20

const acceptHeader = "text/x-opml, application/xml, application/atom+xml, application/rss+xml, text/xml, */*;q=0.8"

// Client opens http, https and file URLs. It satisfies opml.Fetcher.
type Client struct {
	client    *http.Client
	userAgent string
}

func NewClient(timeout time.Duration, userAgent string) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: userAgent,
	}
}

func (c *Client) HTTPClient() *http.Client {
	return c.client
}

// Fetch returns the body of u, capped at 16 MiB. Non-2xx responses are
// errors.
func (c *Client) Fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	switch strings.ToLower(u.Scheme) {
	case "file":
		return openFile(u)
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", fallback(c.userAgent, "bbopml/0.1"))
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	return limitedBody{Reader: io.LimitReader(resp.Body, maxBodyBytes), Closer: resp.Body}, nil
}

func openFile(u *url.URL) (io.ReadCloser, error) {
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	if path == "" {
		return nil, fmt.Errorf("empty file path in %q", u.String())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return limitedBody{Reader: io.LimitReader(f, maxBodyBytes), Closer: f}, nil
}

type limitedBody struct {
	io.Reader
	io.Closer
}

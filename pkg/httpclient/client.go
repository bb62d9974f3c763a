package httpclient

import (
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client is the subset of http.Client the rest of the codebase depends
// on, kept small so outbound calls can be mocked in tests.
type Client interface {
	Post(url, contentType string, body io.Reader) (*http.Response, error)
	Get(url string) (*http.Response, error)
	Do(req *http.Request) (*http.Response, error)
}

type standardClient struct {
	inner *http.Client
}

// NewStandardClient returns a Client backed by net/http with a sane
// default timeout. Callers that need a different timeout use
// NewClientWithTimeout.
func NewStandardClient() Client {
	return NewClientWithTimeout(defaultTimeout)
}

// NewClientWithTimeout returns a Client with an explicit request timeout.
func NewClientWithTimeout(timeout time.Duration) Client {
	return &standardClient{
		inner: &http.Client{Timeout: timeout},
	}
}

func (c *standardClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	return c.inner.Post(url, contentType, body)
}

func (c *standardClient) Get(url string) (*http.Response, error) {
	return c.inner.Get(url)
}

func (c *standardClient) Do(req *http.Request) (*http.Response, error) {
	return c.inner.Do(req)
}

package api

import (
	"io"
	"net/url"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data []byte
	pos  int
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data, pos: 0}
}

func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

func (m *MockResponseBody) Close() error {
	return nil
}

// MockHttpClient is a mock implementation of tls_client.HttpClient that
// records every request it receives.
type MockHttpClient struct {
	Response *fhttp.Response
	Err      error
	// DoFunc, when set, replaces the canned Response/Err.
	DoFunc func(req *fhttp.Request) (*fhttp.Response, error)

	mu        sync.Mutex
	Requests  []*fhttp.Request
	Bodies    [][]byte
	IdleClose int
}

func (m *MockHttpClient) GetCookies(u *url.URL) []*fhttp.Cookie { return nil }

func (m *MockHttpClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie) {}

func (m *MockHttpClient) SetCookieJar(jar fhttp.CookieJar) {}

func (m *MockHttpClient) GetCookieJar() fhttp.CookieJar { return nil }

func (m *MockHttpClient) SetProxy(proxyUrl string) error { return nil }

func (m *MockHttpClient) GetProxy() string { return "" }

func (m *MockHttpClient) SetFollowRedirect(followRedirect bool) {}

func (m *MockHttpClient) GetFollowRedirect() bool { return false }

func (m *MockHttpClient) CloseIdleConnections() {
	m.mu.Lock()
	m.IdleClose++
	m.mu.Unlock()
}

func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}

	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.Bodies = append(m.Bodies, body)
	m.mu.Unlock()

	if m.DoFunc != nil {
		return m.DoFunc(req)
	}
	return m.Response, m.Err
}

func (m *MockHttpClient) Get(url string) (*fhttp.Response, error) {
	return m.Response, m.Err
}

func (m *MockHttpClient) Head(url string) (*fhttp.Response, error) {
	return m.Response, m.Err
}

func (m *MockHttpClient) Post(url, contentType string, body io.Reader) (*fhttp.Response, error) {
	return m.Response, m.Err
}

func (m *MockHttpClient) GetBandwidthTracker() bandwidth.BandwidthTracker {
	return nil
}

// LastRequest returns the most recent request and its body
func (m *MockHttpClient) LastRequest() (*fhttp.Request, []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil, nil
	}
	return m.Requests[len(m.Requests)-1], m.Bodies[len(m.Bodies)-1]
}

// NewMockHttpClient creates a new MockHttpClient with a canned response
func NewMockHttpClient(body []byte, statusCode int) *MockHttpClient {
	return &MockHttpClient{
		Response: &fhttp.Response{
			StatusCode: statusCode,
			Body:       NewMockResponseBody(body),
			Header:     make(fhttp.Header),
		},
	}
}

// NewMockHttpClientWithError creates a new MockHttpClient that returns an error
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{
		Response: nil,
		Err:      err,
	}
}

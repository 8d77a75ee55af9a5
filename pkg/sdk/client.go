package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Client provides a high-level interface to the dashboard API of one tenant.
// Requests go to the base address resolved from the hostname and carry the
// session's live credential.
type Client struct {
	httpClient *http.Client
	baseURL    string
	session    *SessionStore
	authorizer *Authorizer
	logger     *slog.Logger
}

// ClientOptions configures SDK client construction.
type ClientOptions struct {
	HTTPClient *http.Client
	Session    *SessionStore
	Authorizer *Authorizer
	Logger     *slog.Logger
	BaseURL    string
}

// ClientOption mutates ClientOptions.
type ClientOption func(*ClientOptions)

// WithHTTPClient overrides the HTTP client whose transport carries requests.
// Bearer stamping is layered on top of its transport.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// WithSession binds the client to a session store.
func WithSession(session *SessionStore) ClientOption {
	return func(opts *ClientOptions) {
		opts.Session = session
	}
}

// WithAuthorizer enables local capability checks before gated calls.
func WithAuthorizer(authorizer *Authorizer) ClientOption {
	return func(opts *ClientOptions) {
		opts.Authorizer = authorizer
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(opts *ClientOptions) {
		opts.Logger = logger
	}
}

// WithBaseURL bypasses hostname resolution (tests, custom deployments).
func WithBaseURL(baseURL string) ClientOption {
	return func(opts *ClientOptions) {
		opts.BaseURL = baseURL
	}
}

// NewClient creates a client for the tenant served at hostname.
func NewClient(hostname string, optFns ...ClientOption) *Client {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = ResolveBaseAddress(hostname)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	base := defaultHTTPClient()
	if opts.HTTPClient != nil {
		base = opts.HTTPClient
	}

	var source CredentialSource
	if opts.Session != nil {
		source = opts.Session
	}
	httpClient := &http.Client{
		Transport:     &BearerTransport{Source: source, Base: base.Transport},
		Timeout:       base.Timeout,
		Jar:           base.Jar,
		CheckRedirect: base.CheckRedirect,
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    opts.Session,
		authorizer: opts.Authorizer,
		logger:     opts.Logger,
	}
}

// BaseURL returns the address requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the bearer-stamping HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Session returns the bound session store (may be nil).
func (c *Client) Session() *SessionStore {
	return c.session
}

// RefreshTransport returns an exchange against this client's base address.
// The exchange itself is sent without a bearer credential.
func (c *Client) RefreshTransport() RefreshTransport {
	return &HTTPRefreshTransport{BaseURL: c.baseURL, HTTPClient: defaultHTTPClient()}
}

func (c *Client) require(capability Capability) error {
	if c.authorizer == nil {
		return nil
	}
	var identity *Identity
	if c.session != nil {
		identity = c.session.Identity()
	}
	return c.authorizer.Require(identity, capability)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, target, nil, out)
}

func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	err := doJSON(ctx, c.httpClient, method, target, body, out)
	if err != nil {
		c.logger.DebugContext(ctx, "api request failed", "method", method, "url", target, "error", err)
	}
	return err
}

// APIError is a non-2xx answer from the dashboard API.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Detail)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

func doJSON(ctx context.Context, httpClient *http.Client, method, target string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorDetail pulls the human-readable message out of an error body
// ({"detail": ...} or {"error": ...}).
func errorDetail(data []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Error
}

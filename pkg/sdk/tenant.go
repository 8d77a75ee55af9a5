package sdk

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// LocalDevMarker identifies development hostnames such as acme.localhost.
	LocalDevMarker = "localhost"
	// DefaultSubdomain is used for a bare local-dev hostname.
	DefaultSubdomain = "demo"

	// TenantCacheTTL is how long a fetched tenant record stays fresh.
	TenantCacheTTL = 5 * time.Minute
	tenantCacheSize = 64
)

// ResolveBaseAddress maps the hostname of the current browsing context onto the
// API base address. Local-dev hosts keep only their leading label and use plain
// HTTP; every other host is addressed unchanged over HTTPS.
func ResolveBaseAddress(hostname string) string {
	if strings.Contains(hostname, LocalDevMarker) {
		subdomain := DefaultSubdomain
		if i := strings.Index(hostname, "."); i >= 0 {
			subdomain = hostname[:i]
		}
		return "http://" + subdomain + "." + LocalDevMarker
	}
	return "https://" + hostname
}

// Tenant is the organization a hostname is scoped to.
type Tenant struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ProfilePic  *string `json:"profile_pic"`
	IsActive    bool    `json:"is_active"`
	Style       string  `json:"style"`
	Theme       string  `json:"theme"`
	PlanType    *string `json:"plan_type"`
	TierType    *string `json:"tier_type"`
	City        *string `json:"city"`
	TypeOfOrg   string  `json:"typeOfOrg"`
	Domain      string  `json:"domain"`
	Email       string  `json:"email,omitempty"`
	Phone       string  `json:"phone,omitempty"`
}

// DefaultTenant is rendered whenever the tenant lookup fails so the shell never
// blocks on branding.
func DefaultTenant() Tenant {
	return Tenant{
		Name:      "Zakerai Academy",
		IsActive:  true,
		Style:     "1",
		Theme:     "1",
		TypeOfOrg: "school",
		Domain:    DefaultSubdomain,
	}
}

// TenantResult is the outcome of a tenant lookup. Tenant is always usable;
// Fallback reports that it is DefaultTenant because the lookup failed with Err.
type TenantResult struct {
	Tenant   Tenant
	Fallback bool
	Err      error
}

// TenantFetcher performs the network lookup behind TenantClient.
type TenantFetcher interface {
	FetchTenant(ctx context.Context, baseURL string) (*Tenant, error)
}

// TenantFetcherFunc adapts a function to TenantFetcher.
type TenantFetcherFunc func(ctx context.Context, baseURL string) (*Tenant, error)

// FetchTenant implements TenantFetcher.
func (f TenantFetcherFunc) FetchTenant(ctx context.Context, baseURL string) (*Tenant, error) {
	return f(ctx, baseURL)
}

// TenantClient resolves tenant metadata per hostname and caches successful
// lookups for TenantCacheTTL.
type TenantClient struct {
	fetcher TenantFetcher
	cache   *expirable.LRU[string, Tenant]
	logger  *slog.Logger
	retries int
}

// TenantClientOption configures a TenantClient.
type TenantClientOption func(*TenantClient)

// WithTenantTTL overrides the cache freshness window.
func WithTenantTTL(ttl time.Duration) TenantClientOption {
	return func(c *TenantClient) {
		c.cache = expirable.NewLRU[string, Tenant](tenantCacheSize, nil, ttl)
	}
}

// WithTenantLogger sets the logger used to report fallbacks.
func WithTenantLogger(logger *slog.Logger) TenantClientOption {
	return func(c *TenantClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTenantRetries sets how many extra attempts are made before falling back.
func WithTenantRetries(n int) TenantClientOption {
	return func(c *TenantClient) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// NewTenantClient builds a TenantClient backed by fetcher.
func NewTenantClient(fetcher TenantFetcher, opts ...TenantClientOption) *TenantClient {
	c := &TenantClient{
		fetcher: fetcher,
		cache:   expirable.NewLRU[string, Tenant](tenantCacheSize, nil, TenantCacheTTL),
		logger:  slog.Default(),
		retries: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the tenant for hostname. It never fails: when the lookup
// errors the result carries DefaultTenant with Fallback set.
func (c *TenantClient) Lookup(ctx context.Context, hostname string) TenantResult {
	if tenant, ok := c.cache.Get(hostname); ok {
		return TenantResult{Tenant: tenant}
	}

	baseURL := ResolveBaseAddress(hostname)

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		tenant, err := c.fetcher.FetchTenant(ctx, baseURL)
		if err == nil && tenant != nil {
			c.cache.Add(hostname, *tenant)
			return TenantResult{Tenant: *tenant}
		}
		if err == nil {
			err = fmt.Errorf("empty tenant response")
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	c.logger.WarnContext(ctx, "tenant lookup failed, using default tenant",
		"host", hostname, "base_url", baseURL, "error", lastErr)
	return TenantResult{Tenant: DefaultTenant(), Fallback: true, Err: lastErr}
}

// Invalidate drops the cached tenant for hostname.
func (c *TenantClient) Invalidate(hostname string) {
	c.cache.Remove(hostname)
}

// HTTPTenantFetcher fetches GET <base>/api/tenant/ with an ordinary HTTP client.
type HTTPTenantFetcher struct {
	HTTPClient *http.Client
}

// FetchTenant implements TenantFetcher.
func (f HTTPTenantFetcher) FetchTenant(ctx context.Context, baseURL string) (*Tenant, error) {
	httpClient := f.HTTPClient
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}

	var tenant Tenant
	if err := doJSON(ctx, httpClient, http.MethodGet, baseURL+tenantPath, nil, &tenant); err != nil {
		return nil, fmt.Errorf("fetch tenant: %w", err)
	}
	return &tenant, nil
}

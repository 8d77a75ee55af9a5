// pkg/sdk/auth.go
package sdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const refreshPath = "/users/token/refresh/"

var (
	// ErrNoRefreshArtifact is reported when no refresh artifact is stored.
	ErrNoRefreshArtifact = errors.New("no refresh artifact")
	// ErrRefreshRejected is reported when the exchange answers without a usable credential.
	ErrRefreshRejected = errors.New("refresh rejected")
	// ErrNotAuthenticated is returned by calls that need a session when there is none.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// RefreshTransport exchanges a refresh artifact for a new short-lived credential.
type RefreshTransport interface {
	Exchange(ctx context.Context, refreshArtifact string) (Credential, error)
}

// RefreshTransportFunc adapts a function to RefreshTransport.
type RefreshTransportFunc func(ctx context.Context, refreshArtifact string) (Credential, error)

// Exchange implements RefreshTransport.
func (f RefreshTransportFunc) Exchange(ctx context.Context, refreshArtifact string) (Credential, error) {
	return f(ctx, refreshArtifact)
}

// HTTPRefreshTransport posts the refresh artifact to the dashboard backend.
//
// Request:  POST <BaseURL>/users/token/refresh/ {"refresh": "<artifact>"}
// Response: {"access": "<credential>"}
//
// Any non-2xx status is a failure.
type HTTPRefreshTransport struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ RefreshTransport = (*HTTPRefreshTransport)(nil)

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// Exchange implements RefreshTransport.
func (t *HTTPRefreshTransport) Exchange(ctx context.Context, refreshArtifact string) (Credential, error) {
	httpClient := t.HTTPClient
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}

	var resp refreshResponse
	err := doJSON(ctx, httpClient, http.MethodPost, strings.TrimRight(t.BaseURL, "/")+refreshPath,
		refreshRequest{Refresh: refreshArtifact}, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}
	if resp.Access == "" {
		return "", fmt.Errorf("%w: response has no access field", ErrRefreshRejected)
	}
	return Credential(resp.Access), nil
}

// --- Helper Functions ---

// defaultHTTPClient returns an HTTP client with reasonable timeout for session operations.
func defaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
	}
}

// CheckEnvRefreshToken reports whether COHORT_REFRESH_TOKEN carries a refresh artifact.
func CheckEnvRefreshToken() (bool, string) {
	token := strings.TrimSpace(os.Getenv("COHORT_REFRESH_TOKEN"))
	return token != "", token
}

package sdk_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraconstructs/cohort/pkg/sdk"
)

type swappableSource struct {
	mu   sync.Mutex
	cred sdk.Credential
}

func (s *swappableSource) Credential() (sdk.Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred, s.cred != ""
}

func (s *swappableSource) set(cred sdk.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
}

type headerRecorder struct {
	mu      sync.Mutex
	headers []http.Header
}

func (r *headerRecorder) handler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.headers = append(r.headers, req.Header.Clone())
		r.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
}

func (r *headerRecorder) last() http.Header {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.headers[len(r.headers)-1]
}

func TestBearerTransport_ReadsCredentialAtSendTime(t *testing.T) {
	rec := &headerRecorder{}
	srv := httptest.NewServer(rec.handler(`{}`))
	defer srv.Close()

	source := &swappableSource{cred: "first"}
	client := sdk.NewHTTPClient(source)

	get(t, client, srv.URL)
	assert.Equal(t, "Bearer first", rec.last().Get("Authorization"))

	source.set("second")
	get(t, client, srv.URL)
	assert.Equal(t, "Bearer second", rec.last().Get("Authorization"))

	source.set("")
	get(t, client, srv.URL)
	assert.Empty(t, rec.last().Get("Authorization"))
}

func get(t *testing.T, client *http.Client, url string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	resp.Body.Close()
}

func TestBearerTransport_StripsCallerAuthorization(t *testing.T) {
	rec := &headerRecorder{}
	srv := httptest.NewServer(rec.handler(`{}`))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer forged")

	resp, err := sdk.NewHTTPClient(&swappableSource{}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, rec.last().Get("Authorization"))
	assert.Equal(t, "Bearer forged", req.Header.Get("Authorization"), "caller's request is not mutated")
}

func TestBearerTransport_StampsRequestHeaders(t *testing.T) {
	rec := &headerRecorder{}
	srv := httptest.NewServer(rec.handler(`{}`))
	defer srv.Close()

	resp, err := sdk.NewHTTPClient(nil).Post(srv.URL, "", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()

	h := rec.last()
	_, err = uuid.Parse(h.Get(sdk.RequestIDHeader))
	assert.NoError(t, err)
	assert.Equal(t, "application/json", h.Get("Accept"))
}

func TestClient_LogoutDropsAuthorization(t *testing.T) {
	rec := &headerRecorder{}
	srv := httptest.NewServer(rec.handler(`{"role":"admin","profile_data":{}}`))
	defer srv.Close()

	cred := credentialFor(t, 1, "admin_demo", "admin", time.Now().Add(time.Hour))
	store := sdk.NewSessionStore(sdk.WithCredentialStorage(sdk.NewMemoryCredentialStorage(cred)))
	require.True(t, store.Start(context.Background()).IsAuthenticated)

	client := sdk.NewClient("acme.localhost", sdk.WithBaseURL(srv.URL), sdk.WithSession(store))

	_, err := client.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+cred.String(), rec.last().Get("Authorization"))

	store.Logout(context.Background())

	_, err = client.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec.last().Get("Authorization"))
}

func TestNewClient_ResolvesBaseAddress(t *testing.T) {
	assert.Equal(t, "http://acme.localhost", sdk.NewClient("acme.localhost").BaseURL())
	assert.Equal(t, "https://acme.org", sdk.NewClient("acme.org").BaseURL())
	assert.Equal(t, "http://127.0.0.1:8080", sdk.NewClient("ignored", sdk.WithBaseURL("http://127.0.0.1:8080/")).BaseURL())
}

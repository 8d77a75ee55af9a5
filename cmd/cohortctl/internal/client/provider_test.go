package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/auth"
	"github.com/terraconstructs/cohort/internal/mockapi"
	"github.com/terraconstructs/cohort/pkg/sdk"
)

func newTestProvider(t *testing.T) (*Provider, *mockapi.Server, *auth.FileStore) {
	t.Helper()
	backend := mockapi.New(mockapi.Options{})
	server := httptest.NewServer(backend.Router())
	t.Cleanup(server.Close)

	root := t.TempDir()
	store, err := auth.NewFileStoreAt(filepath.Join(root, "home"), filepath.Join(root, "session"))
	require.NoError(t, err)

	p := NewProvider("acme.localhost", server.URL, nil)
	p.SetStore(store)
	return p, backend, store
}

func TestProvider_LoggedInThroughRefreshArtifact(t *testing.T) {
	p, backend, store := newTestProvider(t)
	require.NoError(t, store.SaveRefreshArtifact(mockapi.RefreshArtifactFor("admin")))

	client, identity, err := p.AuthenticatedClient(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sdk.RoleAdmin, identity.Role)
	assert.Equal(t, int64(1), backend.RefreshCount())

	members, err := client.ListMembers(context.Background(), sdk.ListMembersInput{Role: sdk.RoleStudent})
	require.NoError(t, err)
	assert.Len(t, members, 5)

	// the refreshed credential is persisted for the next invocation
	_, ok, err := store.LoadCredential()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProvider_NotLoggedIn(t *testing.T) {
	p, _, _ := newTestProvider(t)

	_, _, err := p.AuthenticatedClient(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestProvider_AccessTokenBypassesStore(t *testing.T) {
	p, backend, _ := newTestProvider(t)
	token, err := backend.IssueAccessToken(mockapi.DemoUsers["teacher"])
	require.NoError(t, err)
	p.SetAccessToken(sdk.Credential(token))

	client, identity, err := p.AuthenticatedClient(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sdk.RoleTeacher, identity.Role)
	assert.Zero(t, backend.RefreshCount())

	_, err = client.GetProfile(context.Background())
	assert.NoError(t, err)
}

func TestProvider_AccessTokenLogoutKeepsStoredLogin(t *testing.T) {
	p, backend, store := newTestProvider(t)
	require.NoError(t, store.SaveRefreshArtifact(mockapi.RefreshArtifactFor("admin")))
	require.NoError(t, store.SaveCredential("stored.login.credential"))

	token, err := backend.IssueAccessToken(mockapi.DemoUsers["teacher"])
	require.NoError(t, err)
	p.SetAccessToken(sdk.Credential(token))

	session, err := p.Session(context.Background())
	require.NoError(t, err)
	require.True(t, session.State().IsAuthenticated)

	state := session.Logout(context.Background())
	assert.False(t, state.IsAuthenticated)

	artifact, ok, err := store.RefreshArtifact()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, mockapi.RefreshArtifactFor("admin"), artifact)

	cred, ok, err := store.LoadCredential()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sdk.Credential("stored.login.credential"), cred)
}

func TestProvider_Tenants(t *testing.T) {
	p, _, _ := newTestProvider(t)

	result := p.Tenants().Lookup(context.Background(), p.Host())
	assert.False(t, result.Fallback)
	assert.Equal(t, "Zakerai Academy", result.Tenant.Name)
}

func TestProvider_BaseURL(t *testing.T) {
	assert.Equal(t, "http://acme.localhost", NewProvider("acme.localhost", "", nil).BaseURL())
	assert.Equal(t, "https://acme.org", NewProvider("acme.org", "", nil).BaseURL())
}

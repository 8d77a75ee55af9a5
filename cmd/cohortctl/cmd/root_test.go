package cmd

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/client"
	"github.com/terraconstructs/cohort/internal/mockapi"
	"github.com/terraconstructs/cohort/pkg/sdk"
)

func execute(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestSessionLifecycle(t *testing.T) {
	backend := mockapi.New(mockapi.Options{})
	server := httptest.NewServer(backend.Router())
	defer server.Close()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("COHORT_REFRESH_TOKEN", "")
	global := []string{"--base-url", server.URL, "--non-interactive"}
	run := func(args ...string) error {
		return execute(append(append([]string{}, global...), args...)...)
	}

	err := run("auth", "status")
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)

	require.NoError(t, run("auth", "login", "--refresh-token", mockapi.RefreshArtifactFor("admin")))
	assert.Equal(t, int64(1), backend.RefreshCount())

	// later invocations reuse the stored credential
	require.NoError(t, run("auth", "status"))
	require.NoError(t, run("tabs"))
	require.NoError(t, run("members", "list", "--role", "teacher"))
	require.NoError(t, run("invitations", "delete", "1", "2"))
	require.NoError(t, run("subscription", "show"))
	require.NoError(t, run("tenant", "show"))
	assert.Equal(t, int64(1), backend.RefreshCount())

	require.NoError(t, run("auth", "refresh"))
	assert.Equal(t, int64(2), backend.RefreshCount())

	require.NoError(t, run("auth", "logout"))
	err = run("profile")
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
}

func TestGatedCommandForStudent(t *testing.T) {
	backend := mockapi.New(mockapi.Options{})
	server := httptest.NewServer(backend.Router())
	defer server.Close()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	require.NoError(t, execute("--base-url", server.URL, "auth", "login", "--refresh-token", mockapi.RefreshArtifactFor("student")))

	err := execute("--base-url", server.URL, "members", "list", "--role", "")
	assert.ErrorIs(t, err, sdk.ErrForbidden)
}

func TestLoginRequiresRefreshToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("COHORT_REFRESH_TOKEN", "")

	err := execute("--base-url", "http://127.0.0.1:1", "auth", "login", "--refresh-token", "")
	assert.ErrorContains(t, err, "a refresh token is required")
}

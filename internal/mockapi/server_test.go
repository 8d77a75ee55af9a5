package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, New(Options{}).Router(), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRefresh(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	srv := New(Options{SigningKey: []byte("k"), TokenTTL: time.Minute, Now: func() time.Time { return now }})
	h := srv.Router()

	rec := do(t, h, http.MethodPost, "/users/token/refresh/", "", `{"refresh":"demo-teacher"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(body.Access, claims, func(*jwt.Token) (any, error) { return []byte("k"), nil },
		jwt.WithTimeFunc(func() time.Time { return now }))
	require.NoError(t, err)
	assert.Equal(t, "teacher_ali", claims["username"])
	assert.Equal(t, "teacher", claims["role"])
	assert.EqualValues(t, 2, claims["user_id"])
	assert.EqualValues(t, now.Add(time.Minute).Unix(), claims["exp"])
	assert.Equal(t, int64(1), srv.RefreshCount())
}

func TestRefresh_Rejections(t *testing.T) {
	srv := New(Options{})
	h := srv.Router()

	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodPost, "/users/token/refresh/", "", `{"refresh":"demo-janitor"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodPost, "/users/token/refresh/", "", `{"refresh":"admin"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/users/token/refresh/", "", `nope`).Code)

	srv.RejectRefresh(true)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodPost, "/users/token/refresh/", "", `{"refresh":"demo-admin"}`).Code)
	assert.Equal(t, int64(4), srv.RefreshCount())
}

func TestAuthentication(t *testing.T) {
	srv := New(Options{})
	h := srv.Router()

	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/analytics/profile/", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/analytics/profile/", "garbage", "").Code)

	expired, err := srv.IssueExpiredAccessToken(DemoUsers["admin"])
	require.NoError(t, err)
	rec := do(t, h, http.MethodGet, "/api/analytics/profile/", expired, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token is expired")

	forged, err := New(Options{SigningKey: []byte("other")}).IssueAccessToken(DemoUsers["admin"])
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/analytics/profile/", forged, "").Code)

	valid, err := srv.IssueAccessToken(DemoUsers["admin"])
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/analytics/profile/", valid, "").Code)
}

func TestRoleGate(t *testing.T) {
	srv := New(Options{})
	h := srv.Router()

	for role, want := range map[string]int{
		"admin":   http.StatusOK,
		"head":    http.StatusOK,
		"teacher": http.StatusForbidden,
		"student": http.StatusForbidden,
	} {
		token, err := srv.IssueAccessToken(DemoUsers[role])
		require.NoError(t, err)
		assert.Equal(t, want, do(t, h, http.MethodGet, "/api/users/", token, "").Code, role)
	}
}

func TestTenant(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/tenant/", nil)
	req.Host = "acme.localhost:8000"
	rec := httptest.NewRecorder()
	New(Options{}).Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got tenant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "acme", got.Domain)
	assert.Equal(t, "school", got.TypeOfOrg)
}

func TestInvitationsLifecycle(t *testing.T) {
	srv := New(Options{})
	h := srv.Router()
	token, err := srv.IssueAccessToken(DemoUsers["head"])
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/users/invite-code/?count=2", token, `{"role":"teacher"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created []invitation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created, 2)
	assert.Equal(t, int64(7), created[0].ID)

	rec = do(t, h, http.MethodPost, "/api/users/invite-code/", token, `{"role":"student"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var single invitation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &single))
	assert.Equal(t, "student", single.Role)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/users/invite-code/?count=0", token, `{"role":"student"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/users/invite-code/", token, `{"role":"janitor"}`).Code)

	rec = do(t, h, http.MethodDelete, "/api/users/invite-code/", token, `{"ids":[1,2,7]}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/users/invite-code/", token, "")
	var remaining []invitation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &remaining))
	assert.Len(t, remaining, 6)
}

func TestCORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/users/", nil)
	req.Header.Set("Origin", "http://acme.localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	New(Options{}).Router().ServeHTTP(rec, req)

	assert.Equal(t, "http://acme.localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_OriginMatching(t *testing.T) {
	router := New(Options{}).Router()

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"http://localhost:5173", true},
		{"http://acme.localhost:5173", true},
		{"https://demo.localhost", true},
		{"http://127.0.0.1:3000", true},
		{"http://[::1]:3000", true},
		{"https://localhost.evil.example", false},
		{"https://evil.example/localhost", false},
		{"https://evillocalhost", false},
		{"http://127.0.0.1.evil.example", false},
		{"null", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/users/", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if tt.allowed {
				assert.Equal(t, tt.origin, rec.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}

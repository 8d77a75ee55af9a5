// Package mockapi is an in-memory stand-in for the dashboard backend used by the
// demo mode and by tests. It mints HS256 access tokens for a fixed set of demo
// refresh artifacts; it is not an authentication server.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
)

// RefreshArtifactPrefix prefixes the demo refresh artifacts (demo-admin, …).
const RefreshArtifactPrefix = "demo-"

// Options configures a Server. The zero value is valid.
type Options struct {
	SigningKey []byte
	TokenTTL   time.Duration
	Now        func() time.Time
	// RefreshDelay holds every refresh exchange before answering.
	RefreshDelay time.Duration
}

// Server serves the mock dashboard API.
type Server struct {
	key          []byte
	ttl          time.Duration
	now          func() time.Time
	refreshDelay time.Duration

	refreshCount  atomic.Int64
	rejectRefresh atomic.Bool

	mu               sync.Mutex
	members          []member
	invitations      []invitation
	nextInvitationID int64
	subscribed       bool
}

type claimsContextKey struct{}

// New returns a Server with fixtures loaded.
func New(opts Options) *Server {
	if len(opts.SigningKey) == 0 {
		opts.SigningKey = []byte("cohort-demo-signing-key")
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 15 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	invitations := seedInvitations()
	return &Server{
		key:              opts.SigningKey,
		ttl:              opts.TokenTTL,
		now:              opts.Now,
		refreshDelay:     opts.RefreshDelay,
		members:          seedMembers(),
		invitations:      invitations,
		nextInvitationID: int64(len(invitations)) + 1,
		subscribed:       true,
	}
}

// RefreshArtifactFor returns the demo refresh artifact of role.
func RefreshArtifactFor(role string) string {
	return RefreshArtifactPrefix + role
}

// RefreshCount reports how many refresh exchanges were served.
func (s *Server) RefreshCount() int64 {
	return s.refreshCount.Load()
}

// RejectRefresh makes subsequent refresh exchanges answer 401.
func (s *Server) RejectRefresh(reject bool) {
	s.rejectRefresh.Store(reject)
}

// SetSubscribed toggles whether the tenant has an active subscription.
func (s *Server) SetSubscribed(subscribed bool) {
	s.mu.Lock()
	s.subscribed = subscribed
	s.mu.Unlock()
}

// IssueAccessToken mints an access token for u expiring after the configured TTL.
func (s *Server) IssueAccessToken(u User) (string, error) {
	return s.issue(u, s.now().Add(s.ttl))
}

// IssueExpiredAccessToken mints a token for u that expired a minute ago.
func (s *Server) IssueExpiredAccessToken(u User) (string, error) {
	return s.issue(u, s.now().Add(-time.Minute))
}

func (s *Server) issue(u User, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    u.ID,
		"username":   u.Username,
		"role":       u.Role,
		"token_type": "access",
		"iat":        s.now().Unix(),
		"exp":        expiresAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// DefaultCORSOptions allows the local dashboard dev servers to call the mock.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return isLocalOrigin(origin)
		},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// isLocalOrigin matches localhost, *.localhost and loopback addresses by host,
// never by substring.
func isLocalOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case host == "localhost", strings.HasSuffix(host, ".localhost"):
		return true
	case host == "127.0.0.1", host == "::1":
		return true
	}
	return false
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(DefaultCORSOptions()))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/users/token/refresh/", s.handleRefresh)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tenant/", s.handleTenant)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/analytics/profile/", s.handleProfile)
			r.Get("/analytics/analysis/", s.handleAnalysis)
			r.Get("/analytics/subject-analysis/{subjectID}/", s.handleSubjectOverview)
			r.Get("/analytics/subject-analysis/{subjectID}/students/", s.handleSubjectStudents)
			r.Get("/subiscription/plans/", s.handlePlans)
			r.Get("/subiscription/tiers/", s.handleTiers)

			r.Group(func(r chi.Router) {
				r.Use(requireRole("admin", "head"))

				r.Get("/analytics/analysis/students/", s.handleStudentsAnalysis)
				r.Get("/analytics/analysis/teachers/", s.handleTeachersAnalysis)
				r.Get("/subiscription/detail/", s.handleSubscription)
				r.Post("/subiscription/", s.handleCreateSubscription)
				r.Get("/users/", s.handleListMembers)
				r.Get("/users/invite-code/", s.handleListInvitations)
				r.Post("/users/invite-code/", s.handleCreateInvitations)
				r.Delete("/users/invite-code/", s.handleDeleteInvitations)
			})
		})
	})

	return r
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.refreshCount.Add(1)

	if s.refreshDelay > 0 {
		select {
		case <-time.After(s.refreshDelay):
		case <-r.Context().Done():
			return
		}
	}

	var body struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if s.rejectRefresh.Load() {
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}

	role, ok := strings.CutPrefix(body.Refresh, RefreshArtifactPrefix)
	user, known := DemoUsers[role]
	if !ok || !known {
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}

	access, err := s.IssueAccessToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (s *Server) handleTenant(w http.ResponseWriter, r *http.Request) {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	domain := "demo"
	if i := strings.Index(host, "."); i > 0 {
		domain = host[:i]
	}

	planType := "professional"
	writeJSON(w, http.StatusOK, tenant{
		Name:      "Zakerai Academy",
		IsActive:  true,
		Style:     "1",
		Theme:     "2",
		PlanType:  &planType,
		City:      strPtr("Riyadh"),
		TypeOfOrg: "school",
		Domain:    domain,
		Email:     "contact@" + domain + ".example",
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, profileFor(roleFrom(r.Context())))
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, analysisFor(roleFrom(r.Context())))
}

func (s *Server) handleStudentsAnalysis(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"subject_id": r.URL.Query().Get("subject_id"),
		"level_id":   r.URL.Query().Get("level_id"),
		"students":   studentSubjectProfiles,
	})
}

func (s *Server) handleTeachersAnalysis(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"subject_id": r.URL.Query().Get("subject_id"),
		"teachers":   analysisFor("admin")["teacher_rankings"],
	})
}

func (s *Server) handleSubjectOverview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "subjectID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid subject id")
		return
	}
	writeJSON(w, http.StatusOK, subjectOverview(id))
}

func (s *Server) handleSubjectStudents(w http.ResponseWriter, r *http.Request) {
	if _, err := strconv.ParseInt(chi.URLParam(r, "subjectID"), 10, 64); err != nil {
		writeError(w, http.StatusBadRequest, "invalid subject id")
		return
	}
	writeJSON(w, http.StatusOK, subjectOverview(0)["top_performers"])
}

func (s *Server) handleSubscription(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	subscribed := s.subscribed
	s.mu.Unlock()
	if !subscribed {
		writeError(w, http.StatusNotFound, "No active subscription")
		return
	}
	writeJSON(w, http.StatusOK, subscriptionFixture())
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlanID       int64  `json:"plane_id"`
		BillingCycle string `json:"billing_cycle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PlanID == 0 {
		writeError(w, http.StatusBadRequest, "plane_id is required")
		return
	}
	var chosen *plan
	for i := range plans {
		if plans[i].ID == body.PlanID {
			chosen = &plans[i]
		}
	}
	if chosen == nil {
		writeError(w, http.StatusNotFound, "plan not found")
		return
	}

	s.mu.Lock()
	s.subscribed = true
	s.mu.Unlock()

	sub := subscriptionFixture()
	sub["plane_data"] = *chosen
	sub["billing_cycle"] = body.BillingCycle
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) handlePlans(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleTiers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, tiers)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	username := strings.ToLower(r.URL.Query().Get("username"))

	s.mu.Lock()
	results := make([]member, 0, len(s.members))
	for _, m := range s.members {
		if role != "" && m.Role != role {
			continue
		}
		if username != "" && !strings.Contains(strings.ToLower(m.Username), username) {
			continue
		}
		results = append(results, m)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(results),
		"results": results,
	})
}

func (s *Server) handleListInvitations(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := append([]invitation(nil), s.invitations...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateInvitations(w http.ResponseWriter, r *http.Request) {
	count := 1
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "count must be between 1 and 100")
			return
		}
		count = n
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, ok := DemoUsers[body.Role]; !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid role %q", body.Role))
		return
	}

	s.mu.Lock()
	created := make([]invitation, 0, count)
	for i := 0; i < count; i++ {
		inv := invitation{
			ID:        s.nextInvitationID,
			CreatedAt: s.now().UTC(),
			Code:      fmt.Sprintf("INV-%06X", s.nextInvitationID*7919),
			Role:      body.Role,
		}
		s.nextInvitationID++
		s.invitations = append(s.invitations, inv)
		created = append(created, inv)
	}
	s.mu.Unlock()

	if count == 1 {
		writeJSON(w, http.StatusCreated, created[0])
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteInvitations(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []int64 `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids are required")
		return
	}
	drop := make(map[int64]struct{}, len(body.IDs))
	for _, id := range body.IDs {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	kept := s.invitations[:0]
	for _, inv := range s.invitations {
		if _, ok := drop[inv.ID]; !ok {
			kept = append(kept, inv)
		}
	}
	s.invitations = kept
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// authenticate verifies the bearer token. Verification is the server's job.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
			return s.key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
		if err != nil {
			detail := "Given token not valid for any token type"
			if errors.Is(err, jwt.ErrTokenExpired) {
				detail = "Token is expired"
			}
			writeError(w, http.StatusUnauthorized, detail)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := roleFrom(r.Context())
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "You do not have permission to perform this action.")
		})
	}
}

func roleFrom(ctx context.Context) string {
	claims, ok := ctx.Value(claimsContextKey{}).(jwt.MapClaims)
	if !ok {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

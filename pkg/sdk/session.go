package sdk

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Phase is the lifecycle position of a SessionStore.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseAuthenticated
	PhaseUnauthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseLoading:
		return "loading"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseUnauthenticated:
		return "unauthenticated"
	}
	return "phase(" + strconv.Itoa(int(p)) + ")"
}

// SessionState is a snapshot of the current session.
//
// IsAuthenticated is true iff Identity is set and the credential that produced it
// passed its last validity check. IsLoading is superimposed on the last settled
// phase while a refresh is outstanding.
type SessionState struct {
	Phase           Phase
	Identity        *Identity
	IsAuthenticated bool
	IsLoading       bool
	Credential      Credential
}

func (s SessionState) clone() SessionState {
	if s.Identity != nil {
		id := *s.Identity
		s.Identity = &id
	}
	return s
}

// RefreshOutcome reports how a Refresh call ended. Every outcome other than
// RefreshSucceeded leaves the store unauthenticated.
type RefreshOutcome int

const (
	RefreshSucceeded RefreshOutcome = iota
	RefreshNoArtifact
	RefreshFailed
	// RefreshSuperseded means a logout happened while the exchange was in flight
	// and the new credential was discarded.
	RefreshSuperseded
)

func (o RefreshOutcome) String() string {
	switch o {
	case RefreshSucceeded:
		return "succeeded"
	case RefreshNoArtifact:
		return "no_artifact"
	case RefreshFailed:
		return "failed"
	case RefreshSuperseded:
		return "superseded"
	}
	return "outcome(" + strconv.Itoa(int(o)) + ")"
}

// TransitionReason names the trigger of a state change.
type TransitionReason string

const (
	ReasonStartup      TransitionReason = "startup"
	ReasonRefreshStart TransitionReason = "refresh_start"
	ReasonRefresh      TransitionReason = "refresh"
	ReasonLogout       TransitionReason = "logout"
)

// Transition is delivered to subscribers after every committed state change.
// A ReasonLogout transition is the signal to leave authenticated views.
type Transition struct {
	From   SessionState
	To     SessionState
	Reason TransitionReason
}

// SessionStore is the single authority on who the current user is. Its
// transition methods are the only writers of the session state and of the
// stored credential; everything else reads snapshots.
type SessionStore struct {
	mu         sync.Mutex
	state      SessionState
	generation uint64

	storage   CredentialStorage
	refresh   RefreshArtifactStore
	transport RefreshTransport
	codec     *Codec
	logger    *slog.Logger

	flight singleflight.Group

	listeners    map[int]func(Transition)
	nextListener int

	mockIdentity   *Identity
	mockCredential Credential
}

// SessionOption configures a SessionStore.
type SessionOption func(*SessionStore)

// WithCredentialStorage sets where the short-lived credential lives.
func WithCredentialStorage(storage CredentialStorage) SessionOption {
	return func(s *SessionStore) {
		if storage != nil {
			s.storage = storage
		}
	}
}

// WithRefreshArtifactStore sets where the refresh artifact is read from.
func WithRefreshArtifactStore(store RefreshArtifactStore) SessionOption {
	return func(s *SessionStore) {
		if store != nil {
			s.refresh = store
		}
	}
}

// WithRefreshTransport sets the credential exchange used by Refresh.
func WithRefreshTransport(transport RefreshTransport) SessionOption {
	return func(s *SessionStore) {
		s.transport = transport
	}
}

// WithClock sets the time source for expiry checks.
func WithClock(clock Clock) SessionOption {
	return func(s *SessionStore) {
		s.codec = NewCodec(clock)
	}
}

// WithSessionLogger sets the structured logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *SessionStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMockSession makes Start authenticate as identity without touching storage or
// the network. Used for demo mode.
func WithMockSession(identity Identity, cred Credential) SessionOption {
	return func(s *SessionStore) {
		s.mockIdentity = &identity
		s.mockCredential = cred
	}
}

// NewSessionStore returns an uninitialized store. Call Start to run startup.
func NewSessionStore(opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		state:     SessionState{Phase: PhaseUninitialized},
		storage:   NewMemoryCredentialStorage(""),
		refresh:   NewMemoryRefreshStore(""),
		codec:     NewCodec(SystemClock),
		logger:    slog.Default(),
		listeners: make(map[int]func(Transition)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the session.
func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Identity returns the current identity, or nil when unauthenticated.
func (s *SessionStore) Identity() *Identity {
	return s.State().Identity
}

// Credential returns the committed credential while authenticated. It is read at
// send time by BearerTransport.
func (s *SessionStore) Credential() (Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsAuthenticated || s.state.Credential == "" {
		return "", false
	}
	return s.state.Credential, true
}

// Subscribe registers fn for every committed transition and returns a function
// that removes it. fn runs on the goroutine that made the change, outside the
// store's lock.
func (s *SessionStore) Subscribe(fn func(Transition)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Start runs startup: a stored, unexpired, decodable credential authenticates
// directly; anything else falls through to Refresh. Calling Start again after the
// store has left Uninitialized just returns the current state.
func (s *SessionStore) Start(ctx context.Context) SessionState {
	s.mu.Lock()
	if s.state.Phase != PhaseUninitialized {
		state := s.state.clone()
		s.mu.Unlock()
		return state
	}

	if s.mockIdentity != nil {
		id := *s.mockIdentity
		notify := s.setLocked(SessionState{
			Phase:           PhaseAuthenticated,
			Identity:        &id,
			IsAuthenticated: true,
			Credential:      s.mockCredential,
		}, ReasonStartup)
		s.mu.Unlock()
		notify()
		s.logger.InfoContext(ctx, "session started in mock mode", "role", id.Role)
		return s.State()
	}

	notify := s.setLocked(SessionState{Phase: PhaseLoading, IsLoading: true}, ReasonStartup)
	s.mu.Unlock()
	notify()

	cred, ok, err := s.storage.LoadCredential()
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read stored credential", "error", err)
	}
	if err == nil && ok && !s.codec.IsExpired(cred) {
		identity, err := s.codec.Decode(cred)
		if err == nil {
			s.mu.Lock()
			notify := s.setLocked(authenticatedState(cred, identity), ReasonStartup)
			s.mu.Unlock()
			notify()
			s.logger.InfoContext(ctx, "session restored from stored credential",
				"subject_id", identity.SubjectID, "role", identity.Role)
			return s.State()
		}
		s.logger.DebugContext(ctx, "stored credential unreadable", "error", err)
	}

	s.Refresh(ctx)
	return s.State()
}

// Refresh exchanges the refresh artifact for a new credential. It never retries;
// any failure leaves the store unauthenticated with no stored credential.
// Overlapping calls share one exchange, and a result that arrives after a Logout
// is discarded.
func (s *SessionStore) Refresh(ctx context.Context) RefreshOutcome {
	s.mu.Lock()
	if s.mockIdentity != nil && s.state.IsAuthenticated {
		s.mu.Unlock()
		return RefreshSucceeded
	}
	gen := s.generation
	next := s.state
	next.IsLoading = true
	if next.Phase == PhaseUninitialized {
		next.Phase = PhaseLoading
	}
	notify := s.setLocked(next, ReasonRefreshStart)
	s.mu.Unlock()
	notify()

	v, _, shared := s.flight.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		return s.doRefresh(ctx, gen), nil
	})
	outcome := v.(RefreshOutcome)
	s.logger.DebugContext(ctx, "refresh finished", "outcome", outcome.String(), "shared", shared)
	return outcome
}

func (s *SessionStore) doRefresh(ctx context.Context, gen uint64) RefreshOutcome {
	artifact, ok, err := s.refresh.RefreshArtifact()
	if err != nil || !ok {
		if err == nil {
			err = ErrNoRefreshArtifact
		}
		s.logger.InfoContext(ctx, "no refresh artifact, session is unauthenticated", "error", err)
		return s.commitUnauthenticated(gen, RefreshNoArtifact)
	}

	if s.transport == nil {
		s.logger.WarnContext(ctx, "refresh transport not configured")
		return s.commitUnauthenticated(gen, RefreshFailed)
	}

	cred, err := s.transport.Exchange(ctx, artifact)
	if err != nil {
		s.logger.WarnContext(ctx, "credential refresh failed", "error", err)
		return s.commitUnauthenticated(gen, RefreshFailed)
	}

	identity, err := s.codec.Decode(cred)
	if err == nil && s.codec.IsExpired(cred) {
		err = errors.New("refreshed credential is already expired")
	}
	if err != nil {
		s.logger.WarnContext(ctx, "refreshed credential rejected", "error", err)
		return s.commitUnauthenticated(gen, RefreshFailed)
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.InfoContext(ctx, "discarding refresh that completed after logout")
		return RefreshSuperseded
	}
	if err := s.storage.SaveCredential(cred); err != nil {
		s.logger.WarnContext(ctx, "failed to store refreshed credential", "error", err)
	}
	notify := s.setLocked(authenticatedState(cred, identity), ReasonRefresh)
	s.mu.Unlock()
	notify()

	s.logger.InfoContext(ctx, "session refreshed", "subject_id", identity.SubjectID, "role", identity.Role)
	return RefreshSucceeded
}

func (s *SessionStore) commitUnauthenticated(gen uint64, outcome RefreshOutcome) RefreshOutcome {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return RefreshSuperseded
	}
	if err := s.storage.ClearCredential(); err != nil {
		s.logger.Warn("failed to clear stored credential", "error", err)
	}
	notify := s.setLocked(SessionState{Phase: PhaseUnauthenticated}, ReasonRefresh)
	s.mu.Unlock()
	notify()
	return outcome
}

// Logout clears the refresh artifact and the stored credential and leaves the
// store unauthenticated. It always succeeds locally, even with no session, and
// invalidates any refresh still in flight.
func (s *SessionStore) Logout(ctx context.Context) SessionState {
	s.mu.Lock()
	s.generation++
	s.mockIdentity = nil
	if err := s.refresh.ClearRefreshArtifact(); err != nil {
		s.logger.WarnContext(ctx, "failed to clear refresh artifact", "error", err)
	}
	if err := s.storage.ClearCredential(); err != nil {
		s.logger.WarnContext(ctx, "failed to clear stored credential", "error", err)
	}
	notify := s.setLocked(SessionState{Phase: PhaseUnauthenticated}, ReasonLogout)
	state := s.state.clone()
	s.mu.Unlock()
	notify()

	s.logger.InfoContext(ctx, "logged out")
	return state
}

// setLocked commits next and returns a func that notifies subscribers. Callers
// hold s.mu and invoke the returned func after releasing it.
func (s *SessionStore) setLocked(next SessionState, reason TransitionReason) func() {
	prev := s.state
	s.state = next
	if len(s.listeners) == 0 {
		return func() {}
	}
	fns := make([]func(Transition), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	tr := Transition{From: prev.clone(), To: next.clone(), Reason: reason}
	return func() {
		for _, fn := range fns {
			fn(tr)
		}
	}
}

func authenticatedState(cred Credential, identity Identity) SessionState {
	return SessionState{
		Phase:           PhaseAuthenticated,
		Identity:        &identity,
		IsAuthenticated: true,
		Credential:      cred,
	}
}

package sdk

import "sync"

const (
	// AccessTokenKey is the session-storage key holding the short-lived credential.
	AccessTokenKey = "access_token"
	// RefreshTokenKey is the name of the long-lived refresh artifact.
	RefreshTokenKey = "refresh_token"
)

// CredentialStorage holds the short-lived credential for the lifetime of one session.
// Implementations must not persist beyond that lifetime.
type CredentialStorage interface {
	LoadCredential() (Credential, bool, error)
	SaveCredential(Credential) error
	ClearCredential() error
}

// RefreshArtifactStore holds the long-lived refresh artifact (the cookie equivalent).
type RefreshArtifactStore interface {
	RefreshArtifact() (string, bool, error)
	ClearRefreshArtifact() error
}

// MemoryCredentialStorage keeps the credential in process memory.
type MemoryCredentialStorage struct {
	mu   sync.Mutex
	cred Credential
}

var _ CredentialStorage = (*MemoryCredentialStorage)(nil)

// NewMemoryCredentialStorage returns storage pre-populated with cred (may be empty).
func NewMemoryCredentialStorage(cred Credential) *MemoryCredentialStorage {
	return &MemoryCredentialStorage{cred: cred}
}

// LoadCredential implements CredentialStorage.
func (s *MemoryCredentialStorage) LoadCredential() (Credential, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred, s.cred != "", nil
}

// SaveCredential implements CredentialStorage.
func (s *MemoryCredentialStorage) SaveCredential(cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
	return nil
}

// ClearCredential implements CredentialStorage.
func (s *MemoryCredentialStorage) ClearCredential() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = ""
	return nil
}

// MemoryRefreshStore keeps the refresh artifact in process memory.
type MemoryRefreshStore struct {
	mu       sync.Mutex
	artifact string
}

var _ RefreshArtifactStore = (*MemoryRefreshStore)(nil)

// NewMemoryRefreshStore returns a store holding artifact (may be empty).
func NewMemoryRefreshStore(artifact string) *MemoryRefreshStore {
	return &MemoryRefreshStore{artifact: artifact}
}

// RefreshArtifact implements RefreshArtifactStore.
func (s *MemoryRefreshStore) RefreshArtifact() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact, s.artifact != "", nil
}

// SetRefreshArtifact replaces the stored artifact.
func (s *MemoryRefreshStore) SetRefreshArtifact(artifact string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifact = artifact
}

// ClearRefreshArtifact implements RefreshArtifactStore.
func (s *MemoryRefreshStore) ClearRefreshArtifact() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifact = ""
	return nil
}

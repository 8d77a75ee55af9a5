package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/terraconstructs/cohort/pkg/sdk"
)

// FileStore keeps the refresh artifact under ~/.cohort and the short-lived
// credential in a per-user runtime directory, so the credential does not
// outlive the login session while the refresh artifact does.
type FileStore struct {
	dir        string
	sessionDir string
}

var (
	_ sdk.CredentialStorage    = (*FileStore)(nil)
	_ sdk.RefreshArtifactStore = (*FileStore)(nil)
)

// NewFileStore creates a FileStore in the default locations.
func NewFileStore() (*FileStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return NewFileStoreAt(filepath.Join(home, ".cohort"), defaultSessionDir())
}

// NewFileStoreAt creates a FileStore rooted at dir and sessionDir.
func NewFileStoreAt(dir, sessionDir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return &FileStore{dir: dir, sessionDir: sessionDir}, nil
}

func defaultSessionDir() string {
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, fmt.Sprintf("cohort-session-%d", os.Getuid()))
}

func (s *FileStore) credentialPath() string {
	return filepath.Join(s.sessionDir, sdk.AccessTokenKey)
}

func (s *FileStore) refreshPath() string {
	return filepath.Join(s.dir, sdk.RefreshTokenKey)
}

// LoadCredential implements sdk.CredentialStorage. A credential in a session
// directory this user does not exclusively own is refused.
func (s *FileStore) LoadCredential() (sdk.Credential, bool, error) {
	if err := checkPrivateDir(s.sessionDir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	value, ok, err := readSecret(s.credentialPath())
	if err != nil {
		return "", false, fmt.Errorf("failed to read session credential: %w", err)
	}
	return sdk.Credential(value), ok, nil
}

// SaveCredential implements sdk.CredentialStorage.
func (s *FileStore) SaveCredential(cred sdk.Credential) error {
	if err := os.MkdirAll(s.sessionDir, 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := checkPrivateDir(s.sessionDir); err != nil {
		return err
	}
	return writeSecret(s.credentialPath(), cred.String())
}

// ClearCredential implements sdk.CredentialStorage.
func (s *FileStore) ClearCredential() error {
	return removeIfExists(s.credentialPath())
}

// RefreshArtifact implements sdk.RefreshArtifactStore.
func (s *FileStore) RefreshArtifact() (string, bool, error) {
	value, ok, err := readSecret(s.refreshPath())
	if err != nil {
		return "", false, fmt.Errorf("failed to read refresh artifact: %w", err)
	}
	return value, ok, nil
}

// SaveRefreshArtifact stores the long-lived refresh artifact.
func (s *FileStore) SaveRefreshArtifact(artifact string) error {
	artifact = strings.TrimSpace(artifact)
	if artifact == "" {
		return errors.New("refresh artifact is empty")
	}
	return writeSecret(s.refreshPath(), artifact)
}

// ClearRefreshArtifact implements sdk.RefreshArtifactStore.
func (s *FileStore) ClearRefreshArtifact() error {
	return removeIfExists(s.refreshPath())
}

func readSecret(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	value := strings.TrimSpace(string(data))
	return value, value != "", nil
}

// ErrInsecureSessionDir is returned when the session directory is not a
// directory owned by the current user with mode 0700.
var ErrInsecureSessionDir = errors.New("insecure session directory")

func checkPrivateDir(dir string) error {
	info, err := os.Lstat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInsecureSessionDir, dir)
	}
	return checkDirOwnership(dir, info)
}

// writeSecret replaces path atomically. The rename swaps the directory entry,
// so a symlink planted at path is replaced rather than followed.
func writeSecret(path, value string) error {
	name := filepath.Base(path)
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", filepath.Base(path), err)
	}
	return nil
}

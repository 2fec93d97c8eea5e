package auth

import (
	"fmt"
	"os"
	"strings"
)

// TokenProvider supplies a bearer token for API requests.
type TokenProvider interface {
	AccessToken() (string, error)
}

// FileTokenProvider reads a bearer token from a file on disk on every call,
// so a rotated token is picked up without a restart.
type FileTokenProvider struct {
	path string
}

// NewFileTokenProvider creates a TokenProvider that reads from path.
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{path: path}
}

// FromPath returns a file-backed provider, or nil when path is blank.
// The posts API is anonymous by default.
func FromPath(path string) TokenProvider {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	return NewFileTokenProvider(path)
}

// AccessToken reads and returns the token, trimming whitespace.
func (f *FileTokenProvider) AccessToken() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("reading token from %s: %w", f.path, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", f.path)
	}

	return token, nil
}

package session

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
)

type fileRecord struct {
	Token   string    `json:"token,omitempty"`
	Sealed  string    `json:"sealed,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// FileStore keeps the token in a JSON file so it survives restarts. When a key is
// given the token is sealed with ChaCha20-Poly1305 before it touches disk.
type FileStore struct {
	mu   sync.Mutex
	path string
	aead cipher.AEAD
}

// NewFileStore returns a file-backed store. key may be nil or 32 bytes.
func NewFileStore(path string, key []byte) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("session: file path is required")
	}
	s := &FileStore{path: path}
	if len(key) > 0 {
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, fmt.Errorf("session: invalid seal key: %w", err)
		}
		s.aead = aead
	}
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: read %s: %w", s.path, err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", fmt.Errorf("session: decode %s: %w", s.path, err)
	}
	if rec.Sealed == "" {
		return rec.Token, nil
	}
	return s.open(rec.Sealed)
}

func (s *FileStore) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := fileRecord{SavedAt: time.Now().UTC()}
	if s.aead != nil {
		sealed, err := s.seal(token)
		if err != nil {
			return err
		}
		rec.Sealed = sealed
	} else {
		rec.Token = token
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: create dir: %w", err)
	}
	return writeJSONAtomic(s.path, rec)
}

func (s *FileStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: remove %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) seal(token string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("session: nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(token), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *FileStore) open(sealed string) (string, error) {
	if s.aead == nil {
		return "", fmt.Errorf("session: %s is sealed but no key is configured", s.path)
	}
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("session: decode sealed token: %w", err)
	}
	ns := s.aead.NonceSize()
	if len(raw) < ns {
		return "", fmt.Errorf("session: sealed token too short")
	}
	plain, err := s.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("session: unseal token: %w", err)
	}
	return string(plain), nil
}

func writeJSONAtomic(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err == nil {
		return nil
	}

	defer os.Remove(tmp)

	if runtime.GOOS == "windows" {
		_ = os.Remove(path)
		return os.Rename(tmp, path)
	}
	return os.Rename(tmp, path)
}

package kvstore

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
	"virem-service/internal/app/contracts"
	"virem-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const keyDerivationInfo = "virem-session-store"

var errCiphertextTooShort = errors.New("ciphertext too short")

type fileEntry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// encryptedFileStore writes one XChaCha20-Poly1305 sealed file per key.
// File names are the SHA-256 of the key so device ids never reach the filesystem.
type encryptedFileStore struct {
	mu        sync.Mutex
	directory string
	key       []byte
	now       func() time.Time
}

func NewEncryptedFileStore(directory, secret string) (contracts.KeyValueStore, error) {
	return newEncryptedFileStore(directory, secret, time.Now)
}

func newEncryptedFileStore(directory, secret string, now func() time.Time) (*encryptedFileStore, error) {
	if secret == "" {
		return nil, errors.New("session encryption secret is required for the file store")
	}
	if err := os.MkdirAll(directory, 0700); err != nil {
		return nil, err
	}

	key := make([]byte, chacha20poly1305.KeySize)
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyDerivationInfo))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}

	return &encryptedFileStore{directory: directory, key: key, now: now}, nil
}

func (s *encryptedFileStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	entry := fileEntry{Value: value}
	if ttl > 0 {
		entry.ExpiresAt = s.now().Add(ttl)
	}

	plain, err := json.Marshal(entry)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	sealed, err := s.seal(plain)
	if err != nil {
		return exceptions.ErrEncryptEntry(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, sealed, 0600); err != nil {
		return exceptions.ErrKVStoreWrite(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return exceptions.ErrKVStoreWrite(err)
	}
	return nil
}

func (s *encryptedFileStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(key)
	sealed, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, exceptions.ErrKVStoreRead(err)
	}

	plain, err := s.open(sealed)
	if err != nil {
		return "", false, exceptions.ErrDecryptEntry(err)
	}

	var entry fileEntry
	if err := json.Unmarshal(plain, &entry); err != nil {
		return "", false, exceptions.ErrKVStoreRead(err)
	}
	if !entry.ExpiresAt.IsZero() && !s.now().Before(entry.ExpiresAt) {
		os.Remove(path)
		return "", false, nil
	}
	return entry.Value, true, nil
}

func (s *encryptedFileStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, key := range keys {
		err := os.Remove(s.pathFor(key))
		if err != nil && !errors.Is(err, fs.ErrNotExist) && firstErr == nil {
			firstErr = exceptions.ErrKVStoreDelete(err)
		}
	}
	return firstErr
}

func (s *encryptedFileStore) pathFor(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.directory, hex.EncodeToString(sum[:])+".bin")
}

func (s *encryptedFileStore) seal(plain []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plain, nil), nil
}

func (s *encryptedFileStore) open(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, errCiphertextTooShort
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, nil)
}

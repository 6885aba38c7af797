package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned when a storage id resolves to no stored file.
var ErrObjectNotFound = errors.New("Object not found")

// Store is a local-disk blob store for completion images. Objects are
// addressed by a server-generated uuid, so ids are unguessable and never
// derived from client input.
type Store struct {
	dir     string
	baseURL string
}

// NewStore creates a Store rooted at dir. The directory is created if it
// does not exist.
func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir, baseURL: baseURL}, nil
}

// GenerateUploadTarget mints a fresh storage id and the URL the client
// should PUT the file body to.
func (s *Store) GenerateUploadTarget() (storageID, uploadURL string) {
	storageID = uuid.NewString()
	return storageID, s.baseURL + "/api/uploads/" + storageID
}

// Save writes the object body under the given storage id. The id must be a
// uuid previously minted by GenerateUploadTarget, which also rules out path
// traversal.
func (s *Store) Save(storageID string, body io.Reader) error {
	if _, err := uuid.Parse(storageID); err != nil {
		return fmt.Errorf("invalid storage id: %w", err)
	}

	f, err := os.Create(filepath.Join(s.dir, storageID))
	if err != nil {
		return fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}

	return nil
}

// ResolveURL returns the public URL an object is served from, or
// ErrObjectNotFound if nothing is stored under the id.
func (s *Store) ResolveURL(storageID string) (string, error) {
	if _, err := uuid.Parse(storageID); err != nil {
		return "", ErrObjectNotFound
	}

	if _, err := os.Stat(filepath.Join(s.dir, storageID)); err != nil {
		if os.IsNotExist(err) {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("failed to stat object: %w", err)
	}

	return s.baseURL + "/api/uploads/" + storageID, nil
}

// Open returns a reader over a stored object.
func (s *Store) Open(storageID string) (io.ReadCloser, error) {
	if _, err := uuid.Parse(storageID); err != nil {
		return nil, ErrObjectNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, storageID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}

	return f, nil
}

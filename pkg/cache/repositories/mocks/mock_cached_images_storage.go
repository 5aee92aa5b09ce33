package mock_cacherepositories

import (
	"bytes"
	"context"
	"io"
	"sync"

	cacherepositories "github.com/thebartekbanach/imgsearch/pkg/cache/repositories"
)

// MockCachedImagesStorage keeps entries in memory and commits them on Close,
// like the real backends do.
type MockCachedImagesStorage struct {
	images map[string][]byte
	lock   sync.Mutex
	err    error
}

var _ cacherepositories.CachedImagesStorage = (*MockCachedImagesStorage)(nil)

func NewMockCachedImagesStorage() *MockCachedImagesStorage {
	return &MockCachedImagesStorage{
		images: make(map[string][]byte),
	}
}

func (s *MockCachedImagesStorage) InstantSave(key string, data []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.images[key] = data
}

func (s *MockCachedImagesStorage) ReturnError(err error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.err = err
}

func (s *MockCachedImagesStorage) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return len(s.images)
}

func (s *MockCachedImagesStorage) Exists(ctx context.Context, key string) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.err != nil {
		return false, s.err
	}

	_, exists := s.images[key]
	return exists, nil
}

func (s *MockCachedImagesStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	data, exists := s.images[key]
	if !exists {
		return nil, cacherepositories.ErrImageNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *MockCachedImagesStorage) Create(ctx context.Context, key string) (cacherepositories.EntryWriter, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	return &mockEntryWriter{storage: s, key: key}, nil
}

type mockEntryWriter struct {
	storage *MockCachedImagesStorage
	key     string
	buff    bytes.Buffer
	done    bool
}

func (w *mockEntryWriter) Write(p []byte) (int, error) {
	if w.done {
		return 0, cacherepositories.ErrWriterClosed
	}

	return w.buff.Write(p)
}

func (w *mockEntryWriter) Close() error {
	if w.done {
		return cacherepositories.ErrWriterClosed
	}
	w.done = true

	w.storage.InstantSave(w.key, w.buff.Bytes())
	return nil
}

func (w *mockEntryWriter) Abort() error {
	w.done = true
	return nil
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"io"

	cacherepositories "github.com/thebartekbanach/imgsearch/pkg/cache/repositories"
)

type cacheService struct {
	imagesStorage cacherepositories.CachedImagesStorage
}

var _ CacheService = (*cacheService)(nil)

func NewCacheService(imagesStorage cacherepositories.CachedImagesStorage) CacheService {
	return &cacheService{imagesStorage}
}

func (s *cacheService) Exists(ctx context.Context, query string) (bool, error) {
	key, err := DeriveKey(query)
	if err != nil {
		return false, err
	}

	exists, err := s.imagesStorage.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("checking cache entry %s: %w", key, err)
	}

	return exists, nil
}

func (s *cacheService) OpenRead(ctx context.Context, query string) (io.ReadCloser, error) {
	key, err := DeriveKey(query)
	if err != nil {
		return nil, err
	}

	reader, err := s.imagesStorage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cacherepositories.ErrImageNotFound) {
			return nil, ErrEntryNotFound
		}

		return nil, fmt.Errorf("opening cache entry %s: %w", key, err)
	}

	return reader, nil
}

func (s *cacheService) OpenWrite(ctx context.Context, query string) (EntryWriter, error) {
	key, err := DeriveKey(query)
	if err != nil {
		return nil, err
	}

	writer, err := s.imagesStorage.Create(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("creating cache entry %s: %w", key, err)
	}

	return writer, nil
}

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrInvalidQuery  = errors.New("query cannot be used as cache key")
)

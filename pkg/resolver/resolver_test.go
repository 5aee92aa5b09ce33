package resolver_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	logrustest "github.com/sirupsen/logrus/hooks/test"

	"github.com/thebartekbanach/imgsearch/pkg/cache"
	mock_cacherepositories "github.com/thebartekbanach/imgsearch/pkg/cache/repositories/mocks"
	"github.com/thebartekbanach/imgsearch/pkg/dedupe"
	"github.com/thebartekbanach/imgsearch/pkg/filefetcher"
	mock_filefetcher "github.com/thebartekbanach/imgsearch/pkg/filefetcher/mocks"
	"github.com/thebartekbanach/imgsearch/pkg/resolver"
	"github.com/thebartekbanach/imgsearch/pkg/search"
	mock_search "github.com/thebartekbanach/imgsearch/pkg/search/mocks"
	testutils "github.com/thebartekbanach/imgsearch/test/utils"
)

type testingResolverDeps struct {
	storage *mock_cacherepositories.MockCachedImagesStorage
	cache   cache.CacheService
	search  *mock_search.MockImageSearchClient
	fetcher *mock_filefetcher.MockFetcher
}

func createTestingResolver(t *testing.T, allowedDomains ...string) (resolver.ImageResolver, *testingResolverDeps) {
	mockCtrl := gomock.NewController(t)
	storage := mock_cacherepositories.NewMockCachedImagesStorage()
	deps := &testingResolverDeps{
		storage: storage,
		cache:   cache.NewCacheService(storage),
		search:  mock_search.NewMockImageSearchClient(mockCtrl),
		fetcher: mock_filefetcher.NewMockFetcher(mockCtrl),
	}

	logger, _ := logrustest.NewNullLogger()
	config := resolver.Config{
		AllowedDomains:  allowedDomains,
		PopulateTimeout: 5 * time.Second,
	}

	r := resolver.NewImageResolver(config, deps.cache, deps.search, deps.fetcher, dedupe.NewSingleflightGroup(), logger)
	return r, deps
}

func readAll(t *testing.T, r io.ReadCloser) []byte {
	t.Helper()
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("cannot read resolution: %v", err)
	}
	return data
}

var mountainsResult = search.SearchResult{
	Description: "snowy peaks",
	SourceURL:   "https://images.unsplash.com/photo-1",
}

func TestImageResolver_ShouldServeCachedEntryWithoutSearching(t *testing.T) {
	r, deps := createTestingResolver(t)
	testData := []byte("cached image")
	key, _ := cache.DeriveKey("mountains")
	deps.storage.InstantSave(key, testData)

	deps.search.EXPECT().Search(gomock.Any(), gomock.Any()).Times(0)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Times(0)

	resolution, err := r.Resolve(context.Background(), "mountains")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !resolution.FromCache || resolution.Message != "from file" {
		t.Errorf("unexpected resolution: %+v", resolution)
	}
	if !bytes.Equal(readAll(t, resolution.Reader), testData) {
		t.Errorf("resolution returned wrong data")
	}
}

func TestImageResolver_ShouldFetchOnceAndServeSecondRequestFromCache(t *testing.T) {
	r, deps := createTestingResolver(t)
	image := testutils.GenerateJPEG(t, 1000, 1000)

	deps.search.EXPECT().Search(gomock.Any(), "mountains").Return(mountainsResult, nil).Times(1)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), mountainsResult.SourceURL).Return(io.NopCloser(bytes.NewReader(image)), nil).Times(1)

	first, err := r.Resolve(context.Background(), "mountains")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.FromCache {
		t.Errorf("first resolution should come from the web")
	}
	if first.Message != "from web new image: mountains, width: 1000, height: 1000" {
		t.Errorf("unexpected message: %q", first.Message)
	}
	if !bytes.Equal(readAll(t, first.Reader), image) {
		t.Errorf("first resolution returned wrong data")
	}

	second, err := r.Resolve(context.Background(), "mountains")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.FromCache {
		t.Errorf("second resolution should come from cache")
	}
	if !bytes.Equal(readAll(t, second.Reader), image) {
		t.Errorf("second resolution returned wrong data")
	}
}

func TestImageResolver_ShouldNotCreateEntryWhenSearchFindsNothing(t *testing.T) {
	r, deps := createTestingResolver(t)

	deps.search.EXPECT().Search(gomock.Any(), "asdfghjkl").Return(search.SearchResult{}, search.ErrImageNotFound)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Times(0)

	_, err := r.Resolve(context.Background(), "asdfghjkl")
	if !errors.Is(err, search.ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}

	if exists, _ := deps.cache.Exists(context.Background(), "asdfghjkl"); exists {
		t.Fatalf("entry should not exist")
	}
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestImageResolver_ShouldLeaveNoEntryWhenDownloadIsInterrupted(t *testing.T) {
	r, deps := createTestingResolver(t)
	image := testutils.GenerateJPEG(t, 100, 100)
	interrupted := io.MultiReader(bytes.NewReader(image[:len(image)/2]), failingReader{})

	deps.search.EXPECT().Search(gomock.Any(), "mountains").Return(mountainsResult, nil)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), mountainsResult.SourceURL).Return(io.NopCloser(interrupted), nil)

	_, err := r.Resolve(context.Background(), "mountains")
	if !errors.Is(err, filefetcher.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}

	if exists, _ := deps.cache.Exists(context.Background(), "mountains"); exists {
		t.Fatalf("entry should not exist")
	}
	if _, err := deps.cache.OpenRead(context.Background(), "mountains"); err != cache.ErrEntryNotFound {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestImageResolver_ShouldForwardFetchErrors(t *testing.T) {
	r, deps := createTestingResolver(t)
	fetchErr := errors.New("404")

	deps.search.EXPECT().Search(gomock.Any(), "mountains").Return(mountainsResult, nil)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), mountainsResult.SourceURL).Return(nil, fetchErr)

	if _, err := r.Resolve(context.Background(), "mountains"); !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if deps.storage.Len() != 0 {
		t.Fatalf("storage should stay empty")
	}
}

func TestImageResolver_ShouldRejectSourceOutsideAllowedDomains(t *testing.T) {
	r, deps := createTestingResolver(t, "images.unsplash.com", "*.example.com")

	deps.search.EXPECT().Search(gomock.Any(), "mountains").Return(search.SearchResult{SourceURL: "https://evil.com/photo.jpg"}, nil)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Times(0)

	_, err := r.Resolve(context.Background(), "mountains")
	if !errors.Is(err, filefetcher.ErrFetchFailed) || !errors.Is(err, resolver.ErrDomainNotAllowed) {
		t.Fatalf("expected ErrDomainNotAllowed, got %v", err)
	}
}

func TestImageResolver_ShouldAllowSourceMatchingGlob(t *testing.T) {
	r, deps := createTestingResolver(t, "*.example.com")
	image := testutils.GenerateJPEG(t, 10, 10)
	source := "https://cdn.example.com/photo.jpg"

	deps.search.EXPECT().Search(gomock.Any(), "mountains").Return(search.SearchResult{SourceURL: source}, nil)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), source).Return(io.NopCloser(bytes.NewReader(image)), nil)

	resolution, err := r.Resolve(context.Background(), "mountains")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resolution.Reader.Close()
}

func TestImageResolver_ShouldDeduplicateConcurrentMisses(t *testing.T) {
	r, deps := createTestingResolver(t)
	image := testutils.GenerateJPEG(t, 50, 50)
	release := make(chan struct{})

	deps.search.EXPECT().Search(gomock.Any(), "mountains").DoAndReturn(func(ctx context.Context, query string) (search.SearchResult, error) {
		<-release
		return mountainsResult, nil
	}).Times(1)
	deps.fetcher.EXPECT().Fetch(gomock.Any(), mountainsResult.SourceURL).Return(io.NopCloser(bytes.NewReader(image)), nil).Times(1)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resolution, err := r.Resolve(context.Background(), "mountains")
			if err != nil {
				errs <- err
				return
			}
			data, _ := io.ReadAll(resolution.Reader)
			resolution.Reader.Close()
			if !bytes.Equal(data, image) {
				errs <- errors.New("wrong data")
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("resolution failed: %v", err)
	}
}

func TestImageResolver_ShouldFinishPopulationWhenCallerGoesAway(t *testing.T) {
	r, deps := createTestingResolver(t)
	image := testutils.GenerateJPEG(t, 50, 50)
	ctx, cancel := context.WithCancel(context.Background())

	deps.search.EXPECT().Search(gomock.Any(), "mountains").DoAndReturn(func(populateCtx context.Context, query string) (search.SearchResult, error) {
		cancel()
		return mountainsResult, nil
	})
	deps.fetcher.EXPECT().Fetch(gomock.Any(), mountainsResult.SourceURL).DoAndReturn(func(populateCtx context.Context, url string) (io.ReadCloser, error) {
		if populateCtx.Err() != nil {
			t.Errorf("population context was cancelled with the caller")
		}
		return io.NopCloser(bytes.NewReader(image)), nil
	})

	resolution, err := r.Resolve(ctx, "mountains")
	if err == nil {
		resolution.Reader.Close()
	}

	if exists, _ := deps.cache.Exists(context.Background(), "mountains"); !exists {
		t.Fatalf("entry should be stored even though the caller went away")
	}
}

func TestImageResolver_ShouldForwardCacheErrors(t *testing.T) {
	r, deps := createTestingResolver(t)
	storageErr := errors.New("disk on fire")
	deps.storage.ReturnError(storageErr)

	deps.search.EXPECT().Search(gomock.Any(), gomock.Any()).Times(0)

	if _, err := r.Resolve(context.Background(), "mountains"); !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

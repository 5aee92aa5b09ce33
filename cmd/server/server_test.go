package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"

	"github.com/thebartekbanach/imgsearch/pkg/cache"
	"github.com/thebartekbanach/imgsearch/pkg/config"
	testutils "github.com/thebartekbanach/imgsearch/test/utils"
)

type fakeUnsplash struct {
	searches int32
	fetches  int32
	port     int
}

func startFakeUnsplash(t *testing.T, sourceImage []byte) *fakeUnsplash {
	fake := &fakeUnsplash{}
	srv := testutils.NewTestHttpServer()

	srv.HandleFunc("/search/photos", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fake.searches, 1)

		if r.Header.Get("Authorization") != "Client-ID test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if r.URL.Query().Get("query") == "nothing" {
			fmt.Fprint(w, `{"total": 0, "results": []}`)
			return
		}

		imageURL := testutils.LocalURL(fake.port, "/photo.jpg")
		fmt.Fprintf(w, `{"total": 1, "results": [{"description": "peaks", "urls": {"regular": %q}}]}`, imageURL)
	})

	srv.HandleFunc("/photo.jpg", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fake.fetches, 1)
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(sourceImage)
	})

	fake.port = srv.Start(t)
	return fake
}

func testingConfig(t *testing.T, unsplashPort int) *config.Config {
	return &config.Config{
		UnsplashAccessKey: "test-key",
		UnsplashAPIURL:    testutils.LocalURL(unsplashPort, ""),
		CacheBackend:      config.BackendDisk,
		CacheDir:          t.TempDir(),
		DedupeMode:        config.DedupeSingleflight,
		AllowedDomains:    []string{"localhost"},
		SearchTimeout:     5 * time.Second,
		FetchTimeout:      5 * time.Second,
		RequestTimeout:    10 * time.Second,
		PopulateTimeout:   10 * time.Second,
		DefaultDimension:  400,
		MaxDimension:      4096,
	}
}

func startTestingServer(t *testing.T, cfg *config.Config) int {
	logger, _ := logrustest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	ctx, cancel := context.WithCancel(context.Background())
	proxyService, cleanup := InitializeProxy(ctx, cfg, logger)
	t.Cleanup(cleanup)
	t.Cleanup(cancel) // runs first (LIFO), mirroring testing.T.Context semantics

	srv := testutils.NewTestHttpServer()
	srv.Handle("/", newRouter(proxyService, cfg.RequestTimeout, logger))
	return srv.Start(t)
}

func get(t *testing.T, port int, path string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(testutils.LocalURL(port, path))
	if err != nil {
		t.Fatalf("request %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("cannot read response of %s: %v", path, err)
	}

	return resp, body
}

func TestServer_ShouldServeResizedPNGAndCacheSource(t *testing.T) {
	fake := startFakeUnsplash(t, testutils.GenerateJPEG(t, 1000, 1000))
	cfg := testingConfig(t, fake.port)
	port := startTestingServer(t, cfg)

	resp, body := get(t, port, "/mountains?width=200&height=100")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if contentType := resp.Header.Get("Content-Type"); contentType != "image/png" {
		t.Errorf("expected image/png, got %q", contentType)
	}

	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("response is not an image: %v", err)
	}

	if format != "png" || img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
		t.Errorf("expected 200x100 png, got %dx%d %s", img.Bounds().Dx(), img.Bounds().Dy(), format)
	}

	key, err := cache.DeriveKey("mountains")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(cfg.CacheDir, key)); err != nil {
		t.Errorf("expected cached source image for mountains: %v", err)
	}
}

func TestServer_SecondRequestShouldBeServedFromCache(t *testing.T) {
	fake := startFakeUnsplash(t, testutils.GenerateJPEG(t, 300, 300))
	port := startTestingServer(t, testingConfig(t, fake.port))

	first, _ := get(t, port, "/cat?width=50&height=50")
	second, body := get(t, port, "/cat?width=80&height=20")

	if first.StatusCode != http.StatusOK || second.StatusCode != http.StatusOK {
		t.Fatalf("expected two 200 responses, got %d and %d", first.StatusCode, second.StatusCode)
	}

	if searches := atomic.LoadInt32(&fake.searches); searches != 1 {
		t.Errorf("expected 1 search, got %d", searches)
	}

	if fetches := atomic.LoadInt32(&fake.fetches); fetches != 1 {
		t.Errorf("expected 1 fetch, got %d", fetches)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Width != 80 || cfg.Height != 20 {
		t.Errorf("expected 80x20, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestServer_ShouldReturnBadRequestWithEmptyBody(t *testing.T) {
	fake := startFakeUnsplash(t, testutils.GenerateJPEG(t, 10, 10))
	port := startTestingServer(t, testingConfig(t, fake.port))

	for _, path := range []string{"/", "/nothing", "/cat?width=0"} {
		resp, body := get(t, port, path)

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, resp.StatusCode)
		}

		if len(body) != 0 {
			t.Errorf("%s: expected empty body, got %d bytes", path, len(body))
		}
	}

	if fetches := atomic.LoadInt32(&fake.fetches); fetches != 0 {
		t.Errorf("expected no fetch, got %d", fetches)
	}
}

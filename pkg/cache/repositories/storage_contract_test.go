package cacherepositories

import (
	"bytes"
	"context"
	"io"
	"testing"

	testutils "github.com/thebartekbanach/imgsearch/test/utils"
)

// testCachedImagesStorage runs the behaviour every backend has to provide.
func testCachedImagesStorage(t *testing.T, newStorage func(t *testing.T) CachedImagesStorage) {
	t.Run("ShouldCorrectlyUploadImage", func(t *testing.T) {
		ctx := context.Background()
		storage := newStorage(t)
		testData := testutils.GenerateJPEG(t, 64, 48)

		writeEntry(t, storage, "mountains-0123456789abcdef", testData)

		exists, err := storage.Exists(ctx, "mountains-0123456789abcdef")
		if err != nil || !exists {
			t.Fatalf("entry should exist after commit, exists: %v, err: %v", exists, err)
		}

		if got := readEntry(t, storage, "mountains-0123456789abcdef"); !bytes.Equal(got, testData) {
			t.Fatalf("readed data is not equal to original data")
		}
	})

	t.Run("ShouldReadEntryFromBeginningOnEveryGet", func(t *testing.T) {
		storage := newStorage(t)
		testData := []byte("some image bytes")
		writeEntry(t, storage, "repeat-0123456789abcdef", testData)

		for i := 0; i < 2; i++ {
			if got := readEntry(t, storage, "repeat-0123456789abcdef"); !bytes.Equal(got, testData) {
				t.Fatalf("read %d returned %q", i, got)
			}
		}
	})

	t.Run("ShouldReturnErrImageNotFoundWhenImageDoesNotExist", func(t *testing.T) {
		ctx := context.Background()
		storage := newStorage(t)

		exists, err := storage.Exists(ctx, "unknown-0123456789abcdef")
		if err != nil || exists {
			t.Fatalf("unknown entry should not exist, exists: %v, err: %v", exists, err)
		}

		if _, err := storage.Get(ctx, "unknown-0123456789abcdef"); err != ErrImageNotFound {
			t.Fatalf("expected ErrImageNotFound, got %v", err)
		}
	})

	t.Run("ShouldNotExposeEntryBeforeCommit", func(t *testing.T) {
		ctx := context.Background()
		storage := newStorage(t)

		w, err := storage.Create(ctx, "pending-0123456789abcdef")
		if err != nil {
			t.Fatalf("cannot create entry writer: %v", err)
		}
		defer w.Abort()

		if _, err := w.Write([]byte("partial")); err != nil {
			t.Fatalf("cannot write: %v", err)
		}

		if exists, _ := storage.Exists(ctx, "pending-0123456789abcdef"); exists {
			t.Fatalf("entry is visible before commit")
		}
	})

	t.Run("ShouldDiscardAbortedEntry", func(t *testing.T) {
		ctx := context.Background()
		storage := newStorage(t)

		w, err := storage.Create(ctx, "aborted-0123456789abcdef")
		if err != nil {
			t.Fatalf("cannot create entry writer: %v", err)
		}
		if _, err := w.Write([]byte("partial")); err != nil {
			t.Fatalf("cannot write: %v", err)
		}
		if err := w.Abort(); err != nil {
			t.Fatalf("abort failed: %v", err)
		}

		if exists, _ := storage.Exists(ctx, "aborted-0123456789abcdef"); exists {
			t.Fatalf("aborted entry is visible")
		}
		if _, err := storage.Get(ctx, "aborted-0123456789abcdef"); err != ErrImageNotFound {
			t.Fatalf("expected ErrImageNotFound, got %v", err)
		}
		if err := w.Abort(); err != nil {
			t.Fatalf("second abort should be a no-op, got %v", err)
		}
	})

	t.Run("ShouldReplaceEntryWithSecondWriter", func(t *testing.T) {
		storage := newStorage(t)

		writeEntry(t, storage, "twice-0123456789abcdef", []byte("first"))
		writeEntry(t, storage, "twice-0123456789abcdef", []byte("second"))

		if got := readEntry(t, storage, "twice-0123456789abcdef"); string(got) != "second" {
			t.Fatalf("expected second revision, got %q", got)
		}
	})
}

func writeEntry(t *testing.T, storage CachedImagesStorage, key string, data []byte) {
	t.Helper()

	w, err := storage.Create(context.Background(), key)
	if err != nil {
		t.Fatalf("cannot create entry writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Abort()
		t.Fatalf("cannot write entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("cannot commit entry: %v", err)
	}
	if err := w.Abort(); err != nil {
		t.Fatalf("abort after commit should be a no-op, got %v", err)
	}
}

func readEntry(t *testing.T, storage CachedImagesStorage, key string) []byte {
	t.Helper()

	r, err := storage.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("cannot open entry: %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("cannot read entry: %v", err)
	}

	return data
}

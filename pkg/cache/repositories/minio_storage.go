package cacherepositories

import (
	"context"
	"errors"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"

	dbconnections "github.com/thebartekbanach/imgsearch/pkg/cache/repositories/connections"
)

type minioImagesStorage struct {
	conn dbconnections.MinioBlockStorageConnection
}

var _ CachedImagesStorage = (*minioImagesStorage)(nil)

func NewMinioImagesStorage(conn dbconnections.MinioBlockStorageConnection) CachedImagesStorage {
	return &minioImagesStorage{conn}
}

func (s *minioImagesStorage) Exists(ctx context.Context, key string) (bool, error) {
	return s.conn.ObjectExists(ctx, s.makeResourceID(key))
}

func (s *minioImagesStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := s.conn.GetObject(ctx, s.makeResourceID(key))
	if err != nil {
		return nil, s.convertToKnownError(err)
	}

	// GetObject is lazy, Stat forces the request so a missing key surfaces here.
	if _, err := object.Stat(); err != nil {
		object.Close()
		return nil, s.convertToKnownError(err)
	}

	return object, nil
}

func (s *minioImagesStorage) Create(ctx context.Context, key string) (EntryWriter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	w := &minioEntryWriter{
		pipe:     pw,
		uploaded: make(chan error, 1),
	}

	go func() {
		err := s.conn.PutObject(ctx, s.makeResourceID(key), -1, "application/octet-stream", pr)
		pr.CloseWithError(err)
		w.uploaded <- err
	}()

	return w, nil
}

func (s *minioImagesStorage) convertToKnownError(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrImageNotFound
	}

	return err
}

func (s *minioImagesStorage) makeResourceID(key string) string {
	return "images/" + url.PathEscape(key)
}

type minioEntryWriter struct {
	pipe     *io.PipeWriter
	uploaded chan error
	done     bool
}

func (w *minioEntryWriter) Write(p []byte) (int, error) {
	if w.done {
		return 0, ErrWriterClosed
	}

	return w.pipe.Write(p)
}

// Close finishes the stream and waits for the upload, the object is visible
// only once minio completes it.
func (w *minioEntryWriter) Close() error {
	if w.done {
		return ErrWriterClosed
	}
	w.done = true

	w.pipe.Close()
	return <-w.uploaded
}

func (w *minioEntryWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true

	// PutObject fails on the pipe error and abandons the multipart upload.
	w.pipe.CloseWithError(errUploadAborted)
	<-w.uploaded

	return nil
}

var errUploadAborted = errors.New("upload aborted")

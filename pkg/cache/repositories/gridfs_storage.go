package cacherepositories

import (
	"context"
	"errors"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	dbconnections "github.com/thebartekbanach/imgsearch/pkg/cache/repositories/connections"
)

type gridFSImagesStorage struct {
	conn dbconnections.CacheDBConnection
}

var _ CachedImagesStorage = (*gridFSImagesStorage)(nil)

func NewGridFSImagesStorage(conn dbconnections.CacheDBConnection) CachedImagesStorage {
	return &gridFSImagesStorage{conn}
}

func (s *gridFSImagesStorage) Exists(ctx context.Context, key string) (bool, error) {
	bucket, err := s.conn.Bucket()
	if err != nil {
		return false, err
	}

	count, err := bucket.GetFilesCollection().CountDocuments(ctx, bson.M{"filename": key}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s *gridFSImagesStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	bucket, err := s.conn.Bucket()
	if err != nil {
		return nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := bucket.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
	}

	// Newest revision wins, _id breaks ties between uploads in the same millisecond.
	findOptions := options.GridFSFind().
		SetSort(bson.D{{Key: "uploadDate", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(1)
	cursor, err := bucket.FindContext(ctx, bson.M{"filename": key}, findOptions)
	if err != nil {
		return nil, err
	}

	var files []gridFSFile
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrImageNotFound
	}

	stream, err := bucket.OpenDownloadStream(files[0].ID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}

	return stream, nil
}

func (s *gridFSImagesStorage) Create(ctx context.Context, key string) (EntryWriter, error) {
	bucket, err := s.conn.Bucket()
	if err != nil {
		return nil, err
	}

	stream, err := bucket.OpenUploadStream(key)
	if err != nil {
		return nil, err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultGridFSWriteTimeout)
	}
	if err := stream.SetWriteDeadline(deadline); err != nil {
		stream.Abort()
		return nil, err
	}

	return &gridFSEntryWriter{stream: stream}, nil
}

type gridFSFile struct {
	ID interface{} `bson:"_id"`
}

type gridFSEntryWriter struct {
	stream *gridfs.UploadStream
	done   bool
}

func (w *gridFSEntryWriter) Write(p []byte) (int, error) {
	if w.done {
		return 0, ErrWriterClosed
	}

	return w.stream.Write(p)
}

// Close writes the files document, readers cannot see the entry before that.
func (w *gridFSEntryWriter) Close() error {
	if w.done {
		return ErrWriterClosed
	}
	w.done = true

	if err := w.stream.Close(); err != nil {
		w.stream.Abort()
		return err
	}

	return nil
}

func (w *gridFSEntryWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true

	return w.stream.Abort()
}

const defaultGridFSWriteTimeout = time.Minute

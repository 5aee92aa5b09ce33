package dbconnections

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

type CacheDBConnection interface {
	// Bucket returns a fresh GridFS bucket handle, deadlines set on it are not shared.
	Bucket() (*gridfs.Bucket, error)
	Disconnect(ctx context.Context) error
}

type MinioBlockStorageConnection interface {
	GetObject(ctx context.Context, objectName string) (*minio.Object, error)
	PutObject(ctx context.Context, objectName string, objectSize int64, mimeType string, reader io.Reader) error
	ObjectExists(ctx context.Context, objectName string) (exists bool, err error)
}

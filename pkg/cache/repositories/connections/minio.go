package dbconnections

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioBlockStorageProductionConnectionConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Location  string
	UseSSL    bool
}

type MinioBlockStorageProductionConnection struct {
	config MinioBlockStorageProductionConnectionConfig
	client *minio.Client
}

var _ MinioBlockStorageConnection = (*MinioBlockStorageProductionConnection)(nil)

func NewMinioBlockStorageProductionConnection(ctx context.Context, config MinioBlockStorageProductionConnectionConfig) (conn *MinioBlockStorageProductionConnection, err error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
		Region: config.Location,
	})
	if err != nil {
		return
	}

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return
	}

	if !exists {
		makeBucketOptions := minio.MakeBucketOptions{Region: config.Location}
		if err = client.MakeBucket(ctx, config.Bucket, makeBucketOptions); err != nil {
			return
		}
	}

	conn = &MinioBlockStorageProductionConnection{
		config: config,
		client: client,
	}

	return
}

func (c *MinioBlockStorageProductionConnection) GetObject(ctx context.Context, objectName string) (*minio.Object, error) {
	return c.client.GetObject(ctx, c.config.Bucket, objectName, minio.GetObjectOptions{})
}

// PutObject accepts objectSize -1 for streams of unknown length, they are
// uploaded in parts of minioStreamPartSize.
func (c *MinioBlockStorageProductionConnection) PutObject(
	ctx context.Context,
	objectName string,
	objectSize int64,
	mimeType string,
	reader io.Reader,
) error {
	opts := minio.PutObjectOptions{ContentType: mimeType}
	if objectSize < 0 {
		opts.PartSize = minioStreamPartSize
	}

	_, err := c.client.PutObject(
		ctx,
		c.config.Bucket,
		objectName,
		reader,
		objectSize,
		opts,
	)
	return err
}

func (c *MinioBlockStorageProductionConnection) ObjectExists(ctx context.Context, objectName string) (exists bool, err error) {
	_, err = c.client.StatObject(ctx, c.config.Bucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

const minioStreamPartSize = 5 * 1024 * 1024

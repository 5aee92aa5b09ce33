package dbconnections

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CacheDBConfig struct {
	ConnectionString string
	Database         string
	BucketName       string
}

type CacheDBProductionConnection struct {
	config CacheDBConfig
	client *mongo.Client
}

var _ CacheDBConnection = (*CacheDBProductionConnection)(nil)

func NewCacheDBProductionConnection(ctx context.Context, config CacheDBConfig) (*CacheDBProductionConnection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.ConnectionString))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	return &CacheDBProductionConnection{
		config: config,
		client: client,
	}, nil
}

func (c *CacheDBProductionConnection) Bucket() (*gridfs.Bucket, error) {
	return gridfs.NewBucket(
		c.client.Database(c.config.Database),
		options.GridFSBucket().SetName(c.config.BucketName),
	)
}

func (c *CacheDBProductionConnection) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

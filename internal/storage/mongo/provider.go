// Package mongo implements the storage interfaces on MongoDB.
package mongo

import (
	"context"
	"fmt"

	"github.com/storyhive/storyhive/internal/config"
	"github.com/storyhive/storyhive/internal/storage"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Provider owns the MongoDB client and hands out the stores built on it.
type Provider struct {
	client  *mongo.Client
	db      *mongo.Database
	Novels  storage.NovelStore
	Library storage.LibraryStore
}

// Connect dials MongoDB and builds the stores.
func Connect(ctx context.Context, cfg config.StorageConfig) (*Provider, error) {
	dialCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(cfg.Database)
	return &Provider{
		client:  client,
		db:      db,
		Novels:  NewNovelStore(db, cfg.NovelsCollection),
		Library: NewLibraryStore(db, cfg.LibraryCollection),
	}, nil
}

// EnsureIndexes creates the indexes of every store.
func (p *Provider) EnsureIndexes(ctx context.Context) error {
	if err := p.Novels.EnsureIndexes(ctx); err != nil {
		return err
	}
	return p.Library.EnsureIndexes(ctx)
}

// Close disconnects the underlying client.
func (p *Provider) Close(ctx context.Context) error {
	if p.client != nil {
		return p.client.Disconnect(ctx)
	}
	return nil
}

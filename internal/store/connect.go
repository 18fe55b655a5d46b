package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var ErrFailedToConnect = errors.New("store: failed to connect to mongodb")

const (
	connectAttempts = 3
	connectInterval = 5 * time.Second
)

// Connect dials MongoDB with retry logic for reliable startup.
// Uses linear backoff so a briefly unavailable database does not fail
// the whole process on boot.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetMinPoolSize(2).
		SetServerSelectionTimeout(5 * time.Second)

	for i := range connectAttempts {
		client, err := mongo.Connect(ctx, opts)
		if err == nil {
			if err = client.Ping(ctx, readpref.Primary()); err == nil {
				return client, nil
			}
			_ = client.Disconnect(ctx)
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToConnect, ctx.Err())
		case <-time.After(time.Duration(i+1) * connectInterval):
		}
	}

	return nil, ErrFailedToConnect
}

// Shutdown returns a function that disconnects the client, shaped for
// graceful shutdown hooks.
func Shutdown(client *mongo.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Disconnect(ctx)
	}
}

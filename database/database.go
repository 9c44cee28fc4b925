package database

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectMongo connects and pings the primary, backing off while the
// server comes up (docker-compose starts us before mongod is ready).
func ConnectMongo(ctx context.Context, log *zap.Logger, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	ping := func() error {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		err := client.Ping(pctx, readpref.Primary())
		if err != nil {
			log.Warn("mongo ping failed, retrying", zap.Error(err))
		}
		return err
	}
	if err := backoff.Retry(ping, backoff.WithContext(bo, ctx)); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info("connected to MongoDB")
	return client, nil
}

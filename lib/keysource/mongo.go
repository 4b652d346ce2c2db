package keysource

import (
	"context"
	"crypto/tls"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/artie-labs/dataset/config"
)

func mongoLister(cfg config.MongoDB) lister {
	return func(ctx context.Context) ([]string, error) {
		opts := options.Client().ApplyURI(cfg.URI)
		if cfg.Username != "" {
			opts = opts.SetAuth(options.Credential{Username: cfg.Username, Password: cfg.Password})
		}
		if !cfg.DisableTLS {
			opts = opts.SetTLSConfig(&tls.Config{})
		}

		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		defer client.Disconnect(ctx)

		if err = client.Ping(ctx, readpref.Primary()); err != nil {
			return nil, fmt.Errorf("failed to ping mongodb: %w", err)
		}

		return listIDs(ctx, client.Database(cfg.Database).Collection(cfg.Collection))
	}
}

func listIDs(ctx context.Context, collection *mongo.Collection) ([]string, error) {
	findOpts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}).SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := collection.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID any `bson:"_id"`
		}
		if err = cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		ids = append(ids, idToString(doc.ID))
	}

	if err = cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return ids, nil
}

func idToString(id any) string {
	switch castedID := id.(type) {
	case primitive.ObjectID:
		return castedID.Hex()
	case string:
		return castedID
	case primitive.Binary:
		return fmt.Sprintf("%x", castedID.Data)
	default:
		return fmt.Sprint(castedID)
	}
}

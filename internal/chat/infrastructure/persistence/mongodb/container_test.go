package mongodb_test

import (
	"context"
	"fmt"

	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func startMongo(ctx context.Context) (*tcmongo.MongoDBContainer, *mongo.Client, error) {
	container, err := tcmongo.Run(ctx, "mongo:7.0")
	if err != nil {
		return nil, nil, fmt.Errorf("mongodb.Run: %w", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		return container, nil, fmt.Errorf("container.ConnectionString: %w", err)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return container, nil, fmt.Errorf("mongo.Connect: %w", err)
	}

	return container, client, nil
}

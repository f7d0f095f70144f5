package infra

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ProductosCollection = "productos"

// NewMongo connects to the catalog store, validates connectivity, and ensures
// the indexes the catalog depends on:
//   - unique index on sku_lower (case-insensitive SKU uniqueness)
//   - compound index backing the search + active listing query
func NewMongo(uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sku_lower", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uni_productos_sku_lower"),
		},
		{
			Keys:    bson.D{{Key: "activo", Value: 1}, {Key: "nombre", Value: 1}},
			Options: options.Index().SetName("idx_productos_activo_nombre"),
		},
	}
	if _, err := db.Collection(ProductosCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, err
	}

	return db, nil
}

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const guestCartTTL = 30 * 24 * time.Hour

// EnsureIndexes creates the secondary indexes every collection relies
// on. Safe to call on every startup; existing indexes are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(productsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "isActive", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}}},
	}); err != nil {
		return err
	}

	// The unique sparse index on user is load-bearing: the atomic
	// add-item upsert relies on it to detect a concurrent insert of a
	// second cart for the same user. The TTL index expires abandoned
	// guest carts 30 days after their last write.
	if _, err := db.Collection(cartsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "guestId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "updatedAt", Value: 1}}, Options: options.Index().
			SetExpireAfterSeconds(int32(guestCartTTL.Seconds())).
			SetPartialFilterExpression(bson.D{{Key: "guestId", Value: bson.D{{Key: "$exists", Value: true}}}})},
	}); err != nil {
		return err
	}

	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	if _, err := db.Collection(ordersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return err
	}

	if _, err := db.Collection(contactsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return err
	}

	return nil
}

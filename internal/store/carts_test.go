package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/dmitrymomot/storefront/internal/cart"
	"github.com/dmitrymomot/storefront/internal/store"
)

func countCommands(mt *mtest.T, name string) int {
	var n int
	for _, ev := range mt.GetAllStartedEvents() {
		if ev.CommandName == name {
			n++
		}
	}
	return n
}

func TestCartsAddItemAtomic(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("push retried when the increment matches nothing", func(mt *mtest.T) {
		carts := store.NewCarts(mt.DB)

		uid := primitive.NewObjectID()
		p1 := primitive.NewObjectID()
		p2 := primitive.NewObjectID()

		cartDoc := bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "user", Value: uid},
			{Key: "items", Value: bson.A{
				bson.D{{Key: "product", Value: p1}, {Key: "quantity", Value: 1}, {Key: "price", Value: 10.0}, {Key: "name", Value: "alpha"}},
				bson.D{{Key: "product", Value: p2}, {Key: "quantity", Value: 1}, {Key: "price", Value: 20.0}, {Key: "name", Value: "beta"}},
			}},
			{Key: "totalPrice", Value: 30.0},
		}

		// The guarded push loses the cart-creation race to a concurrent
		// add of a different product: duplicate key on the user index,
		// then an increment that matches no line. The push must be
		// retried against the now-existing cart instead of silently
		// dropping the item.
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateCursorResponse(0, mt.DB.Name()+".carts", mtest.FirstBatch, cartDoc),
		)

		got, err := carts.AddItemAtomic(context.Background(), uid.Hex(), cart.LineItem{
			ProductID: p2.Hex(), Name: "beta", Price: 20, Quantity: 1,
		})
		require.NoError(mt, err)
		require.Len(mt, got.Items, 2)

		// push, empty increment, retried push, total recompute.
		require.Equal(mt, 4, countCommands(mt, "update"))
		require.Equal(mt, 1, countCommands(mt, "find"))
	})

	mt.Run("existing line increments without a retry", func(mt *mtest.T) {
		carts := store.NewCarts(mt.DB)

		uid := primitive.NewObjectID()
		p1 := primitive.NewObjectID()

		cartDoc := bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "user", Value: uid},
			{Key: "items", Value: bson.A{
				bson.D{{Key: "product", Value: p1}, {Key: "quantity", Value: 2}, {Key: "price", Value: 10.0}, {Key: "name", Value: "alpha"}},
			}},
			{Key: "totalPrice", Value: 20.0},
		}

		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateCursorResponse(0, mt.DB.Name()+".carts", mtest.FirstBatch, cartDoc),
		)

		got, err := carts.AddItemAtomic(context.Background(), uid.Hex(), cart.LineItem{
			ProductID: p1.Hex(), Name: "alpha", Price: 10, Quantity: 1,
		})
		require.NoError(mt, err)
		require.Len(mt, got.Items, 1)
		require.Equal(mt, 2, got.Items[0].Quantity)

		// push, increment, total recompute.
		require.Equal(mt, 3, countCommands(mt, "update"))
	})
}

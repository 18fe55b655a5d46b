package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmitrymomot/storefront/internal/cart"
)

const (
	cartsCollection = "carts"

	// Bound on push/increment rounds in AddItemAtomic; each retry needs
	// another concurrent cart-creation race to lose, so two is already
	// unreachable in practice.
	addItemAttempts = 3
)

type cartItemDoc struct {
	Product  primitive.ObjectID `bson:"product"`
	Quantity int                `bson:"quantity"`
	Price    float64            `bson:"price"`
	Name     string             `bson:"name"`
	Image    string             `bson:"image,omitempty"`
}

type cartDoc struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty"`
	User       *primitive.ObjectID `bson:"user,omitempty"`
	GuestID    *string             `bson:"guestId,omitempty"`
	Items      []cartItemDoc       `bson:"items"`
	TotalPrice float64             `bson:"totalPrice"`
	CreatedAt  time.Time           `bson:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt"`
}

func (d cartDoc) toDomain() cart.Cart {
	c := cart.Cart{
		ID:         d.ID.Hex(),
		TotalPrice: d.TotalPrice,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	switch {
	case d.User != nil:
		c.Owner = cart.UserOwner(d.User.Hex())
	case d.GuestID != nil:
		c.Owner = cart.GuestOwner(*d.GuestID)
	}
	c.Items = make([]cart.LineItem, 0, len(d.Items))
	for _, it := range d.Items {
		c.Items = append(c.Items, cart.LineItem{
			ProductID: it.Product.Hex(),
			Name:      it.Name,
			Price:     it.Price,
			Image:     it.Image,
			Quantity:  it.Quantity,
		})
	}
	return c
}

// Carts is the MongoDB-backed cart repository.
type Carts struct {
	coll *mongo.Collection
}

func NewCarts(db *mongo.Database) *Carts {
	return &Carts{coll: db.Collection(cartsCollection)}
}

func ownerFilter(owner cart.Owner) (bson.M, error) {
	if uid, ok := owner.UserID(); ok {
		oid, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			return nil, cart.ErrCartNotFound
		}
		return bson.M{"user": oid}, nil
	}
	if gid, ok := owner.GuestID(); ok {
		return bson.M{"guestId": gid}, nil
	}
	return nil, cart.ErrCartNotFound
}

func (c *Carts) FindByOwner(ctx context.Context, owner cart.Owner) (cart.Cart, error) {
	filter, err := ownerFilter(owner)
	if err != nil {
		return cart.Cart{}, err
	}

	var doc cartDoc
	if err := c.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return cart.Cart{}, cart.ErrCartNotFound
		}
		return cart.Cart{}, err
	}
	return doc.toDomain(), nil
}

// ClaimGuestCart fetches and deletes the guest cart in one storage
// operation. Exactly one caller can win the claim; everyone else sees
// not-found.
func (c *Carts) ClaimGuestCart(ctx context.Context, guestID string) (cart.Cart, error) {
	var doc cartDoc
	err := c.coll.FindOneAndDelete(ctx, bson.M{"guestId": guestID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return cart.Cart{}, cart.ErrCartNotFound
		}
		return cart.Cart{}, err
	}
	return doc.toDomain(), nil
}

func (c *Carts) Save(ctx context.Context, in *cart.Cart) error {
	doc, err := cartToDoc(in)
	if err != nil {
		return err
	}

	now := time.Now()
	doc.UpdatedAt = now

	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
		doc.CreatedAt = now
		if _, err := c.coll.InsertOne(ctx, doc); err != nil {
			return err
		}
		in.ID = doc.ID.Hex()
		in.CreatedAt = doc.CreatedAt
		in.UpdatedAt = doc.UpdatedAt
		return nil
	}

	_, err = c.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}
	in.UpdatedAt = doc.UpdatedAt
	return nil
}

func (c *Carts) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return cart.ErrCartNotFound
	}
	_, err = c.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// AddItemAtomic pushes a new line item or increments an existing one
// without a read-modify-write cycle, then recomputes the total price
// server-side. Two concurrent adds for the same product both land as
// increments; the unique index on user turns the losing upsert of a
// second cart into a duplicate-key error handled here.
func (c *Carts) AddItemAtomic(ctx context.Context, userID string, item cart.LineItem) (cart.Cart, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return cart.Cart{}, cart.ErrCartNotFound
	}
	pid, err := primitive.ObjectIDFromHex(item.ProductID)
	if err != nil {
		return cart.Cart{}, cart.ErrProductNotFound
	}

	now := time.Now()

	landed := false
	for attempt := 0; attempt < addItemAttempts && !landed; attempt++ {
		// Push the item when the cart lacks it, creating the cart when
		// absent. If the cart exists and already holds the product the
		// filter misses and the upsert trips the unique user index.
		_, err = c.coll.UpdateOne(ctx,
			bson.M{"user": uid, "items.product": bson.M{"$ne": pid}},
			bson.M{
				"$push":        bson.M{"items": cartItemDoc{Product: pid, Quantity: item.Quantity, Price: item.Price, Name: item.Name, Image: item.Image}},
				"$set":         bson.M{"updatedAt": now},
				"$setOnInsert": bson.M{"createdAt": now},
			},
			options.Update().SetUpsert(true),
		)
		if err == nil {
			landed = true
			break
		}
		if !mongo.IsDuplicateKeyError(err) {
			return cart.Cart{}, err
		}

		// Existing line item: atomic in-place increment.
		res, err := c.coll.UpdateOne(ctx,
			bson.M{"user": uid, "items.product": pid},
			bson.M{
				"$inc": bson.M{"items.$.quantity": item.Quantity},
				"$set": bson.M{"updatedAt": now},
			},
		)
		if err != nil {
			return cart.Cart{}, err
		}
		landed = res.ModifiedCount > 0
		// ModifiedCount 0 means the upsert lost the cart-creation race
		// to an add for a different product: the cart now exists and
		// lacks this line, so the push filter matches on retry.
	}
	if !landed {
		return cart.Cart{}, err
	}

	// Recompute totalPrice from the stored items so it reflects
	// whatever state the increments above converged to.
	if _, err := c.coll.UpdateOne(ctx, bson.M{"user": uid}, mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"totalPrice": bson.M{"$sum": bson.M{"$map": bson.M{
				"input": "$items",
				"as":    "it",
				"in":    bson.M{"$multiply": bson.A{"$$it.price", "$$it.quantity"}},
			}}},
		}}},
	}); err != nil {
		return cart.Cart{}, err
	}

	return c.FindByOwner(ctx, cart.UserOwner(userID))
}

func cartToDoc(in *cart.Cart) (cartDoc, error) {
	doc := cartDoc{
		TotalPrice: in.TotalPrice,
		CreatedAt:  in.CreatedAt,
		Items:      make([]cartItemDoc, 0, len(in.Items)),
	}

	if in.ID != "" {
		oid, err := primitive.ObjectIDFromHex(in.ID)
		if err != nil {
			return cartDoc{}, cart.ErrCartNotFound
		}
		doc.ID = oid
	}

	if uid, ok := in.Owner.UserID(); ok {
		oid, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			return cartDoc{}, cart.ErrCartNotFound
		}
		doc.User = &oid
	} else if gid, ok := in.Owner.GuestID(); ok {
		doc.GuestID = &gid
	}

	for _, it := range in.Items {
		pid, err := primitive.ObjectIDFromHex(it.ProductID)
		if err != nil {
			return cartDoc{}, cart.ErrProductNotFound
		}
		doc.Items = append(doc.Items, cartItemDoc{
			Product:  pid,
			Quantity: it.Quantity,
			Price:    it.Price,
			Name:     it.Name,
			Image:    it.Image,
		})
	}

	return doc, nil
}

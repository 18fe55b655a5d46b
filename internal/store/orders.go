package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmitrymomot/storefront/internal/order"
)

const ordersCollection = "orders"

type orderItemDoc struct {
	Product  primitive.ObjectID `bson:"product"`
	Name     string             `bson:"name"`
	Price    float64            `bson:"price"`
	Quantity int                `bson:"quantity"`
	Image    string             `bson:"image,omitempty"`
}

type addressDoc struct {
	FirstName           string `bson:"firstName"`
	LastName            string `bson:"lastName"`
	Country             string `bson:"country"`
	Address             string `bson:"address"`
	City                string `bson:"city"`
	Phone               string `bson:"phone"`
	Email               string `bson:"email"`
	SpecialInstructions string `bson:"specialInstructions,omitempty"`
}

type orderDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	User          primitive.ObjectID `bson:"user"`
	Items         []orderItemDoc     `bson:"items"`
	Address       addressDoc         `bson:"address"`
	Subtotal      float64            `bson:"subtotal"`
	Shipping      float64            `bson:"shipping"`
	Total         float64            `bson:"total"`
	Status        string             `bson:"status"`
	PaymentMethod string             `bson:"paymentMethod"`
	IsPaid        bool               `bson:"isPaid"`
	PaidAt        *time.Time         `bson:"paidAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d orderDoc) toDomain() order.Order {
	o := order.Order{
		ID:            d.ID.Hex(),
		UserID:        d.User.Hex(),
		Subtotal:      d.Subtotal,
		Shipping:      d.Shipping,
		Total:         d.Total,
		Status:        order.Status(d.Status),
		PaymentMethod: order.PaymentMethod(d.PaymentMethod),
		IsPaid:        d.IsPaid,
		PaidAt:        d.PaidAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		Address: order.Address{
			FirstName:           d.Address.FirstName,
			LastName:            d.Address.LastName,
			Country:             d.Address.Country,
			Address:             d.Address.Address,
			City:                d.Address.City,
			Phone:               d.Address.Phone,
			Email:               d.Address.Email,
			SpecialInstructions: d.Address.SpecialInstructions,
		},
	}
	o.Items = make([]order.Item, 0, len(d.Items))
	for _, it := range d.Items {
		o.Items = append(o.Items, order.Item{
			ProductID: it.Product.Hex(),
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
	}
	return o
}

// Orders is the MongoDB-backed order repository.
type Orders struct {
	coll *mongo.Collection
}

func NewOrders(db *mongo.Database) *Orders {
	return &Orders{coll: db.Collection(ordersCollection)}
}

func (r *Orders) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	doc, err := orderToDoc(o)
	if err != nil {
		return order.Order{}, err
	}

	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return order.Order{}, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *Orders) FindByID(ctx context.Context, id string) (order.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return order.Order{}, order.ErrNotFound
	}

	var doc orderDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return order.Order{}, order.ErrNotFound
		}
		return order.Order{}, err
	}
	return doc.toDomain(), nil
}

func (r *Orders) FindAll(ctx context.Context) ([]order.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *Orders) FindByUser(ctx context.Context, userID string) ([]order.Order, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}
	return r.find(ctx, bson.M{"user": uid})
}

func (r *Orders) find(ctx context.Context, filter bson.M) ([]order.Order, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	orders := make([]order.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.toDomain())
	}
	return orders, nil
}

func (r *Orders) Update(ctx context.Context, o order.Order) (order.Order, error) {
	doc, err := orderToDoc(o)
	if err != nil {
		return order.Order{}, err
	}
	doc.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return order.Order{}, err
	}
	if res.MatchedCount == 0 {
		return order.Order{}, order.ErrNotFound
	}
	return doc.toDomain(), nil
}

func (r *Orders) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return order.ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *Orders) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func orderToDoc(o order.Order) (orderDoc, error) {
	doc := orderDoc{
		Subtotal:      o.Subtotal,
		Shipping:      o.Shipping,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Address: addressDoc{
			FirstName:           o.Address.FirstName,
			LastName:            o.Address.LastName,
			Country:             o.Address.Country,
			Address:             o.Address.Address,
			City:                o.Address.City,
			Phone:               o.Address.Phone,
			Email:               o.Address.Email,
			SpecialInstructions: o.Address.SpecialInstructions,
		},
	}

	if o.ID != "" {
		oid, err := primitive.ObjectIDFromHex(o.ID)
		if err != nil {
			return orderDoc{}, order.ErrNotFound
		}
		doc.ID = oid
	}

	uid, err := primitive.ObjectIDFromHex(o.UserID)
	if err != nil {
		return orderDoc{}, order.ErrValidation
	}
	doc.User = uid

	doc.Items = make([]orderItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		pid, err := primitive.ObjectIDFromHex(it.ProductID)
		if err != nil {
			return orderDoc{}, order.ErrValidation
		}
		doc.Items = append(doc.Items, orderItemDoc{
			Product:  pid,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Image:    it.Image,
		})
	}

	return doc, nil
}

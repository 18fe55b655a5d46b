package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmitrymomot/storefront/internal/contact"
)

const contactsCollection = "contacts"

type contactDoc struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Name        string              `bson:"name"`
	Email       string              `bson:"email"`
	PhoneNumber string              `bson:"phoneNumber,omitempty"`
	Message     string              `bson:"message"`
	Status      string              `bson:"status"`
	Response    string              `bson:"response,omitempty"`
	RespondedBy *primitive.ObjectID `bson:"respondedBy,omitempty"`
	RespondedAt *time.Time          `bson:"respondedAt,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt"`
}

func (d contactDoc) toDomain() contact.Contact {
	c := contact.Contact{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Email:       d.Email,
		PhoneNumber: d.PhoneNumber,
		Message:     d.Message,
		Status:      contact.Status(d.Status),
		Response:    d.Response,
		RespondedAt: d.RespondedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.RespondedBy != nil {
		c.RespondedBy = d.RespondedBy.Hex()
	}
	return c
}

// Contacts is the MongoDB-backed contact-form repository.
type Contacts struct {
	coll *mongo.Collection
}

func NewContacts(db *mongo.Database) *Contacts {
	return &Contacts{coll: db.Collection(contactsCollection)}
}

func (r *Contacts) Insert(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	doc, err := contactToDoc(c)
	if err != nil {
		return contact.Contact{}, err
	}

	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return contact.Contact{}, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *Contacts) FindByID(ctx context.Context, id string) (contact.Contact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return contact.Contact{}, contact.ErrNotFound
	}

	var doc contactDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return contact.Contact{}, contact.ErrNotFound
		}
		return contact.Contact{}, err
	}
	return doc.toDomain(), nil
}

func (r *Contacts) Find(ctx context.Context, page, limit int, status contact.Status) ([]contact.Contact, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page-1)*limit)).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var docs []contactDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	contacts := make([]contact.Contact, 0, len(docs))
	for _, d := range docs {
		contacts = append(contacts, d.toDomain())
	}
	return contacts, total, nil
}

func (r *Contacts) Update(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	doc, err := contactToDoc(c)
	if err != nil {
		return contact.Contact{}, err
	}
	doc.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return contact.Contact{}, err
	}
	if res.MatchedCount == 0 {
		return contact.Contact{}, contact.ErrNotFound
	}
	return doc.toDomain(), nil
}

func (r *Contacts) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return contact.ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func contactToDoc(c contact.Contact) (contactDoc, error) {
	doc := contactDoc{
		Name:        c.Name,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Message:     c.Message,
		Status:      string(c.Status),
		Response:    c.Response,
		RespondedAt: c.RespondedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	if c.ID != "" {
		oid, err := primitive.ObjectIDFromHex(c.ID)
		if err != nil {
			return contactDoc{}, contact.ErrNotFound
		}
		doc.ID = oid
	}

	if c.RespondedBy != "" {
		oid, err := primitive.ObjectIDFromHex(c.RespondedBy)
		if err == nil {
			doc.RespondedBy = &oid
		}
	}

	return doc, nil
}

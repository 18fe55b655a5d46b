package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmitrymomot/storefront/internal/catalog"
)

const productsCollection = "products"

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Price       float64            `bson:"price"`
	Description string             `bson:"description"`
	Image       string             `bson:"image"`
	Stock       int                `bson:"stock"`
	Category    string             `bson:"category"`
	Brand       string             `bson:"brand"`
	Rating      float64            `bson:"rating"`
	NumReviews  int                `bson:"numReviews"`
	IsActive    bool               `bson:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d productDoc) toDomain() catalog.Product {
	return catalog.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Price:       d.Price,
		Description: d.Description,
		Image:       d.Image,
		Stock:       d.Stock,
		Category:    d.Category,
		Brand:       d.Brand,
		Rating:      d.Rating,
		NumReviews:  d.NumReviews,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// Products is the MongoDB-backed catalog repository.
type Products struct {
	coll *mongo.Collection
}

func NewProducts(db *mongo.Database) *Products {
	return &Products{coll: db.Collection(productsCollection)}
}

func (p *Products) Find(ctx context.Context, q catalog.ListQuery) ([]catalog.Product, int64, error) {
	filter, err := productFilter(q)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit))

	switch {
	case q.Sort == "price_asc":
		findOpts.SetSort(bson.D{{Key: "price", Value: 1}})
	case q.Sort == "price_desc":
		findOpts.SetSort(bson.D{{Key: "price", Value: -1}})
	case q.Search != "":
		// Rank full-text matches by relevance.
		findOpts.SetSort(bson.D{{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}}})
		findOpts.SetProjection(bson.D{{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}}})
	default:
		findOpts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	}

	cur, err := p.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	total, err := p.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	products := make([]catalog.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toDomain())
	}
	return products, total, nil
}

func (p *Products) FindByID(ctx context.Context, id string) (catalog.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return catalog.Product{}, catalog.ErrNotFound
	}

	var doc productDoc
	if err := p.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return catalog.Product{}, catalog.ErrNotFound
		}
		return catalog.Product{}, err
	}
	return doc.toDomain(), nil
}

func (p *Products) Insert(ctx context.Context, in catalog.Product) (catalog.Product, error) {
	now := time.Now()
	doc := productDoc{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Image:       in.Image,
		Stock:       in.Stock,
		Category:    in.Category,
		Brand:       in.Brand,
		Rating:      in.Rating,
		NumReviews:  in.NumReviews,
		IsActive:    in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := p.coll.InsertOne(ctx, doc)
	if err != nil {
		return catalog.Product{}, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (p *Products) Update(ctx context.Context, id string, patch catalog.Patch) (catalog.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return catalog.Product{}, catalog.ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Brand != nil {
		set["brand"] = *patch.Brand
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
	}

	var doc productDoc
	err = p.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return catalog.Product{}, catalog.ErrNotFound
		}
		return catalog.Product{}, err
	}
	return doc.toDomain(), nil
}

func (p *Products) SetActive(ctx context.Context, id string, active bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return catalog.ErrNotFound
	}

	res, err := p.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"isActive":  active,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (p *Products) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return catalog.ErrNotFound
	}

	res, err := p.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (p *Products) Categories(ctx context.Context) ([]string, error) {
	values, err := p.coll.Distinct(ctx, "category", bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

func (p *Products) Stats(ctx context.Context) (catalog.Stats, error) {
	cur, err := p.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$category",
			"count":      bson.M{"$sum": 1},
			"avgPrice":   bson.M{"$avg": "$price"},
			"totalStock": bson.M{"$sum": "$stock"},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	})
	if err != nil {
		return catalog.Stats{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Category   string  `bson:"_id"`
		Count      int64   `bson:"count"`
		AvgPrice   float64 `bson:"avgPrice"`
		TotalStock int64   `bson:"totalStock"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return catalog.Stats{}, err
	}

	stats := catalog.Stats{ByCategory: make([]catalog.CategoryStat, 0, len(rows))}
	for _, r := range rows {
		stats.ByCategory = append(stats.ByCategory, catalog.CategoryStat{
			Category:   r.Category,
			Count:      r.Count,
			AvgPrice:   r.AvgPrice,
			TotalStock: r.TotalStock,
		})
	}

	if stats.TotalActive, err = p.coll.CountDocuments(ctx, bson.M{"isActive": true}); err != nil {
		return catalog.Stats{}, err
	}
	if stats.TotalInactive, err = p.coll.CountDocuments(ctx, bson.M{"isActive": false}); err != nil {
		return catalog.Stats{}, err
	}
	stats.Total = stats.TotalActive + stats.TotalInactive

	return stats, nil
}

func (p *Products) Count(ctx context.Context) (int64, error) {
	return p.coll.CountDocuments(ctx, bson.M{})
}

func productFilter(q catalog.ListQuery) (bson.M, error) {
	filter := bson.M{}
	if !q.ShowAll && !q.IncludeInactive {
		filter["isActive"] = true
	}
	if q.Category != "" {
		filter["category"] = primitive.Regex{Pattern: q.Category, Options: "i"}
	}
	if q.Search != "" {
		filter["$text"] = bson.M{"$search": q.Search}
	}

	price := bson.M{}
	if v, ok, err := catalog.ParsePrice(q.MinPrice); err != nil {
		return nil, err
	} else if ok {
		price["$gte"] = v
	}
	if v, ok, err := catalog.ParsePrice(q.MaxPrice); err != nil {
		return nil, err
	} else if ok {
		price["$lte"] = v
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	return filter, nil
}

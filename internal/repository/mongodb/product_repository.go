package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopfront/internal/domain"
	"shopfront/internal/repository"
)

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Seq         int64              `bson:"id"`
	Name        string             `bson:"name"`
	Image       string             `bson:"image"`
	Category    string             `bson:"category"`
	NewPrice    float64            `bson:"new_price"`
	OldPrice    float64            `bson:"old_price"`
	Description string             `bson:"description"`
	Date        time.Time          `bson:"date"`
	Available   bool               `bson:"available"`
}

var naturalOrder = bson.D{{Key: "$natural", Value: 1}}

type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) repository.ProductRepository {
	return &ProductRepository{coll: db.Collection(productsCollection)}
}

func (r *ProductRepository) Init(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create products id index: %w", err)
	}
	return nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	res, err := r.coll.InsertOne(ctx, productFromDomain(*product))
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert product: unexpected id type %T", res.InsertedID)
	}
	product.StorageID = oid.Hex()
	return nil
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(naturalOrder))
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return collectProducts(ctx, cur)
}

func (r *ProductRepository) Last(ctx context.Context) (*domain.Product, error) {
	var doc productDocument
	err := r.coll.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "$natural", Value: -1}}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find last product: %w", err)
	}
	product := doc.toDomain()
	return &product, nil
}

func (r *ProductRepository) ListByCategory(ctx context.Context, substring string, limit int) ([]domain.Product, error) {
	filter := bson.M{"category": primitive.Regex{Pattern: regexp.QuoteMeta(substring), Options: "i"}}
	opts := options.Find().SetSort(naturalOrder)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query products by category: %w", err)
	}
	return collectProducts(ctx, cur)
}

func (r *ProductRepository) DeleteBySeq(ctx context.Context, seq int64) (*domain.Product, error) {
	var doc productDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"id": seq}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}
	product := doc.toDomain()
	return &product, nil
}

func collectProducts(ctx context.Context, cur *mongo.Cursor) ([]domain.Product, error) {
	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	products := make([]domain.Product, len(docs))
	for i := range docs {
		products[i] = docs[i].toDomain()
	}
	return products, nil
}

func productFromDomain(p domain.Product) productDocument {
	doc := productDocument{
		Seq:         p.Seq,
		Name:        p.Name,
		Image:       p.Image,
		Category:    p.Category,
		NewPrice:    p.NewPrice,
		OldPrice:    p.OldPrice,
		Description: p.Description,
		Date:        p.CreatedAt,
		Available:   p.Available,
	}
	if oid, err := primitive.ObjectIDFromHex(p.StorageID); err == nil {
		doc.ID = oid
	}
	return doc
}

func (d productDocument) toDomain() domain.Product {
	return domain.Product{
		StorageID:   d.ID.Hex(),
		Seq:         d.Seq,
		Name:        d.Name,
		Image:       d.Image,
		Category:    d.Category,
		NewPrice:    d.NewPrice,
		OldPrice:    d.OldPrice,
		Description: d.Description,
		CreatedAt:   d.Date,
		Available:   d.Available,
	}
}

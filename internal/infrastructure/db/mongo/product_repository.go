package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anonexchange/anonexchange-api/internal/core/domain"
)

const collectionProducts = "products"

// ProductRepository implements ports.ProductRepository on the products collection.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts)}
}

// Create inserts a new product document.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Reviews == nil {
		p.Reviews = []domain.Review{}
	}

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Product
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

// FindByOwner returns all products owned by ownerID.
func (r *ProductRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user": oid})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	products := []*domain.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return products, nil
}

// SetAcceptingReviews is a single conditional update on the flag.
func (r *ProductRepository) SetAcceptingReviews(ctx context.Context, id string, accepting bool) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"is_accepting_reviews": accepting}})
}

// PushReview appends one review with the store's atomic array push.
func (r *ProductRepository) PushReview(ctx context.Context, id string, review domain.Review) error {
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	return r.updateByID(ctx, id, bson.M{"$push": bson.M{"reviews": review}})
}

func (r *ProductRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// ListReviews returns the embedded reviews newest-first via the
// unwind-sort-group pipeline. A product with no reviews still matches and
// yields an empty ordered sequence.
func (r *ProductRepository) ListReviews(ctx context.Context, id string) ([]domain.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: oid}}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$reviews"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "reviews.created_at", Value: -1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$_id"},
			{Key: "reviews", Value: bson.D{{Key: "$push", Value: "$reviews"}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID      primitive.ObjectID `bson:"_id"`
		Reviews []domain.Review    `bson:"reviews"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrProductNotFound
	}
	return compactReviews(rows[0].Reviews), nil
}

func compactReviews(in []domain.Review) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, rv := range in {
		if !rv.ID.IsZero() {
			out = append(out, rv)
		}
	}
	return out
}

// EnsureIndexes creates the owner lookup index.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

package ports

import (
	"context"

	"github.com/anonexchange/anonexchange-api/internal/core/domain"
)

// ProductRepository defines persistence operations on the products collection.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// FindByOwner returns all products whose user field matches ownerID.
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Product, error)

	SetAcceptingReviews(ctx context.Context, id string, accepting bool) error

	PushReview(ctx context.Context, id string, review domain.Review) error
	// ListReviews returns the embedded reviews newest-first. A product with
	// no reviews yields an empty slice.
	ListReviews(ctx context.Context, id string) ([]domain.Review, error)
}

package ports

import (
	"context"

	"github.com/anonexchange/anonexchange-api/internal/core/domain"
)

// CreateProductInput carries all data needed to create a product.
// Image arrives as submitted; "" is normalized to absent by the service.
type CreateProductInput struct {
	ActorID            string
	Title              string
	Description        string
	Price              *float64
	Image              string
	IsAcceptingReviews bool
}

// ProductService defines use-case operations for products and their reviews.
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	// ListOwned returns the caller's products.
	ListOwned(ctx context.Context, actorID string) ([]*domain.Product, error)
	// Get returns one product by id; the endpoint variant kept here is public.
	Get(ctx context.Context, productID string) (*domain.Product, error)
	// SetAcceptingReviews is owner-only.
	SetAcceptingReviews(ctx context.Context, actorID, productID string, accepting bool) error
	// SubmitReview is anonymous; it is gated on the product's acceptance
	// flag and the closed rating set.
	SubmitReview(ctx context.Context, productID, content string, rating domain.Rating) error
	ListReviews(ctx context.Context, productID string) ([]domain.Review, error)
}

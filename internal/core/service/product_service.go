package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/anonexchange/anonexchange-api/internal/core/domain"
	"github.com/anonexchange/anonexchange-api/internal/core/ports"
)

// ProductService implements product CRUD and the anonymous review flow.
type ProductService struct {
	products ports.ProductRepository
	users    ports.UserRepository
	logger   zerolog.Logger
}

func NewProductService(products ports.ProductRepository, users ports.UserRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{products: products, users: users, logger: logger}
}

// Create stores a new product owned by the caller and records the reference
// on the owner's document. An empty image is stored as absent; a non-empty
// image must match the image-file URL pattern.
func (s *ProductService) Create(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	if err := domain.Authorize(input.ActorID, input.ActorID); err != nil {
		return nil, err
	}

	owner, err := s.users.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}

	image := input.Image
	if image != "" && !domain.ValidImageURL(image) {
		return nil, domain.ErrInvalidImageURL
	}

	product := &domain.Product{
		Title:              input.Title,
		Description:        input.Description,
		Price:              input.Price,
		Image:              image,
		User:               owner.ID,
		IsAcceptingReviews: input.IsAcceptingReviews,
		Reviews:            []domain.Review{},
		CreatedAt:          time.Now().UTC(),
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", input.ActorID).Msg("failed to create product")
		return nil, err
	}

	if err := s.users.PushProductRef(ctx, input.ActorID, created.ID.Hex()); err != nil {
		s.logger.Error().Err(err).Str("product_id", created.ID.Hex()).Msg("failed to link product to owner")
		return nil, err
	}

	s.logger.Info().Str("product_id", created.ID.Hex()).Str("owner", input.ActorID).Msg("product created")
	return created, nil
}

// ListOwned returns the caller's products.
func (s *ProductService) ListOwned(ctx context.Context, actorID string) ([]*domain.Product, error) {
	if err := domain.Authorize(actorID, actorID); err != nil {
		return nil, err
	}
	return s.products.FindByOwner(ctx, actorID)
}

// Get returns one product by id; this variant is public.
func (s *ProductService) Get(ctx context.Context, productID string) (*domain.Product, error) {
	return s.products.FindByID(ctx, productID)
}

// SetAcceptingReviews toggles a product's review-acceptance flag. Only the
// owner may toggle; the write is a single conditional update. Idempotent.
func (s *ProductService) SetAcceptingReviews(ctx context.Context, actorID, productID string, accepting bool) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := domain.Authorize(actorID, product.User.Hex()); err != nil {
		return err
	}
	if err := s.products.SetAcceptingReviews(ctx, productID, accepting); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", productID).Bool("accepting", accepting).Msg("review acceptance updated")
	return nil
}

// SubmitReview appends an anonymous review. The rating must be in the
// closed set and the product must currently accept reviews; a recipient
// opt-out is a domain rejection, not an authorization failure.
func (s *ProductService) SubmitReview(ctx context.Context, productID, content string, rating domain.Rating) error {
	if !rating.Valid() {
		return domain.ErrInvalidRating
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsAcceptingReviews {
		return domain.ErrNotAcceptingReviews
	}

	review := domain.Review{
		Content:   content,
		Rating:    rating,
		Product:   product.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.products.PushReview(ctx, productID, review); err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to append review")
		return err
	}

	s.logger.Info().Str("product_id", productID).Str("rating", string(rating)).Msg("review submitted")
	return nil
}

// ListReviews returns a product's reviews newest-first.
func (s *ProductService) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.products.ListReviews(ctx, productID)
}

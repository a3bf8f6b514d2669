package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonexchange/anonexchange-api/internal/core/domain"
	"github.com/anonexchange/anonexchange-api/internal/core/ports"
)

type stubProductRepo struct {
	products map[string]*domain.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Reviews = append([]domain.Review(nil), p.Reviews...)
	return &clone
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	copy := cloneProduct(p)
	if copy.ID.IsZero() {
		copy.ID = primitive.NewObjectID()
	}
	r.products[copy.ID.Hex()] = cloneProduct(copy)
	return cloneProduct(copy), nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := r.products[id]; ok {
		return cloneProduct(p), nil
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubProductRepo) FindByOwner(_ context.Context, ownerID string) ([]*domain.Product, error) {
	out := []*domain.Product{}
	for _, p := range r.products {
		if p.User.Hex() == ownerID {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (r *stubProductRepo) SetAcceptingReviews(_ context.Context, id string, accepting bool) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.IsAcceptingReviews = accepting
	return nil
}

func (r *stubProductRepo) PushReview(_ context.Context, id string, review domain.Review) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	p.Reviews = append(p.Reviews, review)
	return nil
}

func (r *stubProductRepo) ListReviews(_ context.Context, id string) ([]domain.Review, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	out := append([]domain.Review(nil), p.Reviews...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func newProductFixture(t *testing.T) (*ProductService, *stubProductRepo, *domain.User) {
	t.Helper()
	users := newStubUserRepo()
	products := newStubProductRepo()
	owner, _ := users.Create(context.Background(), &domain.User{
		Username: "owner", IsVerified: true,
	})
	return NewProductService(products, users, zerolog.Nop()), products, owner
}

func TestProductService_Create_Success(t *testing.T) {
	svc, _, owner := newProductFixture(t)

	price := 9.99
	p, err := svc.Create(context.Background(), ports.CreateProductInput{
		ActorID:            owner.ID.Hex(),
		Title:              "Mug",
		Description:        "A sturdy mug",
		Price:              &price,
		Image:              "https://cdn.example.com/mug.png",
		IsAcceptingReviews: true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.User != owner.ID {
		t.Fatalf("product not linked to owner")
	}
	if p.Price == nil || *p.Price != 9.99 {
		t.Fatalf("unexpected price: %v", p.Price)
	}

	owned, err := svc.ListOwned(context.Background(), owner.ID.Hex())
	if err != nil || len(owned) != 1 {
		t.Fatalf("expected 1 owned product, got %d err=%v", len(owned), err)
	}
}

func TestProductService_Create_ImageValidation(t *testing.T) {
	svc, _, owner := newProductFixture(t)

	// an empty image is stored as absent
	p, err := svc.Create(context.Background(), ports.CreateProductInput{
		ActorID: owner.ID.Hex(), Title: "Plain", IsAcceptingReviews: true,
	})
	if err != nil {
		t.Fatalf("Create without image failed: %v", err)
	}
	if p.Image != "" {
		t.Fatalf("expected absent image, got %q", p.Image)
	}

	// a non-empty image must point at an image file
	_, err = svc.Create(context.Background(), ports.CreateProductInput{
		ActorID: owner.ID.Hex(), Title: "Bad", Image: "notaurl",
	})
	if err != domain.ErrInvalidImageURL {
		t.Fatalf("expected ErrInvalidImageURL, got %v", err)
	}
	_, err = svc.Create(context.Background(), ports.CreateProductInput{
		ActorID: owner.ID.Hex(), Title: "AlsoBad", Image: "https://example.com/page.html",
	})
	if err != domain.ErrInvalidImageURL {
		t.Fatalf("expected ErrInvalidImageURL for non-image URL, got %v", err)
	}
}

func TestProductService_Create_Unauthenticated(t *testing.T) {
	svc, _, _ := newProductFixture(t)

	_, err := svc.Create(context.Background(), ports.CreateProductInput{Title: "X"})
	if err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestProductService_SetAcceptingReviews_OwnerOnly(t *testing.T) {
	svc, products, owner := newProductFixture(t)

	p, _ := products.Create(context.Background(), &domain.Product{
		Title: "Gated", User: owner.ID, IsAcceptingReviews: true,
	})

	stranger := primitive.NewObjectID().Hex()
	if err := svc.SetAcceptingReviews(context.Background(), stranger, p.ID.Hex(), false); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if err := svc.SetAcceptingReviews(context.Background(), "", p.ID.Hex(), false); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated without a session, got %v", err)
	}
	if err := svc.SetAcceptingReviews(context.Background(), owner.ID.Hex(), p.ID.Hex(), false); err != nil {
		t.Fatalf("owner toggle failed: %v", err)
	}

	got, _ := svc.Get(context.Background(), p.ID.Hex())
	if got.IsAcceptingReviews {
		t.Fatalf("toggle did not stick")
	}
}

func TestProductService_SubmitReview(t *testing.T) {
	svc, products, owner := newProductFixture(t)

	p, _ := products.Create(context.Background(), &domain.Product{
		Title: "Reviewed", User: owner.ID, IsAcceptingReviews: true,
	})

	if err := svc.SubmitReview(context.Background(), p.ID.Hex(), "excellent", domain.RatingFive); err != nil {
		t.Fatalf("SubmitReview failed: %v", err)
	}

	reviews, err := svc.ListReviews(context.Background(), p.ID.Hex())
	if err != nil || len(reviews) != 1 {
		t.Fatalf("expected 1 review, got %d err=%v", len(reviews), err)
	}
	if reviews[0].Rating != domain.RatingFive || reviews[0].Content != "excellent" {
		t.Fatalf("unexpected review: %+v", reviews[0])
	}
	if reviews[0].Product != p.ID {
		t.Fatalf("review not linked to product")
	}
}

func TestProductService_SubmitReview_InvalidRating(t *testing.T) {
	svc, products, owner := newProductFixture(t)

	p, _ := products.Create(context.Background(), &domain.Product{
		Title: "Strict", User: owner.ID, IsAcceptingReviews: true,
	})

	for _, rating := range []domain.Rating{"0", "6", "notanumber", "", "5.0", "four"} {
		if err := svc.SubmitReview(context.Background(), p.ID.Hex(), "x", rating); err != domain.ErrInvalidRating {
			t.Fatalf("rating %q: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestProductService_SubmitReview_NotAccepting(t *testing.T) {
	svc, products, owner := newProductFixture(t)

	p, _ := products.Create(context.Background(), &domain.Product{
		Title: "Closed", User: owner.ID, IsAcceptingReviews: true,
	})

	if err := svc.SubmitReview(context.Background(), p.ID.Hex(), "first", domain.RatingFour); err != nil {
		t.Fatalf("SubmitReview failed: %v", err)
	}
	if err := svc.SetAcceptingReviews(context.Background(), owner.ID.Hex(), p.ID.Hex(), false); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if err := svc.SubmitReview(context.Background(), p.ID.Hex(), "late", domain.RatingOne); err != domain.ErrNotAcceptingReviews {
		t.Fatalf("expected ErrNotAcceptingReviews, got %v", err)
	}

	// the earlier review is untouched by the opt-out
	reviews, _ := svc.ListReviews(context.Background(), p.ID.Hex())
	if len(reviews) != 1 {
		t.Fatalf("expected the earlier review to survive, got %d", len(reviews))
	}
}

func TestProductService_ListReviews_NewestFirst(t *testing.T) {
	svc, products, owner := newProductFixture(t)

	p, _ := products.Create(context.Background(), &domain.Product{
		Title: "Ordered", User: owner.ID, IsAcceptingReviews: true,
	})

	base := time.Now().UTC()
	for i, content := range []string{"oldest", "middle", "newest"} {
		_ = products.PushReview(context.Background(), p.ID.Hex(), domain.Review{
			ID:        primitive.NewObjectID(),
			Content:   content,
			Rating:    domain.RatingThree,
			Product:   p.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	reviews, err := svc.ListReviews(context.Background(), p.ID.Hex())
	if err != nil {
		t.Fatalf("ListReviews failed: %v", err)
	}
	if reviews[0].Content != "newest" || reviews[2].Content != "oldest" {
		t.Fatalf("reviews not newest-first: %+v", reviews)
	}
}

func TestProductService_Get_Unknown(t *testing.T) {
	svc, _, _ := newProductFixture(t)

	if _, err := svc.Get(context.Background(), primitive.NewObjectID().Hex()); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

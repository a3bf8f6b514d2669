package handler

import "time"

// --- Request / Response types ---

type createProductRequest struct {
	Title              string   `json:"title"       validate:"required"`
	Description        string   `json:"description" validate:"required"`
	Price              *float64 `json:"price,omitempty"`
	Image              string   `json:"image"`
	IsAcceptingReviews *bool    `json:"isAcceptingReviews"`
}

type acceptReviewsRequest struct {
	AcceptReviews *bool `json:"acceptReviews" validate:"required"`
}

type sendReviewRequest struct {
	Content string `json:"content" validate:"required,min=3"`
	Rating  string `json:"rating"  validate:"required,oneof=1 2 3 4 5"`
}

type reviewResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Rating    string    `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

type productResponse struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Price              *float64  `json:"price,omitempty"`
	Image              string    `json:"image,omitempty"`
	User               string    `json:"user"`
	IsAcceptingReviews bool      `json:"is_accepting_reviews"`
	ReviewCount        int       `json:"review_count"`
	CreatedAt          time.Time `json:"created_at"`
}

type createProductResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Product *productResponse `json:"product"`
}

type getProductResponse struct {
	Success bool             `json:"success"`
	Product *productResponse `json:"product"`
}

type listProductsResponse struct {
	Success  bool              `json:"success"`
	Products []productResponse `json:"products"`
}

type listReviewsResponse struct {
	Success bool             `json:"success"`
	Reviews []reviewResponse `json:"reviews"`
}

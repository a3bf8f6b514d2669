package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anonexchange/anonexchange-api/internal/api/metrics"
	"github.com/anonexchange/anonexchange-api/internal/core/domain"
	"github.com/anonexchange/anonexchange-api/internal/core/ports"
)

// ProductHandler handles product CRUD and the anonymous review endpoints.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create stores a new product owned by the caller.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product details"
// @Success      201   {object}  createProductResponse
// @Failure      400   {object}  apiResponse
// @Failure      401   {object}  apiResponse
// @Router       /api/create-product [post]
func (h *ProductHandler) Create(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// reviews are accepted unless the caller opted out explicitly
	accepting := true
	if req.IsAcceptingReviews != nil {
		accepting = *req.IsAcceptingReviews
	}

	product, err := h.service.Create(c.Request().Context(), ports.CreateProductInput{
		ActorID:            actorID,
		Title:              req.Title,
		Description:        req.Description,
		Price:              req.Price,
		Image:              req.Image,
		IsAcceptingReviews: accepting,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createProductResponse{
		Success: true,
		Message: "product created successfully",
		Product: toProductResponse(product),
	})
}

// ListOwned returns the caller's products.
//
// @Summary      List own products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listProductsResponse
// @Failure      401  {object}  apiResponse
// @Router       /api/get-product [get]
func (h *ProductHandler) ListOwned(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	products, err := h.service.ListOwned(c.Request().Context(), actorID)
	if err != nil {
		return err
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}

	return c.JSON(http.StatusOK, listProductsResponse{Success: true, Products: out})
}

// Get returns one product by id. Public: review pages link here.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  getProductResponse
// @Failure      404  {object}  apiResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, getProductResponse{
		Success: true,
		Product: toProductResponse(product),
	})
}

// SetAcceptingReviews toggles a product's review-acceptance flag (owner-only).
//
// @Summary      Toggle review acceptance
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Product id"
// @Param        body  body      acceptReviewsRequest  true  "New flag value"
// @Success      200   {object}  apiResponse
// @Failure      401   {object}  apiResponse
// @Failure      403   {object}  apiResponse
// @Failure      404   {object}  apiResponse
// @Router       /api/accept-reviews/{id} [post]
func (h *ProductHandler) SetAcceptingReviews(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req acceptReviewsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.SetAcceptingReviews(c.Request().Context(), actorID, c.Param("id"), *req.AcceptReviews); err != nil {
		return err
	}

	metrics.AcceptanceTogglesTotal.WithLabelValues("product", strconv.FormatBool(*req.AcceptReviews)).Inc()
	return c.JSON(http.StatusOK, apiResponse{Success: true, Message: "review acceptance status updated successfully"})
}

// SendReview appends an anonymous review to a product.
//
// @Summary      Submit an anonymous review
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Product id"
// @Param        body  body      sendReviewRequest  true  "Review content and rating"
// @Success      201   {object}  apiResponse
// @Failure      400   {object}  apiResponse
// @Failure      403   {object}  apiResponse
// @Failure      404   {object}  apiResponse
// @Router       /api/send-review/{id} [post]
func (h *ProductHandler) SendReview(c echo.Context) error {
	var req sendReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.SubmitReview(c.Request().Context(), c.Param("id"), req.Content, domain.Rating(req.Rating)); err != nil {
		return err
	}

	metrics.ReviewsSubmittedTotal.WithLabelValues(req.Rating).Inc()
	return c.JSON(http.StatusCreated, apiResponse{Success: true, Message: "review added successfully"})
}

// GetReviews returns a product's reviews newest-first.
//
// @Summary      List a product's reviews
// @Tags         products
// @Produce      json
// @Param        productId  query     string  true  "Product id"
// @Success      200        {object}  listReviewsResponse
// @Failure      400        {object}  apiResponse
// @Failure      404        {object}  apiResponse
// @Router       /api/get-review [get]
func (h *ProductHandler) GetReviews(c echo.Context) error {
	productID := c.QueryParam("productId")
	if productID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product ID is required")
	}

	reviews, err := h.service.ListReviews(c.Request().Context(), productID)
	if err != nil {
		return err
	}

	out := make([]reviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, reviewResponse{
			ID:        r.ID.Hex(),
			Content:   r.Content,
			Rating:    string(r.Rating),
			CreatedAt: r.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, listReviewsResponse{Success: true, Reviews: out})
}

// toProductResponse maps a domain product to the transport shape. Embedded
// reviews are summarized as a count; the list endpoint serves the full set.
func toProductResponse(p *domain.Product) *productResponse {
	return &productResponse{
		ID:                 p.ID.Hex(),
		Title:              p.Title,
		Description:        p.Description,
		Price:              p.Price,
		Image:              p.Image,
		User:               p.User.Hex(),
		IsAcceptingReviews: p.IsAcceptingReviews,
		ReviewCount:        len(p.Reviews),
		CreatedAt:          p.CreatedAt,
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonexchange/anonexchange-api/internal/api/metrics"
	"github.com/anonexchange/anonexchange-api/internal/core/domain"
	"github.com/anonexchange/anonexchange-api/internal/core/ports"
)

// SuggestHandler serves AI-generated message prompts.
type SuggestHandler struct {
	service ports.SuggestService
}

func NewSuggestHandler(service ports.SuggestService) *SuggestHandler {
	return &SuggestHandler{service: service}
}

// Suggest streams three prompt suggestions separated by the literal "||".
// The throttle key is the caller's address, counted in Redis so the limit
// holds across server instances.
//
// @Summary      Suggest message prompts
// @Tags         suggestions
// @Produce      plain
// @Success      200  {string}  string  "three questions separated by ||"
// @Failure      429  {object}  apiResponse
// @Router       /api/suggest-messages [post]
func (h *SuggestHandler) Suggest(c echo.Context) error {
	suggestions, err := h.service.Suggest(c.Request().Context(), c.RealIP())
	if err != nil {
		if errors.Is(err, domain.ErrSuggestionsThrottled) {
			metrics.SuggestionsTotal.WithLabelValues("throttled").Inc()
		}
		return err
	}

	metrics.SuggestionsTotal.WithLabelValues("served").Inc()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
	resp.WriteHeader(http.StatusOK)

	for i, s := range suggestions {
		if i > 0 {
			if _, err := resp.Write([]byte("||")); err != nil {
				return err
			}
		}
		if _, err := resp.Write([]byte(s)); err != nil {
			return err
		}
		resp.Flush()
	}
	return nil
}

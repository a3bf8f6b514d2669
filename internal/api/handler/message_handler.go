package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anonexchange/anonexchange-api/internal/api/metrics"
	"github.com/anonexchange/anonexchange-api/internal/core/ports"
)

// MessageHandler handles the anonymous inbox endpoints.
type MessageHandler struct {
	service ports.MessageService
}

func NewMessageHandler(service ports.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Send delivers an anonymous message to a public profile.
//
// @Summary      Send an anonymous message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        username  path      string              true  "Recipient username"
// @Param        body      body      sendMessageRequest  true  "Message content"
// @Success      201       {object}  apiResponse
// @Failure      400       {object}  apiResponse
// @Failure      403       {object}  apiResponse
// @Failure      404       {object}  apiResponse
// @Router       /api/send-message/{username} [post]
func (h *MessageHandler) Send(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.Send(c.Request().Context(), c.Param("username"), req.Content); err != nil {
		return err
	}

	metrics.MessagesSentTotal.Inc()
	return c.JSON(http.StatusCreated, apiResponse{Success: true, Message: "message sent successfully"})
}

// List returns the caller's messages newest-first.
//
// @Summary      List received messages
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listMessagesResponse
// @Failure      401  {object}  apiResponse
// @Router       /api/get-messages [get]
func (h *MessageHandler) List(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	messages, err := h.service.List(c.Request().Context(), actorID)
	if err != nil {
		return err
	}

	out := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, messageResponse{
			ID:        m.ID.Hex(),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, listMessagesResponse{Success: true, Messages: out})
}

// Delete removes one message from the caller's inbox. Deleting an id that is
// already gone still succeeds.
//
// @Summary      Delete a received message
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message id"
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  apiResponse
// @Router       /api/delete-message/{id} [delete]
func (h *MessageHandler) Delete(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actorID, c.Param("id")); err != nil {
		return err
	}

	metrics.MessagesDeletedTotal.Inc()
	return c.JSON(http.StatusOK, apiResponse{Success: true, Message: "message deleted"})
}

// SetAccepting toggles the caller's message-acceptance flag.
//
// @Summary      Toggle message acceptance
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      acceptMessagesRequest  true  "New flag value"
// @Success      200   {object}  acceptMessagesResponse
// @Failure      400   {object}  apiResponse
// @Failure      401   {object}  apiResponse
// @Router       /api/accept-messages [post]
func (h *MessageHandler) SetAccepting(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req acceptMessagesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.SetAccepting(c.Request().Context(), actorID, *req.AcceptMessages); err != nil {
		return err
	}

	metrics.AcceptanceTogglesTotal.WithLabelValues("user", strconv.FormatBool(*req.AcceptMessages)).Inc()
	return c.JSON(http.StatusOK, acceptMessagesResponse{
		Success:             true,
		Message:             "message acceptance updated",
		IsAcceptingMessages: *req.AcceptMessages,
	})
}

// Accepting returns the caller's current message-acceptance flag.
//
// @Summary      Get message acceptance
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  acceptMessagesResponse
// @Failure      401  {object}  apiResponse
// @Router       /api/accept-messages [get]
func (h *MessageHandler) Accepting(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	accepting, err := h.service.Accepting(c.Request().Context(), actorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, acceptMessagesResponse{
		Success:             true,
		IsAcceptingMessages: accepting,
	})
}

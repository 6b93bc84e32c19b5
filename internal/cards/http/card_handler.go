// Package http exposes the card endpoints: sealed create and update, owner-scoped listing,
// on-demand reveal and a Server-Sent Events live listing.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/cards/http/dto"
	"github.com/allisson/cardvault/internal/cards/usecase"
	apperrors "github.com/allisson/cardvault/internal/errors"
	"github.com/allisson/cardvault/internal/httputil"
	userHTTP "github.com/allisson/cardvault/internal/user/http"
)

// DefaultHeartbeat is how often an idle stream sends a keep-alive event.
const DefaultHeartbeat = 15 * time.Second

// CardHandler handles card HTTP requests. Every route requires an authenticated user, whose
// id scopes all reads and writes.
type CardHandler struct {
	cardUseCase usecase.UseCase
	logger      *slog.Logger
	heartbeat   time.Duration
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardUseCase usecase.UseCase, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		cardUseCase: cardUseCase,
		logger:      logger,
		heartbeat:   DefaultHeartbeat,
	}
}

func (h *CardHandler) ownerID(c *gin.Context) (uuid.UUID, bool) {
	user, ok := userHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}
	return user.ID, true
}

func (h *CardHandler) cardID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, apperrors.New("invalid card id"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}

func (h *CardHandler) bindCard(c *gin.Context) (*dto.CardRequest, bool) {
	var req dto.CardRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return nil, false
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return nil, false
	}
	return &req, true
}

// CreateHandler seals and stores a new card.
// POST /v1/cards - Returns 201 Created with the stored card.
func (h *CardHandler) CreateHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	req, ok := h.bindCard(c)
	if !ok {
		return
	}

	card, err := h.cardUseCase.Create(c.Request.Context(), ownerID, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCardToResponse(card))
}

// ListHandler lists the caller's cards, newest first.
// GET /v1/cards?offset=0&limit=50&reveal=false - With reveal=true each card carries its
// record or a cannot_decrypt error.
func (h *CardHandler) ListHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	reveal, err := httputil.ParseBoolQuery(c, "reveal")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if reveal {
		cards, err := h.cardUseCase.RevealAll(c.Request.Context(), ownerID, offset, limit)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, dto.MapRevealedCardsToListResponse(cards))
		return
	}

	cards, err := h.cardUseCase.List(c.Request.Context(), ownerID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCardsToListResponse(cards))
}

// GetHandler reveals one card.
// GET /v1/cards/:id - Returns 200 with the record, 404 when missing or 422 when it cannot be
// decrypted.
func (h *CardHandler) GetHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	id, ok := h.cardID(c)
	if !ok {
		return
	}

	card, err := h.cardUseCase.Reveal(c.Request.Context(), ownerID, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRevealedCardToResponse(card))
}

// UpdateHandler replaces a card's record.
// PUT /v1/cards/:id - Returns 200 with the stored card.
func (h *CardHandler) UpdateHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	id, ok := h.cardID(c)
	if !ok {
		return
	}

	req, ok := h.bindCard(c)
	if !ok {
		return
	}

	card, err := h.cardUseCase.Update(c.Request.Context(), ownerID, id, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCardToResponse(card))
}

// DeleteHandler removes a card.
// DELETE /v1/cards/:id - Returns 204 No Content.
func (h *CardHandler) DeleteHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	id, ok := h.cardID(c)
	if !ok {
		return
	}

	if err := h.cardUseCase.Delete(c.Request.Context(), ownerID, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// StreamHandler sends the caller's first page of cards as a "cards" event, then again after
// every change, until the client disconnects.
// GET /v1/cards/stream?limit=50 - text/event-stream.
func (h *CardHandler) StreamHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	_, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	ctx := c.Request.Context()
	updates, err := h.cardUseCase.Watch(ctx, ownerID, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case cards, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent("cards", dto.MapCardsToListResponse(cards))
			c.Writer.Flush()
		case now := <-heartbeat.C:
			c.SSEvent("heartbeat", now.UTC().Format(time.RFC3339))
			c.Writer.Flush()
		}
	}
}

// RegisterRoutes mounts the card routes on a group that already authenticates requests.
func (h *CardHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("", h.CreateHandler)
	group.GET("", h.ListHandler)
	group.GET("/stream", h.StreamHandler)
	group.GET("/:id", h.GetHandler)
	group.PUT("/:id", h.UpdateHandler)
	group.DELETE("/:id", h.DeleteHandler)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-cardwallet-webapp/internal/barcode"
	"go-cardwallet-webapp/internal/models"
	"go-cardwallet-webapp/internal/repository"
)

type CardHandler struct {
	cardRepo *repository.CardRepository
}

func NewCardHandler(cardRepo *repository.CardRepository) *CardHandler {
	return &CardHandler{cardRepo: cardRepo}
}

func (h *CardHandler) ListCards(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	cards, err := h.cardRepo.List(includeArchived)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to list cards")
		return
	}

	SafeJSON(c, http.StatusOK, gin.H{"cards": cards, "count": len(cards)})
}

func (h *CardHandler) GetCard(c *gin.Context) {
	card, ok := h.lookupCard(c)
	if !ok {
		return
	}

	SafeJSON(c, http.StatusOK, card)
}

func (h *CardHandler) CreateCard(c *gin.Context) {
	var req CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := barcode.ParseSymbology(req.BarcodeType); err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	var card models.Card
	req.Apply(&card)

	if err := h.cardRepo.Create(&card); err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to create card")
		return
	}

	SafeJSON(c, http.StatusCreated, card)
}

func (h *CardHandler) UpdateCard(c *gin.Context) {
	card, ok := h.lookupCard(c)
	if !ok {
		return
	}

	var req CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := barcode.ParseSymbology(req.BarcodeType); err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	req.Apply(card)

	if err := h.cardRepo.Update(card); err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to update card")
		return
	}

	SafeJSON(c, http.StatusOK, card)
}

func (h *CardHandler) DeleteCard(c *gin.Context) {
	card, ok := h.lookupCard(c)
	if !ok {
		return
	}

	if err := h.cardRepo.Delete(card.CardID); err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to delete card")
		return
	}

	c.Status(http.StatusNoContent)
}

// lookupCard resolves the :cardID path parameter, writing the error response
// itself when the card cannot be served.
func (h *CardHandler) lookupCard(c *gin.Context) (*models.Card, bool) {
	id, err := strconv.ParseUint(c.Param("cardID"), 10, 32)
	if err != nil {
		JSONError(c, http.StatusBadRequest, "Invalid card ID")
		return nil, false
	}

	card, err := h.cardRepo.GetByID(uint(id))
	if err != nil {
		JSONError(c, http.StatusNotFound, "Card not found")
		return nil, false
	}

	return card, true
}

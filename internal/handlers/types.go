package handlers

import (
	"go-cardwallet-webapp/internal/models"
)

// CardRequest is the JSON body for creating and updating cards.
type CardRequest struct {
	Store       string  `json:"store" binding:"required"`
	Note        *string `json:"note"`
	Value       string  `json:"value" binding:"required"`
	BarcodeType string  `json:"barcodeType" binding:"required"`
	HeaderColor *string `json:"headerColor"`
	Starred     bool    `json:"starred"`
	Archived    bool    `json:"archived"`
}

// Apply copies the request fields onto a card model.
func (r *CardRequest) Apply(card *models.Card) {
	card.Store = r.Store
	card.Note = r.Note
	card.Value = r.Value
	card.BarcodeType = r.BarcodeType
	card.HeaderColor = r.HeaderColor
	card.Starred = r.Starred
	card.Archived = r.Archived
}

package repository

import (
	"fmt"
	"time"

	"go-cardwallet-webapp/internal/models"
)

type CardRepository struct {
	db *Database
}

func NewCardRepository(db *Database) *CardRepository {
	return &CardRepository{db: db}
}

// GetDB returns the underlying database connection for advanced queries
func (r *CardRepository) GetDB() *Database {
	return r.db
}

func (r *CardRepository) Create(card *models.Card) error {
	if card.Store == "" {
		return fmt.Errorf("card store name is required")
	}
	if card.Value == "" {
		return fmt.Errorf("card value is required")
	}
	return r.db.Create(card).Error
}

func (r *CardRepository) GetByID(cardID uint) (*models.Card, error) {
	var card models.Card
	err := r.db.Where("cardID = ?", cardID).First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// List returns cards, optionally filtered to non-archived ones and ordered
// starred-first the way the wallet UI presents them.
func (r *CardRepository) List(includeArchived bool) ([]models.Card, error) {
	var cards []models.Card
	query := r.db.Order("starred DESC, store ASC")
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}
	err := query.Find(&cards).Error
	return cards, err
}

func (r *CardRepository) Update(card *models.Card) error {
	return r.db.Save(card).Error
}

func (r *CardRepository) Delete(cardID uint) error {
	return r.db.Delete(&models.Card{}, "cardID = ?", cardID).Error
}

// TouchLastUsed stamps the card as just displayed.
func (r *CardRepository) TouchLastUsed(cardID uint) error {
	now := time.Now()
	return r.db.Model(&models.Card{}).
		Where("cardID = ?", cardID).
		Update("last_used", &now).Error
}

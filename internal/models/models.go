package models

import (
	"time"
)

// Card is a stored wallet card: a payload plus the symbology it should be
// rendered with.
type Card struct {
	CardID      uint       `json:"cardID" gorm:"primaryKey;column:cardID"`
	Store       string     `json:"store" gorm:"not null;column:store"`
	Note        *string    `json:"note" gorm:"column:note"`
	Value       string     `json:"value" gorm:"not null;column:value"`
	BarcodeType string     `json:"barcodeType" gorm:"not null;column:barcode_type"`
	HeaderColor *string    `json:"headerColor" gorm:"column:header_color"`
	Starred     bool       `json:"starred" gorm:"column:starred;default:false"`
	Archived    bool       `json:"archived" gorm:"column:archived;default:false"`
	LastUsed    *time.Time `json:"lastUsed" gorm:"column:last_used"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" gorm:"column:updated_at"`
}

func (Card) TableName() string {
	return "cards"
}

func (c Card) GetDisplayName() string {
	if c.Store != "" {
		return c.Store
	}
	return "Unnamed Card"
}

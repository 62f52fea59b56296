package services

import (
	"bytes"
	"fmt"
	"image/png"
	"log"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"

	"go-cardwallet-webapp/internal/models"
)

type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

// GenerateCardSheet renders each card as a labeled Code 128 strip on an A4
// sheet, for printing a paper backup of the wallet.
func (s *PDFService) GenerateCardSheet(cards []models.Card) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Card Wallet Export", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Card Wallet Export")
	pdf.Ln(14)

	perPage := 0
	for _, card := range cards {
		strip, err := s.code128PNG(card.Value)
		if err != nil {
			log.Printf("PDFService: skipping card %d: %v", card.CardID, err)
			continue
		}

		if perPage == 6 {
			pdf.AddPage()
			perPage = 0
		}

		name := fmt.Sprintf("card-%d", card.CardID)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(strip))

		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 6, card.GetDisplayName())
		pdf.Ln(7)
		pdf.ImageOptions(name, pdf.GetX(), pdf.GetY(), 90, 25, false, opts, 0, "")
		pdf.Ln(32)
		perPage++
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// code128PNG encodes a card value as a Code 128 strip. Values Code 128
// cannot carry (non-ASCII) are reported, not silently dropped.
func (s *PDFService) code128PNG(value string) ([]byte, error) {
	bc, err := code128.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode barcode: %w", err)
	}

	scaled, err := barcode.Scale(bc, 600, 160)
	if err != nil {
		return nil, fmt.Errorf("failed to scale barcode: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("failed to encode barcode as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

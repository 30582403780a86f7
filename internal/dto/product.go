package dto

import (
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"

	"github.com/shopspring/decimal"
)

const (
	LangAR = "ar"
	LangEN = "en"
)

// Lang picks the response language; anything but "en" is Arabic.
func Lang(s string) string {
	if s == LangEN {
		return LangEN
	}
	return LangAR
}

type SizeOption struct {
	Weight string          `json:"weight"`
	Price  decimal.Decimal `json:"price" swaggertype:"number"`
}

type ProductRequest struct {
	Name          string                `json:"name"`
	NameEn        string                `json:"nameEn"`
	Description   string                `json:"description"`
	DescriptionEn string                `json:"descriptionEn"`
	Category      string                `json:"category"`
	Price         decimal.Decimal       `json:"price" swaggertype:"number"`
	Sizes         map[string]SizeOption `json:"sizes"`
	Image         string                `json:"image"`
	ImageData     string                `json:"imageData"`
	Images        []string              `json:"images"`
	Featured      bool                  `json:"featured"`
	InStock       *bool                 `json:"inStock"`
	Rating        float64               `json:"rating" binding:"gte=0,lte=5"`
	Reviews       int                   `json:"reviews" binding:"gte=0"`
}

func (r ProductRequest) SizeMap() models.SizeMap {
	out := make(models.SizeMap, len(r.Sizes))
	for k, v := range r.Sizes {
		out[k] = models.SizeOption{Weight: v.Weight, Price: v.Price}
	}
	return out
}

type ProductResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	NameEn        string                `json:"nameEn,omitempty"`
	Description   string                `json:"description"`
	DescriptionEn string                `json:"descriptionEn,omitempty"`
	Category      string                `json:"category"`
	Price         decimal.Decimal       `json:"price" swaggertype:"number"`
	Sizes         map[string]SizeOption `json:"sizes"`
	Image         string                `json:"image"`
	Images        []string              `json:"images,omitempty"`
	Featured      bool                  `json:"featured"`
	InStock       bool                  `json:"inStock"`
	DisplayOrder  int                   `json:"displayOrder"`
	Rating        float64               `json:"rating"`
	Reviews       int                   `json:"reviews"`
	CreatedAt     *time.Time            `json:"createdAt,omitempty"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// NewProductResponse renders p in lang. English falls back to the Arabic
// text when no translation is stored. Inline image data wins over a URL.
func NewProductResponse(p *models.Product, lang string) ProductResponse {
	name, desc := p.Name, p.Description
	if lang == LangEN {
		if v := str(p.NameEn); v != "" {
			name = v
		}
		if v := str(p.DescriptionEn); v != "" {
			desc = v
		}
	}

	image := str(p.ImageData)
	if image == "" {
		image = str(p.Image)
	}

	sizes := make(map[string]SizeOption)
	for k, v := range p.SizeOptions() {
		sizes[k] = SizeOption{Weight: v.Weight, Price: v.Price}
	}

	out := ProductResponse{
		ID:            p.ID,
		Name:          name,
		NameEn:        str(p.NameEn),
		Description:   desc,
		DescriptionEn: str(p.DescriptionEn),
		Category:      p.Category,
		Price:         p.Price,
		Sizes:         sizes,
		Image:         image,
		Images:        []string(p.Images),
		Featured:      p.Featured,
		InStock:       p.InStock,
		DisplayOrder:  p.DisplayOrder,
		Rating:        p.Rating,
		Reviews:       p.Reviews,
	}
	if !p.CreatedAt.IsZero() {
		t := p.CreatedAt
		out.CreatedAt = &t
	}
	return out
}

type ProductEnvelope struct {
	Product ProductResponse `json:"product"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

type MoveProductRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

type MoveProductResponse struct {
	Message string           `json:"message"`
	Product *ProductResponse `json:"product,omitempty"`
}

type ProductPosition struct {
	ID           string `json:"id" binding:"required"`
	DisplayOrder int    `json:"displayOrder" binding:"gte=0"`
}

type ReorderBatchRequest struct {
	Products []ProductPosition `json:"products" binding:"required,min=1,dive"`
}

type ReorderBatchResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type UploadImageResponse struct {
	ImageData string `json:"imageData"`
	URL       string `json:"url,omitempty"`
	PublicID  string `json:"publicId,omitempty"`
}

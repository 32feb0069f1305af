package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"catalog-query-service/internal/domain"
)

// JSONB stores a value as a PostgreSQL jsonb column.
type JSONB[T any] struct {
	Data T
}

// Value implements driver.Valuer.
func (j JSONB[T]) Value() (driver.Value, error) {
	data, err := json.Marshal(j.Data)
	if err != nil {
		return nil, fmt.Errorf("encoding jsonb: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (j *JSONB[T]) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		var zero T
		j.Data = zero
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("jsonb: unsupported source type")
	}

	return json.Unmarshal(data, &j.Data)
}

// GormDataType tells GORM the column type.
func (JSONB[T]) GormDataType() string {
	return "jsonb"
}

// ProductModel is the GORM model for the products table.
type ProductModel struct {
	ID              int                   `gorm:"primaryKey;autoIncrement"`
	ProductID       string                `gorm:"type:varchar(128);not null;uniqueIndex"`
	Title           string                `gorm:"type:varchar(500);not null"`
	URL             string                `gorm:"type:text"`
	Rating          JSONB[*domain.Rating] `gorm:"type:jsonb"`
	Specifications  pq.StringArray        `gorm:"type:text[]"`
	Media           pq.StringArray        `gorm:"type:text[]"`
	Pricing         JSONB[domain.Pricing] `gorm:"type:jsonb;not null"`
	CurrentPrice    float64               `gorm:"type:decimal(12,2);default:0;index"`
	Category        string                `gorm:"type:varchar(128);index"`
	WarrantySummary string                `gorm:"type:text"`
	Availability    string                `gorm:"type:varchar(32);index"`
	Source          string                `gorm:"type:varchar(32);not null;index"`
	TimeUpdate      time.Time             `gorm:"autoUpdateTime;index"`
}

// TableName returns the table name for ProductModel.
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts ProductModel to domain.Product.
func (m *ProductModel) ToDomain() *domain.Product {
	return &domain.Product{
		ID:              m.ID,
		ProductID:       m.ProductID,
		Title:           m.Title,
		URL:             m.URL,
		Rating:          m.Rating.Data,
		Specifications:  nonNil(m.Specifications),
		Media:           nonNil(m.Media),
		Pricing:         m.Pricing.Data,
		Category:        m.Category,
		WarrantySummary: m.WarrantySummary,
		Availability:    m.Availability,
		Source:          m.Source,
		TimeUpdate:      m.TimeUpdate.UTC().Format(time.RFC3339),
	}
}

// FromDomain creates a ProductModel from domain.Product. The current price
// is denormalized for range queries.
func FromDomain(p *domain.Product) *ProductModel {
	return &ProductModel{
		ID:              p.ID,
		ProductID:       p.ProductID,
		Title:           p.Title,
		URL:             p.URL,
		Rating:          JSONB[*domain.Rating]{Data: p.Rating},
		Specifications:  p.Specifications,
		Media:           p.Media,
		Pricing:         JSONB[domain.Pricing]{Data: p.Pricing},
		CurrentPrice:    p.CurrentPrice(),
		Category:        p.Category,
		WarrantySummary: p.WarrantySummary,
		Availability:    p.Availability,
		Source:          p.Source,
	}
}

// FromDomainSlice converts a slice of domain.Product to ProductModels.
func FromDomainSlice(products []*domain.Product) []*ProductModel {
	models := make([]*ProductModel, len(products))
	for i, p := range products {
		models[i] = FromDomain(p)
	}

	return models
}

func toDomainSlice(models []ProductModel) []*domain.Product {
	products := make([]*domain.Product, len(models))
	for i := range models {
		products[i] = models[i].ToDomain()
	}
	return products
}

func nonNil(values pq.StringArray) []string {
	if values == nil {
		return []string{}
	}
	return values
}

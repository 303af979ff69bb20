package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a catalog listing. Price uses fixed-point decimal semantics and
// StockQuantity never goes negative post-commit; the placement transaction is
// the only writer of decrements.
type Product struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	JewelerID     uuid.UUID       `gorm:"column:jeweler_id;type:uuid;not null"`
	Name          string          `gorm:"column:name;not null"`
	Material      *string         `gorm:"column:material"`
	Karat         *string         `gorm:"column:karat"`
	Weight        *float64        `gorm:"column:weight;type:numeric(8,3)"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0"`
	Description   *string         `gorm:"column:description"`
	Tags          pq.StringArray  `gorm:"column:tags;type:text[]"`
	ImagePath     *string         `gorm:"column:image_path"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Jeweler    *Jeweler       `gorm:"foreignKey:JewelerID"`
	Images     []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Categories []Category     `gorm:"many2many:product_categories"`
}

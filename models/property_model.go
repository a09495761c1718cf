package models

import (
	"time"
)

type Property struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	SellerID    uint    `gorm:"not null;index" json:"seller_id"`
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"type:numeric(12,2)" json:"price"`
	City        string  `gorm:"size:120" json:"city"`
	Status      string  `gorm:"size:20;default:'active'" json:"status"` // active | sold | archived

	Seller User `gorm:"foreignKey:SellerID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one NFT line in a user's cart. A user holds at most one line per NFT.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_nft" json:"user_id"`
	NFTID     uint      `gorm:"not null;uniqueIndex:idx_cart_user_nft" json:"nft_id"`
	NFT       NFT       `gorm:"foreignKey:NFTID" json:"nft"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// LineTotal is the NFT price times the quantity
func (ci *CartItem) LineTotal() decimal.Decimal {
	return ci.NFT.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

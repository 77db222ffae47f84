package utils

import (
	"context"
	"fmt"

	"github.com/Govind-619/MintSphere/config"
	"github.com/Govind-619/MintSphere/models"
	"github.com/shopspring/decimal"
)

// CartDetails is a user's cart with its running totals
type CartDetails struct {
	Items     []models.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	Fee       decimal.Decimal   `json:"fee"`
	Total     decimal.Decimal   `json:"total"`
}

// GetCartDetails loads the cart joined with NFT fields, newest first, and
// prices it with the platform fee.
func GetCartDetails(ctx context.Context, userID uint, feePercent decimal.Decimal) (*CartDetails, error) {
	var items []models.CartItem
	err := config.DB.WithContext(ctx).
		Preload("NFT").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart items: %w", err)
	}
	return SummarizeCart(items, feePercent), nil
}

// SummarizeCart totals cart lines
func SummarizeCart(items []models.CartItem, feePercent decimal.Decimal) *CartDetails {
	details := &CartDetails{Items: items, Subtotal: decimal.Zero}
	if details.Items == nil {
		details.Items = []models.CartItem{}
	}
	for i := range items {
		details.ItemCount += items[i].Quantity
		details.Subtotal = details.Subtotal.Add(items[i].LineTotal())
	}
	details.Fee, details.Total = OrderTotals(details.Subtotal, feePercent)
	return details
}

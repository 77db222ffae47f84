package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status constants
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusFailed     = "failed"
	OrderStatusCancelled  = "cancelled"
)

// Transaction status constants. A nil transaction status means no hash was attached.
const (
	TxStatusPending   = "pending"
	TxStatusConfirmed = "confirmed"
	TxStatusFailed    = "failed"
)

var orderStatuses = map[string]bool{
	OrderStatusPending:    true,
	OrderStatusProcessing: true,
	OrderStatusCompleted:  true,
	OrderStatusFailed:     true,
	OrderStatusCancelled:  true,
}

var txStatuses = map[string]bool{
	TxStatusPending:   true,
	TxStatusConfirmed: true,
	TxStatusFailed:    true,
}

// IsValidOrderStatus reports whether s is one of the order status constants
func IsValidOrderStatus(s string) bool {
	return orderStatuses[s]
}

// IsValidTxStatus reports whether s is one of the transaction status constants
func IsValidTxStatus(s string) bool {
	return txStatuses[s]
}

type Order struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	UserID            uint            `gorm:"index;not null" json:"user_id"`
	User              User            `gorm:"foreignKey:UserID" json:"-"`
	OrderNumber       string          `gorm:"uniqueIndex;not null" json:"order_number"`
	Subtotal          decimal.Decimal `gorm:"type:numeric(36,18);not null" json:"subtotal"`
	Fee               decimal.Decimal `gorm:"type:numeric(36,18);not null" json:"fee"`
	TotalAmount       decimal.Decimal `gorm:"type:numeric(36,18);not null" json:"total_amount"`
	Status            string          `gorm:"index;not null;default:pending" json:"status"`
	TransactionHash   *string         `gorm:"index" json:"transaction_hash"`
	TransactionStatus *string         `json:"transaction_status"`
	FailureReason     *string         `json:"failure_reason"`
	CreatedAt         time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	OrderItems        []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
}

type OrderItem struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	OrderID  uint            `gorm:"index;not null" json:"order_id"`
	NFTID    uint            `gorm:"not null" json:"nft_id"`
	NFT      NFT             `gorm:"foreignKey:NFTID" json:"nft"`
	Quantity int             `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:numeric(36,18);not null" json:"price"`
}

// LineTotal is the unit price snapshot times the quantity
func (oi *OrderItem) LineTotal() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

// OrderTransactionState is the slice of an order the transaction monitor writes
type OrderTransactionState struct {
	Status            string
	TransactionStatus string
	FailureReason     *string
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Govind-619/MintSphere/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderFilter narrows and orders an order listing
type OrderFilter struct {
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	SortBy    string
	SortOrder string
	Offset    int
	Limit     int
}

var orderSortColumns = map[string]string{
	"createdAt":    "created_at",
	"total_amount": "total_amount",
	"status":       "status",
	"order_number": "order_number",
}

// OrderByClause maps the public sort parameters to a column, defaulting to newest first
func (f OrderFilter) OrderByClause() string {
	column, ok := orderSortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if f.SortOrder == "asc" {
		direction = "ASC"
	}
	return column + " " + direction
}

// GormOrderStore keeps orders and carts in postgres through gorm
type GormOrderStore struct {
	db *gorm.DB
}

// NewGormOrderStore creates a store over db
func NewGormOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: db}
}

// CartLines returns the user's cart with NFT details, newest first
func (s *GormOrderStore) CartLines(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var lines []models.CartItem
	err := s.db.WithContext(ctx).
		Preload("NFT").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("load cart for user %d: %w", userID, err)
	}
	return lines, nil
}

// OrderNumberExists reports whether an order already uses number
func (s *GormOrderStore) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).Where("order_number = ?", number).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check order number: %w", err)
	}
	return count > 0, nil
}

// CreateOrderFromCart inserts order and its items and empties the owner's
// cart in a single transaction.
func (s *GormOrderStore) CreateOrderFromCart(ctx context.Context, order *models.Order) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	items := order.OrderItems
	if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("create order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("create order items: %w", err)
		}
	}
	order.OrderItems = items

	if err := tx.Where("user_id = ?", order.UserID).Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

// ListOrders returns one page of the user's orders and the total match count
func (s *GormOrderStore) ListOrders(ctx context.Context, userID uint, filter OrderFilter) ([]models.Order, int64, error) {
	var total int64
	if err := s.filtered(ctx, filter).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	var orders []models.Order
	err := s.filtered(ctx, filter).
		Where("user_id = ?", userID).
		Preload("OrderItems.NFT").
		Order(filter.OrderByClause()).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// ExportOrders returns every order matching filter with its buyer and items
func (s *GormOrderStore) ExportOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	err := s.filtered(ctx, filter).
		Preload("User").
		Preload("OrderItems.NFT").
		Order(filter.OrderByClause()).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("export orders: %w", err)
	}
	return orders, nil
}

func (s *GormOrderStore) filtered(ctx context.Context, filter OrderFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}
	return query
}

// FindOrder loads one of the user's orders with items
func (s *GormOrderStore) FindOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems.NFT").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", orderID, err)
	}
	return &order, nil
}

// FindOrderByID loads any order with its buyer
func (s *GormOrderStore) FindOrderByID(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("User").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", orderID, err)
	}
	return &order, nil
}

// UpdateOrder applies column updates to one order
func (s *GormOrderStore) UpdateOrder(ctx context.Context, orderID uint, updates map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update order %d: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// SetOrderTransactionState writes the monitor's decision for an order
func (s *GormOrderStore) SetOrderTransactionState(ctx context.Context, orderID uint, state models.OrderTransactionState) error {
	updates := map[string]interface{}{
		"status":             state.Status,
		"transaction_status": state.TransactionStatus,
	}
	if state.FailureReason != nil {
		updates["failure_reason"] = *state.FailureReason
	}
	return s.UpdateOrder(ctx, orderID, updates)
}

// FailOrderIfPending fails the order only while its status is still pending
func (s *GormOrderStore) FailOrderIfPending(ctx context.Context, orderID uint, reason string) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":             models.OrderStatusFailed,
			"transaction_status": models.TxStatusFailed,
			"failure_reason":     reason,
		})
	if res.Error != nil {
		return false, fmt.Errorf("fail order %d: %w", orderID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

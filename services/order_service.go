package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Govind-619/MintSphere/blockchain"
	"github.com/Govind-619/MintSphere/metrics"
	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

const maxOrderNumberAttempts = 10

// OrderStore is the persistence the order service needs
type OrderStore interface {
	CartLines(ctx context.Context, userID uint) ([]models.CartItem, error)
	OrderNumberExists(ctx context.Context, number string) (bool, error)
	CreateOrderFromCart(ctx context.Context, order *models.Order) error
	ListOrders(ctx context.Context, userID uint, filter OrderFilter) ([]models.Order, int64, error)
	ExportOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	FindOrder(ctx context.Context, userID, orderID uint) (*models.Order, error)
	FindOrderByID(ctx context.Context, orderID uint) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID uint, updates map[string]interface{}) error
}

// MonitorStarter registers an order's transaction for reconciliation
type MonitorStarter interface {
	Start(orderID uint, txHash string) error
}

// OptionalString distinguishes a JSON field that is absent from one that is null
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// OrderStatusUpdate is a partial update of an order's status fields
type OrderStatusUpdate struct {
	Status            string         `json:"status"`
	TransactionStatus string         `json:"transaction_status"`
	TransactionHash   OptionalString `json:"transaction_hash"`
	FailureReason     OptionalString `json:"failure_reason"`
}

// OrderService turns carts into orders and hands hashes to the monitor
type OrderService struct {
	store      OrderStore
	monitor    MonitorStarter
	feePercent decimal.Decimal
	clock      clockwork.Clock
	intn       func(int) int
}

// OrderServiceOption configures an OrderService
type OrderServiceOption func(*OrderService)

// WithOrderClock sets the clock used for order numbers
func WithOrderClock(clock clockwork.Clock) OrderServiceOption {
	return func(s *OrderService) { s.clock = clock }
}

// WithOrderNumberRandom sets the random source used for order number suffixes
func WithOrderNumberRandom(intn func(int) int) OrderServiceOption {
	return func(s *OrderService) { s.intn = intn }
}

// NewOrderService creates an OrderService. monitor may be nil.
func NewOrderService(store OrderStore, monitor MonitorStarter, feePercent decimal.Decimal, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		store:      store,
		monitor:    monitor,
		feePercent: feePercent,
		clock:      clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateFromCart converts the user's cart into a pending order. When txHash
// is non-empty the order starts with a pending transaction status and is
// registered with the monitor once committed.
func (s *OrderService) CreateFromCart(ctx context.Context, userID uint, txHash string) (*models.Order, error) {
	txHash = strings.TrimSpace(txHash)
	if txHash != "" && !blockchain.IsTxHash(txHash) {
		return nil, ErrInvalidTxHash
	}

	lines, err := s.store.CartLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for i := range lines {
		subtotal = subtotal.Add(lines[i].LineTotal())
		items = append(items, models.OrderItem{
			NFTID:    lines[i].NFTID,
			Quantity: lines[i].Quantity,
			Price:    lines[i].NFT.Price,
		})
	}
	fee, total := utils.OrderTotals(subtotal, s.feePercent)

	number, err := s.uniqueOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:      userID,
		OrderNumber: number,
		Subtotal:    subtotal,
		Fee:         fee,
		TotalAmount: total,
		Status:      models.OrderStatusPending,
		OrderItems:  items,
	}
	if txHash != "" {
		order.TransactionHash = models.StringPtr(txHash)
		order.TransactionStatus = models.StringPtr(models.TxStatusPending)
	}

	if err := s.store.CreateOrderFromCart(ctx, order); err != nil {
		return nil, err
	}

	for i := range order.OrderItems {
		order.OrderItems[i].NFT = lines[i].NFT
	}

	metrics.OrdersCreated.WithLabelValues(fmt.Sprintf("%t", txHash != "")).Inc()
	utils.LogInfo("Order %s created for user %d: subtotal=%s fee=%s total=%s", number, userID, subtotal, fee, total)

	if txHash != "" && s.monitor != nil {
		if err := s.monitor.Start(order.ID, txHash); err != nil {
			utils.LogError("Order %d created but monitoring could not start: %v", order.ID, err)
		}
	}
	return order, nil
}

func (s *OrderService) uniqueOrderNumber(ctx context.Context) (string, error) {
	for i := 0; i < maxOrderNumberAttempts; i++ {
		number := utils.GenerateOrderNumber(s.clock.Now(), s.intn)
		exists, err := s.store.OrderNumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique order number after %d attempts", maxOrderNumberAttempts)
}

// List returns a page of the user's orders
func (s *OrderService) List(ctx context.Context, userID uint, filter OrderFilter) ([]models.Order, int64, error) {
	if filter.Status != "" && !models.IsValidOrderStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}
	return s.store.ListOrders(ctx, userID, filter)
}

// Export returns all orders matching filter across users
func (s *OrderService) Export(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !models.IsValidOrderStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	return s.store.ExportOrders(ctx, filter)
}

// Get returns one of the user's orders
func (s *OrderService) Get(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	return s.store.FindOrder(ctx, userID, orderID)
}

// UpdateStatus applies a manual status update to one of the user's orders.
// It never registers the order for monitoring.
func (s *OrderService) UpdateStatus(ctx context.Context, userID, orderID uint, upd OrderStatusUpdate) (*models.Order, error) {
	if _, err := s.store.FindOrder(ctx, userID, orderID); err != nil {
		return nil, err
	}

	if upd.Status != "" && !models.IsValidOrderStatus(upd.Status) {
		return nil, ErrInvalidStatus
	}
	if upd.TransactionStatus != "" && !models.IsValidTxStatus(upd.TransactionStatus) {
		return nil, ErrInvalidTxStatus
	}

	updates := map[string]interface{}{}
	if upd.Status != "" {
		updates["status"] = upd.Status
	}
	if upd.TransactionStatus != "" {
		updates["transaction_status"] = upd.TransactionStatus
	}
	if upd.TransactionHash.Set {
		updates["transaction_hash"] = upd.TransactionHash.Value
	}
	if upd.FailureReason.Set {
		updates["failure_reason"] = upd.FailureReason.Value
	}

	if len(updates) > 0 {
		if err := s.store.UpdateOrder(ctx, orderID, updates); err != nil {
			return nil, err
		}
		utils.LogInfo("Order %d updated by user %d: %v", orderID, userID, updates)
	}
	return s.store.FindOrder(ctx, userID, orderID)
}

// Watch re-registers an unsettled order whose hash is known. Registrations
// do not survive a restart; this is how an operator resumes one.
func (s *OrderService) Watch(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.store.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.TransactionHash == nil || *order.TransactionHash == "" {
		return nil, ErrMissingTxHash
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusProcessing {
		return nil, ErrOrderSettled
	}
	if s.monitor == nil {
		return nil, ErrChainUnavailable
	}
	if err := s.monitor.Start(order.ID, *order.TransactionHash); err != nil {
		return nil, err
	}
	return order, nil
}

package controllers

import (
	"context"

	"github.com/Govind-619/MintSphere/middleware"
	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/services"
	"github.com/shopspring/decimal"
)

// OrderManager is the order workflow the handlers drive
type OrderManager interface {
	CreateFromCart(ctx context.Context, userID uint, txHash string) (*models.Order, error)
	List(ctx context.Context, userID uint, filter services.OrderFilter) ([]models.Order, int64, error)
	Get(ctx context.Context, userID, orderID uint) (*models.Order, error)
	UpdateStatus(ctx context.Context, userID, orderID uint, upd services.OrderStatusUpdate) (*models.Order, error)
	Export(ctx context.Context, filter services.OrderFilter) ([]models.Order, error)
	Watch(ctx context.Context, orderID uint) (*models.Order, error)
}

// MonitorRegistry lists running transaction polls
type MonitorRegistry interface {
	Active() []services.MonitoredOrder
}

// OwnershipChecker reads ERC-721 ownership from the chain
type OwnershipChecker interface {
	OwnerOf(ctx context.Context, contract, tokenID string) (string, error)
}

// PrivyAuthenticator resolves a Privy access token to a local identity
type PrivyAuthenticator interface {
	Verify(ctx context.Context, accessToken string) (*services.PrivyIdentity, error)
}

// Dependencies are the collaborators wired in at startup. Nil members turn
// the matching feature off.
type Dependencies struct {
	Orders      OrderManager
	Monitor     MonitorRegistry
	Chain       OwnershipChecker
	Privy       PrivyAuthenticator
	NFTCache    *middleware.ResponseCache
	FeePercent  decimal.Decimal
	FrontendURL string
}

var deps Dependencies

// Configure installs the handlers' dependencies
func Configure(d Dependencies) {
	deps = d
}

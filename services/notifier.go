package services

import (
	"context"

	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/utils"
)

// OrderLookup loads an order with its buyer
type OrderLookup interface {
	FindOrderByID(ctx context.Context, orderID uint) (*models.Order, error)
}

// MailNotifier e-mails the buyer when their order's transaction settles
type MailNotifier struct {
	orders OrderLookup
	mailer *utils.Mailer
}

// NewMailNotifier creates a MailNotifier
func NewMailNotifier(orders OrderLookup, mailer *utils.Mailer) *MailNotifier {
	return &MailNotifier{orders: orders, mailer: mailer}
}

// NotifyOutcome sends the settlement mail. Failures are logged, never returned.
func (n *MailNotifier) NotifyOutcome(ctx context.Context, orderID uint, txHash string, outcome TxOutcome) {
	if !n.mailer.Enabled() {
		return
	}

	order, err := n.orders.FindOrderByID(ctx, orderID)
	if err != nil {
		utils.LogError("Cannot notify outcome %s for order %d: %v", outcome, orderID, err)
		return
	}
	if order.User.Email == "" {
		return
	}

	reason := ""
	if order.FailureReason != nil {
		reason = *order.FailureReason
	}
	subject, body := utils.OrderOutcomeEmail(order.OrderNumber, txHash, order.Status, reason)
	if err := n.mailer.Send(order.User.Email, subject, body); err != nil {
		utils.LogError("Failed to mail outcome for order %d: %v", orderID, err)
		return
	}
	utils.LogInfo("Mailed %s outcome for order %d to %s", outcome, orderID, order.User.Email)
}

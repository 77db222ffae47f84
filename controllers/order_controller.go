package controllers

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/Govind-619/MintSphere/services"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
)

// CreateOrderRequest is the checkout body; the hash is optional
type CreateOrderRequest struct {
	TransactionHash string `json:"transaction_hash"`
}

var errTxHashFormat = errors.New("must be a 0x-prefixed 32-byte hex string")

// orderAppError maps service errors to the status they are reported with.
// Unknown errors come back nil.
func orderAppError(err error) *utils.AppError {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		return utils.NotFoundError(utils.ErrOrderNotFound, nil)
	case errors.Is(err, services.ErrCartEmpty):
		return utils.BadRequestError("Cart is empty", nil)
	case errors.Is(err, services.ErrInvalidTxHash):
		return utils.BadRequestError("Invalid transaction hash", errTxHashFormat)
	case errors.Is(err, services.ErrInvalidStatus):
		return utils.BadRequestError("Invalid status", nil)
	case errors.Is(err, services.ErrInvalidTxStatus):
		return utils.BadRequestError("Invalid transaction status", nil)
	case errors.Is(err, services.ErrMissingTxHash), errors.Is(err, services.ErrOrderSettled):
		return utils.BadRequestError(err.Error(), nil)
	case errors.Is(err, services.ErrChainUnavailable):
		return utils.ServiceUnavailableError("Blockchain provider is not configured", nil)
	}
	return nil
}

func respondOrderError(c *gin.Context, err error, fallback string) {
	if appErr := orderAppError(err); appErr != nil {
		err = appErr
	}
	utils.RespondError(c, err, fallback)
}

func ordersEnabled(c *gin.Context) bool {
	if deps.Orders == nil {
		utils.ServiceUnavailable(c, "Orders are not available")
		return false
	}
	return true
}

// parseDateParam accepts YYYY-MM-DD or RFC 3339. A bare end date covers the whole day.
func parseDateParam(raw string, endOfDay bool) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// ParseOrderFilter reads status, date range and sort parameters, collecting every problem
func ParseOrderFilter(c *gin.Context) (services.OrderFilter, []string) {
	var problems []string
	filter := services.OrderFilter{
		Status:    strings.TrimSpace(c.Query("status")),
		SortBy:    c.DefaultQuery("sortBy", "createdAt"),
		SortOrder: strings.ToLower(c.DefaultQuery("sortOrder", "desc")),
	}

	if raw := c.Query("startDate"); raw != "" {
		t, err := parseDateParam(raw, false)
		if err != nil {
			problems = append(problems, "startDate must be YYYY-MM-DD or RFC 3339")
		}
		filter.StartDate = t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := parseDateParam(raw, true)
		if err != nil {
			problems = append(problems, "endDate must be YYYY-MM-DD or RFC 3339")
		}
		filter.EndDate = t
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		problems = append(problems, "startDate cannot be after endDate")
	}
	if filter.SortOrder != "asc" && filter.SortOrder != "desc" {
		problems = append(problems, "sortOrder must be asc or desc")
	}
	return filter, problems
}

// CreateOrder turns the cart into an order
func CreateOrder(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok || !ordersEnabled(c) {
		return
	}

	var req CreateOrderRequest
	// an empty body is a checkout without a hash
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	order, err := deps.Orders.CreateFromCart(c.Request.Context(), user.ID, req.TransactionHash)
	if err != nil {
		respondOrderError(c, err, "Failed to create order")
		return
	}

	utils.LogInfo("User %d placed order %s", user.ID, order.OrderNumber)
	utils.Created(c, "Order created successfully", gin.H{"order": order})
}

// ListOrders returns a filtered page of the user's orders
func ListOrders(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok || !ordersEnabled(c) {
		return
	}

	pagination, problems := utils.ParsePagination(c, utils.DefaultOrderPageLimit, utils.MaxOrderPageLimit)
	filter, filterProblems := ParseOrderFilter(c)
	problems = append(problems, filterProblems...)
	if len(problems) > 0 {
		utils.BadRequest(c, "Invalid query parameters", problems)
		return
	}
	filter.Offset = pagination.Offset
	filter.Limit = pagination.Limit

	orders, total, err := deps.Orders.List(c.Request.Context(), user.ID, filter)
	if err != nil {
		respondOrderError(c, err, "Failed to fetch orders")
		return
	}

	pagination.SetTotal(total)
	utils.Success(c, "Orders retrieved successfully", gin.H{
		"orders": orders,
		"pagination": gin.H{
			"page":  pagination.Page,
			"limit": pagination.Limit,
			"total": total,
			"pages": pagination.TotalPages(),
		},
	})
}

// GetOrder returns one of the user's orders with its items
func GetOrder(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok || !ordersEnabled(c) {
		return
	}

	orderID, ok := parseID(c, "id")
	if !ok {
		utils.NotFound(c, utils.ErrOrderNotFound)
		return
	}

	order, err := deps.Orders.Get(c.Request.Context(), user.ID, orderID)
	if err != nil {
		respondOrderError(c, err, "Failed to fetch order")
		return
	}
	utils.Success(c, "Order retrieved successfully", gin.H{"order": order})
}

// UpdateOrderStatus patches the status fields of one of the user's orders
func UpdateOrderStatus(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok || !ordersEnabled(c) {
		return
	}

	orderID, ok := parseID(c, "id")
	if !ok {
		utils.NotFound(c, utils.ErrOrderNotFound)
		return
	}

	var upd services.OrderStatusUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	order, err := deps.Orders.UpdateStatus(c.Request.Context(), user.ID, orderID, upd)
	if err != nil {
		respondOrderError(c, err, "Failed to update order")
		return
	}
	utils.Success(c, "Order updated successfully", gin.H{"order": order})
}

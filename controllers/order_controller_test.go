package controllers

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/services"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderRouter() *gin.Engine {
	r := testRouter(&testUser)
	r.POST("/orders", CreateOrder)
	r.GET("/orders", ListOrders)
	r.GET("/orders/:id", GetOrder)
	r.PATCH("/orders/:id/status", UpdateOrderStatus)
	r.GET("/orders/:id/invoice", DownloadInvoice)
	return r
}

func TestCreateOrder(t *testing.T) {
	t.Run("with hash", func(t *testing.T) {
		orders := &fakeOrders{order: sampleOrder()}
		withDeps(t, Dependencies{Orders: orders})

		hash := "0x" + strings.Repeat("ab", 32)
		resp := utils.MakeTestRequest(t, orderRouter(), utils.TestRequest{
			Method: http.MethodPost,
			Path:   "/orders",
			Body:   gin.H{"transaction_hash": hash},
		})

		utils.AssertResponse(t, resp, http.StatusCreated, "Order created successfully")
		assert.Equal(t, hash, orders.lastHash)
		order := dataField(t, resp)["order"].(map[string]interface{})
		assert.Equal(t, "ORD-1700000000000-42", order["order_number"])
		assert.Len(t, order["items"], 1)
	})

	t.Run("empty body", func(t *testing.T) {
		orders := &fakeOrders{order: sampleOrder()}
		withDeps(t, Dependencies{Orders: orders})

		resp := utils.MakeTestRequest(t, orderRouter(), utils.TestRequest{Method: http.MethodPost, Path: "/orders"})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Empty(t, orders.lastHash)
	})

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"empty cart", services.ErrCartEmpty, http.StatusBadRequest, "Cart is empty"},
		{"bad hash", services.ErrInvalidTxHash, http.StatusBadRequest, "Invalid transaction hash"},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError, "Failed to create order"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			withDeps(t, Dependencies{Orders: &fakeOrders{err: tc.err}})
			resp := utils.MakeTestRequest(t, orderRouter(), utils.TestRequest{
				Method: http.MethodPost,
				Path:   "/orders",
				Body:   gin.H{"transaction_hash": "0x1"},
			})
			utils.AssertResponse(t, resp, tc.status, tc.message)
		})
	}

	t.Run("orders not wired", func(t *testing.T) {
		withDeps(t, Dependencies{})
		resp := utils.MakeTestRequest(t, orderRouter(), utils.TestRequest{Method: http.MethodPost, Path: "/orders"})
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("no user", func(t *testing.T) {
		withDeps(t, Dependencies{Orders: &fakeOrders{}})
		r := testRouter(nil)
		r.POST("/orders", CreateOrder)
		resp := utils.MakeTestRequest(t, r, utils.TestRequest{Method: http.MethodPost, Path: "/orders"})
		utils.AssertResponse(t, resp, http.StatusUnauthorized, utils.ErrAuthRequired)
	})
}

func TestListOrders(t *testing.T) {
	t.Run("filters and pagination", func(t *testing.T) {
		orders := &fakeOrders{orders: []models.Order{*sampleOrder()}, total: 21}
		withDeps(t, Dependencies{Orders: orders})

		resp := utils.MakeTestRequest(t, orderRouter(), utils.TestRequest{
			Method: http.MethodGet,
			Path:   "/orders?page=2&limit=10&status=pending&startDate=2024-03-01&endDate=2024-03-31&sortBy=total_amount&sortOrder=asc",
		})

		utils.AssertResponse(t, resp, http.StatusOK, "Orders retrieved successfully")
		pagination := dataField(t, resp)["pagination"].(map[string]interface{})
		assert.EqualValues(t, 2, pagination["page"])
		assert.EqualValues(t, 10, pagination["limit"])
		assert.EqualValues(t, 21, pagination["total"])
		assert.EqualValues(t, 3, pagination["pages"])

		assert.Equal(t, "pending", orders.filter.Status)
		assert.Equal(t, 10, orders.filter.Offset)
		assert.Equal(t, 10, orders.filter.Limit)
		assert.Equal(t, "total_amount ASC", orders.filter.OrderByClause())
		require.NotNil(t, orders.filter.StartDate)
		require.NotNil(t, orders.filter.EndDate)
		assert.Equal(t, 31, orders.filter.EndDate.Day())
		assert.Equal(t, 23, orders.filter.EndDate.Hour())
	})

	t.Run("invalid parameters", func(t *testing.T) {
		withDeps(t, Dependencies{Orders: &fakeOrders{}})
		resp := utils.MakeTestRequest(t, orderRouter(), utils.TestRequest{
			Method: http.MethodGet,
			Path:   "/orders?page=0&startDate=yesterday&sortOrder=sideways",
		})
		utils.AssertResponse(t, resp, http.StatusBadRequest, "Invalid query parameters")
		problems := dataField(t, resp)["error"].([]interface{})
		assert.Len(t, problems, 3)
	})

	t.Run("start after end", func(t *testing.T) {
		withDeps(t, Dependencies{Orders: &fakeOrders{}})
		resp := utils.MakeTestRequest(t, orderRouter(), utils.TestRequest{
			Method: http.MethodGet,
			Path:   "/orders?startDate=2024-04-01&endDate=2024-03-01",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown status", func(t *testing.T) {
		withDeps(t, Dependencies{Orders: &fakeOrders{err: services.ErrInvalidStatus}})
		resp := utils.MakeTestRequest(t, orderRouter(), utils.TestRequest{Method: http.MethodGet, Path: "/orders?status=lost"})
		utils.AssertResponse(t, resp, http.StatusBadRequest, "Invalid status")
	})
}

func TestGetOrder(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		withDeps(t, Dependencies{Orders: &fakeOrders{order: sampleOrder()}})
		resp := utils.MakeTestRequest(t, orderRouter(), utils.TestRequest{Method: http.MethodGet, Path: "/orders/12"})
		utils.AssertResponse(t, resp, http.StatusOK, "Order retrieved successfully")
	})

	t.Run("someone else's order", func(t *testing.T) {
		withDeps(t, Dependencies{Orders: &fakeOrders{err: services.ErrOrderNotFound}})
		resp := utils.MakeTestRequest(t, orderRouter(), utils.TestRequest{Method: http.MethodGet, Path: "/orders/99"})
		utils.AssertResponse(t, resp, http.StatusNotFound, utils.ErrOrderNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		withDeps(t, Dependencies{Orders: &fakeOrders{}})
		resp := utils.MakeTestRequest(t, orderRouter(), utils.TestRequest{Method: http.MethodGet, Path: "/orders/abc"})
		utils.AssertResponse(t, resp, http.StatusNotFound, utils.ErrOrderNotFound)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Run("null clears failure reason", func(t *testing.T) {
		orders := &fakeOrders{order: sampleOrder()}
		withDeps(t, Dependencies{Orders: orders})

		resp := utils.MakeTestRequest(t, orderRouter(), utils.TestRequest{
			Method: http.MethodPatch,
			Path:   "/orders/12/status",
			Body:   map[string]interface{}{"status": "cancelled", "failure_reason": nil},
		})

		utils.AssertResponse(t, resp, http.StatusOK, "Order updated successfully")
		assert.Equal(t, "cancelled", orders.update.Status)
		assert.True(t, orders.update.FailureReason.Set)
		assert.Nil(t, orders.update.FailureReason.Value)
		assert.False(t, orders.update.TransactionHash.Set)
	})

	t.Run("invalid transaction status", func(t *testing.T) {
		withDeps(t, Dependencies{Orders: &fakeOrders{err: services.ErrInvalidTxStatus}})
		resp := utils.MakeTestRequest(t, orderRouter(), utils.TestRequest{
			Method: http.MethodPatch,
			Path:   "/orders/12/status",
			Body:   gin.H{"transaction_status": "lost"},
		})
		utils.AssertResponse(t, resp, http.StatusBadRequest, "Invalid transaction status")
	})
}

func TestDownloadInvoice(t *testing.T) {
	withDeps(t, Dependencies{Orders: &fakeOrders{order: sampleOrder()}})

	resp := utils.MakeTestRequest(t, orderRouter(), utils.TestRequest{Method: http.MethodGet, Path: "/orders/12/invoice"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice-ORD-1700000000000-42.pdf")
	assert.True(t, bytes.HasPrefix(resp.Raw, []byte("%PDF")))
}

func TestRenderInvoiceWithoutTransaction(t *testing.T) {
	order := sampleOrder()
	order.TransactionHash = nil
	order.TransactionStatus = nil
	order.OrderItems[0].NFT = models.NFT{}

	pdf, err := RenderInvoice(order, testUser)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "0xabc", shortHash("0xabc"))
	long := "0x" + strings.Repeat("ab", 32)
	short := shortHash(long)
	assert.Len(t, short, 23)
	assert.True(t, strings.HasPrefix(short, "0xabababab"))
}

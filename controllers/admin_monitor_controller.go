package controllers

import (
	"sort"

	"github.com/Govind-619/MintSphere/services"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
)

// ListMonitors returns the orders whose transactions are being polled
func ListMonitors(c *gin.Context) {
	if deps.Monitor == nil {
		utils.Success(c, "Monitors retrieved successfully", gin.H{
			"monitors": []services.MonitoredOrder{},
			"count":    0,
		})
		return
	}

	active := deps.Monitor.Active()
	if active == nil {
		active = []services.MonitoredOrder{}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].OrderID < active[j].OrderID })

	utils.Success(c, "Monitors retrieved successfully", gin.H{
		"monitors": active,
		"count":    len(active),
	})
}

// WatchOrder registers an unsettled order with the transaction monitor again
func WatchOrder(c *gin.Context) {
	if !ordersEnabled(c) {
		return
	}

	orderID, ok := parseID(c, "id")
	if !ok {
		utils.NotFound(c, utils.ErrOrderNotFound)
		return
	}

	order, err := deps.Orders.Watch(c.Request.Context(), orderID)
	if err != nil {
		respondOrderError(c, err, "Failed to start monitoring")
		return
	}

	utils.LogInfo("Admin re-registered order %d for monitoring", order.ID)
	utils.Success(c, "Monitoring started", gin.H{
		"order_id":         order.ID,
		"transaction_hash": order.TransactionHash,
	})
}

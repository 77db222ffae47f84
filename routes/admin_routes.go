package routes

import (
	"github.com/Govind-619/MintSphere/controllers"
	"github.com/Govind-619/MintSphere/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		// Orders
		admin.GET("/orders/export", controllers.ExportOrders)
		admin.POST("/orders/:id/monitor", controllers.WatchOrder)

		// Transaction monitor
		admin.GET("/monitors", controllers.ListMonitors)
	}
}

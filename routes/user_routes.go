package routes

import (
	"github.com/Govind-619/MintSphere/controllers"
	"github.com/Govind-619/MintSphere/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes registers the public and signed-in user endpoints
func initUserRoutes(router *gin.RouterGroup, opts Options) {
	auth := router.Group("/auth")
	if opts.AuthLimiter != nil {
		auth.Use(opts.AuthLimiter.Handler())
	}
	{
		auth.POST("/register", controllers.RegisterUser)
		auth.POST("/login", controllers.LoginUser)
		auth.POST("/privy/verify", controllers.PrivyVerify)
		auth.GET("/google/login", controllers.GoogleLogin)
		auth.GET("/google/callback", controllers.GoogleCallback)
		auth.GET("/me", middleware.AuthMiddleware(), controllers.GetCurrentUser)
	}

	nfts := router.Group("/nfts")
	{
		if opts.NFTCache.Enabled() {
			nfts.GET("", opts.NFTCache.Handler(), controllers.ListNFTs)
		} else {
			nfts.GET("", controllers.ListNFTs)
		}
		nfts.GET("/search", controllers.SearchNFTs)
		nfts.GET("/:id", controllers.GetNFT)
		nfts.GET("/:id/related", controllers.RelatedNFTs)
		nfts.POST("/:id/verify-ownership", middleware.AuthMiddleware(), controllers.VerifyNFTOwnership)
		nfts.POST("", middleware.AuthMiddleware(), middleware.AdminMiddleware(), controllers.CreateNFT)
	}

	cart := router.Group("/cart")
	cart.Use(middleware.AuthMiddleware())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("/add", controllers.AddToCart)
		cart.DELETE("/:itemId", controllers.RemoveFromCart)
		cart.POST("/clear", controllers.ClearCart)
	}

	orders := router.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.POST("", controllers.CreateOrder)
		orders.GET("", controllers.ListOrders)
		orders.GET("/:id", controllers.GetOrder)
		orders.PATCH("/:id/status", controllers.UpdateOrderStatus)
		orders.GET("/:id/invoice", controllers.DownloadInvoice)
	}

	web3 := router.Group("/web3")
	web3.Use(middleware.AuthMiddleware())
	{
		web3.GET("/nonce", controllers.GetNonce)
		web3.POST("/verify-ownership", controllers.VerifyWalletOwnership)
	}
}

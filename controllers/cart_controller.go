package controllers

import (
	"time"

	"github.com/Govind-619/MintSphere/config"
	"github.com/Govind-619/MintSphere/middleware"
	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddToCartRequest adds quantity of an NFT, 1 when omitted
type AddToCartRequest struct {
	NFTID    uint `json:"nft_id" binding:"required"`
	Quantity int  `json:"quantity"`
}

// requireUser writes the 401 itself
func requireUser(c *gin.Context) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, utils.ErrAuthRequired)
	}
	return user, ok
}

// GetCart returns the cart lines with NFT details and totals
func GetCart(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	cart, err := utils.GetCartDetails(c.Request.Context(), user.ID, deps.FeePercent)
	if err != nil {
		utils.LogError("Failed to load cart for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch cart", nil)
		return
	}
	utils.Success(c, "Cart retrieved successfully", cart)
}

// AddToCart adds an NFT to the cart; a line that already exists grows by quantity
func AddToCart(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.Quantity < 0 {
		utils.BadRequest(c, "Quantity must be positive", nil)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx := c.Request.Context()
	if _, err := utils.GetNFTByID(ctx, req.NFTID); err != nil {
		if utils.IsNotFound(err) {
			utils.NotFound(c, utils.ErrNFTNotFound)
			return
		}
		utils.LogError("Failed to load NFT %d for cart: %v", req.NFTID, err)
		utils.InternalServerError(c, "Failed to add to cart", nil)
		return
	}

	line := models.CartItem{UserID: user.ID, NFTID: req.NFTID, Quantity: req.Quantity}
	err := config.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "nft_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(&line).Error
	if err != nil {
		utils.LogError("Failed to add NFT %d to cart of user %d: %v", req.NFTID, user.ID, err)
		utils.InternalServerError(c, "Failed to add to cart", nil)
		return
	}

	cart, err := utils.GetCartDetails(ctx, user.ID, deps.FeePercent)
	if err != nil {
		utils.LogError("Failed to reload cart for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch cart", nil)
		return
	}

	utils.LogInfo("User %d added NFT %d x%d to cart", user.ID, req.NFTID, req.Quantity)
	utils.Success(c, "Item added to cart", cart)
}

// RemoveFromCart deletes one of the user's own cart lines
func RemoveFromCart(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	itemID, ok := parseID(c, "itemId")
	if !ok {
		utils.NotFound(c, utils.ErrCartItemNotFound)
		return
	}

	result := config.DB.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", itemID, user.ID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		utils.LogError("Failed to remove cart item %d for user %d: %v", itemID, user.ID, result.Error)
		utils.InternalServerError(c, "Failed to remove item", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, utils.ErrCartItemNotFound)
		return
	}

	utils.LogInfo("User %d removed cart item %d", user.ID, itemID)
	utils.Success(c, "Item removed from cart", nil)
}

// ClearCart empties the user's cart
func ClearCart(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	if err := config.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		Delete(&models.CartItem{}).Error; err != nil {
		utils.LogError("Failed to clear cart for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to clear cart", nil)
		return
	}

	utils.LogInfo("Cart cleared for user %d", user.ID)
	utils.Success(c, "Cart cleared successfully", nil)
}

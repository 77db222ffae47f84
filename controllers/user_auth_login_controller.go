package controllers

import (
	"github.com/Govind-619/MintSphere/middleware"
	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser handles password login
func LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Login attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	req.Email = models.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		utils.BadRequest(c, "Email and password are required", nil)
		return
	}

	user, err := utils.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if !utils.IsNotFound(err) {
			utils.LogError("Login lookup failed for %s: %v", req.Email, err)
			utils.InternalServerError(c, "Login failed", nil)
			return
		}
		utils.LogInfo("Login attempt failed - User not found: %s", req.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	// SSO-only accounts have no password to check against
	if !user.HasPassword() || !utils.CheckPassword(req.Password, *user.PasswordHash) {
		utils.LogInfo("Login attempt failed - Invalid password for user: %s", req.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.LogError("Failed to generate token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Login failed", nil)
		return
	}

	utils.LogInfo("User logged in: %d", user.ID)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": token,
		"user":  user.ToResponse(),
	})
}

// GetCurrentUser returns the authenticated user
func GetCurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrAuthRequired)
		return
	}
	utils.Success(c, "User retrieved successfully", gin.H{"user": user.ToResponse()})
}

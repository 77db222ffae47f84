package controllers

import (
	"strings"

	"github.com/Govind-619/MintSphere/blockchain"
	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
)

// RegisterRequest is the password sign-up body
type RegisterRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	WalletAddress string `json:"walletAddress"`
}

// RegisterUser creates a password account and signs it in
func RegisterUser(c *gin.Context) {
	utils.LogInfo("RegisterUser called")

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Registration failed - invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	req.Email = models.NormalizeEmail(req.Email)
	req.WalletAddress = strings.TrimSpace(req.WalletAddress)
	if req.Email == "" || req.Password == "" {
		utils.BadRequest(c, "Email and password are required", nil)
		return
	}
	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		utils.BadRequest(c, "Invalid email", msg)
		return
	}
	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		utils.BadRequest(c, "Invalid password", msg)
		return
	}
	if req.WalletAddress != "" && !blockchain.IsAddress(req.WalletAddress) {
		utils.BadRequest(c, "Invalid wallet address", nil)
		return
	}

	ctx := c.Request.Context()
	if _, err := utils.GetUserByEmail(ctx, req.Email); err == nil {
		utils.LogInfo("Registration rejected - email already registered: %s", req.Email)
		utils.BadRequest(c, "User already exists", nil)
		return
	} else if !utils.IsNotFound(err) {
		utils.LogError("Registration lookup failed for %s: %v", req.Email, err)
		utils.InternalServerError(c, "Registration failed", nil)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		utils.InternalServerError(c, "Registration failed", nil)
		return
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: &hash,
		AuthMethod:   models.AuthMethodPassword,
		Role:         models.RoleUser,
	}
	if req.WalletAddress != "" {
		user.WalletAddress = &req.WalletAddress
	}
	if err := utils.CreateUser(ctx, &user); err != nil {
		utils.LogError("Failed to create user %s: %v", req.Email, err)
		utils.InternalServerError(c, "Registration failed", nil)
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Registration failed", nil)
		return
	}

	utils.LogInfo("User registered: %d (%s)", user.ID, user.Email)
	utils.Created(c, utils.MsgRegisterSuccess, gin.H{
		"token": token,
		"user":  user.ToResponse(),
	})
}

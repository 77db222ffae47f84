package controllers

import (
	"context"
	"errors"

	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/services"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
)

// PrivyVerifyRequest carries the access token issued by Privy to the frontend
type PrivyVerifyRequest struct {
	AccessToken string `json:"accessToken"`
}

// PrivyVerify exchanges a Privy access token for an API token
func PrivyVerify(c *gin.Context) {
	utils.LogInfo("PrivyVerify called")

	var req PrivyVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AccessToken == "" {
		utils.BadRequest(c, "Access token is required", nil)
		return
	}

	if deps.Privy == nil {
		utils.LogError("Privy verification requested but Privy is not configured")
		utils.InternalServerError(c, "Privy authentication is not configured", nil)
		return
	}

	ctx := c.Request.Context()
	identity, err := deps.Privy.Verify(ctx, req.AccessToken)
	if err != nil {
		if errors.Is(err, services.ErrPrivyNoEmail) {
			utils.BadRequest(c, "Email is required for authentication", nil)
			return
		}
		utils.LogError("Privy token verification failed: %v", err)
		utils.Unauthorized(c, "Invalid Privy token")
		return
	}

	user, err := findOrLinkPrivyUser(ctx, identity)
	if err != nil {
		utils.LogError("Failed to resolve Privy user %s: %v", identity.PrivyUserID, err)
		utils.InternalServerError(c, "Authentication failed", nil)
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.LogError("Failed to generate token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Authentication failed", nil)
		return
	}

	utils.LogInfo("User %d signed in through Privy (%s)", user.ID, identity.AuthMethod)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": token,
		"user":  user.ToResponse(),
	})
}

// findOrLinkPrivyUser prefers the account already linked to the Privy id,
// then links an existing account with the same email, then creates one.
func findOrLinkPrivyUser(ctx context.Context, identity *services.PrivyIdentity) (*models.User, error) {
	if user, err := utils.GetUserByPrivyID(ctx, identity.PrivyUserID); err == nil {
		return user, nil
	} else if !utils.IsNotFound(err) {
		return nil, err
	}

	user, err := utils.GetUserByEmail(ctx, identity.Email)
	if err == nil {
		if err := utils.UpdateUserFields(ctx, user.ID, map[string]interface{}{"privy_user_id": identity.PrivyUserID}); err != nil {
			return nil, err
		}
		user.PrivyUserID = &identity.PrivyUserID
		return user, nil
	}
	if !utils.IsNotFound(err) {
		return nil, err
	}

	user = &models.User{
		Email:       identity.Email,
		PrivyUserID: &identity.PrivyUserID,
		AuthMethod:  identity.AuthMethod,
		Role:        models.RoleUser,
	}
	if err := utils.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Govind-619/MintSphere/config"
	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// GoogleLogin redirects to Google's consent page with a one-time state
func GoogleLogin(c *gin.Context) {
	if config.GoogleOAuthConfig == nil {
		utils.ServiceUnavailable(c, "Google sign-in is not configured")
		return
	}

	state, err := utils.IssueSessionToken(c, utils.SessionOAuthState)
	if err != nil {
		utils.LogError("Failed to store OAuth state: %v", err)
		utils.InternalServerError(c, "Failed to start Google sign-in", nil)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, config.GoogleOAuthConfig.AuthCodeURL(state))
}

// GoogleCallback finishes Google sign-in and hands the token to the frontend
func GoogleCallback(c *gin.Context) {
	if config.GoogleOAuthConfig == nil {
		utils.ServiceUnavailable(c, "Google sign-in is not configured")
		return
	}

	expected, err := utils.TakeSessionToken(c, utils.SessionOAuthState)
	if err != nil || expected == "" || c.Query("state") != expected {
		utils.LogError("Google callback with invalid state")
		utils.BadRequest(c, "Invalid OAuth state", nil)
		return
	}

	code := c.Query("code")
	if code == "" {
		utils.BadRequest(c, "No code provided", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := config.GoogleOAuthConfig.Exchange(ctx, code)
	if err != nil {
		utils.LogError("Google token exchange failed: %v", err)
		utils.Unauthorized(c, "Failed to exchange token")
		return
	}

	info, err := fetchGoogleUser(ctx, config.GoogleOAuthConfig, token)
	if err != nil {
		utils.LogError("Failed to get Google user info: %v", err)
		utils.InternalServerError(c, "Failed to get user info", nil)
		return
	}
	if info.Email == "" || !info.VerifiedEmail {
		utils.BadRequest(c, "Google account has no verified email", nil)
		return
	}

	user, err := findOrCreateGoogleUser(ctx, info)
	if err != nil {
		utils.LogError("Failed to resolve Google user %s: %v", info.Email, err)
		utils.InternalServerError(c, "Failed to sign in", nil)
		return
	}

	jwtToken, err := utils.GenerateToken(user)
	if err != nil {
		utils.LogError("Failed to generate token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to sign in", nil)
		return
	}

	utils.LogInfo("User %d signed in with Google", user.ID)
	redirectURL := fmt.Sprintf("%s/auth/callback?token=%s",
		strings.TrimRight(deps.FrontendURL, "/"), url.QueryEscape(jwtToken))
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}

func fetchGoogleUser(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (*GoogleUserInfo, error) {
	resp, err := cfg.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// findOrCreateGoogleUser matches on Google id, then links an account with
// the same email, and otherwise creates one.
func findOrCreateGoogleUser(ctx context.Context, info *GoogleUserInfo) (*models.User, error) {
	if user, err := utils.GetUserByGoogleID(ctx, info.ID); err == nil {
		return user, nil
	} else if !utils.IsNotFound(err) {
		return nil, err
	}

	email := models.NormalizeEmail(info.Email)
	user, err := utils.GetUserByEmail(ctx, email)
	if err == nil {
		if err := utils.UpdateUserFields(ctx, user.ID, map[string]interface{}{"google_id": info.ID}); err != nil {
			return nil, err
		}
		user.GoogleID = &info.ID
		return user, nil
	}
	if !utils.IsNotFound(err) {
		return nil, err
	}

	user = &models.User{
		Email:      email,
		GoogleID:   &info.ID,
		AuthMethod: models.AuthMethodGoogle,
		Role:       models.RoleUser,
	}
	if err := utils.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

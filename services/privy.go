package services

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Govind-619/MintSphere/models"
	"github.com/golang-jwt/jwt"
)

const privyIssuer = "privy.io"

// ErrPrivyNoEmail is returned when none of a Privy user's accounts carries an email
var ErrPrivyNoEmail = errors.New("email is required for authentication")

// PrivyLinkedAccount is one login method attached to a Privy user
type PrivyLinkedAccount struct {
	Type    string `json:"type"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

// PrivyUser is the part of the Privy user record the marketplace reads
type PrivyUser struct {
	ID             string               `json:"id"`
	LinkedAccounts []PrivyLinkedAccount `json:"linked_accounts"`
}

// PrivyIdentity is what a verified Privy login resolves to locally
type PrivyIdentity struct {
	PrivyUserID string
	Email       string
	AuthMethod  string
}

// PrivyVerifier checks Privy access tokens and fetches the matching user
type PrivyVerifier struct {
	appID     string
	appSecret string
	apiURL    string
	key       *ecdsa.PublicKey
	http      *http.Client
}

// NewPrivyVerifier parses the app's ES256 verification key. Keys copied from
// an env file may carry literal \n sequences.
func NewPrivyVerifier(appID, appSecret, verificationKey, apiURL string) (*PrivyVerifier, error) {
	pem := strings.ReplaceAll(verificationKey, `\n`, "\n")
	key, err := jwt.ParseECPublicKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, fmt.Errorf("parse privy verification key: %w", err)
	}
	return &PrivyVerifier{
		appID:     appID,
		appSecret: appSecret,
		apiURL:    strings.TrimRight(apiURL, "/"),
		key:       key,
		http:      &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// VerifyAccessToken validates signature, issuer, audience and expiry, and
// returns the Privy user id from the subject claim.
func (p *PrivyVerifier) VerifyAccessToken(accessToken string) (string, error) {
	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.key, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid privy token")
	}
	if !claims.VerifyIssuer(privyIssuer, true) {
		return "", errors.New("invalid privy token issuer")
	}
	if !claims.VerifyAudience(p.appID, true) {
		return "", errors.New("invalid privy token audience")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("privy token has no subject")
	}
	return sub, nil
}

// FetchUser loads the Privy user record with its linked accounts
func (p *PrivyVerifier) FetchUser(ctx context.Context, userID string) (*PrivyUser, error) {
	endpoint := fmt.Sprintf("%s/api/v1/users/%s", p.apiURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(p.appID, p.appSecret)
	req.Header.Set("privy-app-id", p.appID)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch privy user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch privy user: unexpected status %d", resp.StatusCode)
	}

	var user PrivyUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode privy user: %w", err)
	}
	if user.ID == "" {
		user.ID = userID
	}
	return &user, nil
}

// Verify runs the whole Privy login: token check, user fetch, identity resolution
func (p *PrivyVerifier) Verify(ctx context.Context, accessToken string) (*PrivyIdentity, error) {
	userID, err := p.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	user, err := p.FetchUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ResolvePrivyIdentity(user)
}

// ResolvePrivyIdentity picks the email from the email account, falling back to
// Google, and derives the auth method: Google wins over wallet, else email.
func ResolvePrivyIdentity(user *PrivyUser) (*PrivyIdentity, error) {
	var email string
	var hasGoogle, hasWallet bool

	for _, acc := range user.LinkedAccounts {
		if acc.Type == "email" && email == "" {
			email = firstNonEmpty(acc.Address, acc.Email)
		}
	}
	for _, acc := range user.LinkedAccounts {
		switch acc.Type {
		case "google_oauth":
			hasGoogle = true
			if email == "" {
				email = firstNonEmpty(acc.Email, acc.Address)
			}
		case "wallet":
			hasWallet = true
		}
	}

	if email == "" {
		return nil, ErrPrivyNoEmail
	}

	method := models.AuthMethodPrivyEmail
	if hasGoogle {
		method = models.AuthMethodPrivyGoogle
	} else if hasWallet {
		method = models.AuthMethodPrivyWallet
	}

	return &PrivyIdentity{
		PrivyUserID: user.ID,
		Email:       models.NormalizeEmail(email),
		AuthMethod:  method,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

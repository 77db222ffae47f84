package utils

import (
	"fmt"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IssueSessionToken stores a fresh random token under key and returns it
func IssueSessionToken(c *gin.Context, key string) (string, error) {
	token := uuid.New().String()
	session := sessions.Default(c)
	session.Set(key, token)
	if err := session.Save(); err != nil {
		return "", fmt.Errorf("failed to save session: %v", err)
	}
	return token, nil
}

// TakeSessionToken returns the token under key and deletes it
func TakeSessionToken(c *gin.Context, key string) (string, error) {
	session := sessions.Default(c)
	token, _ := session.Get(key).(string)
	if token == "" {
		return "", nil
	}
	session.Delete(key)
	if err := session.Save(); err != nil {
		return "", fmt.Errorf("failed to save session: %v", err)
	}
	return token, nil
}

// WalletSignMessage is the text a wallet signs to prove control of address
func WalletSignMessage(nonce string) string {
	return fmt.Sprintf("Sign this message to verify wallet ownership on %s.\n\nNonce: %s", AppName, nonce)
}

// MessageHasNonce reports whether message embeds nonce
func MessageHasNonce(message, nonce string) bool {
	return nonce != "" && strings.Contains(message, nonce)
}

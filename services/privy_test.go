package services

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Govind-619/MintSphere/models"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrivyApp = "app-123"

func privyKeyPair(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func privyToken(t *testing.T, key *ecdsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func validPrivyClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub": "did:privy:abc",
		"iss": "privy.io",
		"aud": testPrivyApp,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

func TestPrivyVerifier_VerifyAccessToken(t *testing.T) {
	key, pub := privyKeyPair(t)
	// keys pasted into env files arrive with escaped newlines
	escaped := strings.ReplaceAll(pub, "\n", `\n`)
	verifier, err := NewPrivyVerifier(testPrivyApp, "secret", escaped, "https://auth.privy.io")
	require.NoError(t, err)

	sub, err := verifier.VerifyAccessToken(privyToken(t, key, validPrivyClaims()))
	require.NoError(t, err)
	assert.Equal(t, "did:privy:abc", sub)

	wrongAud := validPrivyClaims()
	wrongAud["aud"] = "other-app"
	_, err = verifier.VerifyAccessToken(privyToken(t, key, wrongAud))
	assert.Error(t, err)

	wrongIss := validPrivyClaims()
	wrongIss["iss"] = "example.com"
	_, err = verifier.VerifyAccessToken(privyToken(t, key, wrongIss))
	assert.Error(t, err)

	expired := validPrivyClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	_, err = verifier.VerifyAccessToken(privyToken(t, key, expired))
	assert.Error(t, err)

	otherKey, _ := privyKeyPair(t)
	_, err = verifier.VerifyAccessToken(privyToken(t, otherKey, validPrivyClaims()))
	assert.Error(t, err)

	hs, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validPrivyClaims()).SignedString([]byte("x"))
	require.NoError(t, err)
	_, err = verifier.VerifyAccessToken(hs)
	assert.Error(t, err)
}

func TestNewPrivyVerifier_BadKey(t *testing.T) {
	_, err := NewPrivyVerifier(testPrivyApp, "secret", "not a key", "")
	assert.Error(t, err)
}

func TestPrivyVerifier_Verify(t *testing.T) {
	key, pub := privyKeyPair(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != testPrivyApp || pass != "secret" || r.Header.Get("privy-app-id") != testPrivyApp {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/api/v1/users/did:privy:abc" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(PrivyUser{
			ID: "did:privy:abc",
			LinkedAccounts: []PrivyLinkedAccount{
				{Type: "wallet", Address: "0xabc"},
				{Type: "email", Address: "Alice@Example.com"},
			},
		})
	}))
	defer srv.Close()

	verifier, err := NewPrivyVerifier(testPrivyApp, "secret", pub, srv.URL+"/")
	require.NoError(t, err)

	identity, err := verifier.Verify(context.Background(), privyToken(t, key, validPrivyClaims()))
	require.NoError(t, err)
	assert.Equal(t, &PrivyIdentity{
		PrivyUserID: "did:privy:abc",
		Email:       "alice@example.com",
		AuthMethod:  models.AuthMethodPrivyWallet,
	}, identity)

	wrongSecret, err := NewPrivyVerifier(testPrivyApp, "nope", pub, srv.URL)
	require.NoError(t, err)
	_, err = wrongSecret.FetchUser(context.Background(), "did:privy:abc")
	assert.Error(t, err)
}

func TestResolvePrivyIdentity(t *testing.T) {
	tests := []struct {
		name     string
		accounts []PrivyLinkedAccount
		email    string
		method   string
		err      error
	}{
		{
			name:     "email only",
			accounts: []PrivyLinkedAccount{{Type: "email", Address: "a@b.co"}},
			email:    "a@b.co",
			method:   models.AuthMethodPrivyEmail,
		},
		{
			name:     "google supplies the email",
			accounts: []PrivyLinkedAccount{{Type: "google_oauth", Email: "g@b.co"}},
			email:    "g@b.co",
			method:   models.AuthMethodPrivyGoogle,
		},
		{
			name: "email account wins over google address",
			accounts: []PrivyLinkedAccount{
				{Type: "google_oauth", Email: "g@b.co"},
				{Type: "email", Address: "e@b.co"},
			},
			email:  "e@b.co",
			method: models.AuthMethodPrivyGoogle,
		},
		{
			name:     "wallet without email",
			accounts: []PrivyLinkedAccount{{Type: "wallet", Address: "0xabc"}},
			err:      ErrPrivyNoEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := ResolvePrivyIdentity(&PrivyUser{ID: "u", LinkedAccounts: tt.accounts})
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.email, identity.Email)
			assert.Equal(t, tt.method, identity.AuthMethod)
		})
	}
}

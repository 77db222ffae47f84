package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type web3Client struct {
	t       *testing.T
	router  *gin.Engine
	cookies []*http.Cookie
}

func newWeb3Client(t *testing.T) *web3Client {
	r := testRouter(&testUser)
	r.GET("/web3/nonce", GetNonce)
	r.POST("/web3/verify-ownership", VerifyWalletOwnership)
	return &web3Client{t: t, router: r}
}

func (wc *web3Client) do(method, path string, body interface{}) (int, map[string]interface{}) {
	wc.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(wc.t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range wc.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	wc.router.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		wc.cookies = cookies
	}

	var out map[string]interface{}
	require.NoError(wc.t, json.Unmarshal(w.Body.Bytes(), &out))
	return w.Code, out
}

func (wc *web3Client) nonce() (string, string) {
	wc.t.Helper()
	status, body := wc.do(http.MethodGet, "/web3/nonce", nil)
	require.Equal(wc.t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	return data["nonce"].(string), data["message"].(string)
}

func expectWalletSaved(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET .*"wallet_address"=`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestGetNonce(t *testing.T) {
	wc := newWeb3Client(t)
	nonce, message := wc.nonce()

	assert.NotEmpty(t, nonce)
	assert.True(t, utils.MessageHasNonce(message, nonce))

	second, _ := wc.nonce()
	assert.NotEqual(t, nonce, second)
}

func TestVerifyWalletOwnership(t *testing.T) {
	t.Run("signed nonce links wallet", func(t *testing.T) {
		mock := mockDB(t)
		expectWalletSaved(mock)

		wc := newWeb3Client(t)
		_, message := wc.nonce()
		proof := signedProof(t, message)

		status, body := wc.do(http.MethodPost, "/web3/verify-ownership", proof)

		require.Equal(t, http.StatusOK, status, body)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, true, data["verified"])
		assert.Equal(t, proof.WalletAddress, data["user"].(map[string]interface{})["walletAddress"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nonce is spent on use", func(t *testing.T) {
		mock := mockDB(t)
		expectWalletSaved(mock)

		wc := newWeb3Client(t)
		_, message := wc.nonce()
		proof := signedProof(t, message)

		status, _ := wc.do(http.MethodPost, "/web3/verify-ownership", proof)
		require.Equal(t, http.StatusOK, status)

		// with no nonce outstanding the message is accepted on signature alone
		expectWalletSaved(mock)
		status, _ = wc.do(http.MethodPost, "/web3/verify-ownership", proof)
		assert.Equal(t, http.StatusOK, status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("message without issued nonce", func(t *testing.T) {
		wc := newWeb3Client(t)
		wc.nonce()
		proof := signedProof(t, "Sign in to MintSphere")

		status, body := wc.do(http.MethodPost, "/web3/verify-ownership", proof)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Message does not contain the issued nonce", body["message"])
		assert.Equal(t, false, body["data"].(map[string]interface{})["verified"])
	})

	t.Run("bad signature", func(t *testing.T) {
		wc := newWeb3Client(t)
		proof := signedProof(t, "hello")
		proof.Message = "tampered"

		status, body := wc.do(http.MethodPost, "/web3/verify-ownership", proof)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Signature does not match wallet address", body["message"])
	})

	t.Run("invalid address", func(t *testing.T) {
		wc := newWeb3Client(t)
		status, body := wc.do(http.MethodPost, "/web3/verify-ownership", OwnershipProof{
			WalletAddress: "not-an-address",
			Signature:     "0x00",
			Message:       "hello",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid wallet address", body["message"])
	})
}

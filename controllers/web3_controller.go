package controllers

import (
	"github.com/Govind-619/MintSphere/blockchain"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
)

// GetNonce issues a one-time nonce for the wallet to sign
func GetNonce(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	nonce, err := utils.IssueSessionToken(c, utils.SessionWalletNonce)
	if err != nil {
		utils.LogError("Failed to store wallet nonce: %v", err)
		utils.InternalServerError(c, "Failed to generate nonce", nil)
		return
	}

	utils.Success(c, "Nonce generated", gin.H{
		"nonce":   nonce,
		"message": utils.WalletSignMessage(nonce),
	})
}

// VerifyWalletOwnership links a wallet to the user once it signs the message.
// A nonce issued in this session must appear in the message and is spent here.
func VerifyWalletOwnership(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var proof OwnershipProof
	if err := c.ShouldBindJSON(&proof); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	proof.normalize()
	if !proof.complete() {
		utils.BadRequest(c, "walletAddress, signature and message are required", nil)
		return
	}
	if !blockchain.IsAddress(proof.WalletAddress) {
		utils.BadRequest(c, "Invalid wallet address", nil)
		return
	}

	nonce, err := utils.TakeSessionToken(c, utils.SessionWalletNonce)
	if err != nil {
		utils.LogError("Failed to read wallet nonce for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to verify wallet", nil)
		return
	}
	if nonce != "" && !utils.MessageHasNonce(proof.Message, nonce) {
		utils.LogInfo("Wallet proof for user %d rejected: nonce mismatch", user.ID)
		notVerified(c, "Message does not contain the issued nonce")
		return
	}

	signed, err := blockchain.VerifyMessage(proof.WalletAddress, proof.Message, proof.Signature)
	if err != nil || !signed {
		utils.LogInfo("Wallet proof for user %d rejected: signature does not match %s", user.ID, proof.WalletAddress)
		notVerified(c, "Signature does not match wallet address")
		return
	}

	if err := utils.UpdateUserFields(c.Request.Context(), user.ID, map[string]interface{}{
		"wallet_address": proof.WalletAddress,
	}); err != nil {
		utils.LogError("Failed to store wallet for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to verify wallet", nil)
		return
	}
	user.WalletAddress = &proof.WalletAddress

	utils.LogInfo("User %d verified wallet %s", user.ID, proof.WalletAddress)
	utils.Success(c, "Wallet verified", gin.H{
		"verified": true,
		"user":     user.ToResponse(),
	})
}

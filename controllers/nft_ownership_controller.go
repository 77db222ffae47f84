package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Govind-619/MintSphere/blockchain"
	"github.com/Govind-619/MintSphere/config"
	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OwnershipProof is a message signed by the wallet claiming ownership
type OwnershipProof struct {
	WalletAddress string `json:"walletAddress"`
	Signature     string `json:"signature"`
	Message       string `json:"message"`
}

func (p *OwnershipProof) normalize() {
	p.WalletAddress = strings.TrimSpace(p.WalletAddress)
	p.Signature = strings.TrimSpace(p.Signature)
}

func (p *OwnershipProof) complete() bool {
	return p.WalletAddress != "" && p.Signature != "" && p.Message != ""
}

func notVerified(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, utils.StandardResponse{
		Status:  "error",
		Message: message,
		Data:    gin.H{"verified": false},
	})
}

// VerifyNFTOwnership records a wallet as verified owner of an NFT once it
// proves control of the wallet and the wallet holds the token.
func VerifyNFTOwnership(c *gin.Context) {
	nft, ok := loadNFT(c)
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

	signed, err := blockchain.VerifyMessage(proof.WalletAddress, proof.Message, proof.Signature)
	if err != nil || !signed {
		utils.LogInfo("Ownership proof for NFT %d rejected: signature does not match %s", nft.ID, proof.WalletAddress)
		notVerified(c, "Signature does not match wallet address")
		return
	}

	ctx := c.Request.Context()
	owns, err := walletOwnsNFT(ctx, nft, proof.WalletAddress)
	if err != nil {
		utils.LogError("Ownership lookup failed for NFT %d: %v", nft.ID, err)
		utils.ServiceUnavailable(c, "Failed to verify ownership on chain")
		return
	}
	if !owns {
		utils.LogInfo("Ownership proof for NFT %d rejected: %s is not the owner", nft.ID, proof.WalletAddress)
		notVerified(c, "Wallet does not own this NFT")
		return
	}

	if err := recordVerifiedOwner(ctx, nft, proof.WalletAddress, time.Now()); err != nil {
		utils.LogError("Failed to record verified owner for NFT %d: %v", nft.ID, err)
		utils.InternalServerError(c, "Failed to record ownership", nil)
		return
	}
	deps.NFTCache.Invalidate(ctx)

	utils.LogInfo("Wallet %s verified as owner of NFT %d", proof.WalletAddress, nft.ID)
	utils.Success(c, "Ownership verified", gin.H{
		"verified": true,
		"nft":      nft,
	})
}

// walletOwnsNFT asks the contract when it can, else trusts the stored owner
func walletOwnsNFT(ctx context.Context, nft *models.NFT, wallet string) (bool, error) {
	if nft.OnChain() && deps.Chain != nil {
		owner, err := deps.Chain.OwnerOf(ctx, *nft.ContractAddress, *nft.TokenID)
		if err != nil {
			return false, err
		}
		return blockchain.SameAddress(owner, wallet), nil
	}
	return nft.OwnerAddress != nil && blockchain.SameAddress(*nft.OwnerAddress, wallet), nil
}

func recordVerifiedOwner(ctx context.Context, nft *models.NFT, wallet string, now time.Time) error {
	return config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !nft.HasVerifiedOwner(wallet) {
			owner := models.VerifiedOwner{NFTID: nft.ID, Address: wallet, VerifiedAt: now}
			if err := tx.Create(&owner).Error; err != nil {
				return err
			}
			nft.VerifiedOwners = append(nft.VerifiedOwners, owner)
		}
		if err := tx.Model(&models.NFT{}).Where("id = ?", nft.ID).
			Update("verification_timestamp", now).Error; err != nil {
			return err
		}
		nft.VerificationTimestamp = &now
		return nil
	})
}

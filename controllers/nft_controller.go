package controllers

import (
	"strconv"
	"strings"

	"github.com/Govind-619/MintSphere/blockchain"
	"github.com/Govind-619/MintSphere/config"
	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// CreateNFTRequest is the admin listing body
type CreateNFTRequest struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	ImageURL        string           `json:"image_url"`
	Price           *decimal.Decimal `json:"price"`
	TokenID         string           `json:"token_id"`
	ContractAddress string           `json:"contract_address"`
	OwnerAddress    string           `json:"owner_address"`
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// loadNFT writes the 404 itself and reports whether the NFT was found
func loadNFT(c *gin.Context) (*models.NFT, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.NotFound(c, utils.ErrNFTNotFound)
		return nil, false
	}

	nft, err := utils.GetNFTByID(c.Request.Context(), id)
	if err != nil {
		if utils.IsNotFound(err) {
			utils.NotFound(c, utils.ErrNFTNotFound)
			return nil, false
		}
		utils.LogError("Failed to load NFT %d: %v", id, err)
		utils.InternalServerError(c, "Failed to fetch NFT", nil)
		return nil, false
	}
	return nft, true
}

// GetNFT returns one NFT
func GetNFT(c *gin.Context) {
	nft, ok := loadNFT(c)
	if !ok {
		return
	}
	utils.Success(c, "NFT retrieved successfully", gin.H{"nft": nft})
}

// RelatedNFTs returns NFTs from the same contract, topped up with the ones
// closest in price.
func RelatedNFTs(c *gin.Context) {
	nft, ok := loadNFT(c)
	if !ok {
		return
	}

	db := config.DB.WithContext(c.Request.Context())
	related := make([]models.NFT, 0, utils.RelatedNFTLimit)

	if nft.ContractAddress != nil && *nft.ContractAddress != "" {
		if err := db.Where("contract_address = ? AND id <> ?", *nft.ContractAddress, nft.ID).
			Order("created_at DESC").
			Limit(utils.RelatedNFTLimit).
			Find(&related).Error; err != nil {
			utils.LogError("Failed to load same-contract NFTs for %d: %v", nft.ID, err)
			utils.InternalServerError(c, "Failed to fetch related NFTs", nil)
			return
		}
	}

	if remaining := utils.RelatedNFTLimit - len(related); remaining > 0 {
		exclude := []uint{nft.ID}
		for _, r := range related {
			exclude = append(exclude, r.ID)
		}

		var closest []models.NFT
		if err := db.Where("id NOT IN ?", exclude).
			Order(clause.OrderBy{Expression: clause.Expr{
				SQL:                "ABS(price - ?), id",
				Vars:               []interface{}{nft.Price},
				WithoutParentheses: true,
			}}).
			Limit(remaining).
			Find(&closest).Error; err != nil {
			utils.LogError("Failed to load price-related NFTs for %d: %v", nft.ID, err)
			utils.InternalServerError(c, "Failed to fetch related NFTs", nil)
			return
		}
		related = append(related, closest...)
	}

	utils.Success(c, "Related NFTs retrieved successfully", gin.H{"nfts": related})
}

// CreateNFT lists a new NFT
func CreateNFT(c *gin.Context) {
	utils.LogInfo("CreateNFT called")

	var req CreateNFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	req.Name = utils.SanitizeString(req.Name)
	if req.Name == "" || req.Price == nil {
		utils.BadRequest(c, "Name and price are required", nil)
		return
	}
	if err := utils.ValidatePrice(*req.Price); err != nil {
		utils.BadRequest(c, "Invalid price", err.Error())
		return
	}
	if err := utils.ValidateStringLength(req.Name, 1, 200); err != nil {
		utils.BadRequest(c, "Invalid name", err.Error())
		return
	}
	if valid, msg := utils.ValidateXSS(req.Description); !valid {
		utils.BadRequest(c, "Invalid description", msg)
		return
	}

	var problems utils.FieldValidationErrors
	for field, addr := range map[string]string{"contract_address": req.ContractAddress, "owner_address": req.OwnerAddress} {
		if addr != "" && !blockchain.IsAddress(addr) {
			problems.Add(field, "must be a 0x-prefixed 20-byte hex address")
		}
	}
	if len(problems) > 0 {
		utils.BadRequest(c, "Invalid addresses", problems)
		return
	}

	nft := models.NFT{
		Name:            req.Name,
		Description:     utils.SanitizeString(req.Description),
		ImageURL:        strings.TrimSpace(req.ImageURL),
		Price:           *req.Price,
		TokenID:         optional(req.TokenID),
		ContractAddress: optional(req.ContractAddress),
		OwnerAddress:    optional(req.OwnerAddress),
	}
	ctx := c.Request.Context()
	if err := config.DB.WithContext(ctx).Create(&nft).Error; err != nil {
		utils.LogError("Failed to create NFT %q: %v", req.Name, err)
		utils.InternalServerError(c, "Failed to create NFT", nil)
		return
	}
	deps.NFTCache.Invalidate(ctx)

	utils.LogInfo("NFT %d created: %s", nft.ID, nft.Name)
	utils.Created(c, "NFT created successfully", gin.H{"nft": nft})
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

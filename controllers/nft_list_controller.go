package controllers

import (
	"strings"

	"github.com/Govind-619/MintSphere/config"
	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var nftSortColumns = map[string]string{
	"price": "price",
	"date":  "created_at",
	"name":  "name",
}

// NFTListQuery holds the validated filters of an NFT listing
type NFTListQuery struct {
	Pagination *utils.Pagination
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Owner      string
	Contract   string
	SortBy     string
	SortOrder  string
}

// ParseNFTListQuery validates the listing query string, collecting every problem
func ParseNFTListQuery(c *gin.Context) (*NFTListQuery, []string) {
	pagination, problems := utils.ParsePagination(c, utils.DefaultNFTPageLimit, utils.MaxNFTPageLimit)
	q := &NFTListQuery{
		Pagination: pagination,
		Owner:      strings.TrimSpace(c.Query("owner")),
		Contract:   strings.TrimSpace(c.Query("contract")),
		SortBy:     c.DefaultQuery("sortBy", "date"),
		SortOrder:  strings.ToLower(c.DefaultQuery("sortOrder", "desc")),
	}

	parsePrice := func(name string) *decimal.Decimal {
		raw, ok := c.GetQuery(name)
		if !ok || raw == "" {
			return nil
		}
		v, err := decimal.NewFromString(raw)
		if err != nil || v.IsNegative() {
			problems = append(problems, name+" must be a non-negative number")
			return nil
		}
		return &v
	}
	q.MinPrice = parsePrice("minPrice")
	q.MaxPrice = parsePrice("maxPrice")
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		problems = append(problems, "minPrice cannot be greater than maxPrice")
	}

	if _, ok := nftSortColumns[q.SortBy]; !ok {
		problems = append(problems, "sortBy must be one of: price, date, name")
	}
	if q.SortOrder != "asc" && q.SortOrder != "desc" {
		problems = append(problems, "sortOrder must be asc or desc")
	}
	return q, problems
}

// Scope applies the filters (not paging or ordering) to db
func (q *NFTListQuery) Scope(db *gorm.DB) *gorm.DB {
	if q.MinPrice != nil {
		db = db.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		db = db.Where("price <= ?", *q.MaxPrice)
	}
	if q.Owner != "" {
		db = db.Where("LOWER(owner_address) = ?", strings.ToLower(q.Owner))
	}
	if q.Contract != "" {
		db = db.Where("LOWER(contract_address) = ?", strings.ToLower(q.Contract))
	}
	return db
}

// OrderBy is the ORDER BY clause for the chosen sort
func (q *NFTListQuery) OrderBy() string {
	column, ok := nftSortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	if q.SortOrder == "asc" {
		return column + " ASC, id ASC"
	}
	return column + " DESC, id DESC"
}

// ListNFTs returns a filtered, sorted page of NFTs
func ListNFTs(c *gin.Context) {
	utils.LogDebug("ListNFTs called")

	q, problems := ParseNFTListQuery(c)
	if len(problems) > 0 {
		utils.BadRequest(c, "Invalid query parameters", problems)
		return
	}

	ctx := c.Request.Context()
	var total int64
	if err := q.Scope(config.DB.WithContext(ctx).Model(&models.NFT{})).Count(&total).Error; err != nil {
		utils.LogError("Failed to count NFTs: %v", err)
		utils.InternalServerError(c, "Failed to fetch NFTs", nil)
		return
	}

	var nfts []models.NFT
	err := q.Scope(config.DB.WithContext(ctx).Model(&models.NFT{})).
		Order(q.OrderBy()).
		Offset(q.Pagination.Offset).
		Limit(q.Pagination.Limit).
		Find(&nfts).Error
	if err != nil {
		utils.LogError("Failed to fetch NFTs: %v", err)
		utils.InternalServerError(c, "Failed to fetch NFTs", nil)
		return
	}
	if nfts == nil {
		nfts = []models.NFT{}
	}

	q.Pagination.SetTotal(total)
	utils.Success(c, "NFTs retrieved successfully", gin.H{
		"nfts":       nfts,
		"pagination": q.Pagination.Meta(),
	})
}

// SearchNFTs matches name or description case-insensitively
func SearchNFTs(c *gin.Context) {
	utils.LogDebug("SearchNFTs called")

	pagination := utils.NewPagination(c, utils.DefaultNFTPageLimit, utils.MaxNFTPageLimit)
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		utils.Success(c, "NFTs retrieved successfully", gin.H{
			"nfts":       []models.NFT{},
			"pagination": pagination.Meta(),
		})
		return
	}

	pattern := "%" + escapeLike(query) + "%"
	match := func() *gorm.DB {
		return config.DB.WithContext(c.Request.Context()).
			Model(&models.NFT{}).
			Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := match().Count(&total).Error; err != nil {
		utils.LogError("NFT search count failed for %q: %v", query, err)
		utils.InternalServerError(c, "Search failed", nil)
		return
	}

	var nfts []models.NFT
	if err := match().Order("created_at DESC").Offset(pagination.Offset).Limit(pagination.Limit).Find(&nfts).Error; err != nil {
		utils.LogError("NFT search failed for %q: %v", query, err)
		utils.InternalServerError(c, "Search failed", nil)
		return
	}
	if nfts == nil {
		nfts = []models.NFT{}
	}

	pagination.SetTotal(total)
	utils.Success(c, "NFTs retrieved successfully", gin.H{
		"nfts":       nfts,
		"pagination": pagination.Meta(),
	})
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

package main

import (
	"errors"
	"fmt"

	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is a login the seed makes sure exists
type Account struct {
	Email    string
	Password string
	Role     string
}

func strPtr(s string) *string { return &s }

// SampleNFTs is the catalogue loaded into an empty marketplace
func SampleNFTs() []models.NFT {
	return []models.NFT{
		{Name: "Genesis Orb #1", Description: "First orb minted on MintSphere", ImageURL: "https://picsum.photos/seed/orb1/600", Price: decimal.RequireFromString("0.25")},
		{Name: "Genesis Orb #2", Description: "A deep blue orb", ImageURL: "https://picsum.photos/seed/orb2/600", Price: decimal.RequireFromString("0.3")},
		{Name: "Pixel Fox", Description: "8-bit fox in the snow", ImageURL: "https://picsum.photos/seed/fox/600", Price: decimal.RequireFromString("0.08")},
		{Name: "Neon Alley", Description: "Rainy city at night", ImageURL: "https://picsum.photos/seed/alley/600", Price: decimal.RequireFromString("1.2")},
		{
			Name:            "Bored Sample #42",
			Description:     "Ownership is checked against the contract",
			ImageURL:        "https://picsum.photos/seed/ape/600",
			Price:           decimal.RequireFromString("2.5"),
			TokenID:         strPtr("42"),
			ContractAddress: strPtr("0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D"),
		},
	}
}

// EnsureAccount creates the account unless its email is already registered.
// It reports whether a row was created.
func EnsureAccount(db *gorm.DB, acct Account) (bool, error) {
	email := models.NormalizeEmail(acct.Email)
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup %s: %w", email, err)
	}

	hash, err := utils.HashPassword(acct.Password)
	if err != nil {
		return false, err
	}
	user := models.User{
		Email:        email,
		PasswordHash: &hash,
		AuthMethod:   models.AuthMethodPassword,
		Role:         acct.Role,
	}
	if err := db.Create(&user).Error; err != nil {
		return false, fmt.Errorf("create %s: %w", email, err)
	}
	return true, nil
}

// EnsureNFTs loads nfts when the catalogue is empty and returns how many were inserted
func EnsureNFTs(db *gorm.DB, nfts []models.NFT) (int, error) {
	var count int64
	if err := db.Model(&models.NFT{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 || len(nfts) == 0 {
		return 0, nil
	}
	if err := db.Create(&nfts).Error; err != nil {
		return 0, fmt.Errorf("insert sample nfts: %w", err)
	}
	return len(nfts), nil
}

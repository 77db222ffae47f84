package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NFT is a listed token
type NFT struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	Name                  string          `gorm:"not null" json:"name"`
	Description           string          `json:"description"`
	ImageURL              string          `json:"image_url"`
	Price                 decimal.Decimal `gorm:"type:numeric(36,18);not null" json:"price"`
	TokenID               *string         `json:"token_id"`
	ContractAddress       *string         `gorm:"index" json:"contract_address"`
	OwnerAddress          *string         `gorm:"index" json:"owner_address"`
	VerifiedOwners        []VerifiedOwner `gorm:"foreignKey:NFTID" json:"verified_owners"`
	VerificationTimestamp *time.Time      `json:"verification_timestamp"`
	CreatedAt             time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

func (NFT) TableName() string {
	return "nfts"
}

// VerifiedOwner records a wallet that proved ownership of an NFT
type VerifiedOwner struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	NFTID      uint      `gorm:"index;not null" json:"-"`
	Address    string    `gorm:"not null" json:"address"`
	VerifiedAt time.Time `json:"verified_at"`
}

func (VerifiedOwner) TableName() string {
	return "nft_verified_owners"
}

// HasVerifiedOwner reports whether address is already recorded, ignoring case
func (n *NFT) HasVerifiedOwner(address string) bool {
	for _, owner := range n.VerifiedOwners {
		if strings.EqualFold(owner.Address, address) {
			return true
		}
	}
	return false
}

// OnChain reports whether the NFT can be looked up on a contract
func (n *NFT) OnChain() bool {
	return n.ContractAddress != nil && *n.ContractAddress != "" &&
		n.TokenID != nil && *n.TokenID != ""
}

package utils

import (
	"context"
	"errors"

	"github.com/Govind-619/MintSphere/config"
	"github.com/Govind-619/MintSphere/models"
	"gorm.io/gorm"
)

// IsNotFound reports whether err is gorm's missing-record error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// CreateUser creates a new user
func CreateUser(ctx context.Context, user *models.User) error {
	return config.DB.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves a user by ID
func GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := config.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by normalized email
func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := config.DB.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByPrivyID retrieves the user linked to a Privy account
func GetUserByPrivyID(ctx context.Context, privyUserID string) (*models.User, error) {
	var user models.User
	if err := config.DB.WithContext(ctx).Where("privy_user_id = ?", privyUserID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByGoogleID retrieves the user linked to a Google account
func GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var user models.User
	if err := config.DB.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserFields applies column updates to a user
func UpdateUserFields(ctx context.Context, userID uint, updates map[string]interface{}) error {
	return config.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

// GetNFTByID retrieves an NFT with its verified owners
func GetNFTByID(ctx context.Context, id uint) (*models.NFT, error) {
	var nft models.NFT
	if err := config.DB.WithContext(ctx).Preload("VerifiedOwners").First(&nft, id).Error; err != nil {
		return nil, err
	}
	return &nft, nil
}

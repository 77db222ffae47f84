package utils

// Application constants
const (
	// Application name
	AppName = "MintSphere"

	// Default pagination limit for NFT listings
	DefaultNFTPageLimit = 20

	// Maximum pagination limit for NFT listings
	MaxNFTPageLimit = 100

	// Default pagination limit for order listings
	DefaultOrderPageLimit = 10

	// Maximum pagination limit for order listings
	MaxOrderPageLimit = 100

	// Number of related NFTs returned
	RelatedNFTLimit = 4

	// Minimum password length
	MinPasswordLength = 6
)

// Error messages
const (
	ErrInvalidCredentials = "Invalid credentials"
	ErrInvalidToken       = "Invalid or expired token"
	ErrAuthRequired       = "Access token required"
	ErrAdminRequired      = "Admin access required"
	ErrNFTNotFound        = "NFT not found"
	ErrOrderNotFound      = "Order not found"
	ErrCartItemNotFound   = "Cart item not found"
	ErrInternalServer     = "Internal server error"
)

// Success messages
const (
	MsgLoginSuccess    = "Login successful"
	MsgRegisterSuccess = "Registration successful"
)

// Session keys
const (
	SessionWalletNonce = "wallet_nonce"
	SessionOAuthState  = "oauth_state"
)

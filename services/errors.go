package services

import "errors"

var (
	// ErrCartEmpty is returned when an order is requested from an empty cart
	ErrCartEmpty = errors.New("cart is empty")
	// ErrOrderNotFound is returned when the order does not exist or belongs to someone else
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidStatus is returned for an order status outside the allowed set
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidTxStatus is returned for a transaction status outside the allowed set
	ErrInvalidTxStatus = errors.New("invalid transaction status")
	// ErrInvalidTxHash is returned for a transaction hash that is not 32 hex bytes
	ErrInvalidTxHash = errors.New("invalid transaction hash")
	// ErrChainUnavailable is returned when no JSON-RPC provider is configured
	ErrChainUnavailable = errors.New("blockchain provider not configured")
	// ErrMissingTxHash is returned when monitoring is requested without a hash
	ErrMissingTxHash = errors.New("transaction hash is required")
	// ErrOrderSettled is returned when monitoring is requested for an order in a terminal state
	ErrOrderSettled = errors.New("order is already settled")
)

// Package blockchain reads transaction and token state from an Ethereum JSON-RPC node.
package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Backend is the subset of ethclient.Client the marketplace uses
type Backend interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	BlockNumber(ctx context.Context) (uint64, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	Close()
}

// Receipt is a mined transaction's outcome and depth
type Receipt struct {
	TxHash        string
	Success       bool
	BlockNumber   uint64
	Confirmations uint64
}

// Client wraps a Backend
type Client struct {
	backend Backend
}

// Dial connects to the JSON-RPC endpoint at url
func Dial(ctx context.Context, url string) (*Client, error) {
	ec, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewClient(ec), nil
}

// NewClient wraps an existing backend
func NewClient(backend Backend) *Client {
	return &Client{backend: backend}
}

// Close releases the underlying connection
func (c *Client) Close() {
	c.backend.Close()
}

// TransactionReceipt returns nil and no error while the transaction is unmined.
// Confirmations counts the receipt's own block, so a receipt in the head block has one.
func (c *Client) TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error) {
	hash := common.HexToHash(txHash)

	r, err := c.backend.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get receipt %s: %w", txHash, err)
	}

	head, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("get block number: %w", err)
	}

	var blockNumber uint64
	if r.BlockNumber != nil {
		blockNumber = r.BlockNumber.Uint64()
	}

	return &Receipt{
		TxHash:        txHash,
		Success:       r.Status == types.ReceiptStatusSuccessful,
		BlockNumber:   blockNumber,
		Confirmations: confirmations(head, blockNumber),
	}, nil
}

// TransactionExists reports whether the node knows the transaction, pending or mined
func (c *Client) TransactionExists(ctx context.Context, txHash string) (bool, error) {
	_, _, err := c.backend.TransactionByHash(ctx, common.HexToHash(txHash))
	if errors.Is(err, ethereum.NotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get transaction %s: %w", txHash, err)
	}
	return true, nil
}

func confirmations(head, block uint64) uint64 {
	if head < block {
		return 0
	}
	return head - block + 1
}

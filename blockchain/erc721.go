package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const erc721OwnerOfABI = `[{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"owner","type":"address"}],"stateMutability":"view","type":"function"}]`

var erc721ABI = mustParseABI(erc721OwnerOfABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// OwnerOf calls ownerOf(tokenID) on an ERC-721 contract at the latest block.
// tokenID accepts decimal or 0x-prefixed hex.
func (c *Client) OwnerOf(ctx context.Context, contract, tokenID string) (string, error) {
	if !IsAddress(contract) {
		return "", fmt.Errorf("invalid contract address %q", contract)
	}

	id, ok := parseTokenID(tokenID)
	if !ok {
		return "", fmt.Errorf("invalid token id %q", tokenID)
	}

	input, err := erc721ABI.Pack("ownerOf", id)
	if err != nil {
		return "", fmt.Errorf("pack ownerOf: %w", err)
	}

	to := common.HexToAddress(contract)
	out, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: input}, nil)
	if err != nil {
		return "", fmt.Errorf("call ownerOf: %w", err)
	}

	values, err := erc721ABI.Unpack("ownerOf", out)
	if err != nil {
		return "", fmt.Errorf("unpack ownerOf: %w", err)
	}
	if len(values) != 1 {
		return "", fmt.Errorf("unexpected ownerOf output length %d", len(values))
	}
	owner, ok := values[0].(common.Address)
	if !ok {
		return "", fmt.Errorf("unexpected ownerOf output type %T", values[0])
	}
	return owner.Hex(), nil
}

func parseTokenID(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	id, ok := new(big.Int).SetString(s, 0)
	if !ok || id.Sign() < 0 {
		return nil, false
	}
	return id, true
}

// Package approval decides which token approvals an owner is missing for an
// operator and builds the approval calls that would grant them.
package approval

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const seaportV15 = "0x00000000000000ADc04C56Bf30aC9d3c0aAF14dC"

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ErrNativeCurrencyApproval is returned when a native currency record is
// asked for an approval action. Native transfers carry their value and have
// nothing to approve.
var ErrNativeCurrencyApproval = errors.New("native currency cannot be approved")

// SeaportV15Address is the cross-chain Seaport 1.5 deployment.
func SeaportV15Address() common.Address {
	return common.HexToAddress(seaportV15)
}

// MaxInt returns 2^256-1, which stands for an unlimited approval. Each call
// returns a new value.
func MaxInt() *big.Int {
	return new(big.Int).Set(maxUint256)
}

// ChainReader is the read-only view of token contracts the oracle needs.
type ChainReader interface {
	IsApprovedForAll(ctx context.Context, token, owner, operator common.Address) (bool, error)
	GetApproved(ctx context.Context, token common.Address, tokenID *big.Int) (common.Address, error)
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
}

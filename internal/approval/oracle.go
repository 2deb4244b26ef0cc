package approval

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"approval-service/internal/modal"
)

// Oracle reports the effective approved quantity of an item for an operator.
// Reader errors are returned as is.
type Oracle struct {
	Reader ChainReader
	// CanonicalOperator is accepted as a single-token ERC721 approval.
	CanonicalOperator common.Address
}

func NewOracle(reader ChainReader) *Oracle {
	return &Oracle{Reader: reader, CanonicalOperator: SeaportV15Address()}
}

// ApprovedAmount returns MaxInt for approved tokens and native currency, zero
// for unapproved tokens and the raw allowance for ERC20 items.
func (o *Oracle) ApprovedAmount(ctx context.Context, owner common.Address, item modal.Item, operator common.Address) (*big.Int, error) {
	kind, err := item.ItemType.Kind()
	if err != nil {
		return nil, err
	}

	switch kind {
	case modal.ApprovalPerToken, modal.ApprovalOperatorOnly:
		approvedForAll, err := o.Reader.IsApprovedForAll(ctx, item.Token, owner, operator)
		if err != nil {
			return nil, err
		}
		if approvedForAll {
			return MaxInt(), nil
		}
		if kind == modal.ApprovalOperatorOnly {
			return new(big.Int), nil
		}

		approved, err := o.Reader.GetApproved(ctx, item.Token, cloneInt(item.IdentifierOrCriteria))
		if err != nil {
			return nil, err
		}
		if approved == o.CanonicalOperator {
			return MaxInt(), nil
		}
		return new(big.Int), nil

	case modal.ApprovalAllowance:
		return o.Reader.Allowance(ctx, item.Token, owner, operator)

	default:
		return MaxInt(), nil
	}
}

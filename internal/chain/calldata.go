package chain

import (
	"errors"
	"fmt"

	"approval-service/internal/modal"
)

var ErrEmptyInvocation = errors.New("invocation has no call")

// EncodeInvocation ABI-encodes the call an approval action describes, ready to
// be used as transaction data by whoever signs it.
func EncodeInvocation(inv modal.Invocation) ([]byte, error) {
	var data []byte
	var err error

	switch {
	case inv.Approve != nil:
		data, err = ERC721ABI.Pack(modal.MethodApprove, inv.Approve.Operator, inv.Approve.TokenID)
	case inv.SetApprovalForAll != nil:
		data, err = ERC721ABI.Pack(modal.MethodSetApprovalForAll, inv.SetApprovalForAll.Operator, inv.SetApprovalForAll.Approved)
	case inv.Allowance != nil:
		data, err = ERC20ABI.Pack(modal.MethodApprove, inv.Allowance.Spender, inv.Allowance.Amount)
	default:
		return nil, ErrEmptyInvocation
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", inv.Method(), err)
	}
	return data, nil
}

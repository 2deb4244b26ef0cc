package modal

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const ActionTypeApproval = "approval"

const (
	MethodApprove           = "approve"
	MethodSetApprovalForAll = "setApprovalForAll"
)

// TokenApproval is ERC721 approve(operator, tokenId).
type TokenApproval struct {
	Operator common.Address `json:"operator"`
	TokenID  *big.Int       `json:"tokenId"`
}

// OperatorApproval is setApprovalForAll(operator, approved).
type OperatorApproval struct {
	Operator common.Address `json:"operator"`
	Approved bool           `json:"approved"`
}

// AllowanceApproval is ERC20 approve(spender, amount).
type AllowanceApproval struct {
	Spender common.Address `json:"spender"`
	Amount  *big.Int       `json:"amount"`
}

// Invocation is a contract call that has not been signed or sent. Exactly one
// of Approve, SetApprovalForAll and Allowance is set.
type Invocation struct {
	Contract common.Address `json:"contract"`
	From     common.Address `json:"from"`

	Approve           *TokenApproval     `json:"approve,omitempty"`
	SetApprovalForAll *OperatorApproval  `json:"setApprovalForAll,omitempty"`
	Allowance         *AllowanceApproval `json:"allowance,omitempty"`
}

// Method returns the contract method name, or "" for an empty invocation.
func (i Invocation) Method() string {
	switch {
	case i.Approve != nil, i.Allowance != nil:
		return MethodApprove
	case i.SetApprovalForAll != nil:
		return MethodSetApprovalForAll
	default:
		return ""
	}
}

// Args returns the call arguments in ABI order.
func (i Invocation) Args() []any {
	switch {
	case i.Approve != nil:
		return []any{i.Approve.Operator, i.Approve.TokenID}
	case i.Allowance != nil:
		return []any{i.Allowance.Spender, i.Allowance.Amount}
	case i.SetApprovalForAll != nil:
		return []any{i.SetApprovalForAll.Operator, i.SetApprovalForAll.Approved}
	default:
		return nil
	}
}

type ApprovalAction struct {
	Type                 string         `json:"type"`
	Token                common.Address `json:"token"`
	IdentifierOrCriteria *big.Int       `json:"identifierOrCriteria"`
	ItemType             ItemType       `json:"itemType"`
	Operator             common.Address `json:"operator"`
	Invocation           Invocation     `json:"invocation"`
}

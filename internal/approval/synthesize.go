package approval

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"approval-service/internal/modal"
)

type approvalKey struct {
	token common.Address
	id    string
}

func keyOf(a modal.InsufficientApproval) approvalKey {
	return approvalKey{token: a.Token, id: cloneInt(a.IdentifierOrCriteria).String()}
}

// dedupe keeps the last record for each (token, identifier), ordered by the
// first time the pair was seen.
func dedupe(approvals []modal.InsufficientApproval) []modal.InsufficientApproval {
	index := make(map[approvalKey]int, len(approvals))
	kept := make([]modal.InsufficientApproval, 0, len(approvals))
	for _, a := range approvals {
		k := keyOf(a)
		if i, ok := index[k]; ok {
			kept[i] = a
			continue
		}
		index[k] = len(kept)
		kept = append(kept, a)
	}
	return kept
}

// GetApprovalActions builds one approval action per distinct (token,
// identifier) in insufficient. With exactApproval, ERC721 items get a
// single-token approve and ERC20 items get exactly the required allowance;
// otherwise both get unlimited grants. ERC1155 items always get
// setApprovalForAll. signer is recorded as the sender of every invocation.
func GetApprovalActions(insufficient []modal.InsufficientApproval, exactApproval bool, signer common.Address) ([]modal.ApprovalAction, error) {
	kept := dedupe(insufficient)
	actions := make([]modal.ApprovalAction, 0, len(kept))

	for _, a := range kept {
		kind, err := a.ItemType.Kind()
		if err != nil {
			return nil, err
		}

		inv := modal.Invocation{Contract: a.Token, From: signer}
		switch kind {
		case modal.ApprovalPerToken, modal.ApprovalOperatorOnly:
			if exactApproval && kind == modal.ApprovalPerToken {
				inv.Approve = &modal.TokenApproval{Operator: a.Operator, TokenID: cloneInt(a.IdentifierOrCriteria)}
			} else {
				inv.SetApprovalForAll = &modal.OperatorApproval{Operator: a.Operator, Approved: true}
			}
		case modal.ApprovalAllowance:
			amount := MaxInt()
			if exactApproval {
				amount = cloneInt(a.RequiredApprovedAmount)
			}
			inv.Allowance = &modal.AllowanceApproval{Spender: a.Operator, Amount: amount}
		case modal.ApprovalNone:
			return nil, fmt.Errorf("%w: token %s", ErrNativeCurrencyApproval, a.Token.Hex())
		}

		actions = append(actions, modal.ApprovalAction{
			Type:                 modal.ActionTypeApproval,
			Token:                a.Token,
			IdentifierOrCriteria: cloneInt(a.IdentifierOrCriteria),
			ItemType:             a.ItemType,
			Operator:             a.Operator,
			Invocation:           inv,
		})
	}

	return actions, nil
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

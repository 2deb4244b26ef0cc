package modal

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Item references a transferable asset. Token is the zero address for native
// currency; IdentifierOrCriteria is ignored for fungible and native items.
type Item struct {
	ItemType             ItemType       `json:"itemType" yaml:"itemType"`
	Token                common.Address `json:"token" yaml:"token"`
	IdentifierOrCriteria *big.Int       `json:"identifierOrCriteria" yaml:"identifierOrCriteria"`
}

// Requirement is an amount of an item the operator must be able to move.
type Requirement struct {
	Item     Item           `json:"item"`
	Operator common.Address `json:"operator"`
	Amount   *big.Int       `json:"amount"`
}

// InsufficientApproval is one under-approved (token, identifier, operator).
type InsufficientApproval struct {
	Token                  common.Address `json:"token"`
	Operator               common.Address `json:"operator"`
	ItemType               ItemType       `json:"itemType"`
	IdentifierOrCriteria   *big.Int       `json:"identifierOrCriteria"`
	RequiredApprovedAmount *big.Int       `json:"requiredApprovedAmount"`
	ApprovedAmount         *big.Int       `json:"approvedAmount"`
}

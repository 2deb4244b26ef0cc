package modal

import "fmt"

// ItemType follows Seaport's item type numbering.
type ItemType int

const (
	ItemNative ItemType = iota
	ItemERC20
	ItemERC721
	ItemERC1155
	ItemERC721WithCriteria
	ItemERC1155WithCriteria
)

// ApprovalKind is how an item type is approved on chain.
type ApprovalKind int

const (
	// ApprovalNone: native currency moves with the transaction value.
	ApprovalNone ApprovalKind = iota
	// ApprovalAllowance: ERC20 allowance quantity.
	ApprovalAllowance
	// ApprovalPerToken: ERC721, blanket operator approval or a single token id.
	ApprovalPerToken
	// ApprovalOperatorOnly: ERC1155, blanket operator approval only.
	ApprovalOperatorOnly
)

// Kind maps every item type to its approval mechanism. Callers switch on the
// result, so a new item type only needs a new case here.
func (t ItemType) Kind() (ApprovalKind, error) {
	switch t {
	case ItemNative:
		return ApprovalNone, nil
	case ItemERC20:
		return ApprovalAllowance, nil
	case ItemERC721, ItemERC721WithCriteria:
		return ApprovalPerToken, nil
	case ItemERC1155, ItemERC1155WithCriteria:
		return ApprovalOperatorOnly, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownItemType, int(t))
	}
}

func (t ItemType) String() string {
	switch t {
	case ItemNative:
		return "NATIVE"
	case ItemERC20:
		return "ERC20"
	case ItemERC721:
		return "ERC721"
	case ItemERC1155:
		return "ERC1155"
	case ItemERC721WithCriteria:
		return "ERC721_WITH_CRITERIA"
	case ItemERC1155WithCriteria:
		return "ERC1155_WITH_CRITERIA"
	default:
		return fmt.Sprintf("ItemType(%d)", int(t))
	}
}

// ParseItemType accepts the names returned by String.
func ParseItemType(s string) (ItemType, error) {
	for t := ItemNative; t <= ItemERC1155WithCriteria; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownItemType, s)
}

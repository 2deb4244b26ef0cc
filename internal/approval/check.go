package approval

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"approval-service/internal/modal"
)

type requirementKey struct {
	token    common.Address
	id       string
	operator common.Address
}

// GroupRequirements sums required amounts per (token, identifier, operator)
// in first-seen order, keeping groups for the same (token, identifier)
// adjacent. Native currency needs no approval and is dropped.
func GroupRequirements(reqs []modal.Requirement) ([]modal.Requirement, error) {
	index := make(map[requirementKey]int, len(reqs))
	rank := make(map[approvalKey]int, len(reqs))
	groups := make([]modal.Requirement, 0, len(reqs))

	for _, r := range reqs {
		kind, err := r.Item.ItemType.Kind()
		if err != nil {
			return nil, err
		}
		if kind == modal.ApprovalNone {
			continue
		}

		id := cloneInt(r.Item.IdentifierOrCriteria)
		k := requirementKey{token: r.Item.Token, id: id.String(), operator: r.Operator}
		if i, ok := index[k]; ok {
			groups[i].Amount.Add(groups[i].Amount, cloneInt(r.Amount))
			continue
		}

		pair := approvalKey{token: r.Item.Token, id: k.id}
		if _, ok := rank[pair]; !ok {
			rank[pair] = len(rank)
		}
		index[k] = len(groups)
		groups = append(groups, modal.Requirement{
			Item:     modal.Item{ItemType: r.Item.ItemType, Token: r.Item.Token, IdentifierOrCriteria: id},
			Operator: r.Operator,
			Amount:   cloneInt(r.Amount),
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return rank[pairOf(groups[i].Item)] < rank[pairOf(groups[j].Item)]
	})
	return groups, nil
}

func pairOf(item modal.Item) approvalKey {
	return approvalKey{token: item.Token, id: cloneInt(item.IdentifierOrCriteria).String()}
}

// FindInsufficient pairs each group with its approved amount and keeps the
// groups whose approval is below the requirement.
func FindInsufficient(groups []modal.Requirement, approved []*big.Int) ([]modal.InsufficientApproval, error) {
	if len(groups) != len(approved) {
		return nil, fmt.Errorf("have %d approved amounts for %d requirements", len(approved), len(groups))
	}

	var out []modal.InsufficientApproval
	for i, g := range groups {
		current := cloneInt(approved[i])
		if current.Cmp(g.Amount) >= 0 {
			continue
		}
		out = append(out, modal.InsufficientApproval{
			Token:                  g.Item.Token,
			Operator:               g.Operator,
			ItemType:               g.Item.ItemType,
			IdentifierOrCriteria:   cloneInt(g.Item.IdentifierOrCriteria),
			RequiredApprovedAmount: cloneInt(g.Amount),
			ApprovedAmount:         current,
		})
	}
	return out, nil
}

package activities

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.temporal.io/sdk/activity"

	"approval-service/internal/approval"
	"approval-service/internal/modal"
)

// AmountQuery asks for the approved amount of one item for one operator.
type AmountQuery struct {
	Owner    common.Address `json:"owner"`
	Item     modal.Item     `json:"item"`
	Operator common.Address `json:"operator"`
}

type Activities struct {
	Oracle *approval.Oracle
}

// ApprovedAmount reads the chain once per call. Read failures are returned
// unchanged; retries are left to the activity retry policy.
func (a *Activities) ApprovedAmount(ctx context.Context, q AmountQuery) (*big.Int, error) {
	logger := activity.GetLogger(ctx)

	amount, err := a.Oracle.ApprovedAmount(ctx, q.Owner, q.Item, q.Operator)
	if err != nil {
		logger.Warn("approval read failed", "token", q.Item.Token.Hex(), "itemType", q.Item.ItemType.String(), "error", err)
		return nil, err
	}

	logger.Debug("approval read", "token", q.Item.Token.Hex(), "itemType", q.Item.ItemType.String(), "amount", amount.String())
	return amount, nil
}

package approval

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"approval-service/internal/modal"
)

var signer = common.HexToAddress("0x3333333333333333333333333333333333333333")

func insufficient(typ modal.ItemType, token common.Address, id, required int64) modal.InsufficientApproval {
	return modal.InsufficientApproval{
		Token:                  token,
		Operator:               operator,
		ItemType:               typ,
		IdentifierOrCriteria:   big.NewInt(id),
		RequiredApprovedAmount: big.NewInt(required),
		ApprovedAmount:         big.NewInt(0),
	}
}

func TestGetApprovalActions_KeepsLastOfEachPair(t *testing.T) {
	first := insufficient(modal.ItemERC721, tokenA, 5, 1)
	second := insufficient(modal.ItemERC721, tokenA, 5, 1)
	second.Operator = common.HexToAddress("0x4444444444444444444444444444444444444444")
	third := insufficient(modal.ItemERC721, tokenB, 7, 1)

	actions, err := GetApprovalActions([]modal.InsufficientApproval{first, second, third}, false, signer)
	require.NoError(t, err)
	require.Len(t, actions, 2)

	assert.Equal(t, tokenA, actions[0].Token)
	assert.Equal(t, second.Operator, actions[0].Operator)
	assert.Equal(t, second.Operator, actions[0].Invocation.SetApprovalForAll.Operator)
	assert.Equal(t, tokenB, actions[1].Token)
	assert.Equal(t, int64(7), actions[1].IdentifierOrCriteria.Int64())
}

func TestGetApprovalActions_ToleratesUngroupedInput(t *testing.T) {
	in := []modal.InsufficientApproval{
		insufficient(modal.ItemERC20, tokenA, 0, 10),
		insufficient(modal.ItemERC20, tokenB, 0, 20),
		insufficient(modal.ItemERC20, tokenA, 0, 30),
	}

	actions, err := GetApprovalActions(in, true, signer)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, tokenA, actions[0].Token)
	assert.Equal(t, int64(30), actions[0].Invocation.Allowance.Amount.Int64())
	assert.Equal(t, tokenB, actions[1].Token)
}

func TestGetApprovalActions_ERC721(t *testing.T) {
	in := []modal.InsufficientApproval{insufficient(modal.ItemERC721, tokenA, 5, 1)}

	exact, err := GetApprovalActions(in, true, signer)
	require.NoError(t, err)
	require.Len(t, exact, 1)
	inv := exact[0].Invocation
	assert.Equal(t, modal.MethodApprove, inv.Method())
	assert.Equal(t, []any{operator, big.NewInt(5)}, inv.Args())
	assert.Equal(t, tokenA, inv.Contract)
	assert.Equal(t, signer, inv.From)

	blanket, err := GetApprovalActions(in, false, signer)
	require.NoError(t, err)
	require.Len(t, blanket, 1)
	assert.Equal(t, modal.MethodSetApprovalForAll, blanket[0].Invocation.Method())
	assert.Equal(t, []any{operator, true}, blanket[0].Invocation.Args())
}

func TestGetApprovalActions_ERC1155IgnoresExactApproval(t *testing.T) {
	for _, typ := range []modal.ItemType{modal.ItemERC1155, modal.ItemERC1155WithCriteria} {
		for _, exact := range []bool{true, false} {
			actions, err := GetApprovalActions([]modal.InsufficientApproval{insufficient(typ, tokenA, 3, 4)}, exact, signer)
			require.NoError(t, err)
			require.Len(t, actions, 1)
			assert.Equal(t, modal.MethodSetApprovalForAll, actions[0].Invocation.Method())
			assert.Equal(t, []any{operator, true}, actions[0].Invocation.Args())
		}
	}
}

func TestGetApprovalActions_ERC20(t *testing.T) {
	in := []modal.InsufficientApproval{insufficient(modal.ItemERC20, tokenA, 0, 1000)}

	exact, err := GetApprovalActions(in, true, signer)
	require.NoError(t, err)
	assert.Equal(t, modal.MethodApprove, exact[0].Invocation.Method())
	assert.Equal(t, []any{operator, big.NewInt(1000)}, exact[0].Invocation.Args())

	unlimited, err := GetApprovalActions(in, false, signer)
	require.NoError(t, err)
	assert.Equal(t, []any{operator, MaxInt()}, unlimited[0].Invocation.Args())
}

func TestGetApprovalActions_RejectsNativeCurrency(t *testing.T) {
	_, err := GetApprovalActions([]modal.InsufficientApproval{insufficient(modal.ItemNative, common.Address{}, 0, 1)}, false, signer)
	assert.ErrorIs(t, err, ErrNativeCurrencyApproval)
}

func TestGetApprovalActions_Empty(t *testing.T) {
	actions, err := GetApprovalActions(nil, true, signer)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestGetApprovalActions_Idempotent(t *testing.T) {
	in := []modal.InsufficientApproval{
		insufficient(modal.ItemERC721, tokenA, 5, 1),
		insufficient(modal.ItemERC721, tokenA, 5, 1),
		insufficient(modal.ItemERC1155, tokenB, 7, 2),
		insufficient(modal.ItemERC20, tokenA, 0, 1000),
	}

	for _, exact := range []bool{true, false} {
		first, err := GetApprovalActions(in, exact, signer)
		require.NoError(t, err)

		again, err := GetApprovalActions(recordsFrom(first, in), exact, signer)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// recordsFrom rebuilds the insufficiency records behind a set of actions.
func recordsFrom(actions []modal.ApprovalAction, source []modal.InsufficientApproval) []modal.InsufficientApproval {
	required := map[approvalKey]*big.Int{}
	for _, s := range source {
		required[keyOf(s)] = s.RequiredApprovedAmount
	}

	out := make([]modal.InsufficientApproval, 0, len(actions))
	for _, a := range actions {
		r := modal.InsufficientApproval{
			Token:                a.Token,
			Operator:             a.Operator,
			ItemType:             a.ItemType,
			IdentifierOrCriteria: a.IdentifierOrCriteria,
		}
		r.RequiredApprovedAmount = required[keyOf(r)]
		out = append(out, r)
	}
	return out
}

package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"approval-service/internal/approval"
)

// Reader answers approval queries with eth_call against the latest block.
type Reader struct {
	caller ethereum.ContractCaller
}

var _ approval.ChainReader = (*Reader)(nil)

func NewReader(caller ethereum.ContractCaller) *Reader {
	return &Reader{caller: caller}
}

// Dial connects a Reader to a JSON-RPC endpoint. The returned close func
// releases the connection.
func Dial(ctx context.Context, rpcURL string) (*Reader, func(), error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	return NewReader(client), client.Close, nil
}

func (r *Reader) IsApprovedForAll(ctx context.Context, token, owner, operator common.Address) (bool, error) {
	out, err := r.call(ctx, ERC721ABI, token, "isApprovedForAll", owner, operator)
	if err != nil {
		return false, err
	}
	approved, ok := out[0].(bool)
	if !ok {
		return false, unexpected("isApprovedForAll", out[0])
	}
	return approved, nil
}

func (r *Reader) GetApproved(ctx context.Context, token common.Address, tokenID *big.Int) (common.Address, error) {
	out, err := r.call(ctx, ERC721ABI, token, "getApproved", tokenID)
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, unexpected("getApproved", out[0])
	}
	return addr, nil
}

func (r *Reader) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	out, err := r.call(ctx, ERC20ABI, token, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	amount, ok := out[0].(*big.Int)
	if !ok {
		return nil, unexpected("allowance", out[0])
	}
	return amount, nil
}

func unexpected(method string, v any) error {
	return fmt.Errorf("%s returned %T", method, v)
}

func (r *Reader) call(ctx context.Context, contract abi.ABI, token common.Address, method string, args ...any) ([]any, error) {
	data, err := contract.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	raw, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", method, token.Hex(), err)
	}

	out, err := contract.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s from %s: %w", method, token.Hex(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s on %s returned no data", method, token.Hex())
	}
	return out, nil
}

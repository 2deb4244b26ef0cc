package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"approval-service/internal/modal"
)

// itemsFile is the YAML description of what an owner intends to transfer.
//
//	operator: "0x1E0049783F008A0085193E00003D00cd54003c71"
//	items:
//	  - type: ERC721
//	    token: "0x..."
//	    identifier: "5"
//	    amount: "1"
type itemsFile struct {
	Operator string     `yaml:"operator"`
	Items    []itemLine `yaml:"items"`
}

type itemLine struct {
	Type       string `yaml:"type"`
	Token      string `yaml:"token"`
	Identifier string `yaml:"identifier"`
	Amount     string `yaml:"amount"`
	// Operator overrides the file-level operator.
	Operator string `yaml:"operator"`
}

func loadRequirements(path string) ([]modal.Requirement, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}

	var f itemsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse items %s: %w", path, err)
	}
	return f.requirements()
}

func (f itemsFile) requirements() ([]modal.Requirement, error) {
	reqs := make([]modal.Requirement, 0, len(f.Items))
	for i, line := range f.Items {
		typ, err := modal.ParseItemType(line.Type)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		op := line.Operator
		if op == "" {
			op = f.Operator
		}
		if !common.IsHexAddress(op) {
			return nil, fmt.Errorf("item %d: operator %q is not an address", i, op)
		}
		if typ != modal.ItemNative && !common.IsHexAddress(line.Token) {
			return nil, fmt.Errorf("item %d: token %q is not an address", i, line.Token)
		}

		id, err := parseInt(line.Identifier, "0")
		if err != nil {
			return nil, fmt.Errorf("item %d identifier: %w", i, err)
		}
		amount, err := parseInt(line.Amount, "1")
		if err != nil {
			return nil, fmt.Errorf("item %d amount: %w", i, err)
		}

		reqs = append(reqs, modal.Requirement{
			Item:     modal.Item{ItemType: typ, Token: common.HexToAddress(line.Token), IdentifierOrCriteria: id},
			Operator: common.HexToAddress(op),
			Amount:   amount,
		})
	}
	return reqs, nil
}

func parseInt(s, fallback string) (*big.Int, error) {
	if s == "" {
		s = fallback
	}
	v, ok := new(big.Int).SetString(s, 0)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%q is not a non-negative integer", s)
	}
	return v, nil
}

package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type ChainKey string

const (
	ChainSolanaDevnet ChainKey = "solana_devnet"
	ChainBaseSepolia  ChainKey = "base_sepolia"
	ChainEthSepolia   ChainKey = "eth_sepolia"
)

// Display precision per chain.
const (
	SolanaPlaces int32 = 4
	EVMPlaces    int32 = 6
)

// Balance is a single chain reading. Amount and Unit are kept apart and only
// joined into "1.2500 SOL" form when marshalled. A Balance decoded from JSON
// keeps its original JSON token so stored history round-trips unchanged.
type Balance struct {
	Amount decimal.Decimal
	Unit   string
	Places int32

	raw   string
	token json.RawMessage
}

func NewBalance(amount decimal.Decimal, unit string, places int32) Balance {
	return Balance{Amount: amount, Unit: unit, Places: places}
}

func ZeroBalance(unit string, places int32) Balance {
	return NewBalance(decimal.Zero, unit, places)
}

func SOL(amount decimal.Decimal) Balance { return NewBalance(amount, "SOL", SolanaPlaces) }
func ETH(amount decimal.Decimal) Balance { return NewBalance(amount, "ETH", EVMPlaces) }

func (b Balance) String() string {
	if b.raw != "" {
		return b.raw
	}
	s := b.Amount.StringFixed(b.Places)
	if b.Unit == "" {
		return s
	}
	return s + " " + b.Unit
}

// Magnitude is the value shown by String: the stored text's number for a
// decoded Balance, otherwise Amount rounded to Places.
func (b Balance) Magnitude() decimal.Decimal {
	if len(b.token) > 0 {
		return b.Amount
	}
	return b.Amount.Round(b.Places)
}

func (b Balance) MarshalJSON() ([]byte, error) {
	if len(b.token) > 0 {
		return b.token, nil
	}
	return json.Marshal(b.String())
}

func (b *Balance) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case string:
		*b = ParseBalance(t)
	case nil:
		*b = Balance{Amount: decimal.Zero}
	default:
		*b = ParseBalance(string(data))
	}
	b.token = append(json.RawMessage(nil), data...)
	return nil
}

// ParseBalance recovers a magnitude from a display string such as
// "0.2500 SOL". Every character other than a digit or '.' is dropped and the
// longest numeric prefix of what remains is used; anything unreadable is 0.
func ParseBalance(s string) Balance {
	num := numericPrefix(s)
	b := Balance{Amount: decimal.Zero, raw: s}
	if num != "" {
		if d, err := decimal.NewFromString(num); err == nil {
			b.Amount = d
		}
		if i := strings.IndexByte(num, '.'); i >= 0 {
			b.Places = int32(len(num) - i - 1)
		}
	}
	if fields := strings.Fields(s); len(fields) > 1 {
		b.Unit = fields[len(fields)-1]
	}
	return b
}

func numericPrefix(s string) string {
	var sb strings.Builder
	seenDot := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
			continue
		}
		if r != '.' {
			continue
		}
		if seenDot {
			break
		}
		seenDot = true
		sb.WriteRune(r)
	}
	num := strings.TrimSuffix(sb.String(), ".")
	if strings.HasPrefix(num, ".") {
		num = "0" + num
	}
	return num
}

// Balances is the fixed set of tracked accounts.
type Balances struct {
	SolanaDevnet Balance `json:"solana_devnet"`
	BaseSepolia  Balance `json:"base_sepolia"`
	EthSepolia   Balance `json:"eth_sepolia"`
}

// Delta holds signed per-chain differences, already formatted.
type Delta struct {
	SolanaDevnet string `json:"solana_devnet"`
	BaseSepolia  string `json:"base_sepolia"`
	EthSepolia   string `json:"eth_sepolia"`
}

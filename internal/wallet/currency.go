// Package wallet holds the currency model behind the /Wallet endpoint.
package wallet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CurrencyType enumerates supported currencies.
type CurrencyType int

const (
	Dollar CurrencyType = iota
	Euro
	Yen
)

var currencyNames = []string{"Dollar", "Euro", "Yen"}

func (c CurrencyType) String() string {
	if c < 0 || int(c) >= len(currencyNames) {
		return fmt.Sprintf("CurrencyType(%d)", int(c))
	}
	return currencyNames[c]
}

// Valid reports whether c is a known currency.
func (c CurrencyType) Valid() bool {
	return c >= 0 && int(c) < len(currencyNames)
}

// MarshalJSON renders the currency by name.
func (c CurrencyType) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid currency type %d", int(c))
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a currency name (any case) or its ordinal.
func (c *CurrencyType) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		for i, known := range currencyNames {
			if strings.EqualFold(known, name) {
				*c = CurrencyType(i)
				return nil
			}
		}
		return fmt.Errorf("unknown currency type %q", name)
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("currency type must be a name or ordinal: %w", err)
	}
	if !CurrencyType(n).Valid() {
		return fmt.Errorf("unknown currency type %d", n)
	}
	*c = CurrencyType(n)
	return nil
}

// Currency is an amount in a given currency.
type Currency struct {
	CurrencyType CurrencyType `json:"currencyType"`
	Amount       float64      `json:"amount"`
}

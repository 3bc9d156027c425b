// Package model holds the domain types shared across the watcher: inventory
// results, asset amounts, and diff entries. Results live for a single poll
// cycle and are never persisted.
package model

import (
	"encoding/json"
	"fmt"
)

// NotAvailable is the sentinel for an asset missing from a result. It compares
// unequal to every present value.
const NotAvailable AssetAmount = "N/A"

// AssetAmount is an inventory value as reported by the exchange. The endpoint
// is inconsistent about encoding amounts as JSON strings or numbers, so the
// literal text is preserved and values compare verbatim.
type AssetAmount string

func (a *AssetAmount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = AssetAmount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("asset amount must be a string or number: %w", err)
	}
	*a = AssetAmount(n.String())
	return nil
}

// InventoryResult is one successful response for a (host, margin type) pair.
type InventoryResult struct {
	Host       string `json:"-"` // filled in by the client, not part of the wire shape
	MarginType string `json:"-"`

	UpdateTime *int64                 `json:"updateTime,omitempty"` // epoch, unit ambiguous (see UTCTime)
	Assets     map[string]AssetAmount `json:"assets,omitempty"`
}

// Amount returns the reported value for symbol, or NotAvailable when the
// symbol is absent from the result.
func (r *InventoryResult) Amount(symbol string) AssetAmount {
	if r == nil {
		return NotAvailable
	}
	if v, ok := r.Assets[symbol]; ok {
		return v
	}
	return NotAvailable
}

// DiffEntry records one tracked asset whose value differs between the two
// margin-type variants of the same sweep.
type DiffEntry struct {
	Asset string
	Left  AssetAmount
	Right AssetAmount
}

package billing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LineItem is a single invoice row. Amounts are plain float64s; use
// Normalize before trusting values that came from user input or storage.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"price"`
	Total       float64 `json:"total"`
}

// Normalize coerces a line item's numeric fields into a safe, displayable
// state. Quantity and unit price clamp to zero when non-finite or negative.
// A non-finite total is recomputed as quantity*price; a stored finite total
// is authoritative and only clamped to zero when negative, so user-edited
// totals that diverge from quantity*price survive a round trip.
//
// Normalize never fails: corrupted rows render as zeros instead of breaking
// the invoice view. It is idempotent.
func Normalize(item LineItem) LineItem {
	qty := clampAmount(item.Quantity)
	price := clampAmount(item.UnitPrice)

	total := item.Total
	if math.IsNaN(total) || math.IsInf(total, 0) {
		total = qty * price
	} else if total < 0 {
		total = 0
	}

	return LineItem{
		ID:          item.ID,
		Description: item.Description,
		Quantity:    qty,
		UnitPrice:   price,
		Total:       total,
	}
}

func clampAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Numeric is a lenient float64 for decoding line items out of storage.
// Stored rows predate strict typing and may carry numbers, numeric strings,
// nulls, or garbage in numeric columns; anything unusable decodes to NaN so
// Normalize can substitute a safe value downstream. Decoding never errors.
type Numeric float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*n = Numeric(math.NaN())
		return nil
	}

	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*n = Numeric(math.NaN())
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			*n = Numeric(math.NaN())
			return nil
		}
		*n = Numeric(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*n = Numeric(math.NaN())
		return nil
	}
	*n = Numeric(f)
	return nil
}

// MarshalJSON implements json.Marshaler. NaN and infinities serialize as 0
// since JSON has no representation for them.
func (n Numeric) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("0"), nil
	}
	return json.Marshal(f)
}

// StoredLineItem is the storage-side shape of a line item. Field names match
// the persisted JSON columns (price, total).
type StoredLineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    Numeric `json:"quantity"`
	UnitPrice   Numeric `json:"price"`
	Total       Numeric `json:"total"`
}

// UnmarshalJSON implements json.Unmarshaler. Numeric fields are pre-seeded
// with NaN so a key absent from the stored JSON reads as absent rather than
// as a valid zero; an absent total must recompute from quantity*price, not
// pass for an authoritative stored 0.
func (s *StoredLineItem) UnmarshalJSON(data []byte) error {
	type stored StoredLineItem
	tmp := stored{
		Quantity:  Numeric(math.NaN()),
		UnitPrice: Numeric(math.NaN()),
		Total:     Numeric(math.NaN()),
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*s = StoredLineItem(tmp)
	return nil
}

// Item converts a stored row into a normalized LineItem. Missing or invalid
// numeric fields arrive as NaN and fall through Normalize's substitution
// rules (absent total recomputes as quantity*price).
func (s StoredLineItem) Item() LineItem {
	return Normalize(LineItem{
		ID:          s.ID,
		Description: s.Description,
		Quantity:    float64(s.Quantity),
		UnitPrice:   float64(s.UnitPrice),
		Total:       float64(s.Total),
	})
}

// NormalizeStored converts and normalizes a slice of stored line items.
func NormalizeStored(stored []StoredLineItem) []LineItem {
	items := make([]LineItem, 0, len(stored))
	for _, s := range stored {
		items = append(items, s.Item())
	}
	return items
}

package billing

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   LineItem
		want LineItem
	}{
		{
			name: "already normalized item is unchanged",
			in:   LineItem{ID: "1", Description: "Service", Quantity: 2, UnitPrice: 50000, Total: 100000},
			want: LineItem{ID: "1", Description: "Service", Quantity: 2, UnitPrice: 50000, Total: 100000},
		},
		{
			name: "malformed item collapses to zeros",
			in:   LineItem{Quantity: -3, UnitPrice: math.NaN(), Total: math.NaN()},
			want: LineItem{Quantity: 0, UnitPrice: 0, Total: 0},
		},
		{
			name: "missing total recomputes from quantity and price",
			in:   LineItem{Quantity: 4, UnitPrice: 250, Total: math.NaN()},
			want: LineItem{Quantity: 4, UnitPrice: 250, Total: 1000},
		},
		{
			name: "stored total is authoritative when valid",
			in:   LineItem{Quantity: 4, UnitPrice: 250, Total: 900},
			want: LineItem{Quantity: 4, UnitPrice: 250, Total: 900},
		},
		{
			name: "zero total stays zero even when quantity and price disagree",
			in:   LineItem{Quantity: 2, UnitPrice: 100, Total: 0},
			want: LineItem{Quantity: 2, UnitPrice: 100, Total: 0},
		},
		{
			name: "negative total clamps to zero",
			in:   LineItem{Quantity: 1, UnitPrice: 100, Total: -50},
			want: LineItem{Quantity: 1, UnitPrice: 100, Total: 0},
		},
		{
			name: "negative quantity clamps before recompute",
			in:   LineItem{Quantity: -2, UnitPrice: 100, Total: math.NaN()},
			want: LineItem{Quantity: 0, UnitPrice: 100, Total: 0},
		},
		{
			name: "infinite price clamps to zero",
			in:   LineItem{Quantity: 1, UnitPrice: math.Inf(1), Total: math.Inf(1)},
			want: LineItem{Quantity: 1, UnitPrice: 0, Total: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []LineItem{
		{Quantity: 2, UnitPrice: 50000, Total: 100000},
		{Quantity: -3, UnitPrice: math.NaN(), Total: math.NaN()},
		{Quantity: 4, UnitPrice: 250, Total: math.NaN()},
		{Quantity: 1, UnitPrice: 100, Total: -50},
		{Quantity: math.Inf(-1), UnitPrice: math.Inf(1), Total: 42},
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent: %+v -> %+v -> %+v", in, once, twice)
		}
	}
}

func TestNormalize_NonNegative(t *testing.T) {
	inputs := []LineItem{
		{Quantity: -1, UnitPrice: -1, Total: -1},
		{Quantity: math.NaN(), UnitPrice: -9999, Total: math.NaN()},
		{Quantity: math.Inf(-1), UnitPrice: math.Inf(1), Total: math.Inf(-1)},
	}

	for _, in := range inputs {
		got := Normalize(in)
		if got.Quantity < 0 || got.UnitPrice < 0 || got.Total < 0 {
			t.Errorf("Normalize(%+v) produced negative field: %+v", in, got)
		}
		if math.IsNaN(got.Quantity) || math.IsNaN(got.UnitPrice) || math.IsNaN(got.Total) {
			t.Errorf("Normalize(%+v) produced NaN field: %+v", in, got)
		}
	}
}

func TestStoredLineItem_Decode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want LineItem
	}{
		{
			name: "clean row",
			raw:  `{"id":"1","description":"Web Development","quantity":10,"price":50000,"total":500000}`,
			want: LineItem{ID: "1", Description: "Web Development", Quantity: 10, UnitPrice: 50000, Total: 500000},
		},
		{
			name: "numeric strings are coerced",
			raw:  `{"id":"2","description":"Design","quantity":"5","price":"30000","total":"150000"}`,
			want: LineItem{ID: "2", Description: "Design", Quantity: 5, UnitPrice: 30000, Total: 150000},
		},
		{
			name: "absent total recomputes",
			raw:  `{"id":"3","description":"Consulting","quantity":2,"price":25000}`,
			want: LineItem{ID: "3", Description: "Consulting", Quantity: 2, UnitPrice: 25000, Total: 50000},
		},
		{
			name: "garbage values fall back to zero",
			raw:  `{"id":"4","description":"Hosting","quantity":"lots","price":null,"total":{}}`,
			want: LineItem{ID: "4", Description: "Hosting", Quantity: 0, UnitPrice: 0, Total: 0},
		},
		{
			name: "absent quantity clamps but stored total survives",
			raw:  `{"id":"5","description":"Retainer","price":1000,"total":5000}`,
			want: LineItem{ID: "5", Description: "Retainer", Quantity: 0, UnitPrice: 1000, Total: 5000},
		},
		{
			name: "row with no numeric fields collapses to zeros",
			raw:  `{"id":"6","description":"Misc"}`,
			want: LineItem{ID: "6", Description: "Misc", Quantity: 0, UnitPrice: 0, Total: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stored StoredLineItem
			if err := json.Unmarshal([]byte(tt.raw), &stored); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			got := stored.Item()
			if got != tt.want {
				t.Errorf("Item() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNumeric_MarshalRoundTrip(t *testing.T) {
	b, err := json.Marshal(Numeric(math.NaN()))
	if err != nil {
		t.Fatalf("marshal NaN: %v", err)
	}
	if string(b) != "0" {
		t.Errorf("NaN marshaled as %s, want 0", b)
	}

	b, err = json.Marshal(Numeric(1250.5))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "1250.5" {
		t.Errorf("marshaled as %s, want 1250.5", b)
	}
}

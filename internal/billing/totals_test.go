package billing

import (
	"math"
	"math/rand"
	"testing"
)

// closeEnough compares floats with a 1e-9 relative tolerance.
func closeEnough(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	return diff <= 1e-9*scale
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name            string
		items           []LineItem
		vatPercent      float64
		whtPercent      float64
		wantSubtotal    float64
		wantVAT         float64
		wantWithholding float64
		wantTotal       float64
	}{
		{
			name:         "empty invoice is all zeros",
			items:        nil,
			vatPercent:   7.5,
			whtPercent:   5,
			wantSubtotal: 0, wantVAT: 0, wantWithholding: 0, wantTotal: 0,
		},
		{
			name: "single service line with VAT and withholding",
			items: []LineItem{
				{Description: "Service", Quantity: 2, UnitPrice: 50000, Total: 100000},
			},
			vatPercent:   7.5,
			whtPercent:   5,
			wantSubtotal: 100000, wantVAT: 7500, wantWithholding: 5000, wantTotal: 102500,
		},
		{
			name: "multiple lines",
			items: []LineItem{
				{Description: "Web Development", Quantity: 10, UnitPrice: 50000, Total: 500000},
				{Description: "UI/UX Design", Quantity: 5, UnitPrice: 30000, Total: 150000},
			},
			vatPercent:   7.5,
			whtPercent:   5,
			wantSubtotal: 650000, wantVAT: 48750, wantWithholding: 32500, wantTotal: 666250,
		},
		{
			name: "zero rates",
			items: []LineItem{
				{Description: "Consulting", Quantity: 1, UnitPrice: 1000, Total: 1000},
			},
			vatPercent:   0,
			whtPercent:   0,
			wantSubtotal: 1000, wantVAT: 0, wantWithholding: 0, wantTotal: 1000,
		},
		{
			name: "negative rates pass through unclamped",
			items: []LineItem{
				{Description: "Service", Quantity: 1, UnitPrice: 1000, Total: 1000},
			},
			vatPercent:   -10,
			whtPercent:   -5,
			wantSubtotal: 1000, wantVAT: -100, wantWithholding: -50, wantTotal: 950,
		},
		{
			name: "malformed lines contribute zero",
			items: []LineItem{
				{Description: "Good", Quantity: 2, UnitPrice: 500, Total: 1000},
				{Description: "Bad", Quantity: -3, UnitPrice: math.NaN(), Total: math.NaN()},
			},
			vatPercent:   10,
			whtPercent:   0,
			wantSubtotal: 1000, wantVAT: 100, wantWithholding: 0, wantTotal: 1100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items, tt.vatPercent, tt.whtPercent)
			if !closeEnough(got.Subtotal, tt.wantSubtotal) {
				t.Errorf("Subtotal = %v, want %v", got.Subtotal, tt.wantSubtotal)
			}
			if !closeEnough(got.VATAmount, tt.wantVAT) {
				t.Errorf("VATAmount = %v, want %v", got.VATAmount, tt.wantVAT)
			}
			if !closeEnough(got.WithholdingAmount, tt.wantWithholding) {
				t.Errorf("WithholdingAmount = %v, want %v", got.WithholdingAmount, tt.wantWithholding)
			}
			if !closeEnough(got.Total, tt.wantTotal) {
				t.Errorf("Total = %v, want %v", got.Total, tt.wantTotal)
			}
		})
	}
}

func TestComputeTotals_Consistency(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		n := rng.Intn(8)
		items := make([]LineItem, n)
		for j := range items {
			items[j] = LineItem{
				Description: "line",
				Quantity:    rng.Float64() * 100,
				UnitPrice:   rng.Float64() * 100000,
				Total:       math.NaN(), // recompute from quantity*price
			}
		}
		vat := rng.Float64()*30 - 5
		wht := rng.Float64()*20 - 5

		got := ComputeTotals(items, vat, wht)
		want := got.Subtotal + got.VATAmount - got.WithholdingAmount
		if !closeEnough(got.Total, want) {
			t.Fatalf("total %v != subtotal+vat-withholding %v (vat=%v wht=%v)", got.Total, want, vat, wht)
		}
	}
}

func TestComputeTotals_OrderIndependent(t *testing.T) {
	items := []LineItem{
		{Description: "a", Quantity: 3, UnitPrice: 33333.33, Total: 99999.99},
		{Description: "b", Quantity: 7, UnitPrice: 142.857, Total: 999.999},
		{Description: "c", Quantity: 1, UnitPrice: 0.01, Total: 0.01},
		{Description: "d", Quantity: 11, UnitPrice: 909.09, Total: 9999.99},
	}
	reversed := make([]LineItem, len(items))
	for i, item := range items {
		reversed[len(items)-1-i] = item
	}

	forward := ComputeTotals(items, 7.5, 5)
	backward := ComputeTotals(reversed, 7.5, 5)

	if !closeEnough(forward.Total, backward.Total) {
		t.Errorf("summation order changed total: %v vs %v", forward.Total, backward.Total)
	}
	if !closeEnough(forward.Subtotal, backward.Subtotal) {
		t.Errorf("summation order changed subtotal: %v vs %v", forward.Subtotal, backward.Subtotal)
	}
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := []LineItem{
		{Description: "Service", Quantity: 2, UnitPrice: 50000, Total: 100000},
		{Description: "Support", Quantity: 12, UnitPrice: 1500, Total: 18000},
	}

	first := ComputeTotals(items, 7.5, 5)
	second := ComputeTotals(items, 7.5, 5)
	if first != second {
		t.Errorf("repeated calls diverged: %+v vs %+v", first, second)
	}
}

package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestIncome_NetAmount(t *testing.T) {
	tests := []struct {
		name   string
		income Income
		want   string
	}{
		{
			name: "net amount equals amount when not gross",
			income: Income{
				Amount:    dec("5000"),
				IsGross:   false,
				TaxRate:   decPtr("20"),
				OtherFees: decPtr("100"),
			},
			want: "5000.00",
		},
		{
			name: "gross with tax and fees",
			income: Income{
				Amount:    dec("5000"),
				IsGross:   true,
				TaxRate:   decPtr("20"),
				OtherFees: decPtr("100"),
			},
			// 5000 - 1000 - 100
			want: "3900.00",
		},
		{
			name: "gross with tax only",
			income: Income{
				Amount:  dec("4000"),
				IsGross: true,
				TaxRate: decPtr("27.5"),
			},
			want: "2900.00",
		},
		{
			name: "gross with fees only",
			income: Income{
				Amount:    dec("1200"),
				IsGross:   true,
				OtherFees: decPtr("150.50"),
			},
			want: "1049.50",
		},
		{
			name: "gross with neither tax nor fees",
			income: Income{
				Amount:  dec("2500"),
				IsGross: true,
			},
			want: "2500.00",
		},
		{
			name: "clamped at zero when deductions exceed gross",
			income: Income{
				Amount:    dec("100"),
				IsGross:   true,
				TaxRate:   decPtr("100"),
				OtherFees: decPtr("9999"),
			},
			want: "0.00",
		},
		{
			name: "full tax rate yields zero before fees",
			income: Income{
				Amount:  dec("3000"),
				IsGross: true,
				TaxRate: decPtr("100"),
			},
			want: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.income.NetAmount()
			if got.StringFixed(2) != tt.want {
				t.Errorf("NetAmount() = %v, want %v", got.StringFixed(2), tt.want)
			}
			if got.IsNegative() {
				t.Errorf("NetAmount() = %v, must never be negative", got)
			}
		})
	}
}

func TestExchangeRateTable_RateFor(t *testing.T) {
	table := &ExchangeRateTable{
		Base: "USD",
		Rates: map[string]decimal.Decimal{
			"EUR": dec("0.9"),
			"BRL": dec("5.2"),
		},
	}

	if rate, ok := table.RateFor("EUR"); !ok || rate.StringFixed(2) != "0.90" {
		t.Errorf("RateFor(EUR) = %v, %v; want 0.90, true", rate, ok)
	}

	// Base maps to 1 even though the map has no USD entry
	if rate, ok := table.RateFor("USD"); !ok || rate.StringFixed(2) != "1.00" {
		t.Errorf("RateFor(USD) = %v, %v; want 1.00, true", rate, ok)
	}

	if _, ok := table.RateFor("JPY"); ok {
		t.Error("RateFor(JPY) should report missing rate")
	}
}

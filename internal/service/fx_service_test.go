package service_test

import (
	"math"
	"testing"

	"github.com/syntherra/PooDough/internal/service"
)

func TestConvertWithRates(t *testing.T) {
	rates := map[string]float64{
		"EUR": 0.9,
		"GBP": 0.8,
		"JPY": 150,
	}

	cases := []struct {
		name   string
		amount float64
		from   string
		to     string
		want   float64
	}{
		{name: "same currency", amount: 42, from: "EUR", to: "EUR", want: 42},
		{name: "usd to eur", amount: 100, from: "USD", to: "EUR", want: 90},
		{name: "eur to usd", amount: 90, from: "EUR", to: "USD", want: 100},
		{name: "cross pivot", amount: 90, from: "EUR", to: "JPY", want: 15000},
		{name: "missing source falls back", amount: 7, from: "XXX", to: "USD", want: 7},
		{name: "missing target falls back", amount: 7, from: "USD", to: "XXX", want: 7},
		{name: "zero rate falls back", amount: 7, from: "ZRL", to: "USD", want: 7},
	}

	rates["ZRL"] = 0

	for _, tc := range cases {
		got := service.ConvertWithRates(rates, tc.amount, tc.from, tc.to)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestConvertWithRates_NilTable(t *testing.T) {
	if got := service.ConvertWithRates(nil, 12.5, "EUR", "USD"); got != 12.5 {
		t.Fatalf("nil table must return the raw amount, got %v", got)
	}
	if got := service.ConvertWithRates(nil, 12.5, "USD", "USD"); got != 12.5 {
		t.Fatalf("identity conversion broken, got %v", got)
	}
}

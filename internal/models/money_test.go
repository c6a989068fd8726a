package models

import (
	"encoding/json"
	"testing"
)

func TestAmountString(t *testing.T) {
	tests := []struct {
		amount Amount
		want   string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{123456, "$1,234.56"},
		{Dollars(1000000), "$1,000,000.00"},
		{-1970, "-$19.70"},
	}
	for _, tt := range tests {
		if got := tt.amount.String(); got != tt.want {
			t.Errorf("Amount(%d).String() = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestAmountConstructors(t *testing.T) {
	if Dollars(10) != 1000 {
		t.Errorf("Dollars(10) = %d, want 1000", Dollars(10))
	}
	if Cents(1970) != 1970 {
		t.Errorf("Cents(1970) = %d, want 1970", Cents(1970))
	}
	if Dollars(12).Float() != 12.0 {
		t.Errorf("Float() = %v, want 12.0", Dollars(12).Float())
	}
}

func TestAmountJSONIsRawCents(t *testing.T) {
	raw, err := json.Marshal(Cents(1970))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(raw) != "1970" {
		t.Errorf("marshaled = %s, want 1970", raw)
	}

	var a Amount
	if err := json.Unmarshal([]byte("2500"), &a); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if a != 2500 {
		t.Errorf("unmarshaled = %d, want 2500", a)
	}

	if err := json.Unmarshal([]byte(`"12.34"`), &a); err == nil {
		t.Error("fractional string accepted, want error")
	}
}

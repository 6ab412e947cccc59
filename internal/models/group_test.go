package models

import (
	"reflect"
	"testing"
)

func TestHasMember(t *testing.T) {
	g := &Group{Members: []string{"alice", "bob"}}

	if !g.HasMember("alice") {
		t.Error("HasMember(alice) = false, want true")
	}
	if g.HasMember("carol") {
		t.Error("HasMember(carol) = true, want false")
	}
}

func TestRemoveMember(t *testing.T) {
	g := &Group{Members: []string{"alice", "bob", "carol"}}

	if !g.RemoveMember("bob") {
		t.Fatal("RemoveMember(bob) = false, want true")
	}
	if want := []string{"alice", "carol"}; !reflect.DeepEqual(g.Members, want) {
		t.Errorf("Members = %v, want %v", g.Members, want)
	}
	if g.RemoveMember("bob") {
		t.Error("RemoveMember(bob) twice = true, want false")
	}
}

func TestRecomputeCurrencies(t *testing.T) {
	tests := []struct {
		name     string
		expenses []Expense
		want     []string
	}{
		{
			name: "no expenses keeps the default",
			want: []string{"USD"},
		},
		{
			name: "default first then sorted",
			expenses: []Expense{
				{Currency: "JPY"},
				{Currency: "EUR"},
				{Currency: "JPY"},
				{Currency: ""},
			},
			want: []string{"USD", "EUR", "JPY"},
		},
		{
			name: "usd expenses do not duplicate the default",
			expenses: []Expense{
				{Currency: "USD"},
				{Currency: "GBP"},
			},
			want: []string{"USD", "GBP"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Group{Expenses: tt.expenses, Currencies: []string{"stale"}}
			g.RecomputeCurrencies()
			if !reflect.DeepEqual(g.Currencies, tt.want) {
				t.Errorf("Currencies = %v, want %v", g.Currencies, tt.want)
			}
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  ab12cd "); got != "AB12CD" {
		t.Errorf("NormalizeCode = %q, want AB12CD", got)
	}
}

func TestPaidBy(t *testing.T) {
	single := PaidBy{Single: "alice"}
	if single.IsMultiple() {
		t.Error("single payer reported as multiple")
	}
	if want := []string{"alice"}; !reflect.DeepEqual(single.Payers(), want) {
		t.Errorf("Payers = %v, want %v", single.Payers(), want)
	}

	multi := PaidBy{Multiple: []PayerShare{
		{Member: "alice", Amount: 60},
		{Member: "bob", Amount: 40},
	}}
	if !multi.IsMultiple() {
		t.Error("multi payer reported as single")
	}
	if want := []string{"alice", "bob"}; !reflect.DeepEqual(multi.Payers(), want) {
		t.Errorf("Payers = %v, want %v", multi.Payers(), want)
	}
}

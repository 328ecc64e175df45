package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mizanhq/mizan/internal/domain"
)

func TestPartyApplyAndReverseEffect(t *testing.T) {
	p := &domain.Party{Balance: decimal.NewFromInt(300)}

	applied := p.ApplyEffect(decimal.NewFromInt(-200))
	if !applied.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected 100 after applying -200, got %s", applied)
	}

	reversed := p.ReverseEffect(decimal.NewFromInt(500))
	if !reversed.Equal(decimal.NewFromInt(-200)) {
		t.Fatalf("expected -200 after reversing +500, got %s", reversed)
	}
}

func TestPartyIsActive(t *testing.T) {
	active := &domain.Party{Status: domain.PartyStatusActive}
	if !active.IsActive() {
		t.Fatalf("expected active party")
	}

	inactive := &domain.Party{Status: domain.PartyStatusInactive}
	if inactive.IsActive() {
		t.Fatalf("expected inactive party")
	}
}

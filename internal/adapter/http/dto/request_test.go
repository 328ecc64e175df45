package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizanhq/mizan/internal/domain"
)

func TestCreatePartyRequest_ToUseCaseInput(t *testing.T) {
	req := &CreatePartyRequest{
		Code:           "ACME",
		Name:           "Acme Trading",
		Kind:           "customer",
		OpeningBalance: decimal.RequireFromString("150.50"),
	}

	got := req.ToUseCaseInput("admin")

	if got.Code != "ACME" || got.Name != "Acme Trading" {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.Kind != domain.PartyKindCustomer {
		t.Fatalf("expected customer kind, got %s", got.Kind)
	}
	if !got.OpeningBalance.Equal(decimal.RequireFromString("150.50")) {
		t.Fatalf("expected opening balance 150.50, got %s", got.OpeningBalance)
	}
	if got.Actor != "admin" {
		t.Fatalf("expected actor admin, got %q", got.Actor)
	}
}

func TestCreateDocumentRequest_ToUseCaseInput(t *testing.T) {
	docDate := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	req := &CreateDocumentRequest{
		PartyID:         "cust-1",
		Kind:            "sales_invoice",
		Number:          "INV-001",
		Total:           decimal.RequireFromString("500"),
		Paid:            decimal.RequireFromString("150"),
		DocDate:         &docDate,
		Notes:           "February delivery",
		ConfirmNegative: true,
	}

	got := req.ToUseCaseInput("clerk")

	if got.PartyID != "cust-1" || got.Kind != domain.DocumentKindSalesInvoice {
		t.Fatalf("unexpected input: %+v", got)
	}
	if !got.Total.Equal(decimal.RequireFromString("500")) || !got.Paid.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("unexpected amounts: total=%s paid=%s", got.Total, got.Paid)
	}
	if !got.DocDate.Equal(docDate) {
		t.Fatalf("expected doc date %v, got %v", docDate, got.DocDate)
	}
	if !got.ConfirmNegative {
		t.Fatal("expected confirmation flag to carry through")
	}
}

func TestCreateDocumentRequest_ToUseCaseInput_NoDocDate(t *testing.T) {
	req := &CreateDocumentRequest{
		PartyID: "cust-1",
		Kind:    "receipt",
		Amount:  decimal.RequireFromString("50"),
	}

	got := req.ToUseCaseInput("")

	if !got.DocDate.IsZero() {
		t.Fatalf("expected zero doc date when omitted, got %v", got.DocDate)
	}
}

func TestUpdateDocumentRequest_ToUseCaseInput(t *testing.T) {
	req := &UpdateDocumentRequest{
		PartyID: "cust-2",
		Total:   decimal.RequireFromString("800"),
	}

	got := req.ToUseCaseInput("doc-1", "clerk")

	if got.ID != "doc-1" {
		t.Fatalf("expected ID from path, got %q", got.ID)
	}
	if got.PartyID != "cust-2" {
		t.Fatalf("expected target party cust-2, got %q", got.PartyID)
	}
	if !got.Total.Equal(decimal.RequireFromString("800")) {
		t.Fatalf("expected total 800, got %s", got.Total)
	}
}

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizanhq/mizan/internal/adapter/http/dto"
	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/usecase"
)

func TestStatementTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	party := env.DB.CreateTestParty(ctx, "CUST-ST", domain.PartyKindCustomer, decimal.RequireFromString("50"))

	janDate := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	febDate := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	_, err := env.LedgerUC.CreateDocument(ctx, usecase.CreateDocumentInput{
		PartyID: party.ID,
		Kind:    domain.DocumentKindSalesInvoice,
		Total:   decimal.RequireFromString("500"),
		DocDate: janDate,
	})
	if err != nil {
		t.Fatalf("failed to create invoice: %v", err)
	}

	_, err = env.LedgerUC.CreateDocument(ctx, usecase.CreateDocumentInput{
		PartyID: party.ID,
		Kind:    domain.DocumentKindReceipt,
		Amount:  decimal.RequireFromString("200"),
		DocDate: febDate,
	})
	if err != nil {
		t.Fatalf("failed to create receipt: %v", err)
	}

	t.Run("full statement", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/parties/"+party.ID+"/statement", nil)
		env.Router.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp dto.StatementResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}

		if len(resp.Lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(resp.Lines))
		}
		if resp.TotalDebits.String() != "500" || resp.TotalCredits.String() != "200" {
			t.Fatalf("unexpected totals: debits=%s credits=%s", resp.TotalDebits, resp.TotalCredits)
		}
		if resp.Closing.String() != "350" {
			t.Fatalf("expected closing 350, got %s", resp.Closing)
		}
	})

	t.Run("date range filters on document date", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet,
			"/api/v1/parties/"+party.ID+"/statement?from=2026-02-01&to=2026-03-01", nil)
		env.Router.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp dto.StatementResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}

		if len(resp.Lines) != 1 {
			t.Fatalf("expected only the February receipt, got %d lines", len(resp.Lines))
		}
		if resp.Lines[0].Effect.String() != "-200" {
			t.Fatalf("expected effect -200, got %s", resp.Lines[0].Effect)
		}
	})
}

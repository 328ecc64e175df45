package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizanhq/mizan/internal/domain"
)

const summaryCacheKey = "reports:summary"

// PartyDrift describes a party whose stored balance disagrees with the sum
// of its document effects.
type PartyDrift struct {
	PartyID    string
	Code       string
	Kind       domain.PartyKind
	Stored     decimal.Decimal
	Computed   decimal.Decimal
	Difference decimal.Decimal
}

// LedgerSummary is the receivables/payables overview.
type LedgerSummary struct {
	Receivables   decimal.Decimal `json:"receivables"`
	Payables      decimal.Decimal `json:"payables"`
	CustomerCount int64           `json:"customer_count"`
	SupplierCount int64           `json:"supplier_count"`
	DocumentCount int64           `json:"document_count"`
}

// ConsistencyReport is the result of a ledger-wide drift check.
type ConsistencyReport struct {
	Consistent bool
	Drifts     []*PartyDrift
	CheckedAt  time.Time
}

// ReportUseCase handles ledger-wide reporting: consistency, summary and the
// action-log report.
type ReportUseCase struct {
	ledgerRepo LedgerRepository
	actionRepo ActionLogRepository
	cache      Cache
}

// NewReportUseCase creates a new ReportUseCase. cache may be nil, in which
// case the summary is computed on every call.
func NewReportUseCase(ledgerRepo LedgerRepository, actionRepo ActionLogRepository, cache Cache) *ReportUseCase {
	return &ReportUseCase{
		ledgerRepo: ledgerRepo,
		actionRepo: actionRepo,
		cache:      cache,
	}
}

// CheckConsistency compares every party's stored balance against its opening
// balance plus the sum of document effects. A non-empty drift list means the
// incremental balance diverged and the repair path should be run.
func (uc *ReportUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	drifts, err := uc.ledgerRepo.FindDrifts(ctx)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		Consistent: len(drifts) == 0,
		Drifts:     drifts,
		CheckedAt:  time.Now().UTC(),
	}, nil
}

// Summary returns the receivables/payables overview, cached briefly.
func (uc *ReportUseCase) Summary(ctx context.Context) (*LedgerSummary, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, summaryCacheKey); err == nil && data != nil {
			var cached LedgerSummary
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary, err := uc.ledgerRepo.Summary(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			_ = uc.cache.Set(ctx, summaryCacheKey, data, SummaryCacheTTL)
		}
	}

	return summary, nil
}

// ListActions lists action-log entries with filtering.
func (uc *ReportUseCase) ListActions(ctx context.Context, filter domain.ActionFilter) ([]*domain.ActionLog, error) {
	limit, offset, err := domain.ValidatePagination(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}

	filter.Limit = limit
	filter.Offset = offset

	return uc.actionRepo.List(ctx, filter)
}

package integration

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	adaptershttp "github.com/mizanhq/mizan/internal/adapter/http"
	"github.com/mizanhq/mizan/internal/adapter/http/handler"
	"github.com/mizanhq/mizan/internal/adapter/repository/postgres"
	redisrepo "github.com/mizanhq/mizan/internal/adapter/repository/redis"
	infraredis "github.com/mizanhq/mizan/internal/infrastructure/redis"
	"github.com/mizanhq/mizan/internal/usecase"
	"github.com/mizanhq/mizan/tests/testutil"
)

// testEnv wires a full HTTP stack over the test database.
type testEnv struct {
	DB       *testutil.TestDB
	Router   http.Handler
	LedgerUC *usecase.LedgerUseCase
	PartyUC  *usecase.PartyUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	partyRepo := postgres.NewPartyRepository(pool)
	docRepo := postgres.NewDocumentRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	actionRepo := postgres.NewActionLogRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(zerolog.Nop())

	partyUC := usecase.NewPartyUseCase(txManager, partyRepo, outboxRepo, actionRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, partyRepo, docRepo, outboxRepo, actionRepo, idGen)
	statementUC := usecase.NewStatementUseCase(partyRepo, docRepo)
	reportUC := usecase.NewReportUseCase(ledgerRepo, actionRepo, nil)

	redisClient := newTestRedis(t, ctx)
	idempotencyStore := redisrepo.NewIdempotencyStore(redisClient)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		PartyHandler:     handler.NewPartyHandler(partyUC, nil),
		DocumentHandler:  handler.NewDocumentHandler(ledgerUC, retrier, nil),
		StatementHandler: handler.NewStatementHandler(statementUC),
		ReportHandler:    handler.NewReportHandler(reportUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		Logger:           zerolog.Nop(),
	})

	return &testEnv{
		DB:       testDB,
		Router:   router,
		LedgerUC: ledgerUC,
		PartyUC:  partyUC,
	}
}

func newTestRedis(t *testing.T, ctx context.Context) *redis.Client {
	t.Helper()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	client, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	// Tests share a Redis; use a clean slate per run.
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}

	return client
}

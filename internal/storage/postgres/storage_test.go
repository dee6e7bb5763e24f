package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/loyaltyhub/rewardmart/internal/domain/errors"
	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func expectSchema(mock pgxmockv3.PgxPoolIface) {
	tableStatements := []string{
		"CREATE TABLE IF NOT EXISTS policies",
		"CREATE TABLE IF NOT EXISTS customers",
		"CREATE TABLE IF NOT EXISTS lots",
		"CREATE TABLE IF NOT EXISTS transactions",
	}
	for _, stmt := range tableStatements {
		mock.ExpectExec(stmt).WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	}
	indexStatements := []string{
		"CREATE INDEX IF NOT EXISTS idx_customers_merchant",
		"CREATE INDEX IF NOT EXISTS idx_lots_customer",
		"CREATE INDEX IF NOT EXISTS idx_lots_expiry",
		"CREATE INDEX IF NOT EXISTS idx_transactions_customer",
		"CREATE INDEX IF NOT EXISTS idx_transactions_merchant",
	}
	for _, stmt := range indexStatements {
		mock.ExpectExec(stmt).WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	}
}

func TestNew(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	t.Run("parse error", func(t *testing.T) {
		if _, err := New(context.Background(), ":://bad", logger); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("pool error", func(t *testing.T) {
		original := newPgxPool
		defer func() { newPgxPool = original }()
		newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
			return nil, errors.New("connect failed")
		}
		if _, err := New(context.Background(), "postgres://localhost/db", logger); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("schema initialized", func(t *testing.T) {
		mock, err := pgxmockv3.NewPool()
		if err != nil {
			t.Fatalf("failed to create mock pool: %v", err)
		}
		expectSchema(mock)

		original := newPgxPool
		defer func() { newPgxPool = original }()
		newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
			return mock, nil
		}

		storage, err := New(context.Background(), "postgres://localhost/db", logger)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if storage == nil {
			t.Fatal("expected storage")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})
}

func TestPolicyUpsert(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Policies()

	now := time.Now()
	policy := &model.RewardPolicy{
		MerchantID:        1,
		PolicyName:        "standard",
		BaseUnit:          decimal.NewFromInt(100),
		BasePointsPerUnit: 10,
		RedemptionRate:    decimal.NewFromInt(1),
		PointsExpiryDays:  365,
	}
	mock.ExpectQuery("INSERT INTO policies").
		WithArgs(int64(1), "standard", "", policy.BaseUnit, int64(10),
			[]byte("null"), []byte("null"), []byte("null"), policy.RedemptionRate,
			int64(0), 365, int64(0), []byte("null")).
		WillReturnRows(pgxmockv3.NewRows([]string{"created_at", "updated_at", "created"}).AddRow(now, now, true))
	stored, created, err := repo.Upsert(context.Background(), policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected policy to be created")
	}
	if stored.PolicyName != "standard" {
		t.Fatalf("unexpected policy: %+v", stored)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPolicyGetByMerchant(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Policies()

	t.Run("found", func(t *testing.T) {
		now := time.Now()
		rows := pgxmockv3.NewRows([]string{
			"merchant_id", "policy_name", "description", "base_unit", "base_points_per_unit",
			"category_rules", "spend_thresholds", "tier_rules", "redemption_rate",
			"min_redeem_points", "points_expiry_days", "spin_min_points", "spin_segments",
			"created_at", "updated_at",
		}).AddRow(
			int64(1), "standard", "", "100", int64(10),
			[]byte(`[{"category":"grocery","unit":"50","points_per_unit":5,"min_amount":"0","bonus_points":0}]`),
			[]byte(`[{"min_amount":"500","bonus_points":50}]`),
			[]byte(`[{"tier_name":"Gold","min_points":500,"multiplier":"1.5"}]`),
			"1", int64(0), 365, int64(0), []byte(`[]`),
			now, now,
		)
		mock.ExpectQuery("FROM policies WHERE merchant_id=").WithArgs(int64(1)).WillReturnRows(rows)

		policy, err := repo.GetByMerchant(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(policy.CategoryRules) != 1 || policy.CategoryRules[0].Category != "grocery" {
			t.Fatalf("unexpected category rules: %+v", policy.CategoryRules)
		}
		if len(policy.TierRules) != 1 || policy.TierRules[0].MinPoints != 500 {
			t.Fatalf("unexpected tier rules: %+v", policy.TierRules)
		}
		if !policy.BaseUnit.Equal(decimal.NewFromInt(100)) {
			t.Fatalf("unexpected base unit: %s", policy.BaseUnit)
		}
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("FROM policies WHERE merchant_id=").WithArgs(int64(9)).WillReturnError(pgx.ErrNoRows)
		if _, err := repo.GetByMerchant(context.Background(), 9); !errors.Is(err, domainErrors.ErrNoPolicy) {
			t.Fatalf("expected no policy error, got %v", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPolicyDelete(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Policies()

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM policies").WithArgs(int64(1)).WillReturnResult(pgxmockv3.NewResult("DELETE", 1))
		if err := repo.Delete(context.Background(), 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM policies").WithArgs(int64(9)).WillReturnResult(pgxmockv3.NewResult("DELETE", 0))
		if err := repo.Delete(context.Background(), 9); !errors.Is(err, domainErrors.ErrNoPolicy) {
			t.Fatalf("expected no policy error, got %v", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCustomerCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Customers()

	t.Run("created", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("INSERT INTO customers").
			WithArgs(int64(1), "Dana", "dana@example.com").
			WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

		acct, err := repo.Create(context.Background(), 1, "Dana", "dana@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if acct.ID != 7 || acct.MerchantID != 1 {
			t.Fatalf("unexpected account: %+v", acct)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO customers").
			WithArgs(int64(1), "Dana", "dana@example.com").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		if _, err := repo.Create(context.Background(), 1, "Dana", "dana@example.com"); !errors.Is(err, domainErrors.ErrInvalidCustomer) {
			t.Fatalf("expected invalid customer, got %v", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCustomerGetByID(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Customers()

	mock.ExpectQuery("FROM customers WHERE id=").WithArgs(int64(9)).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), 9); !errors.Is(err, domainErrors.ErrCustomerNotFound) {
		t.Fatalf("expected customer not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func customerColumns() []string {
	return []string{"id", "merchant_id", "name", "email", "tier", "points_balance", "created_at"}
}

func lotColumns() []string {
	return []string{"id", "customer_id", "amount", "earned_at", "expires_at", "consumed"}
}

func TestLedgerLoadAccount(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Ledger()

	now := time.Now()
	mock.ExpectQuery("FROM customers WHERE id=").
		WithArgs(int64(7)).
		WillReturnRows(pgxmockv3.NewRows(customerColumns()).
			AddRow(int64(7), int64(1), "Dana", "dana@example.com", nil, int64(10), now))
	mock.ExpectQuery("FROM lots WHERE customer_id=").
		WithArgs(int64(7)).
		WillReturnRows(pgxmockv3.NewRows(lotColumns()).
			AddRow(int64(1), int64(7), int64(10), now.Add(-time.Hour), now.Add(time.Hour), false))

	acct, err := repo.LoadAccount(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acct.ID != 7 || len(acct.Lots) != 1 || acct.Lots[0].Amount != 10 {
		t.Fatalf("unexpected account: %+v", acct)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLedgerMutate(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Ledger()

	now := time.Now()
	txnID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(pgxmockv3.NewRows(customerColumns()).
			AddRow(int64(7), int64(1), "Dana", "dana@example.com", nil, int64(10), now))
	mock.ExpectQuery("FROM lots WHERE customer_id=").
		WithArgs(int64(7)).
		WillReturnRows(pgxmockv3.NewRows(lotColumns()).
			AddRow(int64(1), int64(7), int64(10), now.Add(-time.Hour), now.Add(time.Hour), false))
	mock.ExpectExec("UPDATE lots SET").
		WithArgs(int64(0), true, int64(1)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO lots").
		WithArgs(int64(7), int64(25), now, now.Add(24*time.Hour), false).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE customers SET points_balance=").
		WithArgs(int64(25), (*string)(nil), int64(7)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txnID, int64(7), int64(1), decimal.NewFromInt(250), "", int64(25),
			int64(10), decimal.NewFromInt(10), decimal.NewFromInt(240), int64(25), now).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	txn, err := repo.Mutate(context.Background(), 7, func(acct *model.CustomerAccount) (*model.Transaction, error) {
		// Drain the existing lot and record a fresh one.
		acct.Lots[0].Amount = 0
		acct.Lots[0].Consumed = true
		acct.Lots = append(acct.Lots, model.PointsLot{
			CustomerID: acct.ID,
			Amount:     25,
			EarnedAt:   now,
			ExpiresAt:  now.Add(24 * time.Hour),
		})
		acct.PointsBalance = 25
		return &model.Transaction{
			ID:             txnID,
			CustomerID:     acct.ID,
			MerchantID:     1,
			Amount:         decimal.NewFromInt(250),
			EarnedPoints:   25,
			RedeemedPoints: 10,
			RedeemedAmount: decimal.NewFromInt(10),
			FinalAmount:    decimal.NewFromInt(240),
			FinalPoints:    25,
			CreatedAt:      now,
		}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn == nil || txn.EarnedPoints != 25 {
		t.Fatalf("unexpected transaction: %+v", txn)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLedgerMutateRollsBackOnError(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Ledger()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(pgxmockv3.NewRows(customerColumns()).
			AddRow(int64(7), int64(1), "Dana", "dana@example.com", nil, int64(0), now))
	mock.ExpectQuery("FROM lots WHERE customer_id=").
		WithArgs(int64(7)).
		WillReturnRows(pgxmockv3.NewRows(lotColumns()))
	mock.ExpectRollback()

	_, err := repo.Mutate(context.Background(), 7, func(acct *model.CustomerAccount) (*model.Transaction, error) {
		return nil, domainErrors.ErrInsufficientPoints
	})
	if !errors.Is(err, domainErrors.ErrInsufficientPoints) {
		t.Fatalf("expected insufficient points, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLedgerMutateUnknownCustomer(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Ledger()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(404)).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Mutate(context.Background(), 404, func(acct *model.CustomerAccount) (*model.Transaction, error) {
		t.Fatal("mutation must not run")
		return nil, nil
	})
	if !errors.Is(err, domainErrors.ErrCustomerNotFound) {
		t.Fatalf("expected customer not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLedgerExpiringByMerchant(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Ledger()

	mock.ExpectQuery("JOIN lots").
		WithArgs(int64(1), 30*24*time.Hour).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "name", "email", "sum"}).
			AddRow(int64(7), "Dana", "dana@example.com", int64(40)))

	report, err := repo.ExpiringByMerchant(context.Background(), 1, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report) != 1 || report[0].ExpiringPoints != 40 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLedgerCompact(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Ledger()

	mock.ExpectBegin()
	mock.ExpectExec("FROM customers WHERE id=").WithArgs(int64(7)).WillReturnResult(pgxmockv3.NewResult("SELECT", 1))
	mock.ExpectExec("DELETE FROM lots").WithArgs(int64(7)).WillReturnResult(pgxmockv3.NewResult("DELETE", 3))
	mock.ExpectCommit()

	removed, err := repo.Compact(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 lots removed, got %d", removed)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLedgerCustomersForCompaction(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Ledger()

	mock.ExpectQuery("SELECT DISTINCT customer_id FROM lots").
		WithArgs(10).
		WillReturnRows(pgxmockv3.NewRows([]string{"customer_id"}).AddRow(int64(3)).AddRow(int64(7)))

	ids, err := repo.CustomersForCompaction(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[1] != 7 {
		t.Fatalf("unexpected ids: %v", ids)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactionListByCustomer(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Transactions()

	now := time.Now()
	id := uuid.New()
	mock.ExpectQuery("FROM transactions WHERE customer_id=").
		WithArgs(int64(7)).
		WillReturnRows(pgxmockv3.NewRows([]string{
			"id", "customer_id", "merchant_id", "amount", "category", "earned_points",
			"redeemed_points", "redeemed_amount", "final_amount", "final_points", "created_at",
		}).AddRow(id.String(), int64(7), int64(1), "250", "grocery", int64(25), int64(10), "10", "240", int64(25), now))

	items, err := repo.ListByCustomer(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].EarnedPoints != 25 {
		t.Fatalf("unexpected transactions: %+v", items)
	}
	if items[0].ID != id {
		t.Fatalf("unexpected id: %s", items[0].ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactionSummaryByMerchant(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Transactions()

	mock.ExpectQuery("SELECT").
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"count", "issued", "redeemed", "outstanding"}).
			AddRow(int64(4), int64(100), int64(40), int64(60)))

	summary, err := repo.SummaryByMerchant(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.OutstandingPoints != 60 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}

	mock.ExpectPing()
	if err := storage.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

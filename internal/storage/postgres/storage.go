package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/loyaltyhub/rewardmart/internal/domain/errors"
	"github.com/loyaltyhub/rewardmart/internal/domain/model"
	"github.com/loyaltyhub/rewardmart/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage uses. Tests substitute
// a mock pool through the same interface.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type policyRepository struct {
	storage *Storage
}

type customerRepository struct {
	storage *Storage
}

type ledgerRepository struct {
	storage *Storage
}

type transactionRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Policies() repository.PolicyRepository {
	return &policyRepository{storage: s}
}

func (s *Storage) Customers() repository.CustomerRepository {
	return &customerRepository{storage: s}
}

func (s *Storage) Ledger() repository.LedgerRepository {
	return &ledgerRepository{storage: s}
}

func (s *Storage) Transactions() repository.TransactionRepository {
	return &transactionRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS policies (
            merchant_id BIGINT PRIMARY KEY,
            policy_name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            base_unit NUMERIC NOT NULL,
            base_points_per_unit BIGINT NOT NULL,
            category_rules JSONB NOT NULL DEFAULT '[]',
            spend_thresholds JSONB NOT NULL DEFAULT '[]',
            tier_rules JSONB NOT NULL DEFAULT '[]',
            redemption_rate NUMERIC NOT NULL,
            min_redeem_points BIGINT NOT NULL DEFAULT 0,
            points_expiry_days INT NOT NULL,
            spin_min_points BIGINT NOT NULL DEFAULT 0,
            spin_segments JSONB NOT NULL DEFAULT '[]',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS customers (
            id SERIAL PRIMARY KEY,
            merchant_id BIGINT NOT NULL,
            name TEXT NOT NULL,
            email TEXT NOT NULL,
            tier TEXT,
            points_balance BIGINT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (merchant_id, email)
        )`,
		`CREATE TABLE IF NOT EXISTS lots (
            id SERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            amount BIGINT NOT NULL,
            earned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            expires_at TIMESTAMPTZ NOT NULL,
            consumed BOOLEAN NOT NULL DEFAULT FALSE
        )`,
		`CREATE TABLE IF NOT EXISTS transactions (
            id UUID PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            merchant_id BIGINT NOT NULL,
            amount NUMERIC NOT NULL,
            category TEXT NOT NULL DEFAULT '',
            earned_points BIGINT NOT NULL,
            redeemed_points BIGINT NOT NULL,
            redeemed_amount NUMERIC NOT NULL,
            final_amount NUMERIC NOT NULL,
            final_points BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_customers_merchant ON customers(merchant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_lots_customer ON lots(customer_id, earned_at)`,
		`CREATE INDEX IF NOT EXISTS idx_lots_expiry ON lots(expires_at) WHERE NOT consumed`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_customer ON transactions(customer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_merchant ON transactions(merchant_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- PolicyRepository implementation ---

func (r *policyRepository) Upsert(ctx context.Context, policy *model.RewardPolicy) (*model.RewardPolicy, bool, error) {
	categories, err := json.Marshal(policy.CategoryRules)
	if err != nil {
		return nil, false, fmt.Errorf("encode category rules: %w", err)
	}
	thresholds, err := json.Marshal(policy.SpendThresholds)
	if err != nil {
		return nil, false, fmt.Errorf("encode spend thresholds: %w", err)
	}
	tiers, err := json.Marshal(policy.TierRules)
	if err != nil {
		return nil, false, fmt.Errorf("encode tier rules: %w", err)
	}
	segments, err := json.Marshal(policy.SpinSegments)
	if err != nil {
		return nil, false, fmt.Errorf("encode spin segments: %w", err)
	}

	const query = `INSERT INTO policies (
            merchant_id, policy_name, description, base_unit, base_points_per_unit,
            category_rules, spend_thresholds, tier_rules, redemption_rate,
            min_redeem_points, points_expiry_days, spin_min_points, spin_segments
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (merchant_id) DO UPDATE SET
            policy_name = EXCLUDED.policy_name,
            description = EXCLUDED.description,
            base_unit = EXCLUDED.base_unit,
            base_points_per_unit = EXCLUDED.base_points_per_unit,
            category_rules = EXCLUDED.category_rules,
            spend_thresholds = EXCLUDED.spend_thresholds,
            tier_rules = EXCLUDED.tier_rules,
            redemption_rate = EXCLUDED.redemption_rate,
            min_redeem_points = EXCLUDED.min_redeem_points,
            points_expiry_days = EXCLUDED.points_expiry_days,
            spin_min_points = EXCLUDED.spin_min_points,
            spin_segments = EXCLUDED.spin_segments,
            updated_at = NOW()
        RETURNING created_at, updated_at, (created_at = updated_at) AS created`

	stored := *policy
	var created bool
	err = r.storage.pool.QueryRow(ctx, query,
		policy.MerchantID, policy.PolicyName, policy.Description, policy.BaseUnit, policy.BasePointsPerUnit,
		categories, thresholds, tiers, policy.RedemptionRate,
		policy.MinRedeemPoints, policy.PointsExpiryDays, policy.SpinMinPoints, segments,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt, &created)
	if err != nil {
		return nil, false, err
	}
	return &stored, created, nil
}

func (r *policyRepository) GetByMerchant(ctx context.Context, merchantID int64) (*model.RewardPolicy, error) {
	const query = `SELECT merchant_id, policy_name, description, base_unit, base_points_per_unit,
               category_rules, spend_thresholds, tier_rules, redemption_rate,
               min_redeem_points, points_expiry_days, spin_min_points, spin_segments,
               created_at, updated_at
        FROM policies WHERE merchant_id=$1`

	var (
		p          model.RewardPolicy
		categories []byte
		thresholds []byte
		tiers      []byte
		segments   []byte
	)
	err := r.storage.pool.QueryRow(ctx, query, merchantID).Scan(
		&p.MerchantID, &p.PolicyName, &p.Description, &p.BaseUnit, &p.BasePointsPerUnit,
		&categories, &thresholds, &tiers, &p.RedemptionRate,
		&p.MinRedeemPoints, &p.PointsExpiryDays, &p.SpinMinPoints, &segments,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNoPolicy
		}
		return nil, err
	}

	if err := json.Unmarshal(categories, &p.CategoryRules); err != nil {
		return nil, fmt.Errorf("decode category rules: %w", err)
	}
	if err := json.Unmarshal(thresholds, &p.SpendThresholds); err != nil {
		return nil, fmt.Errorf("decode spend thresholds: %w", err)
	}
	if err := json.Unmarshal(tiers, &p.TierRules); err != nil {
		return nil, fmt.Errorf("decode tier rules: %w", err)
	}
	if err := json.Unmarshal(segments, &p.SpinSegments); err != nil {
		return nil, fmt.Errorf("decode spin segments: %w", err)
	}
	return &p, nil
}

func (r *policyRepository) Delete(ctx context.Context, merchantID int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM policies WHERE merchant_id=$1`, merchantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNoPolicy
	}
	return nil
}

// --- CustomerRepository implementation ---

func (r *customerRepository) Create(ctx context.Context, merchantID int64, name, email string) (*model.CustomerAccount, error) {
	const query = `INSERT INTO customers (merchant_id, name, email) VALUES ($1, $2, $3) RETURNING id, created_at`
	var acct model.CustomerAccount
	err := r.storage.pool.QueryRow(ctx, query, merchantID, name, email).Scan(&acct.ID, &acct.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: email already registered", domainErrors.ErrInvalidCustomer)
		}
		return nil, err
	}
	acct.MerchantID = merchantID
	acct.Name = name
	acct.Email = email
	return &acct, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*model.CustomerAccount, error) {
	const query = `SELECT id, merchant_id, name, email, tier, points_balance, created_at FROM customers WHERE id=$1`
	var acct model.CustomerAccount
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&acct.ID, &acct.MerchantID, &acct.Name, &acct.Email, &acct.Tier, &acct.PointsBalance, &acct.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrCustomerNotFound
		}
		return nil, err
	}
	return &acct, nil
}

func (r *customerRepository) ListByMerchant(ctx context.Context, merchantID int64) ([]model.CustomerAccount, error) {
	const query = `SELECT id, merchant_id, name, email, tier, points_balance, created_at
                   FROM customers WHERE merchant_id=$1 ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query, merchantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CustomerAccount
	for rows.Next() {
		var acct model.CustomerAccount
		if err := rows.Scan(&acct.ID, &acct.MerchantID, &acct.Name, &acct.Email, &acct.Tier, &acct.PointsBalance, &acct.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- LedgerRepository implementation ---

func (r *ledgerRepository) LoadAccount(ctx context.Context, customerID int64) (*model.CustomerAccount, error) {
	const query = `SELECT id, merchant_id, name, email, tier, points_balance, created_at FROM customers WHERE id=$1`
	var acct model.CustomerAccount
	err := r.storage.pool.QueryRow(ctx, query, customerID).Scan(
		&acct.ID, &acct.MerchantID, &acct.Name, &acct.Email, &acct.Tier, &acct.PointsBalance, &acct.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrCustomerNotFound
		}
		return nil, err
	}

	acct.Lots, err = scanLots(ctx, r.storage.pool, customerID)
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func scanLots(ctx context.Context, q queryer, customerID int64) ([]model.PointsLot, error) {
	const query = `SELECT id, customer_id, amount, earned_at, expires_at, consumed
                   FROM lots WHERE customer_id=$1 ORDER BY earned_at, id`
	rows, err := q.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []model.PointsLot
	for rows.Next() {
		var lot model.PointsLot
		if err := rows.Scan(&lot.ID, &lot.CustomerID, &lot.Amount, &lot.EarnedAt, &lot.ExpiresAt, &lot.Consumed); err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lots, nil
}

// Mutate locks the customer row, hands the assembled account to fn and
// persists every change it made in the same transaction: new lots are
// inserted, touched lots updated, the cached balance and tier written back
// and the transaction record, if any, appended.
func (r *ledgerRepository) Mutate(ctx context.Context, customerID int64, fn repository.MutateFunc) (*model.Transaction, error) {
	var txn *model.Transaction
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockQuery = `SELECT id, merchant_id, name, email, tier, points_balance, created_at
                           FROM customers WHERE id=$1 FOR UPDATE`
		var acct model.CustomerAccount
		err := tx.QueryRow(ctx, lockQuery, customerID).Scan(
			&acct.ID, &acct.MerchantID, &acct.Name, &acct.Email, &acct.Tier, &acct.PointsBalance, &acct.CreatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrCustomerNotFound
			}
			return err
		}

		acct.Lots, err = scanLots(ctx, tx, customerID)
		if err != nil {
			return err
		}

		before := make([]model.PointsLot, len(acct.Lots))
		copy(before, acct.Lots)

		txn, err = fn(&acct)
		if err != nil {
			return err
		}

		for i, lot := range acct.Lots {
			if lot.ID == 0 {
				const insertLot = `INSERT INTO lots (customer_id, amount, earned_at, expires_at, consumed)
                                   VALUES ($1, $2, $3, $4, $5)`
				if _, err := tx.Exec(ctx, insertLot, customerID, lot.Amount, lot.EarnedAt, lot.ExpiresAt, lot.Consumed); err != nil {
					return err
				}
				continue
			}
			if i < len(before) && before[i].Amount == lot.Amount && before[i].Consumed == lot.Consumed {
				continue
			}
			const updateLot = `UPDATE lots SET amount=$1, consumed=$2 WHERE id=$3`
			if _, err := tx.Exec(ctx, updateLot, lot.Amount, lot.Consumed, lot.ID); err != nil {
				return err
			}
		}

		const updateCustomer = `UPDATE customers SET points_balance=$1, tier=$2 WHERE id=$3`
		if _, err := tx.Exec(ctx, updateCustomer, acct.PointsBalance, acct.Tier, customerID); err != nil {
			return err
		}

		if txn != nil {
			const insertTxn = `INSERT INTO transactions (
                    id, customer_id, merchant_id, amount, category, earned_points,
                    redeemed_points, redeemed_amount, final_amount, final_points, created_at
                ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
			if _, err := tx.Exec(ctx, insertTxn,
				txn.ID, txn.CustomerID, txn.MerchantID, txn.Amount, txn.Category, txn.EarnedPoints,
				txn.RedeemedPoints, txn.RedeemedAmount, txn.FinalAmount, txn.FinalPoints, txn.CreatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *ledgerRepository) ExpiringByMerchant(ctx context.Context, merchantID int64, window time.Duration) ([]model.ExpiringPoints, error) {
	const query = `SELECT c.id, c.name, c.email, COALESCE(SUM(l.amount), 0)
                   FROM customers c
                   JOIN lots l ON l.customer_id = c.id
                   WHERE c.merchant_id = $1
                     AND NOT l.consumed AND l.amount > 0
                     AND l.expires_at > NOW() AND l.expires_at <= NOW() + $2
                   GROUP BY c.id, c.name, c.email
                   ORDER BY c.id`
	rows, err := r.storage.pool.Query(ctx, query, merchantID, window)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ExpiringPoints
	for rows.Next() {
		var e model.ExpiringPoints
		if err := rows.Scan(&e.CustomerID, &e.Name, &e.Email, &e.ExpiringPoints); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *ledgerRepository) CustomersForCompaction(ctx context.Context, limit int) ([]int64, error) {
	const query = `SELECT DISTINCT customer_id FROM lots
                   WHERE consumed OR amount = 0 OR expires_at <= NOW()
                   ORDER BY customer_id
                   LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Compact deletes lots that can no longer contribute to any balance. The
// customer row is locked so a concurrent purchase never sees a lot vanish
// mid-mutation.
func (r *ledgerRepository) Compact(ctx context.Context, customerID int64) (int64, error) {
	var removed int64
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT id FROM customers WHERE id=$1 FOR UPDATE`, customerID); err != nil {
			return err
		}
		const deleteQuery = `DELETE FROM lots
                             WHERE customer_id = $1 AND (consumed OR amount = 0 OR expires_at <= NOW())`
		tag, err := tx.Exec(ctx, deleteQuery, customerID)
		if err != nil {
			return err
		}
		removed = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// --- TransactionRepository implementation ---

func (r *transactionRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Transaction, error) {
	const query = `SELECT id, customer_id, merchant_id, amount, category, earned_points,
                   redeemed_points, redeemed_amount, final_amount, final_points, created_at
                   FROM transactions WHERE customer_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.MerchantID, &t.Amount, &t.Category, &t.EarnedPoints,
			&t.RedeemedPoints, &t.RedeemedAmount, &t.FinalAmount, &t.FinalPoints, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *transactionRepository) SummaryByMerchant(ctx context.Context, merchantID int64) (*model.MerchantSummary, error) {
	const query = `SELECT
            (SELECT COUNT(*) FROM transactions WHERE merchant_id=$1),
            (SELECT COALESCE(SUM(earned_points), 0) FROM transactions WHERE merchant_id=$1),
            (SELECT COALESCE(SUM(redeemed_points), 0) FROM transactions WHERE merchant_id=$1),
            (SELECT COALESCE(SUM(l.amount), 0) FROM lots l
                JOIN customers c ON c.id = l.customer_id
                WHERE c.merchant_id=$1 AND NOT l.consumed AND l.expires_at > NOW())`
	var summary model.MerchantSummary
	err := r.storage.pool.QueryRow(ctx, query, merchantID).Scan(
		&summary.TotalTransactions, &summary.TotalPointsIssued, &summary.TotalPointsRedeemed, &summary.OutstandingPoints,
	)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

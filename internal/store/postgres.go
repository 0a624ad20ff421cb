package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mhollis/finadvisor/internal/domain"
	"github.com/mhollis/finadvisor/internal/store/migrations"
)

// PostgresStore implements Store on PostgreSQL through the pgx stdlib
// driver.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool against the DSN and applies any
// pending schema migrations.
func NewPostgresStore(ctx context.Context, dsn string, maxOpenConns int) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return s, nil
}

// RunMigrations applies the embedded goose migrations.
func (s *PostgresStore) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, ".")
}

func (s *PostgresStore) GetUser(ctx context.Context, userID string) (domain.User, error) {
	query := `SELECT id, full_name, income_tier,
	                 consent_granted, consent_granted_at, consent_revoked_at, consent_updated_at,
	                 created_at, updated_at
	          FROM users WHERE id = $1`

	var (
		u                  domain.User
		grantedAt, revoked sql.NullTime
		consentUpdated     sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&u.ID, &u.FullName, &u.IncomeTier,
		&u.Consent.Granted, &grantedAt, &revoked, &consentUpdated,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("db error: %w", err)
	}
	if grantedAt.Valid {
		t := grantedAt.Time
		u.Consent.GrantedAt = &t
	}
	if revoked.Valid {
		t := revoked.Time
		u.Consent.RevokedAt = &t
	}
	if consentUpdated.Valid {
		u.Consent.UpdatedAt = consentUpdated.Time
	}
	return u, nil
}

func (s *PostgresStore) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) AccountsForUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT id, user_id, name, type, subtype,
	                 current_balance, available_balance, credit_limit
	          FROM accounts WHERE user_id = $1 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Subtype,
			&a.CurrentBalance, &a.AvailableBalance, &a.Limit); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return accounts, nil
}

func (s *PostgresStore) LiabilitiesForUser(ctx context.Context, userID string) ([]domain.Liability, error) {
	query := `SELECT l.account_id, l.apr_pct, l.minimum_payment,
	                 l.last_payment_amount, l.last_payment_date,
	                 l.is_overdue, l.overdue_amount
	          FROM liabilities l
	          JOIN accounts a ON a.id = l.account_id
	          WHERE a.user_id = $1 ORDER BY l.account_id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var liabilities []domain.Liability
	for rows.Next() {
		var (
			l        domain.Liability
			lastPaid sql.NullTime
		)
		if err := rows.Scan(&l.AccountID, &l.APRPct, &l.MinimumPayment,
			&l.LastPaymentAmount, &lastPaid, &l.IsOverdue, &l.OverdueAmount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if lastPaid.Valid {
			t := lastPaid.Time
			l.LastPaymentDate = &t
		}
		liabilities = append(liabilities, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return liabilities, nil
}

// SetConsent transitions the user's consent state. Granting sets granted_at,
// revoking sets revoked_at, and consent_updated_at only ever moves forward;
// re-applying the current state refreshes the timestamp without touching the
// transition columns.
func (s *PostgresStore) SetConsent(ctx context.Context, userID string, granted bool, at time.Time) error {
	query := `UPDATE users SET
	            consent_granted = $2,
	            consent_granted_at = CASE WHEN $2 AND NOT consent_granted THEN $3 ELSE consent_granted_at END,
	            consent_revoked_at = CASE WHEN NOT $2 AND consent_granted THEN $3 ELSE consent_revoked_at END,
	            consent_updated_at = GREATEST(COALESCE(consent_updated_at, $3), $3),
	            updated_at = now()
	          WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, userID, granted, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/mhollis/finadvisor/internal/domain"
)

// NewNeo4jStore establishes a Bolt connection using the official Neo4j
// driver. Neptune's openCypher endpoint is wire-compatible with the Bolt
// protocol, so the same driver serves local Neo4j and AWS Neptune.
func NewNeo4jStore(ctx context.Context, opts Options) (Store, error) {
	if opts.URI == "" {
		return nil, ErrMissingURI
	}

	auth := neo4j.NoAuth()
	if opts.Username != "" {
		auth = neo4j.BasicAuth(opts.Username, opts.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(opts.URI, auth, func(c *neo4j.Config) {
		if opts.MaxConnections > 0 {
			c.MaxConnectionPoolSize = opts.MaxConnections
		}
	})
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify analytics connectivity: %w", err)
	}

	return &neo4jStore{
		driver:   driver,
		database: opts.Database,
	}, nil
}

type neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
}

const userTransactionsCypher = `
MATCH (u:User {userId: $userId})-[:OWNS]->(a:Account)-[:POSTED]->(t:Transaction)
WHERE t.date >= $from AND t.date <= $to
RETURN t.transactionId AS transactionId,
       a.accountId AS accountId,
       t.date AS date,
       t.amount AS amount,
       t.merchant AS merchant,
       t.category AS category
ORDER BY t.date ASC, t.transactionId ASC
`

func (s *neo4jStore) TransactionsForUser(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx, userTransactionsCypher, map[string]any{
		"userId": userID,
		"from":   from,
		"to":     to,
	})
	if err != nil {
		return nil, fmt.Errorf("query transactions for %s: %w", userID, err)
	}

	var txns []domain.Transaction
	for res.Next(ctx) {
		rec := res.Record()
		txn := domain.Transaction{
			ID:        toString(value(rec, "transactionId")),
			AccountID: toString(value(rec, "accountId")),
			Amount:    toFloat64(value(rec, "amount")),
			Merchant:  toString(value(rec, "merchant")),
			Category:  toString(value(rec, "category")),
		}
		if ts := toTimePtr(value(rec, "date")); ts != nil {
			txn.Date = *ts
		}
		txns = append(txns, txn)
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("consume transactions for %s: %w", userID, err)
	}
	return txns, nil
}

func (s *neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func value(rec *neo4j.Record, key string) any {
	v, _ := rec.Get(key)
	return v
}

func toString(val any) string {
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

func toFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func toTimePtr(val any) *time.Time {
	switch v := val.(type) {
	case time.Time:
		return &v
	case string:
		if v == "" {
			return nil
		}
		if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &parsed
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return &parsed
		}
	}
	return nil
}

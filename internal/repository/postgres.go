package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"b2gmatch/internal/logger"
	"b2gmatch/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// listOpenQuery selects opportunities whose deadline has not passed.
// The set-aside program lives in the raw SAM.gov payload.
const listOpenQuery = `
	SELECT
		id, title, agency, naics, city, state, required_capabilities,
		raw_json->>'setAside' AS set_aside_info,
		complexity_score, estimated_value, deadline
	FROM opportunities
	WHERE deadline >= $1
	ORDER BY deadline ASC
	LIMIT $2
`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int, log *zap.Logger) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return newPostgresRepository(db, maxConn, maxIdleConn, log)
}

// NewPostgresRepositoryFromDB wraps an existing connection pool
func NewPostgresRepositoryFromDB(db *sqlx.DB, log *zap.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, logger: logger.OrNop(log)}
}

func newPostgresRepository(db *sqlx.DB, maxConn, maxIdleConn int, log *zap.Logger) (*PostgresRepository, error) {
	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgresRepositoryFromDB(db, log), nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks that the database is reachable
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListOpen returns up to limit opportunities with deadline >= now,
// soonest deadline first. Rows that fail to scan are logged and skipped.
func (r *PostgresRepository) ListOpen(ctx context.Context, now time.Time, limit int) ([]model.Opportunity, error) {
	rows, err := r.db.QueryxContext(ctx, listOpenQuery, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch opportunities: %w", err)
	}
	defer rows.Close()

	opportunities := []model.Opportunity{}
	for row := 0; rows.Next(); row++ {
		var opp model.Opportunity
		if err := rows.StructScan(&opp); err != nil {
			r.logger.Warn("skipping malformed opportunity",
				zap.Int("row", row),
				zap.Error(err),
			)
			continue
		}
		opportunities = append(opportunities, opp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read opportunities: %w", err)
	}

	return opportunities, nil
}

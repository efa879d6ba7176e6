package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/hltran/product-scout/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// SaveEvaluation inserts an evaluation, assigning an ID and timestamp
// when unset.
func (s *PostgresStore) SaveEvaluation(ctx context.Context, e *domain.Evaluation) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	scored, err := json.Marshal(e.ScoredProducts)
	if err != nil {
		return fmt.Errorf("marshaling scored products: %w", err)
	}

	var ranking []byte
	if e.Ranking != nil {
		if ranking, err = json.Marshal(e.Ranking); err != nil {
			return fmt.Errorf("marshaling ranking: %w", err)
		}
	}

	args := pgx.NamedArgs{
		"id":              e.ID,
		"session_id":      e.SessionID,
		"user_id":         e.UserID,
		"total_products":  e.TotalProducts,
		"qualified":       e.Qualified,
		"criteria":        nullableJSON(e.Criteria),
		"scored_products": scored,
		"ranking":         ranking,
		"created_at":      e.CreatedAt,
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO evaluations (
			id, session_id, user_id, total_products, qualified,
			criteria, scored_products, ranking, created_at
		) VALUES (
			@id, @session_id, @user_id, @total_products, @qualified,
			@criteria, @scored_products, @ranking, @created_at
		)
	`, args)
	if err != nil {
		return fmt.Errorf("inserting evaluation: %w", err)
	}

	return nil
}

// GetEvaluation returns a single evaluation by ID.
func (s *PostgresStore) GetEvaluation(ctx context.Context, id string) (*domain.Evaluation, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, session_id, user_id, total_products, qualified,
		       criteria, scored_products, ranking, created_at
		FROM evaluations
		WHERE id = $1
	`, id)

	e, err := scanEvaluation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting evaluation %s: %w", id, err)
	}

	return e, nil
}

// ListEvaluations returns evaluations newest first with optional filters,
// plus the total matching count.
func (s *PostgresStore) ListEvaluations(
	ctx context.Context,
	opts *EvaluationQuery,
) ([]domain.Evaluation, int, error) {
	if opts == nil {
		opts = &EvaluationQuery{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	where := "TRUE"
	args := pgx.NamedArgs{
		"limit":  limit,
		"offset": opts.Offset,
	}
	if opts.SessionID != nil {
		where += " AND session_id = @session_id"
		args["session_id"] = *opts.SessionID
	}
	if opts.UserID != nil {
		where += " AND user_id = @user_id"
		args["user_id"] = *opts.UserID
	}

	var total int
	if err := s.pool.QueryRow(ctx,
		"SELECT count(*) FROM evaluations WHERE "+where, args,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting evaluations: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, user_id, total_products, qualified,
		       criteria, scored_products, ranking, created_at
		FROM evaluations
		WHERE `+where+`
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset
	`, args)
	if err != nil {
		return nil, 0, fmt.Errorf("listing evaluations: %w", err)
	}
	defer rows.Close()

	var evals []domain.Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning evaluation: %w", err)
		}
		evals = append(evals, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating evaluations: %w", err)
	}

	return evals, total, nil
}

// DeleteEvaluationsBefore removes evaluations created before the cutoff
// and returns the number deleted.
func (s *PostgresStore) DeleteEvaluationsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM evaluations WHERE created_at < $1", cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting evaluations: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanEvaluation(row pgx.Row) (*domain.Evaluation, error) {
	var (
		e        domain.Evaluation
		criteria []byte
		scored   []byte
		ranking  []byte
	)

	if err := row.Scan(
		&e.ID, &e.SessionID, &e.UserID, &e.TotalProducts, &e.Qualified,
		&criteria, &scored, &ranking, &e.CreatedAt,
	); err != nil {
		return nil, err
	}

	e.Criteria = criteria

	if len(scored) > 0 {
		if err := json.Unmarshal(scored, &e.ScoredProducts); err != nil {
			return nil, fmt.Errorf("unmarshaling scored products: %w", err)
		}
	}
	if len(ranking) > 0 {
		e.Ranking = &domain.Ranking{}
		if err := json.Unmarshal(ranking, e.Ranking); err != nil {
			return nil, fmt.Errorf("unmarshaling ranking: %w", err)
		}
	}

	return &e, nil
}

func nullableJSON(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

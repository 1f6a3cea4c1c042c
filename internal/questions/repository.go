package questions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles question data operations
type Repository struct {
	db *pgxpool.Pool
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new question repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new dialogue entry
func (r *Repository) Create(ctx context.Context, q *Question) error {
	query := `
		INSERT INTO questions (id, claim_id, user_message, ai_response, is_fraud_indicative)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		q.ID,
		q.ClaimID,
		q.UserMessage,
		q.AIResponse,
		q.IsFraudIndicative,
	).Scan(&q.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	return nil
}

// RecentByClaim retrieves the last limit exchanges for a claim in
// chronological order
func (r *Repository) RecentByClaim(ctx context.Context, claimID uuid.UUID, limit int) ([]Question, error) {
	query := `
		SELECT id, claim_id, user_message, ai_response, is_fraud_indicative, created_at
		FROM (
			SELECT id, claim_id, user_message, ai_response, is_fraud_indicative, created_at
			FROM questions
			WHERE claim_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, claimID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Question{}
	for rows.Next() {
		var q Question
		err := rows.Scan(&q.ID, &q.ClaimID, &q.UserMessage, &q.AIResponse, &q.IsFraudIndicative, &q.CreatedAt)
		if err != nil {
			return nil, err
		}
		list = append(list, q)
	}

	return list, rows.Err()
}

// CountByClaim counts dialogue entries for a claim
func (r *Repository) CountByClaim(ctx context.Context, claimID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM questions WHERE claim_id = $1`, claimID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

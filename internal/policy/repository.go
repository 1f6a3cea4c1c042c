package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no policy matches
var ErrNotFound = errors.New("policy not found")

// Repository handles policy data operations
type Repository struct {
	db *pgxpool.Pool
}

// Ensure the concrete repository satisfies the service's requirements.
var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new policy repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetByNumber retrieves a policy by its policy number
func (r *Repository) GetByNumber(ctx context.Context, policyNumber string) (*Policy, error) {
	query := `
		SELECT id, policy_number, policy_holder_name, policy_type, expiry_date, status, created_at
		FROM policies
		WHERE policy_number = $1
	`

	var p Policy
	err := r.db.QueryRow(ctx, query, policyNumber).Scan(
		&p.ID,
		&p.PolicyNumber,
		&p.PolicyHolderName,
		&p.PolicyType,
		&p.ExpiryDate,
		&p.Status,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &p, nil
}

// Create inserts a new policy
func (r *Repository) Create(ctx context.Context, p *Policy) error {
	query := `
		INSERT INTO policies (id, policy_number, policy_holder_name, policy_type, expiry_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.PolicyNumber,
		p.PolicyHolderName,
		p.PolicyType,
		p.ExpiryDate,
		p.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create policy: %w", err)
	}

	return nil
}

// Count returns the number of policies
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM policies`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

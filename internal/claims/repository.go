package claims

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no claim matches
var ErrNotFound = errors.New("claim not found")

// Repository handles claim data operations
type Repository struct {
	db *pgxpool.Pool
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new claim repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const claimColumns = `id, policy_number, claim_type, incident_date, description, status, fraud_score, fraud_risk_level, created_at, updated_at`

func scanClaim(row pgx.Row) (*Claim, error) {
	var c Claim
	err := row.Scan(
		&c.ID,
		&c.PolicyNumber,
		&c.ClaimType,
		&c.IncidentDate,
		&c.Description,
		&c.Status,
		&c.FraudScore,
		&c.FraudRiskLevel,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new claim
func (r *Repository) Create(ctx context.Context, claim *Claim) error {
	query := `
		INSERT INTO claims (id, policy_number, claim_type, incident_date, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	if claim.ID == uuid.Nil {
		claim.ID = uuid.New()
	}
	if claim.Status == "" {
		claim.Status = StatusPending
	}

	err := r.db.QueryRow(ctx, query,
		claim.ID,
		claim.PolicyNumber,
		claim.ClaimType,
		claim.IncidentDate,
		claim.Description,
		claim.Status,
	).Scan(&claim.CreatedAt, &claim.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create claim: %w", err)
	}

	return nil
}

// GetByID retrieves a claim by its ID
func (r *Repository) GetByID(ctx context.Context, claimID uuid.UUID) (*Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`

	claim, err := scanClaim(r.db.QueryRow(ctx, query, claimID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return claim, nil
}

// List retrieves claims matching the filter, most recent first
func (r *Repository) List(ctx context.Context, filter ListClaimsFilter) ([]Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.PolicyNumber != "" {
		query += fmt.Sprintf(" AND policy_number = $%d", argNum)
		args = append(args, filter.PolicyNumber)
		argNum++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filter.Status)
		argNum++
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claims := []Claim{}
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, *claim)
	}

	return claims, rows.Err()
}

// UpdateStatus changes a claim's status
func (r *Repository) UpdateStatus(ctx context.Context, claimID uuid.UUID, status ClaimStatus) error {
	query := `UPDATE claims SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, status, claimID)
	if err != nil {
		return fmt.Errorf("failed to update claim status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateFraudScore persists the latest fraud analysis onto the claim
func (r *Repository) UpdateFraudScore(ctx context.Context, claimID uuid.UUID, fraudScore float64, riskLevel string) error {
	query := `UPDATE claims SET fraud_score = $1, fraud_risk_level = $2, updated_at = NOW() WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, fraudScore, riskLevel, claimID)
	if err != nil {
		return fmt.Errorf("failed to update fraud score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

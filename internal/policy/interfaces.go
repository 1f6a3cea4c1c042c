package policy

import (
	"context"
	"time"
)

// RepositoryInterface defines the policy data operations used by the service
type RepositoryInterface interface {
	GetByNumber(ctx context.Context, policyNumber string) (*Policy, error)
	Create(ctx context.Context, p *Policy) error
	Count(ctx context.Context) (int, error)
}

// Cache is the subset of the Redis client used for verification caching
type Cache interface {
	GetString(ctx context.Context, key string) (string, error)
	SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

package dao

import (
	"context"
)

// Service is a generic keyed storage contract.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}

// Taker is implemented by stores that can remove and return an entity in one
// atomic step. Exactly one of several concurrent Take calls for the same key
// observes the entity.
type Taker[K comparable, T any] interface {
	Take(ctx context.Context, id K) (*T, error)
}

package domain

import "context"

// EmployeeGateway defines the interface for talking to the upstream mock
// employee API.
type EmployeeGateway interface {
	FetchAll(ctx context.Context) (Envelope[[]Employee], error)
	FetchByID(ctx context.Context, id string) (Envelope[Employee], error)
	Create(ctx context.Context, req CreateEmployeeRequest) (Envelope[Employee], error)
	DeleteByName(ctx context.Context, name string) (Envelope[bool], error)
}

// Store is the key-value cache injected into the service layer. Get returns
// ErrCacheMiss when the key is absent. Implementations must be safe for
// concurrent use; entries never expire.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

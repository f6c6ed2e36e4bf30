package api

import "context"

// Pending is a result that is not available yet.
type Pending interface {
	Await(ctx context.Context) (any, error)
}

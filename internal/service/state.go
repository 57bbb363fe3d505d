package service

import "context"

// StateStore abstracts the durable registry state (custom years,
// archived years, activity feed) so the backing persistence can change
// without touching classification or activity logic.
type StateStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
}

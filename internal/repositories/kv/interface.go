package kv

import "context"

// Repository is a string key/value store. Set overwrites; Delete of a
// missing key is not an error.
type Repository interface {
	// Get returns ok == false, with a nil error, when key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}

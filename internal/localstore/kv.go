package localstore

import "context"

// KV is the whole-value persistence interface behind the record store and the
// cart/wishlist snapshots. Implementations store the full serialized
// collection under one key; callers always read-modify-write the whole value,
// never a partial patch, so backends stay free of lost-update concerns.
//
// Get returns (nil, nil) for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}

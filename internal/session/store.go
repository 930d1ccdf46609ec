package session

import (
	"context"
	"errors"
)

// The durable store holds exactly two string entries under fixed keys: the
// opaque bearer token and the JSON-serialised identity record.
const (
	KeyToken    = "auth_token"
	KeyIdentity = "identity"
)

// ErrKeyNotFound is returned by KV implementations when an entry is absent.
var ErrKeyNotFound = errors.New("session: key not found")

// KV abstracts the durable key-value storage a session survives restarts in.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
